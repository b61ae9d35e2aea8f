package signer

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/commitment"
	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
	"github.com/citp/ThresholdECDSA/zkp"
)

// PlainSigner runs the six-round plain-threshold-Paillier ECDSA signing
// protocol (grounded on the ACNS PlayerSigner): every ciphertext it
// exchanges is an ordinary Paillier encryption, and a per-round blinding
// nonce takes the place of a full multiplicative-to-additive share
// conversion.
type PlainSigner struct {
	params *zkp.RangeRelationParams
	mpk    *commitment.MasterPublicKey
	pub    *paillier.ThresholdPublicKey
	share  *paillier.ThresholdPrivateShare

	encryptedDSAKey *big.Int
	message         []byte
	randSource      io.Reader
	log             *logrus.Entry

	rhoI, randomness1 *big.Int
	uI, vI            *big.Int
	u, v              *big.Int

	kI, cI, randomness2 *big.Int
	rI                  *Point
	wI, w               *big.Int
	r                   *big.Int

	openUV *commitment.Open
	openRW *commitment.Open

	round1Messages []*PlainRound1Message
	round3Messages []*PlainRound3Message

	wShare     *paillier.PartialDecryption
	sigmaShare *paillier.PartialDecryption

	aborted bool
}

// NewPlainSigner builds a PlainSigner for one party. encryptedDSAKey is the
// party's Paillier ciphertext of the ECDSA key share under the shared
// threshold public key pub; message is the digest being signed.
func NewPlainSigner(
	params *zkp.RangeRelationParams,
	mpk *commitment.MasterPublicKey,
	share *paillier.ThresholdPrivateShare,
	encryptedDSAKey *big.Int,
	message []byte,
	randSource io.Reader,
) *PlainSigner {
	if randSource == nil {
		randSource = rand.Reader
	}
	return &PlainSigner{
		params:          params,
		mpk:             mpk,
		pub:             share.ThresholdPublicKey,
		share:           share,
		encryptedDSAKey: encryptedDSAKey,
		message:         message,
		randSource:      randSource,
		log:             logrus.WithField("component", "plain_signer").WithField("partyID", share.ID),
	}
}

// Round1 samples the party's blinding nonce rho_i, encrypts it, multiplies
// it against the encrypted ECDSA key share, and commits to both values.
func (s *PlainSigner) Round1() (*PlainRound1Message, error) {
	q := s.params.Q
	rhoI, err := arith.RandomModN(q, s.randSource)
	if err != nil {
		return nil, err
	}
	randomness1, err := arith.RandomModNStar(s.pub.N, s.randSource)
	if err != nil {
		return nil, err
	}
	uI, err := paillier.Encrypt(s.pub.PublicKey, rhoI, randomness1)
	if err != nil {
		return nil, err
	}
	vI, err := paillier.Multiply(s.pub.PublicKey, s.encryptedDSAKey, rhoI)
	if err != nil {
		return nil, err
	}

	c, open, err := commitment.MultilinearCommit(s.mpk, s.randSource, uI, vI)
	if err != nil {
		return nil, err
	}

	s.rhoI, s.randomness1, s.uI, s.vI = rhoI, randomness1, uI, vI
	s.openUV = open
	s.log.Debug("round1: committed to blinding nonce ciphertext")
	return &PlainRound1Message{Commitment: c}, nil
}

// Round2 opens round 1's commitment and proves that u_i really does
// encrypt rho_i and that v_i really is the encrypted ECDSA key raised to
// rho_i, both under the same secret.
func (s *PlainSigner) Round2(round1Messages ...*PlainRound1Message) (*PlainRound2Message, error) {
	if s.aborted {
		return &PlainRound2Message{Aborted: true}, nil
	}
	s.round1Messages = round1Messages

	proof, err := zkp.ProveExponentConsistency(
		s.pub.PublicKey, s.params, s.rhoI, s.randomness1, s.vI, s.encryptedDSAKey, s.uI, s.randSource,
	)
	if err != nil {
		return nil, err
	}
	return &PlainRound2Message{Open: s.openUV, Zkp: proof}, nil
}

// Round3 verifies every peer's round 1/2 commitment and proof, aggregates
// the blinding-nonce ciphertexts into u and v, then samples the party's
// signature nonce k_i and blinding mask c_i and commits to the aggregated
// masked product.
func (s *PlainSigner) Round3(round2Messages ...*PlainRound2Message) (*PlainRound3Message, error) {
	if s.aborted {
		return &PlainRound3Message{Aborted: true}, nil
	}
	if len(round2Messages) != len(s.round1Messages) {
		return nil, fmt.Errorf("signer: round3 got %d messages, expected %d matching round1 senders: %w",
			len(round2Messages), len(s.round1Messages), therrors.ErrDomainViolation)
	}
	for i, msg := range round2Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round3: peer reported abort")
			s.aborted = true
			continue
		}
		if err := commitment.MultilinearVerify(s.mpk, s.round1Messages[i].Commitment, msg.Open); err != nil {
			s.log.WithError(err).Warn("round3: peer commitment failed to open")
			s.aborted = true
		}
	}
	for _, msg := range round2Messages {
		if msg == nil || msg.Aborted {
			continue
		}
		uSecret, vSecret := msg.Open.Secrets[0], msg.Open.Secrets[1]
		if err := msg.Zkp.Verify(s.pub.PublicKey, s.params, vSecret, s.encryptedDSAKey, uSecret); err != nil {
			s.log.WithError(err).Warn("round3: peer exponent-consistency proof rejected")
			s.aborted = true
		}
	}
	if s.aborted {
		return &PlainRound3Message{Aborted: true}, nil
	}

	u := new(big.Int).Set(s.uI)
	v := new(big.Int).Set(s.vI)
	for _, msg := range round2Messages {
		var err error
		u, err = paillier.Add(s.pub.PublicKey, u, msg.Open.Secrets[0])
		if err != nil {
			return nil, err
		}
		v, err = paillier.Add(s.pub.PublicKey, v, msg.Open.Secrets[1])
		if err != nil {
			return nil, err
		}
	}
	s.u, s.v = u, v

	q := s.params.Q
	kI, err := arith.RandomModN(q, s.randSource)
	if err != nil {
		return nil, err
	}
	q6 := new(big.Int).Exp(q, big.NewInt(6), nil)
	cI, err := arith.RandomModN(q6, s.randSource)
	if err != nil {
		return nil, err
	}
	randomness2, err := arith.RandomModNStar(s.pub.N, s.randSource)
	if err != nil {
		return nil, err
	}

	mask, err := paillier.Encrypt(s.pub.PublicKey, new(big.Int).Mul(q, cI), randomness2)
	if err != nil {
		return nil, err
	}
	uk, err := paillier.Multiply(s.pub.PublicKey, u, kI)
	if err != nil {
		return nil, err
	}
	wI, err := paillier.Add(s.pub.PublicKey, uk, mask)
	if err != nil {
		return nil, err
	}

	rI := ScalarBaseMult(kI)
	c, open, err := commitment.MultilinearCommit(s.mpk, s.randSource, new(big.Int).SetBytes(rI.Bytes()), wI)
	if err != nil {
		return nil, err
	}

	s.kI, s.cI, s.randomness2 = kI, cI, randomness2
	s.rI, s.wI = rI, wI
	s.openRW = open

	s.log.Debug("round3: aggregated blinding ciphertexts, committed to nonce share")
	return &PlainRound3Message{Commitment: c}, nil
}

// Round4 opens round 3's commitment and proves that r_i really is g^k_i and
// that w_i really is u^k_i times an encryption of q*c_i, both under the
// same k_i.
func (s *PlainSigner) Round4(round3Messages ...*PlainRound3Message) (*PlainRound4Message, error) {
	if s.aborted {
		return &PlainRound4Message{Aborted: true}, nil
	}
	for _, msg := range round3Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round4: peer reported abort")
			s.aborted = true
		}
	}
	if s.aborted {
		return &PlainRound4Message{Aborted: true}, nil
	}
	s.round3Messages = round3Messages

	proof, err := zkp.ProveNonceConsistency(
		s.pub.PublicKey, s.params, s.kI, s.cI, s.randomness2, s.u, s.wI, Generator(), s.rI, s.randSource,
	)
	if err != nil {
		return nil, err
	}
	return &PlainRound4Message{Open: s.openRW, Zkp: proof}, nil
}

// Round5 verifies every peer's round 3/4 commitment and proof, aggregates
// the nonce-share points into R and the masked products into w, derives the
// signature's r component, and partially decrypts w.
func (s *PlainSigner) Round5(round4Messages ...*PlainRound4Message) (*PlainRound5Message, error) {
	if s.aborted {
		return &PlainRound5Message{Aborted: true}, nil
	}
	if len(round4Messages) != len(s.round3Messages) {
		return nil, fmt.Errorf("signer: round5 got %d messages, expected %d matching round3 senders: %w",
			len(round4Messages), len(s.round3Messages), therrors.ErrDomainViolation)
	}
	for i, msg := range round4Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round5: peer reported abort")
			s.aborted = true
			continue
		}
		if err := commitment.MultilinearVerify(s.mpk, s.round3Messages[i].Commitment, msg.Open); err != nil {
			s.log.WithError(err).Warn("round5: peer commitment failed to open")
			s.aborted = true
		}
	}

	R := s.rI
	w := new(big.Int).Set(s.wI)
	for _, msg := range round4Messages {
		if msg == nil || msg.Aborted {
			continue
		}
		peerPoint, err := PointFromBigInt(msg.Open.Secrets[0])
		if err != nil {
			s.log.WithError(err).Warn("round5: peer nonce-share point failed to decode")
			s.aborted = true
			continue
		}
		peerW := msg.Open.Secrets[1]
		if err := msg.Zkp.Verify(s.pub.PublicKey, s.params, s.u, peerW, Generator(), peerPoint); err != nil {
			s.log.WithError(err).Warn("round5: peer nonce-consistency proof rejected")
			s.aborted = true
			continue
		}
		R = R.Add(peerPoint).(*Point)
		var addErr error
		w, addErr = paillier.Add(s.pub.PublicKey, w, peerW)
		if addErr != nil {
			return nil, addErr
		}
	}
	if s.aborted {
		return &PlainRound5Message{Aborted: true}, nil
	}

	s.w = w
	s.r = new(big.Int).Mod(R.X(), s.params.Q)

	wShare, err := paillier.PartialDecrypt(s.share, w)
	if err != nil {
		return nil, err
	}
	s.wShare = wShare

	s.log.Debug("round5: aggregated nonce shares, partially decrypted masked product")
	return &PlainRound5Message{Share: wShare}, nil
}

// Round6 combines every party's partial decryption of w into the blinding
// factor mu, uses it to unblind the (m'+xr) term into an encrypted
// signature share sigma, and partially decrypts sigma.
func (s *PlainSigner) Round6(round5Messages ...*PlainRound5Message) (*PlainRound6Message, error) {
	if s.aborted {
		return &PlainRound6Message{Aborted: true}, nil
	}
	shares := make([]*paillier.PartialDecryption, 0, len(round5Messages)+1)
	shares = append(shares, s.wShare)
	for _, msg := range round5Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round6: peer reported abort")
			s.aborted = true
			continue
		}
		shares = append(shares, msg.Share)
	}
	if s.aborted {
		return &PlainRound6Message{Aborted: true}, nil
	}
	mu, err := paillier.CombineShares(s.pub, shares...)
	if err != nil {
		return nil, err
	}

	q := s.params.Q
	mPrime := calculateMPrime(q, s.message)

	um, err := paillier.Multiply(s.pub.PublicKey, s.u, mPrime)
	if err != nil {
		return nil, err
	}
	vr, err := paillier.Multiply(s.pub.PublicKey, s.v, s.r)
	if err != nil {
		return nil, err
	}
	sum, err := paillier.Add(s.pub.PublicKey, um, vr)
	if err != nil {
		return nil, err
	}
	muInv := new(big.Int).ModInverse(mu, q)
	if muInv == nil {
		return nil, fmt.Errorf("signer: blinding factor not invertible mod q: %w", therrors.ErrDomainViolation)
	}
	sigma, err := paillier.Multiply(s.pub.PublicKey, sum, muInv)
	if err != nil {
		return nil, err
	}

	sigmaShare, err := paillier.PartialDecrypt(s.share, sigma)
	if err != nil {
		return nil, err
	}
	s.sigmaShare = sigmaShare

	s.log.Debug("round6: unblinded signature ciphertext, partially decrypted")
	return &PlainRound6Message{Share: sigmaShare}, nil
}

// OutputSignature combines every party's partial decryption of the
// signature ciphertext into the final s component. It returns nil, nil if
// this party or any peer aborted during the protocol.
func (s *PlainSigner) OutputSignature(round6Messages ...*PlainRound6Message) (*DSASignature, error) {
	if s.aborted {
		s.log.Warn("outputSignature: protocol aborted, withholding signature")
		return nil, nil
	}
	shares := make([]*paillier.PartialDecryption, 0, len(round6Messages)+1)
	shares = append(shares, s.sigmaShare)
	for _, msg := range round6Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("outputSignature: peer reported abort, withholding signature")
			return nil, nil
		}
		shares = append(shares, msg.Share)
	}
	sRaw, err := paillier.CombineShares(s.pub, shares...)
	if err != nil {
		return nil, err
	}
	sig := new(big.Int).Mod(sRaw, s.params.Q)
	return &DSASignature{R: s.r, S: sig}, nil
}
