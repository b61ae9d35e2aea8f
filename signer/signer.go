package signer

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/commitment"
	"github.com/citp/ThresholdECDSA/l2fhe"
	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
	"github.com/citp/ThresholdECDSA/zkp"
)

// L2FHESigner runs the four-round L2FHE-based threshold-ECDSA signing
// protocol (C8), grounded on the l2fheBased PlayerSigner: every value
// exchanged is an L1Ciphertext or an L2Ciphertext, letting the protocol
// fold the multiplicative-to-additive share conversion into a single
// homomorphic Mult instead of the six-round plain variant's blinding-nonce
// trick.
type L2FHESigner struct {
	params *zkp.RangeRelationParams
	mpk    *commitment.MasterPublicKey
	pub    *paillier.ThresholdPublicKey
	share  *paillier.ThresholdPrivateShare

	encryptedDSAKey l2fhe.L1Ciphertext
	message         []byte
	randSource      io.Reader
	log             *logrus.Entry

	rhoI, kI, cI              *big.Int
	randomness1, randomness2  *big.Int
	randomness3               *big.Int
	myUI, myVI, myWI          l2fhe.L1Ciphertext
	myRI                      *Point
	u, v                      l2fhe.L1Ciphertext
	r                         *big.Int
	open                      *commitment.Open
	round1Messages            []*L2FHERound1Message
	etaShare, sigmaShare      *l2fhe.L2PartialDecryption
	aborted                   bool
}

// NewL2FHESigner builds an L2FHESigner for one party. encryptedDSAKey is the
// party's L1Ciphertext of the ECDSA key share under the shared threshold
// public key pub; message is the digest being signed.
func NewL2FHESigner(
	params *zkp.RangeRelationParams,
	mpk *commitment.MasterPublicKey,
	share *paillier.ThresholdPrivateShare,
	encryptedDSAKey l2fhe.L1Ciphertext,
	message []byte,
	randSource io.Reader,
) *L2FHESigner {
	if randSource == nil {
		randSource = rand.Reader
	}
	return &L2FHESigner{
		params:          params,
		mpk:             mpk,
		pub:             share.ThresholdPublicKey,
		share:           share,
		encryptedDSAKey: encryptedDSAKey,
		message:         message,
		randSource:      randSource,
		log:             logrus.WithField("component", "l2fhe_signer").WithField("partyID", share.ID),
	}
}

// Round1 samples the party's nonce k_i, blinding nonce rho_i, and mask c_i,
// encrypts all three at level 1, and commits to the nonce-share point
// alongside the three ciphertexts' fields.
func (s *L2FHESigner) Round1() (*L2FHERound1Message, error) {
	q := s.params.Q
	rhoI, err := arith.RandomModN(q, s.randSource)
	if err != nil {
		return nil, err
	}
	kI, err := arith.RandomModN(q, s.randSource)
	if err != nil {
		return nil, err
	}
	q6 := new(big.Int).Exp(q, big.NewInt(6), nil)
	cI, err := arith.RandomModN(q6, s.randSource)
	if err != nil {
		return nil, err
	}
	myRI := ScalarBaseMult(kI)

	myUI, randomness1, _, err := l2fhe.Encrypt1Random(s.pub.PublicKey, rhoI, s.randSource)
	if err != nil {
		return nil, err
	}
	myVI, randomness2, _, err := l2fhe.Encrypt1Random(s.pub.PublicKey, kI, s.randSource)
	if err != nil {
		return nil, err
	}
	myWI, randomness3, _, err := l2fhe.Encrypt1Random(s.pub.PublicKey, cI, s.randSource)
	if err != nil {
		return nil, err
	}

	c, open, err := commitment.MultilinearCommit(s.mpk, s.randSource,
		new(big.Int).SetBytes(myRI.Bytes()),
		myUI.A, myUI.Beta,
		myVI.A, myVI.Beta,
		myWI.A, myWI.Beta,
	)
	if err != nil {
		return nil, err
	}

	s.rhoI, s.kI, s.cI = rhoI, kI, cI
	s.randomness1, s.randomness2, s.randomness3 = randomness1, randomness2, randomness3
	s.myUI, s.myVI, s.myWI = myUI, myVI, myWI
	s.myRI = myRI
	s.open = open

	s.log.Debug("round1: committed to nonce share and masked ciphertexts")
	return &L2FHERound1Message{Commitment: c}, nil
}

// Round2 opens round 1's commitment and attaches the composite range
// relation proof binding r_i = g^{k_i}, and each of u_i, v_i, w_i to their
// matching rho_i, k_i, c_i.
func (s *L2FHESigner) Round2(round1Messages ...*L2FHERound1Message) (*L2FHERound2Message, error) {
	s.round1Messages = round1Messages

	vIPaillier := s.myVI.ToPaillierCiphertext(s.pub.PublicKey)
	uIPaillier := s.myUI.ToPaillierCiphertext(s.pub.PublicKey)
	wIPaillier := s.myWI.ToPaillierCiphertext(s.pub.PublicKey)

	proof, err := zkp.ProveRangeRelation(
		s.pub.PublicKey, s.params,
		s.kI, s.rhoI, s.cI,
		Generator(), s.myRI,
		s.myVI, s.myUI, s.myWI,
		vIPaillier, uIPaillier, wIPaillier,
		s.randomness2, s.randomness1, s.randomness3,
		s.randSource,
	)
	if err != nil {
		return nil, err
	}
	return &L2FHERound2Message{Open: s.open, Zkp: proof}, nil
}

// Round3 verifies every peer's round 1/2 commitment and proof, aggregates
// the nonce-share points into R and the three ciphertexts into u, v, w,
// derives the signature's r component, and partially decrypts the
// aggregated multiplicative term z = cMult(w, q) + Mult(u, v). A party that
// is already aborted, or that discovers a peer has aborted, skips this
// computation and reports its own abort onward instead.
func (s *L2FHESigner) Round3(round2Messages ...*L2FHERound2Message) (*L2FHERound3Message, error) {
	if s.aborted {
		return &L2FHERound3Message{Aborted: true}, nil
	}
	if len(round2Messages) != len(s.round1Messages) {
		return nil, fmt.Errorf("signer: round3 got %d messages, expected %d matching round1 senders: %w",
			len(round2Messages), len(s.round1Messages), therrors.ErrDomainViolation)
	}
	R := s.myRI
	u, v, w := s.myUI, s.myVI, s.myWI

	for i, msg := range round2Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round3: peer reported abort")
			s.aborted = true
			continue
		}
		secrets := msg.Open.Secrets
		if len(secrets) != 7 {
			s.log.Warn("round3: peer opening carried the wrong number of secrets")
			s.aborted = true
			continue
		}
		rI, err := PointFromBigInt(secrets[0])
		if err != nil {
			s.log.WithError(err).Warn("round3: peer nonce-share point failed to decode")
			s.aborted = true
			continue
		}
		uI := l2fhe.L1Ciphertext{A: secrets[1], Beta: secrets[2]}
		vI := l2fhe.L1Ciphertext{A: secrets[3], Beta: secrets[4]}
		wI := l2fhe.L1Ciphertext{A: secrets[5], Beta: secrets[6]}

		if err := commitment.MultilinearVerify(s.mpk, s.round1Messages[i].Commitment, msg.Open); err != nil {
			s.log.WithError(err).Warn("round3: peer commitment failed to open")
			s.aborted = true
		}

		vIPaillier := vI.ToPaillierCiphertext(s.pub.PublicKey)
		uIPaillier := uI.ToPaillierCiphertext(s.pub.PublicKey)
		wIPaillier := wI.ToPaillierCiphertext(s.pub.PublicKey)
		if err := msg.Zkp.Verify(s.pub.PublicKey, s.params, Generator(), rI, vI, uI, wI, vIPaillier, uIPaillier, wIPaillier); err != nil {
			s.log.WithError(err).Warn("round3: peer range-relation proof rejected")
			s.aborted = true
		}

		R = R.Add(rI).(*Point)
		var addErr error
		u, addErr = l2fhe.AddL1(s.pub.PublicKey, u, uI)
		if addErr != nil {
			return nil, addErr
		}
		v, addErr = l2fhe.AddL1(s.pub.PublicKey, v, vI)
		if addErr != nil {
			return nil, addErr
		}
		w, addErr = l2fhe.AddL1(s.pub.PublicKey, w, wI)
		if addErr != nil {
			return nil, addErr
		}
	}
	if s.aborted {
		return &L2FHERound3Message{Aborted: true}, nil
	}

	q := s.params.Q
	wq, err := l2fhe.CMultL1(s.pub.PublicKey, w, q)
	if err != nil {
		return nil, err
	}
	uv, err := l2fhe.Mult(s.pub.PublicKey, u, v)
	if err != nil {
		return nil, err
	}
	z, err := l2fhe.AddL1L2(s.pub.PublicKey, wq, uv)
	if err != nil {
		return nil, err
	}
	etaShare, err := l2fhe.PartialDecryptL2(s.share, z)
	if err != nil {
		return nil, err
	}

	s.u, s.v = u, v
	s.r = new(big.Int).Mod(R.X(), q)
	s.etaShare = etaShare

	s.log.Debug("round3: aggregated nonce shares and ciphertexts, partially decrypted eta")
	return &L2FHERound3Message{EtaShare: etaShare}, nil
}

// Round4 combines every party's partial decryption of eta into the
// multiplicative blinding factor, inverts it, uses it to unmask u into a
// signature-nonce inverse, folds in the message and the encrypted ECDSA
// key, and partially decrypts the resulting signature ciphertext. A party
// that is already aborted, or that discovers a peer has aborted, skips this
// computation and reports its own abort onward instead.
func (s *L2FHESigner) Round4(round3Messages ...*L2FHERound3Message) (*L2FHERound4Message, error) {
	if s.aborted {
		return &L2FHERound4Message{Aborted: true}, nil
	}
	shares := make([]*l2fhe.L2PartialDecryption, 0, len(round3Messages)+1)
	shares = append(shares, s.etaShare)
	for _, msg := range round3Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("round4: peer reported abort")
			s.aborted = true
			continue
		}
		shares = append(shares, msg.EtaShare)
	}
	if s.aborted {
		return &L2FHERound4Message{Aborted: true}, nil
	}
	eta, err := l2fhe.CombineL2(s.pub, shares...)
	if err != nil {
		return nil, err
	}

	q := s.params.Q
	psi := new(big.Int).ModInverse(eta, q)
	if psi == nil {
		return nil, fmt.Errorf("signer: combined eta not invertible mod q: %w", therrors.ErrDomainViolation)
	}
	vHat, err := l2fhe.CMultL1(s.pub.PublicKey, s.u, psi)
	if err != nil {
		return nil, err
	}

	mPrime := calculateMPrime(q, s.message)
	encryptedMessage, err := l2fhe.FixedRandomnessEncrypt(s.pub.PublicKey, mPrime)
	if err != nil {
		return nil, err
	}
	keyTerm, err := l2fhe.CMultL1(s.pub.PublicKey, s.encryptedDSAKey, s.r)
	if err != nil {
		return nil, err
	}
	sumTerm, err := l2fhe.AddL1(s.pub.PublicKey, encryptedMessage, keyTerm)
	if err != nil {
		return nil, err
	}
	sigma, err := l2fhe.Mult(s.pub.PublicKey, vHat, sumTerm)
	if err != nil {
		return nil, err
	}

	sigmaShare, err := l2fhe.PartialDecryptL2(s.share, sigma)
	if err != nil {
		return nil, err
	}
	s.sigmaShare = sigmaShare

	s.log.Debug("round4: unmasked nonce inverse, partially decrypted signature ciphertext")
	return &L2FHERound4Message{SigmaShare: sigmaShare}, nil
}

// OutputSignature combines every party's partial decryption of the
// signature ciphertext into the final s component. It returns nil, nil if
// this party or any peer aborted during the protocol.
func (s *L2FHESigner) OutputSignature(round4Messages ...*L2FHERound4Message) (*DSASignature, error) {
	if s.aborted {
		s.log.Warn("outputSignature: protocol aborted, withholding signature")
		return nil, nil
	}
	shares := make([]*l2fhe.L2PartialDecryption, 0, len(round4Messages)+1)
	shares = append(shares, s.sigmaShare)
	for _, msg := range round4Messages {
		if msg == nil || msg.Aborted {
			s.log.Warn("outputSignature: peer reported abort, withholding signature")
			return nil, nil
		}
		shares = append(shares, msg.SigmaShare)
	}
	sRaw, err := l2fhe.CombineL2(s.pub, shares...)
	if err != nil {
		return nil, err
	}
	sig := new(big.Int).Mod(sRaw, s.params.Q)
	return &DSASignature{R: s.r, S: sig}, nil
}
