package l2fhe

import (
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
	"github.com/citp/ThresholdECDSA/zkp"
)

// L2PartialDecryption is one party's contribution to decrypting an
// L2Ciphertext: a partial decryption of alpha, plus one (beta0, beta1)
// partial-decryption pair per beta term.
type L2PartialDecryption struct {
	Alpha *paillier.PartialDecryption
	Beta  []L2PartialDecryptionTerm
}

// L2PartialDecryptionTerm is one party's partial decryption of a single
// (beta0, beta1) pair.
type L2PartialDecryptionTerm struct {
	Beta0, Beta1 *paillier.PartialDecryption
}

// PartialDecryptL1 computes share's contribution to decrypting c's Paillier
// component; the caller combines these with c.A already in hand.
func PartialDecryptL1(share *paillier.ThresholdPrivateShare, c L1Ciphertext) (*paillier.PartialDecryption, error) {
	return paillier.PartialDecrypt(share, c.Beta)
}

// CombineL1 reconstructs the plaintext behind c from at least w partial
// decryptions of its Paillier component.
func CombineL1(pub *paillier.ThresholdPublicKey, c L1Ciphertext, shares ...*paillier.PartialDecryption) (*big.Int, error) {
	b, err := paillier.CombineShares(pub, shares...)
	if err != nil {
		return nil, err
	}
	m := new(big.Int).Add(c.A, b)
	m.Mod(m, pub.N)
	return m, nil
}

// PartialDecryptL2 computes share's contribution to decrypting every
// ciphertext embedded in c: alpha and each beta pair.
func PartialDecryptL2(share *paillier.ThresholdPrivateShare, c L2Ciphertext) (*L2PartialDecryption, error) {
	alpha, err := paillier.PartialDecrypt(share, c.Alpha)
	if err != nil {
		return nil, err
	}
	terms := make([]L2PartialDecryptionTerm, len(c.Beta))
	for i, term := range c.Beta {
		b0, err := paillier.PartialDecrypt(share, term.Beta0)
		if err != nil {
			return nil, err
		}
		b1, err := paillier.PartialDecrypt(share, term.Beta1)
		if err != nil {
			return nil, err
		}
		terms[i] = L2PartialDecryptionTerm{Beta0: b0, Beta1: b1}
	}
	return &L2PartialDecryption{Alpha: alpha, Beta: terms}, nil
}

// CombineL2 reconstructs the plaintext behind an L2Ciphertext from at least
// w parties' L2PartialDecryptions, all computed against the same ciphertext.
func CombineL2(pub *paillier.ThresholdPublicKey, shares ...*L2PartialDecryption) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("l2fhe: no shares to combine: %w", therrors.ErrInsufficientShares)
	}
	numTerms := len(shares[0].Beta)

	alphaShares := make([]*paillier.PartialDecryption, len(shares))
	for i, s := range shares {
		if len(s.Beta) != numTerms {
			return nil, fmt.Errorf("l2fhe: mismatched beta-term counts across shares: %w", therrors.ErrKeyMismatch)
		}
		alphaShares[i] = s.Alpha
	}
	message, err := paillier.CombineShares(pub, alphaShares...)
	if err != nil {
		return nil, err
	}

	for term := 0; term < numTerms; term++ {
		b0Shares := make([]*paillier.PartialDecryption, len(shares))
		b1Shares := make([]*paillier.PartialDecryption, len(shares))
		for i, s := range shares {
			b0Shares[i] = s.Beta[term].Beta0
			b1Shares[i] = s.Beta[term].Beta1
		}
		d0, err := paillier.CombineShares(pub, b0Shares...)
		if err != nil {
			return nil, err
		}
		d1, err := paillier.CombineShares(pub, b1Shares...)
		if err != nil {
			return nil, err
		}
		message.Add(message, new(big.Int).Mul(d0, d1))
	}
	message.Mod(message, pub.N)
	return message, nil
}

// PartialDecryptL1WithProof is PartialDecryptL1 plus a DecryptionProof
// binding the returned share to c's Paillier component.
func PartialDecryptL1WithProof(share *paillier.ThresholdPrivateShare, c L1Ciphertext) (*paillier.PartialDecryption, *zkp.DecryptionProof, error) {
	pd, err := PartialDecryptL1(share, c)
	if err != nil {
		return nil, nil, err
	}
	proof, err := zkp.ProveDecryption(share, c.Beta, pd)
	if err != nil {
		return nil, nil, err
	}
	return pd, proof, nil
}

// EncryptDSAKey builds the L1Ciphertext encoding of a signer's share of the
// ECDSA private key, the form the four-round signer expects to receive from
// key setup (spec.md's supplemented EncryptDSAKey factory).
func EncryptDSAKey(pub *paillier.PublicKey, keyShare *big.Int, randSource io.Reader) (L1Ciphertext, error) {
	c, _, _, err := Encrypt1Random(pub, keyShare, randSource)
	return c, err
}
