package paillier

import (
	"fmt"
	"math/big"

	"github.com/citp/ThresholdECDSA/therrors"
)

// PartialDecryption is one party's contribution c_i = c^(2*Delta*s_i) mod n²
// towards decrypting a ciphertext c, tagged with the party's id.
type PartialDecryption struct {
	ID uint8
	Ci *big.Int
}

// PartialDecrypt computes party share's contribution to decrypting c.
func PartialDecrypt(share *ThresholdPrivateShare, c *big.Int) (*PartialDecryption, error) {
	if !share.IsCiphertext(c) {
		return nil, fmt.Errorf("paillier: ciphertext out of [0, n²): %w", therrors.ErrDomainViolation)
	}
	exponent := new(big.Int).Mul(two, share.Delta)
	exponent.Mul(exponent, share.Si)
	ci := new(big.Int).Exp(c, exponent, share.NSquared)
	return &PartialDecryption{ID: share.ID, Ci: ci}, nil
}

// CombineShares reconstructs Decrypt(c) from at least w partial decryptions
// via Lagrange interpolation at zero, as defined in spec.md §4.4.
func CombineShares(pub *ThresholdPublicKey, shares ...*PartialDecryption) (*big.Int, error) {
	if len(shares) < int(pub.W) {
		return nil, fmt.Errorf("paillier: need %d shares, got %d: %w", pub.W, len(shares), therrors.ErrInsufficientShares)
	}

	seen := make(map[uint8]bool, len(shares))
	for _, s := range shares {
		if seen[s.ID] {
			return nil, fmt.Errorf("paillier: duplicate share id %d: %w", s.ID, therrors.ErrDuplicateShare)
		}
		seen[s.ID] = true
	}

	// Use exactly w shares; Lagrange reconstruction over any w-subset agrees.
	used := shares[:pub.W]

	cPrime := new(big.Int).Set(one)
	for j, sj := range used {
		lambda := new(big.Int).Set(pub.Delta)
		for k, sk := range used {
			if j == k {
				continue
			}
			lambda.Mul(lambda, big.NewInt(-int64(sk.ID)))
			diff := big.NewInt(int64(sj.ID) - int64(sk.ID))
			lambda.Div(lambda, diff)
		}
		twoLambda := new(big.Int).Mul(lambda, two)
		ciToTwoLambda := new(big.Int).Exp(sj.Ci, twoLambda, pub.NSquared)
		cPrime.Mul(cPrime, ciToTwoLambda)
		cPrime.Mod(cPrime, pub.NSquared)
	}

	l := new(big.Int).Sub(cPrime, one)
	l.Div(l, pub.N)

	dec := new(big.Int).Mul(l, pub.CombineConstant)
	dec.Mod(dec, pub.N)
	return dec, nil
}
