// Package l2fhe implements the two-level somewhat-homomorphic layer built
// on top of package paillier (spec.md §5): L1Ciphertext masks a plaintext
// additively before a single Paillier encryption, and L2Ciphertext is the
// one-multiplicative-level extension produced by Mult. Only Mult and
// FixedRandomnessEncrypt (and AddL1L2 through it) touch the
// fixed-randomness encryption path; every other encryption uses a freshly
// sampled randomizer.
package l2fhe

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
)

var one = big.NewInt(1)

// L1Ciphertext represents m = (a + Decrypt(beta)) mod n: an additive mask a
// in the clear alongside a Paillier encryption of the complementary share b.
type L1Ciphertext struct {
	A    *big.Int
	Beta *big.Int
}

// TranscriptFields implements zkp.L1Transcript so the range-relation proof
// can fold an L1Ciphertext into its Fiat–Shamir transcript without this
// package's callers needing to import zkp themselves.
func (c L1Ciphertext) TranscriptFields() (a, beta *big.Int) {
	return c.A, c.Beta
}

// ToPaillierCiphertext collapses c into a single Paillier ciphertext
// encrypting the same plaintext: beta * (n+1)^a mod n². The original source
// calls it toPaillierCiphertext.
func (c L1Ciphertext) ToPaillierCiphertext(pub *paillier.PublicKey) *big.Int {
	nPlusOneToA := new(big.Int).Exp(pub.G, c.A, pub.NSquared)
	out := new(big.Int).Mul(c.Beta, nPlusOneToA)
	out.Mod(out, pub.NSquared)
	return out
}

// Encrypt1 builds an L1Ciphertext for m using the given randomizer r for
// the inner Paillier encryption and the given additive mask b: a = m-b mod
// n, beta = Encrypt(b, r).
func Encrypt1(pub *paillier.PublicKey, m, r, b *big.Int) (L1Ciphertext, error) {
	if !pub.IsPlaintext(m) {
		return L1Ciphertext{}, fmt.Errorf("l2fhe: plaintext out of [0, n): %w", therrors.ErrDomainViolation)
	}
	a := new(big.Int).Sub(m, b)
	a.Mod(a, pub.N)
	beta, err := paillier.Encrypt(pub, b, r)
	if err != nil {
		return L1Ciphertext{}, err
	}
	return L1Ciphertext{A: a, Beta: beta}, nil
}

// Encrypt1Random builds an L1Ciphertext for m with an internally sampled
// mask b and randomizer r.
func Encrypt1Random(pub *paillier.PublicKey, m *big.Int, randSource io.Reader) (L1Ciphertext, *big.Int, *big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	r, err := randomModNStar(pub, randSource)
	if err != nil {
		return L1Ciphertext{}, nil, nil, err
	}
	b, err := rand.Int(randSource, pub.N)
	if err != nil {
		return L1Ciphertext{}, nil, nil, err
	}
	c, err := Encrypt1(pub, m, r, b)
	return c, r, b, err
}

// encryptOne is the sole entry point onto the fixed-randomness Paillier
// encryption ((n+1)^m mod n²): the original source's L2FHE.mult uses it to
// commit to a1*a2 without an extra random factor, since the surrounding
// homomorphic combination already re-randomizes the result. Its only
// callers are Mult, for the public product a1*a2, and
// FixedRandomnessEncrypt, for the constant 1.
func encryptOne(pub *paillier.PublicKey, m *big.Int) (*big.Int, error) {
	return paillier.Encrypt(pub, m, one)
}

func randomModNStar(pub *paillier.PublicKey, randSource io.Reader) (*big.Int, error) {
	for {
		r, err := rand.Int(randSource, pub.N)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, pub.N).Cmp(one) == 0 {
			return r, nil
		}
	}
}
