// Package paillier implements the generalized Paillier additively
// homomorphic cryptosystem with the exponent parameter fixed at one (C2,
// C3), and its threshold variant (C4): key generation, encryption,
// homomorphic add/scalar-multiply, partial decryption and Lagrange
// recombination.
package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/therrors"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// MaxModulusBits is the largest modulus bit length this package accepts,
// per spec.md §3's "n ≤ 2^4096" invariant.
const MaxModulusBits = 4096

// PublicKey holds the public parameters (n, g=n+1, cached n², k=bitlen(n))
// of a Paillier instance, plus the random source used for sampling.
type PublicKey struct {
	N          *big.Int
	G          *big.Int // n + 1
	NSquared   *big.Int
	K          int // bitlen(n)
	RandSource io.Reader
}

// newPublicKey derives G, NSquared and K from n and normalizes the random
// source (crypto/rand.Reader when randSource is nil).
func newPublicKey(n *big.Int, randSource io.Reader) *PublicKey {
	if randSource == nil {
		randSource = rand.Reader
	}
	return &PublicKey{
		N:          n,
		G:          new(big.Int).Add(n, one),
		NSquared:   new(big.Int).Mul(n, n),
		K:          n.BitLen(),
		RandSource: randSource,
	}
}

// IsCiphertext reports whether c lies in [0, n²), the domain of ciphertexts.
func (pk *PublicKey) IsCiphertext(c *big.Int) bool {
	return c.Sign() >= 0 && c.Cmp(pk.NSquared) < 0
}

// IsPlaintext reports whether m lies in [0, n), the domain of plaintexts.
func (pk *PublicKey) IsPlaintext(m *big.Int) bool {
	return m.Sign() >= 0 && m.Cmp(pk.N) < 0
}

// IsRandomizer reports whether r lies in [0, n) and is coprime to n.
func (pk *PublicKey) IsRandomizer(r *big.Int) bool {
	if r.Sign() < 0 || r.Cmp(pk.N) >= 0 {
		return false
	}
	gcd := new(big.Int).GCD(nil, nil, r, pk.N)
	return gcd.Cmp(one) == 0
}

func (pk *PublicKey) randomModN() (*big.Int, error) {
	return arith.RandomModN(pk.N, pk.RandSource)
}

func (pk *PublicKey) randomModNStar() (*big.Int, error) {
	return arith.RandomModNStar(pk.N, pk.RandSource)
}

// PrivateKey adds the decryption exponent d and its modular inverse to a
// PublicKey.
type PrivateKey struct {
	*PublicKey
	D    *big.Int
	DInv *big.Int
}

// GenerateKeyPair samples a non-threshold Paillier key pair of the given
// modulus bit size. bits must be even; the two prime factors are sampled
// with equal bit length (spec.md §9's SHOULD, strengthening the teacher's
// looser check).
func GenerateKeyPair(bits int, randSource io.Reader) (*PrivateKey, error) {
	if bits < 16 || bits > MaxModulusBits {
		return nil, fmt.Errorf("paillier: bit size %d out of range [16, %d]: %w", bits, MaxModulusBits, therrors.ErrDomainViolation)
	}
	if bits%2 != 0 {
		return nil, fmt.Errorf("paillier: bit size %d must be even: %w", bits, therrors.ErrDomainViolation)
	}
	if randSource == nil {
		randSource = rand.Reader
	}
	primeBits := bits / 2

	var p, q, n, lambda *big.Int
	for {
		var err error
		p, err = arith.ProbablePrime(primeBits, randSource)
		if err != nil {
			return nil, err
		}
		q, err = arith.ProbablePrime(bits-primeBits, randSource)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}
		pMinus1 := new(big.Int).Sub(p, one)
		qMod := new(big.Int).Mod(q, pMinus1)
		if qMod.Sign() == 0 {
			continue
		}
		n = new(big.Int).Mul(p, q)
		gcd := new(big.Int).GCD(nil, nil, pMinus1, new(big.Int).Sub(q, one))
		lambda = new(big.Int).Mul(pMinus1, new(big.Int).Sub(q, one))
		lambda.Div(lambda, gcd)
		break
	}

	pub := newPublicKey(n, randSource)
	dInv := new(big.Int).ModInverse(lambda, n)
	if dInv == nil {
		return nil, fmt.Errorf("paillier: lambda not invertible mod n: %w", therrors.ErrDomainViolation)
	}
	return &PrivateKey{PublicKey: pub, D: lambda, DInv: dInv}, nil
}
