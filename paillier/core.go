package paillier

import (
	"fmt"

	"math/big"

	"github.com/citp/ThresholdECDSA/therrors"
)

// Encrypt computes (n+1)^m * r^n mod n², requiring 0 <= m < n and r a unit
// of Z_n*.
func Encrypt(pub *PublicKey, m, r *big.Int) (*big.Int, error) {
	if !pub.IsPlaintext(m) {
		return nil, fmt.Errorf("paillier: plaintext %s out of [0, n): %w", m, therrors.ErrDomainViolation)
	}
	if !pub.IsRandomizer(r) {
		return nil, fmt.Errorf("paillier: randomizer not in Z_n*: %w", therrors.ErrDomainViolation)
	}
	gToM := new(big.Int).Exp(pub.G, m, pub.NSquared)
	rToN := new(big.Int).Exp(r, pub.N, pub.NSquared)
	c := new(big.Int).Mul(gToM, rToN)
	c.Mod(c, pub.NSquared)
	return c, nil
}

// EncryptRandom encrypts m with a randomizer sampled internally.
func EncryptRandom(pub *PublicKey, m *big.Int) (*big.Int, *big.Int, error) {
	r, err := pub.randomModNStar()
	if err != nil {
		return nil, nil, err
	}
	c, err := Encrypt(pub, m, r)
	if err != nil {
		return nil, nil, err
	}
	return c, r, nil
}

// Decrypt computes d^-1 * ((c^d mod n² - 1)/n) mod n.
func Decrypt(priv *PrivateKey, c *big.Int) (*big.Int, error) {
	if !priv.IsCiphertext(c) {
		return nil, fmt.Errorf("paillier: ciphertext out of [0, n²): %w", therrors.ErrDomainViolation)
	}
	cToD := new(big.Int).Exp(c, priv.D, priv.NSquared)
	l := new(big.Int).Sub(cToD, one)
	l.Div(l, priv.N)
	m := new(big.Int).Mul(l, priv.DInv)
	m.Mod(m, priv.N)
	return m, nil
}

// Add homomorphically adds any number of ciphertexts: c1*c2*...*ck mod n².
func Add(pub *PublicKey, cs ...*big.Int) (*big.Int, error) {
	sum := new(big.Int).Set(one)
	for i, c := range cs {
		if !pub.IsCiphertext(c) {
			return nil, fmt.Errorf("paillier: operand %d out of [0, n²): %w", i, therrors.ErrDomainViolation)
		}
		sum.Mul(sum, c)
		sum.Mod(sum, pub.NSquared)
	}
	return sum, nil
}

// Multiply raises a ciphertext to the scalar k: c^k mod n².
func Multiply(pub *PublicKey, c, k *big.Int) (*big.Int, error) {
	if !pub.IsCiphertext(c) {
		return nil, fmt.Errorf("paillier: ciphertext out of [0, n²): %w", therrors.ErrDomainViolation)
	}
	result := new(big.Int).Exp(c, k, pub.NSquared)
	return result, nil
}

// Rerandomize returns c * r^n mod n², a fresh encryption of the same
// plaintext under new randomness.
func Rerandomize(pub *PublicKey, c, r *big.Int) (*big.Int, error) {
	if !pub.IsCiphertext(c) {
		return nil, fmt.Errorf("paillier: ciphertext out of [0, n²): %w", therrors.ErrDomainViolation)
	}
	if !pub.IsRandomizer(r) {
		return nil, fmt.Errorf("paillier: randomizer not in Z_n*: %w", therrors.ErrDomainViolation)
	}
	rToN := new(big.Int).Exp(r, pub.N, pub.NSquared)
	out := new(big.Int).Mul(c, rToN)
	out.Mod(out, pub.NSquared)
	return out, nil
}

// RerandomizeRandom rerandomizes c with an internally sampled randomizer.
func RerandomizeRandom(pub *PublicKey, c *big.Int) (*big.Int, error) {
	r, err := pub.randomModNStar()
	if err != nil {
		return nil, err
	}
	return Rerandomize(pub, c, r)
}
