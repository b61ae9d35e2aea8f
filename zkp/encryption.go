// Package zkp implements the non-interactive Fiat–Shamir zero-knowledge
// proofs of spec.md §4.5/§5: proof of knowledge of a Paillier plaintext and
// randomizer behind a ciphertext, proof that a ciphertext is the scalar
// multiple of another, proof of correct partial decryption, and the
// composite range-relation proof binding a curve point to three L1
// ciphertexts used by the threshold-ECDSA signer.
package zkp

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// EncryptionProof attests that the prover knows a plaintext m and a
// randomizer r such that C = (n+1)^m * r^n mod n². The witness itself is
// never included; only (C, B, W, Z) travel with the proof.
type EncryptionProof struct {
	C, B, W, Z *big.Int
}

// ProveEncryption builds an EncryptionProof for ciphertext c, which the
// caller must have produced as paillier.Encrypt(pub, message, randomizer).
func ProveEncryption(pub *paillier.PublicKey, message, randomizer, c *big.Int) (*EncryptionProof, error) {
	if !pub.IsPlaintext(message) {
		return nil, fmt.Errorf("zkp: message out of [0, n): %w", therrors.ErrDomainViolation)
	}
	if !pub.IsRandomizer(randomizer) {
		return nil, fmt.Errorf("zkp: randomizer not in Z_n*: %w", therrors.ErrDomainViolation)
	}

	n := pub.N
	nPlusOne := pub.G
	nSquared := pub.NSquared

	x, err := randomModN(pub)
	if err != nil {
		return nil, err
	}
	u, err := randomModNPlusOneStar(pub)
	if err != nil {
		return nil, err
	}

	nPlusOneToX := new(big.Int).Exp(nPlusOne, x, nSquared)
	uToN := new(big.Int).Exp(u, n, nSquared)
	b := new(big.Int).Mul(nPlusOneToX, uToN)
	b.Mod(b, nSquared)

	e := fiatShamir(c, b)

	eAlpha := new(big.Int).Mul(e, message)
	sum := new(big.Int).Add(x, eAlpha)
	w := new(big.Int).Mod(sum, n)
	t := new(big.Int).Div(sum, n)

	rToE := new(big.Int).Exp(randomizer, e, nSquared)
	uRToE := new(big.Int).Mul(u, rToE)
	nPlusOneToT := new(big.Int).Exp(nPlusOne, t, nSquared)
	z := new(big.Int).Mul(uRToE, nPlusOneToT)
	z.Mod(z, nSquared)

	return &EncryptionProof{C: c, B: b, W: w, Z: z}, nil
}

// Verify checks the proof against pub. It does not compare p.C against a
// caller-supplied ciphertext; callers that need to bind the proof to a
// specific ciphertext must check p.C themselves.
func (p *EncryptionProof) Verify(pub *paillier.PublicKey) error {
	nSquared := pub.NSquared
	nPlusOne := pub.G

	e := fiatShamir(p.C, p.B)

	nPlusOneToW := new(big.Int).Exp(nPlusOne, p.W, nSquared)
	zToN := new(big.Int).Exp(p.Z, pub.N, nSquared)
	left := new(big.Int).Mul(nPlusOneToW, zToN)
	left.Mod(left, nSquared)

	cToE := new(big.Int).Exp(p.C, e, nSquared)
	right := new(big.Int).Mul(p.B, cToE)
	right.Mod(right, nSquared)

	if left.Cmp(right) != 0 {
		return fmt.Errorf("zkp: encryption proof rejected: %w", therrors.ErrProofFailure)
	}
	return nil
}

func fiatShamir(elements ...*big.Int) *big.Int {
	h := sha256.New()
	for _, el := range elements {
		h.Write(el.Bytes())
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

func randomModN(pub *paillier.PublicKey) (*big.Int, error) {
	return rand.Int(pub.RandSource, pub.N)
}

func randomModNStar(pub *paillier.PublicKey) (*big.Int, error) {
	for {
		r, err := randomModN(pub)
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

// randomModNPlusOneStar samples from Z_n* and reduces it as an element to
// exponentiate (n+1) is a unit mod n² regardless, but the teacher scheme
// draws these randomizers from the same Z_n* domain as the ciphertext
// randomizer itself).
func randomModNPlusOneStar(pub *paillier.PublicKey) (*big.Int, error) {
	return randomModNStar(pub)
}
