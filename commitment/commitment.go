// Package commitment implements two commitment schemes: a pairing-based
// non-malleable multi-trapdoor commitment over bls12381, which the signing
// protocols use to bind a party to its values before opening them, and a
// plain discrete-log Pedersen commitment over a safe-prime group, which the
// signer package does not use.
//
// The multi-trapdoor scheme is grounded on Gennaro's construction as
// implemented for the original symmetric-pairing library: a single group G
// with a self-pairing e(g,g). circl's bls12381 only exposes an asymmetric
// pairing e: G1 x G2 -> GT, so this package places every value that the
// original passes as the pairing's first argument in G1 (the commitment
// randomizer's base point) and every value passed as the second argument in
// G2 (the trapdoor generator h and the commitment value itself). Because
// e(g1^a, g2^b) = e(g1,g2)^(ab) for the standard generators regardless of
// which group a or b's scalar came from, no shared discrete log needs to be
// generated between the two groups' generators; only the trapdoor h needs
// generating at all, and it lives entirely in G2.
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/cloudflare/circl/ecc/bls12381"

	"github.com/citp/ThresholdECDSA/therrors"
)

// MasterPublicKey holds the public parameters of the multi-trapdoor
// commitment scheme: the two pairing group generators and a random G2
// trapdoor element h. Whoever generates h knows its discrete log against
// the G2 generator; MultilinearCommit and MultilinearVerify never need
// that knowledge, so GenerateMasterPublicKey discards it immediately.
type MasterPublicKey struct {
	G1 *bls12381.G1
	G2 *bls12381.G2
	H  *bls12381.G2
	Q  *big.Int
}

// GenerateMasterPublicKey samples a fresh trapdoor h and returns the
// resulting master public key, mirroring generateNMMasterPublicKey.
func GenerateMasterPublicKey(randSource io.Reader) (*MasterPublicKey, error) {
	q := new(big.Int).SetBytes(bls12381.Order())
	x, err := randomModQ(q, randSource)
	if err != nil {
		return nil, err
	}
	h := new(bls12381.G2)
	h.ScalarMult(newScalar(x), bls12381.G2Generator())
	return &MasterPublicKey{
		G1: bls12381.G1Generator(),
		G2: bls12381.G2Generator(),
		H:  h,
		Q:  q,
	}, nil
}

// Commitment is the public output of MultilinearCommit: the challenge e
// used to derive the per-commitment trapdoor generator, and the resulting
// G2 point a.
type Commitment struct {
	E *big.Int
	A *bls12381.G2
}

// Open is the witness that lets a verifier check a Commitment against the
// secrets it commits to.
type Open struct {
	R       *big.Int
	Secrets []*big.Int
}

// MultilinearCommit commits to secrets under mpk, returning the commitment
// to publish and the opening to reveal later. Grounded on
// MultiTrapdoorCommitment.multilinnearCommit.
func MultilinearCommit(mpk *MasterPublicKey, randSource io.Reader, secrets ...*big.Int) (*Commitment, *Open, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	e, err := randomModQ(mpk.Q, randSource)
	if err != nil {
		return nil, nil, err
	}
	r, err := randomModQ(mpk.Q, randSource)
	if err != nil {
		return nil, nil, err
	}
	digest := secretsDigest(mpk.Q, secrets)

	he := new(bls12381.G2)
	he.ScalarMult(newScalar(e), mpk.G2)
	he.Add(mpk.H, he)

	a := new(bls12381.G2)
	a.ScalarMult(newScalar(digest), mpk.G2)
	rhe := new(bls12381.G2)
	rhe.ScalarMult(newScalar(r), he)
	a.Add(a, rhe)

	return &Commitment{E: e, A: a}, &Open{R: r, Secrets: secrets}, nil
}

// MultilinearVerify checks that opening reveals commitment under mpk,
// returning therrors.ErrProofFailure if it does not. Grounded on
// MultiTrapdoorCommitment.checkcommitment / DDHTest.
func MultilinearVerify(mpk *MasterPublicKey, commitment *Commitment, opening *Open) error {
	digest := secretsDigest(mpk.Q, opening.Secrets)

	lhsG1 := new(bls12381.G1)
	lhsG1.ScalarMult(newScalar(opening.R), mpk.G1)
	lhsG2 := new(bls12381.G2)
	lhsG2.ScalarMult(newScalar(commitment.E), mpk.G2)
	lhsG2.Add(mpk.H, lhsG2)
	lhs := bls12381.Pair(lhsG1, lhsG2)

	negDigest := new(big.Int).Neg(digest)
	negDigest.Mod(negDigest, mpk.Q)
	rhsG2 := new(bls12381.G2)
	rhsG2.ScalarMult(newScalar(negDigest), mpk.G2)
	rhsG2.Add(commitment.A, rhsG2)
	rhs := bls12381.Pair(mpk.G1, rhsG2)

	if !gtEqual(lhs, rhs) {
		return fmt.Errorf("commitment: multilinear commitment does not open to the given secrets: %w", therrors.ErrProofFailure)
	}
	return nil
}

func secretsDigest(q *big.Int, secrets []*big.Int) *big.Int {
	h := sha256.New()
	for _, s := range secrets {
		b := s.Bytes()
		var lenBuf [4]byte
		lenBuf[0] = byte(len(b) >> 24)
		lenBuf[1] = byte(len(b) >> 16)
		lenBuf[2] = byte(len(b) >> 8)
		lenBuf[3] = byte(len(b))
		h.Write(lenBuf[:])
		h.Write(b)
	}
	digest := new(big.Int).SetBytes(h.Sum(nil))
	digest.Mod(digest, q)
	return digest
}

func newScalar(x *big.Int) *bls12381.Scalar {
	s := new(bls12381.Scalar)
	s.SetBytes(x.Bytes())
	return s
}

func randomModQ(q *big.Int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	return rand.Int(randSource, q)
}

func gtEqual(a, b *bls12381.Gt) bool {
	return a.IsEqual(b)
}
