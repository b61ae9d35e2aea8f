package commitment

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/therrors"
)

// PedersenParams is the public parameters of a plain discrete-log Pedersen
// commitment: a safe-prime modulus, its order, and two generators of the
// order-Order subgroup with an unknown discrete-log relation. Grounded on
// PedersenPublicParams.java.
type PedersenParams struct {
	Modulus *big.Int
	Order   *big.Int
	G, H    *big.Int
}

// GeneratePedersenParams builds fresh parameters: p = 2*order+1 a safe
// prime, and g, h independently sampled generators of the order-Order
// subgroup of Z_p*.
func GeneratePedersenParams(orderBits int, randSource io.Reader) (*PedersenParams, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	p, order, err := arith.SafePrimePair(orderBits+1, randSource)
	if err != nil {
		return nil, err
	}
	g, err := randomSubgroupGenerator(p, order, randSource)
	if err != nil {
		return nil, err
	}
	h, err := randomSubgroupGenerator(p, order, randSource)
	if err != nil {
		return nil, err
	}
	return &PedersenParams{Modulus: p, Order: order, G: g, H: h}, nil
}

// randomSubgroupGenerator samples a random element of the order-q subgroup
// of Z_p* by squaring a random unit, valid whenever p = 2*q+1.
func randomSubgroupGenerator(p, q *big.Int, randSource io.Reader) (*big.Int, error) {
	for {
		x, err := arith.RandomModNStar(p, randSource)
		if err != nil {
			return nil, err
		}
		g := new(big.Int).Exp(x, big.NewInt(2), p)
		if g.Cmp(one) != 0 {
			return g, nil
		}
	}
}

var one = big.NewInt(1)

// PedersenCommitment is params.G^digest * params.H^r mod params.Modulus,
// where digest is the secrets' SHA-256 transcript reduced mod params.Order.
type PedersenCommitment struct {
	Value *big.Int
}

// PedersenCommit commits to secrets under params, mirroring
// Pedersen.generateCommitment.
func PedersenCommit(params *PedersenParams, randSource io.Reader, secrets ...*big.Int) (*PedersenCommitment, *Open, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	r, err := arith.RandomModN(params.Order, randSource)
	if err != nil {
		return nil, nil, err
	}
	digest := secretsDigest(params.Order, secrets)
	value := pedersenValue(params, digest, r)
	return &PedersenCommitment{Value: value}, &Open{R: r, Secrets: secrets}, nil
}

// PedersenVerify checks that opening reveals commitment under params.
// Mirrors Pedersen.checkCommitment.
func PedersenVerify(params *PedersenParams, commitment *PedersenCommitment, opening *Open) error {
	digest := secretsDigest(params.Order, opening.Secrets)
	expected := pedersenValue(params, digest, opening.R)
	if expected.Cmp(commitment.Value) != 0 {
		return fmt.Errorf("commitment: Pedersen commitment does not open to the given secrets: %w", therrors.ErrProofFailure)
	}
	return nil
}

func pedersenValue(params *PedersenParams, digest, r *big.Int) *big.Int {
	v := new(big.Int).Exp(params.G, digest, params.Modulus)
	v.Mul(v, new(big.Int).Exp(params.H, r, params.Modulus))
	v.Mod(v, params.Modulus)
	return v
}
