package zkp

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
)

// RangeRelationParams holds the auxiliary RSA-modulus commitment parameters
// (ñ, h1, h2) the composite range-relation proof needs on top of the
// signing group's Paillier public key and curve order. ñ's factorization is
// discarded once generated; nobody, including the generator, needs to know
// the discrete log of h2 base h1.
type RangeRelationParams struct {
	NTilde *big.Int
	H1, H2 *big.Int
	Q      *big.Int // elliptic-curve group order
}

// GenerateRangeRelationParams builds a fresh set of parameters. nTildeBits
// is normally at least twice the Paillier modulus bit length.
func GenerateRangeRelationParams(nTildeBits int, q *big.Int, randSource io.Reader) (*RangeRelationParams, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	pTilde, _, err := arith.SafePrimePair(nTildeBits/2, randSource)
	if err != nil {
		return nil, err
	}
	qTilde, _, err := arith.SafePrimePair(nTildeBits-nTildeBits/2, randSource)
	if err != nil {
		return nil, err
	}
	nTilde := new(big.Int).Mul(pTilde, qTilde)

	h1, err := randomModNStarPlain(nTilde, randSource)
	if err != nil {
		return nil, err
	}
	x, err := rand.Int(randSource, nTilde)
	if err != nil {
		return nil, err
	}
	h2 := new(big.Int).Exp(h1, x, nTilde)

	return &RangeRelationParams{NTilde: nTilde, H1: h1, H2: h2, Q: new(big.Int).Set(q)}, nil
}

func randomModNStarPlain(n *big.Int, randSource io.Reader) (*big.Int, error) {
	for {
		r, err := rand.Int(randSource, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, n).Cmp(one) == 0 {
			return r, nil
		}
	}
}
