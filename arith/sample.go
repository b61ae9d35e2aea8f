package arith

import (
	"crypto/rand"
	"io"
	"math/big"
)

var one = big.NewInt(1)

// RandomModN returns a uniform sample from [0, n).
func RandomModN(n *big.Int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	return rand.Int(randSource, n)
}

// RandomModNStar returns a uniform sample from Z_n*, the multiplicative
// group of integers coprime to n, by rejection sampling.
func RandomModNStar(n *big.Int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	gcd := new(big.Int)
	for {
		r, err := rand.Int(randSource, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		gcd.GCD(nil, nil, r, n)
		if gcd.Cmp(one) == 0 {
			return r, nil
		}
	}
}

// RandomModNSquaredStar returns a uniform sample from Z_{n^2}*.
func RandomModNSquaredStar(n *big.Int, randSource io.Reader) (*big.Int, error) {
	nSquared := new(big.Int).Mul(n, n)
	return RandomModNStar(nSquared, randSource)
}
