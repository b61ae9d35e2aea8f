package paillier

import (
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
)

// polynomial is a degree-(len(coeffs)-1) polynomial over Z_modulus with
// coeffs[0] the constant term.
type polynomial struct {
	coeffs  []*big.Int
	modulus *big.Int
}

// newRandomPolynomial builds f(X) = a0 + a1*X + ... + a_degree*X^degree mod
// modulus, sampling a1..a_degree uniformly from [0, modulus) and fixing the
// constant term to a0. This mirrors the teacher's createRandomPolynomial,
// used to Shamir-split the Paillier decryption exponent d.
func newRandomPolynomial(degree int, a0 *big.Int, modulus *big.Int, randSource io.Reader) (polynomial, error) {
	coeffs := make([]*big.Int, degree+1)
	coeffs[0] = new(big.Int).Mod(a0, modulus)
	for i := 1; i <= degree; i++ {
		c, err := arith.RandomModN(modulus, randSource)
		if err != nil {
			return polynomial{}, err
		}
		coeffs[i] = c
	}
	return polynomial{coeffs: coeffs, modulus: modulus}, nil
}

// eval computes f(x) mod modulus using Horner's method.
func (p polynomial) eval(x *big.Int) *big.Int {
	result := new(big.Int)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.coeffs[i])
		result.Mod(result, p.modulus)
	}
	return result
}
