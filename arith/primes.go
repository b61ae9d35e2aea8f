package arith

import (
	"crypto/rand"
	"io"
	"math/big"
)

// millerRabinRounds is half the number of Miller-Rabin rounds ProbablePrime
// and SafePrimePair demand of a candidate: both call
// big.Int.ProbablyPrime(millerRabinRounds*2), the teacher's
// ProbablyPrime(25) doubled to 50 rounds for the primes that end up in a
// public modulus.
const millerRabinRounds = 25

// ProbablePrime returns a random integer of exactly bits bits that passes a
// Miller-Rabin test with at least 50 rounds. randSource defaults to
// crypto/rand.Reader when nil.
func ProbablePrime(bits int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	for {
		p, err := rand.Prime(randSource, bits)
		if err != nil {
			return nil, err
		}
		if p.ProbablyPrime(millerRabinRounds * 2) {
			return p, nil
		}
	}
}

// SafePrimePair samples p' as a bits-1 bit probable prime and accepts
// p = 2p'+1 if p also passes a primality test, retrying until success. It
// returns (p, p').
func SafePrimePair(bits int, randSource io.Reader) (p *big.Int, pPrime *big.Int, err error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	for {
		pPrime, err = rand.Prime(randSource, bits-1)
		if err != nil {
			return nil, nil, err
		}
		p = new(big.Int).Lsh(pPrime, 1)
		p.SetBit(p, 0, 1)
		if p.ProbablyPrime(millerRabinRounds*2) {
			return p, pPrime, nil
		}
	}
}

// RandomInt returns a uniformly random non-negative integer strictly less
// than 2^bitLen.
func RandomInt(bitLen int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(bitLen))
	return rand.Int(randSource, max)
}
