package zkp

import (
	"crypto/rand"
	"io"
	"math/big"
)

// randomBits samples a uniform integer in [0, 2^bits).
func randomBits(bits int, randSource io.Reader) (*big.Int, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	limit := new(big.Int).Lsh(one, uint(bits))
	return rand.Int(randSource, limit)
}
