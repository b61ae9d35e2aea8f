package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBitLen = 128

func TestRandomIntBounds(t *testing.T) {
	a, err := RandomInt(testBitLen, nil)
	require.NoError(t, err)
	b, err := RandomInt(testBitLen, nil)
	require.NoError(t, err)

	require.LessOrEqual(t, a.BitLen(), testBitLen)
	require.NotZero(t, a.Cmp(b), "two independent samples collided")
}

func TestSafePrimePair(t *testing.T) {
	p, pPrime, err := SafePrimePair(testBitLen, nil)
	require.NoError(t, err)
	require.True(t, p.ProbablyPrime(25))
	require.True(t, pPrime.ProbablyPrime(25))

	want := new(big.Int).Lsh(pPrime, 1)
	want.Add(want, big.NewInt(1))
	require.Zero(t, p.Cmp(want), "p must equal 2p'+1")
}

func TestRandomModNStarCoprime(t *testing.T) {
	n := big.NewInt(9179) // 67 * 137
	for i := 0; i < 20; i++ {
		r, err := RandomModNStar(n, nil)
		require.NoError(t, err)
		gcd := new(big.Int).GCD(nil, nil, r, n)
		require.Zero(t, gcd.Cmp(big.NewInt(1)))
	}
}
