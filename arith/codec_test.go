package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendReadBigIntRoundTrip(t *testing.T) {
	ints := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(1 << 30), new(big.Int).Lsh(big.NewInt(1), 512)}

	buf, err := AppendBigInt(nil, ints...)
	require.NoError(t, err)

	got, next, err := ReadBigInt(buf, 0, len(ints))
	require.NoError(t, err)
	require.Equal(t, len(buf), next)
	for i, want := range ints {
		require.Zero(t, want.Cmp(got[i]), "element %d mismatch: want %s got %s", i, want, got[i])
	}
}

func TestReadBigIntTruncatedFails(t *testing.T) {
	buf, err := AppendBigInt(nil, big.NewInt(123456789))
	require.NoError(t, err)

	_, _, err = ReadBigInt(buf[:len(buf)-1], 0, 1)
	require.ErrorIs(t, err, ErrCorruptEncoding)
}

func TestPeelLayerRoundTrip(t *testing.T) {
	inner, err := AppendBigInt(nil, big.NewInt(7), big.NewInt(9))
	require.NoError(t, err)

	layered, err := AppendLayer(inner)
	require.NoError(t, err)

	gotInner, gotTrailer, err := PeelLayer(layered)
	require.NoError(t, err)
	require.Equal(t, inner, gotInner)
	require.Empty(t, gotTrailer)
}

func TestUint32CanonicalDecode(t *testing.T) {
	b := PutUint32(0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), Uint32(b))
}
