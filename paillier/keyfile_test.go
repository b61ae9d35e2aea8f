package paillier_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citp/ThresholdECDSA/paillier"
)

func TestThresholdKeyFileRoundTrip(t *testing.T) {
	shares, err := paillier.GenerateThresholdKeys(testBits, 5, 3, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, paillier.WriteThresholdKeyFile(&buf, shares))

	got, err := paillier.ReadThresholdKeyFile(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(shares))

	for i, want := range shares {
		require.Equal(t, want.ID, got[i].ID)
		require.Zero(t, want.Si.Cmp(got[i].Si))
		require.Zero(t, want.Vi[i].Cmp(got[i].Vi[i]))
	}
	require.Zero(t, shares[0].N.Cmp(got[0].N))
	require.Zero(t, shares[0].CombineConstant.Cmp(got[0].CombineConstant))
}
