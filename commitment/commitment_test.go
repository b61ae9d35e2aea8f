package commitment_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citp/ThresholdECDSA/commitment"
)

func TestMultilinearCommitRoundTrip(t *testing.T) {
	mpk, err := commitment.GenerateMasterPublicKey(nil)
	require.NoError(t, err)

	c, open, err := commitment.MultilinearCommit(mpk, nil, big.NewInt(1), big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)

	require.NoError(t, commitment.MultilinearVerify(mpk, c, open))
}

func TestMultilinearVerifyRejectsWrongSecrets(t *testing.T) {
	mpk, err := commitment.GenerateMasterPublicKey(nil)
	require.NoError(t, err)

	c, open, err := commitment.MultilinearCommit(mpk, nil, big.NewInt(7))
	require.NoError(t, err)

	tampered := &commitment.Open{R: open.R, Secrets: []*big.Int{big.NewInt(8)}}
	require.Error(t, commitment.MultilinearVerify(mpk, c, tampered))
}

func TestMultilinearVerifyRejectsWrongRandomizer(t *testing.T) {
	mpk, err := commitment.GenerateMasterPublicKey(nil)
	require.NoError(t, err)

	c, open, err := commitment.MultilinearCommit(mpk, nil, big.NewInt(99))
	require.NoError(t, err)

	tampered := &commitment.Open{R: new(big.Int).Add(open.R, big.NewInt(1)), Secrets: open.Secrets}
	require.Error(t, commitment.MultilinearVerify(mpk, c, tampered))
}

func TestPedersenCommitRoundTrip(t *testing.T) {
	params, err := commitment.GeneratePedersenParams(160, nil)
	require.NoError(t, err)

	c, open, err := commitment.PedersenCommit(params, nil, big.NewInt(42), big.NewInt(7))
	require.NoError(t, err)

	require.NoError(t, commitment.PedersenVerify(params, c, open))
}

func TestPedersenVerifyRejectsTamperedSecret(t *testing.T) {
	params, err := commitment.GeneratePedersenParams(160, nil)
	require.NoError(t, err)

	c, open, err := commitment.PedersenCommit(params, nil, big.NewInt(42))
	require.NoError(t, err)

	tampered := &commitment.Open{R: open.R, Secrets: []*big.Int{big.NewInt(43)}}
	require.Error(t, commitment.PedersenVerify(params, c, tampered))
}
