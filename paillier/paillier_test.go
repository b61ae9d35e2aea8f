package paillier_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citp/ThresholdECDSA/paillier"
)

const testBits = 256

func TestGenerateKeyPair_EncryptDecryptRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m := big.NewInt(42)
	c, _, err := paillier.EncryptRandom(priv.PublicKey, m)
	require.NoError(t, err)

	got, err := paillier.Decrypt(priv, c)
	require.NoError(t, err)
	require.Zero(t, m.Cmp(got))
}

func TestAddIsHomomorphic(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m1, m2 := big.NewInt(30), big.NewInt(12)
	c1, _, err := paillier.EncryptRandom(priv.PublicKey, m1)
	require.NoError(t, err)
	c2, _, err := paillier.EncryptRandom(priv.PublicKey, m2)
	require.NoError(t, err)

	sum, err := paillier.Add(priv.PublicKey, c1, c2)
	require.NoError(t, err)
	got, err := paillier.Decrypt(priv, sum)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(42)))
}

func TestMultiplyByScalar(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m := big.NewInt(11)
	c, _, err := paillier.EncryptRandom(priv.PublicKey, m)
	require.NoError(t, err)

	mult, err := paillier.Multiply(priv.PublicKey, c, big.NewInt(5))
	require.NoError(t, err)
	got, err := paillier.Decrypt(priv, mult)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(55)))
}

func TestRerandomizePreservesPlaintext(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m := big.NewInt(7)
	c, _, err := paillier.EncryptRandom(priv.PublicKey, m)
	require.NoError(t, err)

	fresh, err := paillier.RerandomizeRandom(priv.PublicKey, c)
	require.NoError(t, err)
	require.NotZero(t, c.Cmp(fresh))

	got, err := paillier.Decrypt(priv, fresh)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(m))
}

func TestEncryptRejectsOutOfDomainPlaintext(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	_, err = paillier.Encrypt(priv.PublicKey, priv.N, big.NewInt(1))
	require.Error(t, err)
}

func TestThresholdCombineAgreesAcrossSubsets(t *testing.T) {
	const l, w = 5, 3
	shares, err := paillier.GenerateThresholdKeys(testBits, l, w, nil)
	require.NoError(t, err)
	require.Len(t, shares, l)

	tpk := shares[0].ThresholdPublicKey
	m := big.NewInt(1234)
	c, err := paillier.Encrypt(tpk.PublicKey, m, mustCoprimeRandomizer(t, tpk.N))
	require.NoError(t, err)

	partial := func(ids ...int) *big.Int {
		pds := make([]*paillier.PartialDecryption, 0, len(ids))
		for _, id := range ids {
			pd, err := paillier.PartialDecrypt(shares[id-1], c)
			require.NoError(t, err)
			pds = append(pds, pd)
		}
		dec, err := paillier.CombineShares(tpk, pds...)
		require.NoError(t, err)
		return dec
	}

	first := partial(1, 2, 3)
	second := partial(3, 4, 5)
	require.Zero(t, first.Cmp(m))
	require.Zero(t, second.Cmp(m))
	require.Zero(t, first.Cmp(second))
}

func TestThresholdCombineRejectsDuplicateAndInsufficientShares(t *testing.T) {
	const l, w = 5, 3
	shares, err := paillier.GenerateThresholdKeys(testBits, l, w, nil)
	require.NoError(t, err)

	tpk := shares[0].ThresholdPublicKey
	c, err := paillier.Encrypt(tpk.PublicKey, big.NewInt(9), mustCoprimeRandomizer(t, tpk.N))
	require.NoError(t, err)

	pd1, err := paillier.PartialDecrypt(shares[0], c)
	require.NoError(t, err)
	pd2, err := paillier.PartialDecrypt(shares[1], c)
	require.NoError(t, err)

	_, err = paillier.CombineShares(tpk, pd1, pd2)
	require.Error(t, err)

	_, err = paillier.CombineShares(tpk, pd1, pd1, pd2)
	require.Error(t, err)
}

func TestByteRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	b, err := priv.ToByteArray()
	require.NoError(t, err)
	decoded, err := paillier.PrivateKeyFromByteArray(b, nil)
	require.NoError(t, err)
	require.Zero(t, priv.N.Cmp(decoded.N))
	require.Zero(t, priv.D.Cmp(decoded.D))

	_, err = paillier.PrivateKeyFromByteArray(b[:len(b)-1], nil)
	require.Error(t, err)
}

func mustCoprimeRandomizer(t *testing.T, n *big.Int) *big.Int {
	t.Helper()
	r := big.NewInt(1)
	for new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) != 0 {
		r.Add(r, big.NewInt(2))
	}
	return r
}
