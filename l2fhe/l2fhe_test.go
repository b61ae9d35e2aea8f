package l2fhe_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citp/ThresholdECDSA/l2fhe"
	"github.com/citp/ThresholdECDSA/paillier"
)

const testBits = 256

func TestEncrypt1DecryptRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(41), nil)
	require.NoError(t, err)

	got, err := l2fhe.Decrypt1(priv, c)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(41)))
}

func TestAddL1IsHomomorphic(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c1, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(10), nil)
	require.NoError(t, err)
	c2, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(32), nil)
	require.NoError(t, err)

	sum, err := l2fhe.AddL1(priv.PublicKey, c1, c2)
	require.NoError(t, err)

	got, err := l2fhe.Decrypt1(priv, sum)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(42)))
}

func TestMultThenDecrypt2(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c1, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(6), nil)
	require.NoError(t, err)
	c2, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(7), nil)
	require.NoError(t, err)

	prod, err := l2fhe.Mult(priv.PublicKey, c1, c2)
	require.NoError(t, err)

	got, err := l2fhe.Decrypt2(priv, prod)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(42)))
}

func TestAddL2Combines(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c1, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(2), nil)
	require.NoError(t, err)
	c2, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(3), nil)
	require.NoError(t, err)
	c3, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(5), nil)
	require.NoError(t, err)

	p1, err := l2fhe.Mult(priv.PublicKey, c1, c2) // 6
	require.NoError(t, err)
	p2, err := l2fhe.Mult(priv.PublicKey, c1, c3) // 10
	require.NoError(t, err)

	sum, err := l2fhe.AddL2(priv.PublicKey, p1, p2)
	require.NoError(t, err)

	got, err := l2fhe.Decrypt2(priv, sum)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(16)))
}

func TestCMultL1AndL2(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c1, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(4), nil)
	require.NoError(t, err)

	scaled, err := l2fhe.CMultL1(priv.PublicKey, c1, big.NewInt(5))
	require.NoError(t, err)
	got, err := l2fhe.Decrypt1(priv, scaled)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(20)))

	c2, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(3), nil)
	require.NoError(t, err)
	prod, err := l2fhe.Mult(priv.PublicKey, c1, c2) // 12
	require.NoError(t, err)
	scaledProd, err := l2fhe.CMultL2(priv.PublicKey, prod, big.NewInt(2))
	require.NoError(t, err)
	got2, err := l2fhe.Decrypt2(priv, scaledProd)
	require.NoError(t, err)
	require.Zero(t, got2.Cmp(big.NewInt(24)))
}

func TestRerandomizeL1PreservesPlaintext(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(9), nil)
	require.NoError(t, err)

	fresh, err := l2fhe.RerandomizeL1(priv.PublicKey, c, nil)
	require.NoError(t, err)
	require.NotZero(t, c.A.Cmp(fresh.A))

	got, err := l2fhe.Decrypt1(priv, fresh)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(9)))
}

func TestThresholdCombineL1AndL2(t *testing.T) {
	const l, w = 5, 3
	shares, err := paillier.GenerateThresholdKeys(testBits, l, w, nil)
	require.NoError(t, err)
	tpk := shares[0].ThresholdPublicKey

	c1, _, _, err := l2fhe.Encrypt1Random(tpk.PublicKey, big.NewInt(11), nil)
	require.NoError(t, err)
	c2, _, _, err := l2fhe.Encrypt1Random(tpk.PublicKey, big.NewInt(4), nil)
	require.NoError(t, err)

	pd1, err := l2fhe.PartialDecryptL1(shares[0], c1)
	require.NoError(t, err)
	pd2, err := l2fhe.PartialDecryptL1(shares[1], c1)
	require.NoError(t, err)
	pd3, err := l2fhe.PartialDecryptL1(shares[2], c1)
	require.NoError(t, err)
	got, err := l2fhe.CombineL1(tpk, c1, pd1, pd2, pd3)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(11)))

	prod, err := l2fhe.Mult(tpk.PublicKey, c1, c2) // 44
	require.NoError(t, err)
	l2pd1, err := l2fhe.PartialDecryptL2(shares[0], prod)
	require.NoError(t, err)
	l2pd2, err := l2fhe.PartialDecryptL2(shares[1], prod)
	require.NoError(t, err)
	l2pd3, err := l2fhe.PartialDecryptL2(shares[2], prod)
	require.NoError(t, err)
	got2, err := l2fhe.CombineL2(tpk, l2pd1, l2pd2, l2pd3)
	require.NoError(t, err)
	require.Zero(t, got2.Cmp(big.NewInt(44)))
}

func TestByteRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	c, _, _, err := l2fhe.Encrypt1Random(priv.PublicKey, big.NewInt(99), nil)
	require.NoError(t, err)

	b, err := c.ToByteArray()
	require.NoError(t, err)
	decoded, err := l2fhe.L1CiphertextFromByteArray(b)
	require.NoError(t, err)
	require.Zero(t, c.A.Cmp(decoded.A))
	require.Zero(t, c.Beta.Cmp(decoded.Beta))
}
