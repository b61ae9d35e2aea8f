package zkp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/signer"
	"github.com/citp/ThresholdECDSA/zkp"
)

const testBits = 256

func TestEncryptionProofRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m := big.NewInt(17)
	c, r, err := paillier.EncryptRandom(priv.PublicKey, m)
	require.NoError(t, err)

	proof, err := zkp.ProveEncryption(priv.PublicKey, m, r, c)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(priv.PublicKey))
}

func TestEncryptionProofRejectsTamperedChallengeInput(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	m := big.NewInt(17)
	c, r, err := paillier.EncryptRandom(priv.PublicKey, m)
	require.NoError(t, err)

	proof, err := zkp.ProveEncryption(priv.PublicKey, m, r, c)
	require.NoError(t, err)

	proof.C = new(big.Int).Add(proof.C, big.NewInt(1))
	require.Error(t, proof.Verify(priv.PublicKey))
}

func TestMultiplicationProofRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	a := big.NewInt(9)
	ca, _, err := paillier.EncryptRandom(priv.PublicKey, a)
	require.NoError(t, err)

	alpha := big.NewInt(6)
	proof, err := zkp.ProveMultiplication(priv.PublicKey, ca, alpha)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(priv.PublicKey))

	got, err := paillier.Decrypt(priv, proof.D)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big.NewInt(54)))
}

func TestMultiplicationProofRejectsTamperedResult(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(testBits, nil)
	require.NoError(t, err)

	a := big.NewInt(9)
	ca, _, err := paillier.EncryptRandom(priv.PublicKey, a)
	require.NoError(t, err)

	alpha := big.NewInt(6)
	proof, err := zkp.ProveMultiplication(priv.PublicKey, ca, alpha)
	require.NoError(t, err)

	proof.D = new(big.Int).Add(proof.D, big.NewInt(1))
	require.Error(t, proof.Verify(priv.PublicKey))
}

func TestDecryptionProofRoundTrip(t *testing.T) {
	shares, err := paillier.GenerateThresholdKeys(testBits, 3, 2, nil)
	require.NoError(t, err)

	tpk := shares[0].ThresholdPublicKey
	c, err := paillier.Encrypt(tpk.PublicKey, big.NewInt(5), mustCoprimeRandomizer(t, tpk.N))
	require.NoError(t, err)

	pd, err := paillier.PartialDecrypt(shares[0], c)
	require.NoError(t, err)

	proof, err := zkp.ProveDecryption(shares[0], c, pd)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(tpk, c, pd))
}

func TestDecryptionProofRejectsForgedShare(t *testing.T) {
	shares, err := paillier.GenerateThresholdKeys(testBits, 3, 2, nil)
	require.NoError(t, err)

	tpk := shares[0].ThresholdPublicKey
	c, err := paillier.Encrypt(tpk.PublicKey, big.NewInt(5), mustCoprimeRandomizer(t, tpk.N))
	require.NoError(t, err)

	pd, err := paillier.PartialDecrypt(shares[0], c)
	require.NoError(t, err)
	proof, err := zkp.ProveDecryption(shares[0], c, pd)
	require.NoError(t, err)

	forged := &paillier.PartialDecryption{ID: pd.ID, Ci: new(big.Int).Add(pd.Ci, big.NewInt(1))}
	require.Error(t, proof.Verify(tpk, c, forged))
}

const zkpCompositeBits = 2048

func TestExponentConsistencyProofRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(zkpCompositeBits, nil)
	require.NoError(t, err)
	params, err := zkp.GenerateRangeRelationParams(zkpCompositeBits, signer.CurveOrder(), nil)
	require.NoError(t, err)

	eta := big.NewInt(4242)
	c2, _, err := paillier.EncryptRandom(priv.PublicKey, big.NewInt(7))
	require.NoError(t, err)
	c1, err := paillier.Multiply(priv.PublicKey, c2, eta)
	require.NoError(t, err)
	c3, r, err := paillier.EncryptRandom(priv.PublicKey, eta)
	require.NoError(t, err)

	proof, err := zkp.ProveExponentConsistency(priv.PublicKey, params, eta, r, c1, c2, c3, nil)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(priv.PublicKey, params, c1, c2, c3))
}

func TestExponentConsistencyProofRejectsMismatchedCiphertext(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(zkpCompositeBits, nil)
	require.NoError(t, err)
	params, err := zkp.GenerateRangeRelationParams(zkpCompositeBits, signer.CurveOrder(), nil)
	require.NoError(t, err)

	eta := big.NewInt(4242)
	c2, _, err := paillier.EncryptRandom(priv.PublicKey, big.NewInt(7))
	require.NoError(t, err)
	c1, err := paillier.Multiply(priv.PublicKey, c2, eta)
	require.NoError(t, err)
	c3, r, err := paillier.EncryptRandom(priv.PublicKey, eta)
	require.NoError(t, err)

	proof, err := zkp.ProveExponentConsistency(priv.PublicKey, params, eta, r, c1, c2, c3, nil)
	require.NoError(t, err)

	otherC3, _, err := paillier.EncryptRandom(priv.PublicKey, big.NewInt(1))
	require.NoError(t, err)
	require.Error(t, proof.Verify(priv.PublicKey, params, c1, c2, otherC3))
}

func TestNonceConsistencyProofRoundTrip(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(zkpCompositeBits, nil)
	require.NoError(t, err)
	q := signer.CurveOrder()
	params, err := zkp.GenerateRangeRelationParams(zkpCompositeBits, q, nil)
	require.NoError(t, err)

	eta1 := big.NewInt(555)  // nonce
	eta2 := big.NewInt(9001) // mask multiplier
	u, _, err := paillier.EncryptRandom(priv.PublicKey, big.NewInt(3))
	require.NoError(t, err)

	masked, err := paillier.Multiply(priv.PublicKey, u, eta1)
	require.NoError(t, err)
	qEta2 := new(big.Int).Mul(q, eta2)
	maskTerm, randomness, err := paillier.EncryptRandom(priv.PublicKey, qEta2)
	require.NoError(t, err)
	w, err := paillier.Add(priv.PublicKey, masked, maskTerm)
	require.NoError(t, err)

	base := signer.Generator()
	aggregate := base.ScalarMult(eta1)

	proof, err := zkp.ProveNonceConsistency(priv.PublicKey, params, eta1, eta2, randomness, u, w, base, aggregate, nil)
	require.NoError(t, err)
	require.NoError(t, proof.Verify(priv.PublicKey, params, u, w, base, aggregate))
}

func TestNonceConsistencyProofRejectsWrongAggregatePoint(t *testing.T) {
	priv, err := paillier.GenerateKeyPair(zkpCompositeBits, nil)
	require.NoError(t, err)
	q := signer.CurveOrder()
	params, err := zkp.GenerateRangeRelationParams(zkpCompositeBits, q, nil)
	require.NoError(t, err)

	eta1 := big.NewInt(555)
	eta2 := big.NewInt(9001)
	u, _, err := paillier.EncryptRandom(priv.PublicKey, big.NewInt(3))
	require.NoError(t, err)

	masked, err := paillier.Multiply(priv.PublicKey, u, eta1)
	require.NoError(t, err)
	qEta2 := new(big.Int).Mul(q, eta2)
	maskTerm, randomness, err := paillier.EncryptRandom(priv.PublicKey, qEta2)
	require.NoError(t, err)
	w, err := paillier.Add(priv.PublicKey, masked, maskTerm)
	require.NoError(t, err)

	base := signer.Generator()
	aggregate := base.ScalarMult(eta1)

	proof, err := zkp.ProveNonceConsistency(priv.PublicKey, params, eta1, eta2, randomness, u, w, base, aggregate, nil)
	require.NoError(t, err)

	wrongAggregate := base.ScalarMult(new(big.Int).Add(eta1, big.NewInt(1)))
	require.Error(t, proof.Verify(priv.PublicKey, params, u, w, base, wrongAggregate))
}

func mustCoprimeRandomizer(t *testing.T, n *big.Int) *big.Int {
	t.Helper()
	r := big.NewInt(1)
	for new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) != 0 {
		r.Add(r, big.NewInt(2))
	}
	return r
}
