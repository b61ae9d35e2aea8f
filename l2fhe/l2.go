package l2fhe

import "math/big"

// betaTerm is one (beta0, beta1) product pair of an L2Ciphertext: the sum of
// Decrypt(beta0)*Decrypt(beta1) over all terms, plus Decrypt(alpha), is the
// plaintext.
type betaTerm struct {
	Beta0, Beta1 *big.Int
}

// L2Ciphertext represents m = (Decrypt(alpha) + sum_i Decrypt(beta_i0)*Decrypt(beta_i1)) mod n,
// the result of one multiplicative level applied to two L1Ciphertexts.
type L2Ciphertext struct {
	Alpha *big.Int
	Beta  []betaTerm
}
