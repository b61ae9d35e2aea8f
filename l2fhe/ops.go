package l2fhe

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
)

// AddL1 homomorphically adds two L1 ciphertexts: masks add mod n, Paillier
// ciphertexts add homomorphically.
func AddL1(pub *paillier.PublicKey, c1, c2 L1Ciphertext) (L1Ciphertext, error) {
	a := new(big.Int).Add(c1.A, c2.A)
	a.Mod(a, pub.N)
	beta, err := paillier.Add(pub, c1.Beta, c2.Beta)
	if err != nil {
		return L1Ciphertext{}, err
	}
	return L1Ciphertext{A: a, Beta: beta}, nil
}

// AddL2 homomorphically adds two L2 ciphertexts by adding their alphas and
// concatenating their beta-term lists.
func AddL2(pub *paillier.PublicKey, c1, c2 L2Ciphertext) (L2Ciphertext, error) {
	alpha, err := paillier.Add(pub, c1.Alpha, c2.Alpha)
	if err != nil {
		return L2Ciphertext{}, err
	}
	beta := make([]betaTerm, 0, len(c1.Beta)+len(c2.Beta))
	beta = append(beta, c1.Beta...)
	beta = append(beta, c2.Beta...)
	return L2Ciphertext{Alpha: alpha, Beta: beta}, nil
}

// AddL1L2 adds an L1 ciphertext into an L2 ciphertext by lifting c1 through
// Mult against a fixed-randomness encryption of 1, matching the original
// source's add(L1Ciphertext, L2Ciphertext).
func AddL1L2(pub *paillier.PublicKey, c1 L1Ciphertext, c2 L2Ciphertext) (L2Ciphertext, error) {
	one, err := FixedRandomnessEncrypt(pub, big.NewInt(1))
	if err != nil {
		return L2Ciphertext{}, err
	}
	lifted, err := Mult(pub, c1, one)
	if err != nil {
		return L2Ciphertext{}, err
	}
	return AddL2(pub, lifted, c2)
}

// Mult computes the unique multiplicative level this scheme supports:
// (a1+b1)*(a2+b2) = a1*a2 + b1*a2 + b2*a1 + b1*b2, where a1*a2 is folded
// into a single fixed-randomness-encrypted alpha term and b1*b2 survives as
// the one beta-term pair carried by the L2Ciphertext.
func Mult(pub *paillier.PublicKey, c1, c2 L1Ciphertext) (L2Ciphertext, error) {
	crossA1A2 := new(big.Int).Mul(c1.A, c2.A)
	crossA1A2.Mod(crossA1A2, pub.N)
	encA1A2, err := encryptOne(pub, crossA1A2)
	if err != nil {
		return L2Ciphertext{}, err
	}
	beta2TimesA1, err := paillier.Multiply(pub, c2.Beta, c1.A)
	if err != nil {
		return L2Ciphertext{}, err
	}
	beta1TimesA2, err := paillier.Multiply(pub, c1.Beta, c2.A)
	if err != nil {
		return L2Ciphertext{}, err
	}
	alpha, err := paillier.Add(pub, encA1A2, beta2TimesA1, beta1TimesA2)
	if err != nil {
		return L2Ciphertext{}, err
	}
	return L2Ciphertext{Alpha: alpha, Beta: []betaTerm{{Beta0: c1.Beta, Beta1: c2.Beta}}}, nil
}

// CMultL1 scales an L1 ciphertext by a public scalar k.
func CMultL1(pub *paillier.PublicKey, c L1Ciphertext, k *big.Int) (L1Ciphertext, error) {
	a := new(big.Int).Mul(c.A, k)
	a.Mod(a, pub.N)
	beta, err := paillier.Multiply(pub, c.Beta, k)
	if err != nil {
		return L1Ciphertext{}, err
	}
	return L1Ciphertext{A: a, Beta: beta}, nil
}

// CMultL2 scales an L2 ciphertext by a public scalar k. Only the first
// element of each beta pair is scaled, since Decrypt(beta0*k)*Decrypt(beta1) ==
// k*Decrypt(beta0)*Decrypt(beta1).
func CMultL2(pub *paillier.PublicKey, c L2Ciphertext, k *big.Int) (L2Ciphertext, error) {
	alpha, err := paillier.Multiply(pub, c.Alpha, k)
	if err != nil {
		return L2Ciphertext{}, err
	}
	beta := make([]betaTerm, len(c.Beta))
	for i, term := range c.Beta {
		scaled, err := paillier.Multiply(pub, term.Beta0, k)
		if err != nil {
			return L2Ciphertext{}, err
		}
		beta[i] = betaTerm{Beta0: scaled, Beta1: term.Beta1}
	}
	return L2Ciphertext{Alpha: alpha, Beta: beta}, nil
}

// Decrypt1 recovers the plaintext behind an L1 ciphertext using a
// non-threshold private key.
func Decrypt1(priv *paillier.PrivateKey, c L1Ciphertext) (*big.Int, error) {
	b, err := paillier.Decrypt(priv, c.Beta)
	if err != nil {
		return nil, err
	}
	m := new(big.Int).Add(c.A, b)
	m.Mod(m, priv.N)
	return m, nil
}

// Decrypt2 recovers the plaintext behind an L2 ciphertext using a
// non-threshold private key.
func Decrypt2(priv *paillier.PrivateKey, c L2Ciphertext) (*big.Int, error) {
	message, err := paillier.Decrypt(priv, c.Alpha)
	if err != nil {
		return nil, err
	}
	for _, term := range c.Beta {
		d0, err := paillier.Decrypt(priv, term.Beta0)
		if err != nil {
			return nil, err
		}
		d1, err := paillier.Decrypt(priv, term.Beta1)
		if err != nil {
			return nil, err
		}
		message.Add(message, new(big.Int).Mul(d0, d1))
	}
	message.Mod(message, priv.N)
	return message, nil
}

// RerandomizeL1 refreshes the mask and the Paillier randomizer of c while
// preserving its plaintext.
func RerandomizeL1(pub *paillier.PublicKey, c L1Ciphertext, randSource io.Reader) (L1Ciphertext, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	b, err := rand.Int(randSource, pub.N)
	if err != nil {
		return L1Ciphertext{}, err
	}
	encB, _, err := paillier.EncryptRandom(pub, b)
	if err != nil {
		return L1Ciphertext{}, err
	}
	beta, err := paillier.Add(pub, encB, c.Beta)
	if err != nil {
		return L1Ciphertext{}, err
	}
	a := new(big.Int).Sub(c.A, b)
	a.Mod(a, pub.N)
	return L1Ciphertext{A: a, Beta: beta}, nil
}

// FixedRandomnessEncrypt builds an L1Ciphertext for m using mask b=1 and the
// fixed Paillier randomizer r=1 for beta, matching the original source's
// fixedRandomnessEncrypt: the mask a = m-1 is in the clear and only the
// constant 1 is Paillier-encrypted. AddL1L2 uses it to lift an L1
// ciphertext into Mult, and the L2FHE signer uses it for the public message
// digest.
func FixedRandomnessEncrypt(pub *paillier.PublicKey, m *big.Int) (L1Ciphertext, error) {
	a := new(big.Int).Sub(m, one)
	a.Mod(a, pub.N)
	beta, err := encryptOne(pub, one)
	if err != nil {
		return L1Ciphertext{}, err
	}
	return L1Ciphertext{A: a, Beta: beta}, nil
}
