package l2fhe

import "github.com/citp/ThresholdECDSA/paillier"

// ToByteArray encodes c as [len‖a‖len‖beta], per spec.md §6.
func (c L1Ciphertext) ToByteArray() ([]byte, error) {
	return paillier.EncodeCiphertextPair(c.A, c.Beta)
}

// L1CiphertextFromByteArray decodes the record produced by
// (L1Ciphertext).ToByteArray.
func L1CiphertextFromByteArray(b []byte) (L1Ciphertext, error) {
	a, beta, err := paillier.DecodeCiphertextPair(b)
	if err != nil {
		return L1Ciphertext{}, err
	}
	return L1Ciphertext{A: a, Beta: beta}, nil
}
