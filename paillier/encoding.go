package paillier

import (
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/therrors"
)

// ToByteArray encodes the public key as a single [len‖n] record wrapped in
// its own layer, per spec.md §6. Unlike the original Java source (which
// reserved but never populated a 4-byte length prefix, per spec.md §9), this
// writes an explicit layer length so the record is self-delimiting.
func (pub *PublicKey) ToByteArray() ([]byte, error) {
	inner, err := arith.AppendBigInt(nil, pub.N)
	if err != nil {
		return nil, err
	}
	return arith.AppendLayer(inner)
}

// PublicKeyFromByteArray decodes the record produced by ToByteArray.
func PublicKeyFromByteArray(b []byte, randSource io.Reader) (*PublicKey, error) {
	inner, _, err := arith.PeelLayer(b)
	if err != nil {
		return nil, err
	}
	values, _, err := arith.ReadBigInt(inner, 0, 1)
	if err != nil {
		return nil, err
	}
	return newPublicKey(values[0], randSource), nil
}

// ToByteArray encodes the private key as the public key's layer followed by
// d, then a trailing length marking where the public-key layer ends.
func (priv *PrivateKey) ToByteArray() ([]byte, error) {
	pubBytes, err := priv.PublicKey.ToByteArray()
	if err != nil {
		return nil, err
	}
	dBytes, err := arith.AppendBigInt(nil, priv.D)
	if err != nil {
		return nil, err
	}
	return arith.AppendLayer(pubBytes, dBytes)
}

// PrivateKeyFromByteArray decodes the record produced by (*PrivateKey).ToByteArray.
func PrivateKeyFromByteArray(b []byte, randSource io.Reader) (*PrivateKey, error) {
	pubBytes, rest, err := arith.PeelLayer(b)
	if err != nil {
		return nil, err
	}
	pub, err := PublicKeyFromByteArray(pubBytes, randSource)
	if err != nil {
		return nil, err
	}
	values, _, err := arith.ReadBigInt(rest, 0, 1)
	if err != nil {
		return nil, err
	}
	d := values[0]
	dInv := new(big.Int).ModInverse(d, pub.N)
	if dInv == nil {
		return nil, fmt.Errorf("paillier: decoded d not invertible mod n: %w", therrors.ErrCorruptEncoding)
	}
	return &PrivateKey{PublicKey: pub, D: d, DInv: dInv}, nil
}

// EncodeCiphertextPair encodes an L1-style ciphertext pair as [len‖a‖len‖β], matching
// the encoding spec.md §6 assigns to l2fhe.L1Ciphertext; exposed here so the
// l2fhe package can share the codec without duplicating length-prefix logic.
func EncodeCiphertextPair(a, beta *big.Int) ([]byte, error) {
	return arith.AppendBigInt(nil, a, beta)
}

// DecodeCiphertextPair reads exactly two length-prefixed big integers from b.
func DecodeCiphertextPair(b []byte) (a, beta *big.Int, err error) {
	values, _, err := arith.ReadBigInt(b, 0, 2)
	if err != nil {
		return nil, nil, err
	}
	return values[0], values[1], nil
}

// EncodeCiphertext encodes a single ciphertext scalar as [len‖c].
func EncodeCiphertext(c *big.Int) ([]byte, error) {
	return arith.AppendBigInt(nil, c)
}

// DecodeCiphertext reads a single length-prefixed big integer from b.
func DecodeCiphertext(b []byte) (*big.Int, error) {
	values, _, err := arith.ReadBigInt(b, 0, 1)
	if err != nil {
		return nil, err
	}
	return values[0], nil
}

// ToByteArray encodes a partial decryption as [id:4‖len‖Ci].
func (pd *PartialDecryption) ToByteArray() ([]byte, error) {
	buf := arith.PutUint32(uint32(pd.ID))
	return arith.AppendBigInt(buf, pd.Ci)
}

// PartialDecryptionFromByteArray decodes the record produced by
// (*PartialDecryption).ToByteArray, using the canonical unsigned id decode
// of spec.md §9 (not the original source's precedence bug).
func PartialDecryptionFromByteArray(b []byte) (*PartialDecryption, error) {
	if len(b) < 4 {
		return nil, therrors.ErrCorruptEncoding
	}
	id := arith.Uint32(b[:4])
	if id == 0 || id > 255 {
		return nil, fmt.Errorf("paillier: decoded id %d out of range: %w", id, therrors.ErrCorruptEncoding)
	}
	values, _, err := arith.ReadBigInt(b, 4, 1)
	if err != nil {
		return nil, err
	}
	return &PartialDecryption{ID: uint8(id), Ci: values[0]}, nil
}
