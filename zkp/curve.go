package zkp

import "math/big"

// Point is the minimal elliptic-curve group interface the range-relation
// proof needs. The signer package supplies a secp256k1 implementation;
// nothing in this package depends on a concrete curve.
type Point interface {
	Add(Point) Point
	ScalarMult(k *big.Int) Point
	Equal(Point) bool
	Bytes() []byte
}

// L1Transcript exposes the two field elements of an L2FHE level-1
// ciphertext that the range-relation proof folds into its Fiat–Shamir
// transcript, without this package importing the l2fhe package itself.
type L1Transcript interface {
	TranscriptFields() (a, beta *big.Int)
}
