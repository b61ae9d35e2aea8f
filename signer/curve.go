// Package signer implements the interactive threshold-ECDSA signing
// protocols over secp256k1: the four-round L2FHE-based protocol (C8) and
// the six-round plain-threshold-Paillier protocol it was derived from,
// grounded on PlayerSigner.java under l2fheBased and ACNS respectively.
package signer

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/citp/ThresholdECDSA/zkp"
)

// curveOrder is secp256k1's group order q, the well-known public constant
// used to reduce nonces and nonce-derived exponents.
var curveOrder, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// CurveOrder returns secp256k1's group order.
func CurveOrder() *big.Int {
	return new(big.Int).Set(curveOrder)
}

// Point wraps a secp256k1 Jacobian point and implements zkp.Point.
type Point struct {
	p secp256k1.JacobianPoint
}

// Generator returns secp256k1's base point.
func Generator() *Point {
	return ScalarBaseMult(one)
}

var one = big.NewInt(1)

// ScalarBaseMult returns k*G for the curve's base point G.
func ScalarBaseMult(k *big.Int) *Point {
	s := scalarFromBigInt(k)
	var result secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(s, &result)
	return &Point{p: result}
}

// ScalarMult returns k*p, satisfying zkp.Point.
func (p *Point) ScalarMult(k *big.Int) zkp.Point {
	s := scalarFromBigInt(k)
	base := p.p
	var result secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(s, &base, &result)
	return &Point{p: result}
}

// Add returns p+other, satisfying zkp.Point.
func (p *Point) Add(other zkp.Point) zkp.Point {
	o := other.(*Point)
	a, b := p.p, o.p
	var result secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a, &b, &result)
	return &Point{p: result}
}

// Equal reports whether p and other are the same curve point.
func (p *Point) Equal(other zkp.Point) bool {
	o := other.(*Point)
	a, b := p.p, o.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// Bytes returns p's SEC1 compressed encoding.
func (p *Point) Bytes() []byte {
	a := p.p
	a.ToAffine()
	out := make([]byte, 33)
	if a.Y.IsOdd() {
		out[0] = 3
	} else {
		out[0] = 2
	}
	xBytes := a.X.Bytes()
	copy(out[1:], xBytes[:])
	return out
}

// X returns p's affine x-coordinate as a non-negative integer less than the
// field prime, the value the signing protocol reduces mod curveOrder to
// obtain the signature's r component.
func (p *Point) X() *big.Int {
	a := p.p
	a.ToAffine()
	xBytes := a.X.Bytes()
	return new(big.Int).SetBytes(xBytes[:])
}

// PointFromBytes parses a SEC1 compressed point, the encoding a peer's
// opened commitment secret carries for its nonce-share point.
func PointFromBytes(b []byte) (*Point, error) {
	if len(b) != 33 {
		return nil, fmt.Errorf("signer: compressed point must be 33 bytes, got %d", len(b))
	}
	format := b[0]
	if format != 2 && format != 3 {
		return nil, fmt.Errorf("signer: invalid compressed point format byte 0x%02x", format)
	}

	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(b[1:33]); overflow {
		return nil, fmt.Errorf("signer: invalid point: x >= field prime")
	}
	wantOddY := format == 3
	if !secp256k1.DecompressY(&x, wantOddY, &y) {
		return nil, fmt.Errorf("signer: invalid point: x coordinate is not on secp256k1")
	}
	y.Normalize()

	var j secp256k1.JacobianPoint
	j.X.Set(&x)
	j.Y.Set(&y)
	j.Z.SetInt(1)
	return &Point{p: j}, nil
}

// PointFromBigInt parses a point previously folded into a commitment secret
// via new(big.Int).SetBytes(point.Bytes()).
func PointFromBigInt(v *big.Int) (*Point, error) {
	b := v.Bytes()
	return PointFromBytes(b)
}

func scalarFromBigInt(k *big.Int) *secp256k1.ModNScalar {
	reduced := new(big.Int).Mod(k, curveOrder)
	var buf [32]byte
	reduced.FillBytes(buf[:])
	s := new(secp256k1.ModNScalar)
	s.SetBytes(&buf)
	return s
}
