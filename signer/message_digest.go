package signer

import "math/big"

// calculateMPrime truncates message's leading bits to bitlen(q), the
// standard ECDSA convention for reducing an arbitrary-length hash to a
// group-order-sized exponent. When message is already shorter than q it is
// used verbatim.
func calculateMPrime(q *big.Int, message []byte) *big.Int {
	m := new(big.Int).SetBytes(message)
	messageBits := len(message) * 8
	qBits := q.BitLen()
	if qBits > messageBits {
		return m
	}
	if shift := messageBits - qBits; shift > 0 {
		m.Rsh(m, uint(shift))
	}
	return m
}
