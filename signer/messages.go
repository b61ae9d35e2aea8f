package signer

import (
	"math/big"

	"github.com/citp/ThresholdECDSA/commitment"
	"github.com/citp/ThresholdECDSA/l2fhe"
	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/zkp"
)

// DSASignature is a completed (r, s) ECDSA signature over secp256k1.
type DSASignature struct {
	R, S *big.Int
}

// L2FHERound1Message is the four-round signer's first broadcast: a
// multi-trapdoor commitment to the party's nonce-share point and its three
// masked L1Ciphertexts. Nothing else is revealed until round 2.
type L2FHERound1Message struct {
	Commitment *commitment.Commitment
}

// L2FHERound2Message opens the round 1 commitment and attaches the
// composite range-relation proof binding the opened values together.
type L2FHERound2Message struct {
	Open    *commitment.Open
	Zkp     *zkp.RangeRelationProof
	Aborted bool
}

// L2FHERound3Message carries a party's partial decryption of the
// round-aggregated multiplicative term z. Aborted signals that the sender
// detected a protocol violation in an earlier round and is no longer
// participating meaningfully; EtaShare is unset in that case, and
// recipients must not use it.
type L2FHERound3Message struct {
	EtaShare *l2fhe.L2PartialDecryption
	Aborted  bool
}

// L2FHERound4Message carries a party's partial decryption of the
// round-aggregated signature ciphertext sigma. Aborted signals that the
// sender detected a protocol violation in an earlier round; SigmaShare is
// unset in that case, and recipients must not use it.
type L2FHERound4Message struct {
	SigmaShare *l2fhe.L2PartialDecryption
	Aborted    bool
}

// PlainRound1Message is the six-round plain-Paillier signer's first
// broadcast: a multi-trapdoor commitment to the party's blinding-nonce
// ciphertext and its product against the encrypted ECDSA key share.
type PlainRound1Message struct {
	Commitment *commitment.Commitment
}

// PlainRound2Message opens round 1's commitment and attaches the
// exponent-consistency proof binding rho_i's ciphertext to its use as an
// exponent against the encrypted ECDSA key share. Aborted signals that the
// sender detected a protocol violation earlier; Open and Zkp are unset in
// that case, and recipients must not use them.
type PlainRound2Message struct {
	Open    *commitment.Open
	Zkp     *zkp.ExponentConsistencyProof
	Aborted bool
}

// PlainRound3Message is a multi-trapdoor commitment to the party's
// nonce-share point and its masked contribution to the aggregate product.
// Aborted signals that the sender detected a protocol violation in round 2;
// Commitment is unset in that case, and recipients must not use it.
type PlainRound3Message struct {
	Commitment *commitment.Commitment
	Aborted    bool
}

// PlainRound4Message opens round 3's commitment and attaches the
// nonce-consistency proof binding the party's nonce-share point to the
// masked ciphertext it is about to help decrypt. Aborted signals that the
// sender detected a protocol violation earlier; Open and Zkp are unset in
// that case, and recipients must not use them.
type PlainRound4Message struct {
	Open    *commitment.Open
	Zkp     *zkp.NonceConsistencyProof
	Aborted bool
}

// PlainRound5Message carries a party's partial decryption of the
// round-aggregated masked product w. Aborted signals that the sender
// detected a protocol violation earlier; Share is unset in that case, and
// recipients must not use it.
type PlainRound5Message struct {
	Share   *paillier.PartialDecryption
	Aborted bool
}

// PlainRound6Message carries a party's partial decryption of the
// round-aggregated signature ciphertext. Aborted signals that the sender
// detected a protocol violation earlier; Share is unset in that case, and
// recipients must not use it.
type PlainRound6Message struct {
	Share   *paillier.PartialDecryption
	Aborted bool
}
