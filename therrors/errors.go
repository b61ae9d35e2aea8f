// Package therrors collects the typed error taxonomy shared by the
// Paillier, ZKP, L2FHE, commitment and signer packages (package arith
// defines its own codec errors). Callers
// use errors.Is against these sentinels; the wrapping fmt.Errorf calls at
// the call site carry the human-readable detail.
package therrors

import "errors"

var (
	// ErrDomainViolation marks an argument outside its required algebraic
	// set: a plaintext >= n, a ciphertext >= n^2, a randomizer not coprime
	// to n, a curve point not on the curve.
	ErrDomainViolation = errors.New("value outside its required algebraic domain")

	// ErrKeyMismatch marks a proof or share referencing a modulus or
	// verification key that does not match the currently held public key.
	ErrKeyMismatch = errors.New("proof or share does not match the held public key")

	// ErrInsufficientShares marks a combine call with fewer than the
	// threshold number of partial decryptions.
	ErrInsufficientShares = errors.New("not enough shares to reconstruct")

	// ErrDuplicateShare marks a combine call where two inputs share an id.
	ErrDuplicateShare = errors.New("duplicate share id")

	// ErrProofFailure marks a zero-knowledge proof that failed
	// verification; the caller decides whether to retry or abort.
	ErrProofFailure = errors.New("zero-knowledge proof verification failed")

	// ErrProtocolAbort is the accumulated signal that a signing party must
	// yield no signature because some earlier check failed.
	ErrProtocolAbort = errors.New("signing protocol aborted")

	// ErrCorruptEncoding marks a serialized value (key file field, encoded
	// share, etc.) that is malformed, truncated, or otherwise fails to
	// parse back into its algebraic domain.
	ErrCorruptEncoding = errors.New("corrupt or malformed encoding")
)
