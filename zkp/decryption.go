package zkp

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
	"github.com/citp/ThresholdECDSA/therrors"
)

// DecryptionProof attests that a PartialDecryption was computed with the
// share's own Si, by proving equality of the discrete logs of Ci² to base
// C^4 and of Vi to base V — both equal to Delta*Si.
type DecryptionProof struct {
	Vi, V, E, Z *big.Int
}

// ProveDecryption builds a DecryptionProof for the partial decryption pd
// that share produced from ciphertext c.
func ProveDecryption(share *paillier.ThresholdPrivateShare, c *big.Int, pd *paillier.PartialDecryption) (*DecryptionProof, error) {
	if !share.IsCiphertext(c) {
		return nil, fmt.Errorf("zkp: ciphertext out of [0, n²): %w", therrors.ErrDomainViolation)
	}
	nSquared := share.NSquared

	// Sample r with enough slack over n² and the hash output that the
	// statistical distance to uniform stays negligible once masked by e*Si*Delta.
	numBits := 2*share.K + sha256.Size*8 + 128
	r, err := randomBits(numBits, share.RandSource)
	if err != nil {
		return nil, err
	}

	cTo4 := new(big.Int).Exp(c, big.NewInt(4), nSquared)
	vi := share.Vi[share.ID-1]

	a := new(big.Int).Exp(cTo4, r, nSquared)
	b := new(big.Int).Exp(share.V, r, nSquared)
	ciTo2 := new(big.Int).Exp(pd.Ci, two, nSquared)

	e := fiatShamir(a, b, cTo4, ciTo2)

	eSiDelta := new(big.Int).Mul(share.Si, e)
	eSiDelta.Mul(eSiDelta, share.Delta)
	z := new(big.Int).Add(eSiDelta, r)

	return &DecryptionProof{Vi: vi, V: share.V, E: e, Z: z}, nil
}

// Verify checks the proof against the public ciphertext c and the claimed
// partial decryption pd, using pub's modulus.
func (p *DecryptionProof) Verify(pub *paillier.ThresholdPublicKey, c *big.Int, pd *paillier.PartialDecryption) error {
	nSquared := pub.NSquared

	cTo4 := new(big.Int).Exp(c, big.NewInt(4), nSquared)
	cTo4z := new(big.Int).Exp(cTo4, p.Z, nSquared)
	ciTo2 := new(big.Int).Exp(pd.Ci, two, nSquared)
	ciToMinus2E := new(big.Int).Exp(ciTo2, new(big.Int).Neg(p.E), nSquared)
	a := new(big.Int).Mul(cTo4z, ciToMinus2E)
	a.Mod(a, nSquared)

	vToZ := new(big.Int).Exp(p.V, p.Z, nSquared)
	viToMinusE := new(big.Int).Exp(p.Vi, new(big.Int).Neg(p.E), nSquared)
	b := new(big.Int).Mul(vToZ, viToMinusE)
	b.Mod(b, nSquared)

	e := fiatShamir(a, b, cTo4, ciTo2)
	if e.Cmp(p.E) != 0 {
		return fmt.Errorf("zkp: decryption proof rejected: %w", therrors.ErrProofFailure)
	}
	return nil
}
