package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/arith"
	"github.com/citp/ThresholdECDSA/therrors"
)

// ThresholdPublicKey is the public material of a (w, l) threshold Paillier
// scheme: the base PublicKey plus l, w, Δ=l!, v, {v_i} and the derived
// combine-shares constant (4Δ²)⁻¹ mod n.
type ThresholdPublicKey struct {
	*PublicKey
	L, W            uint8
	Delta           *big.Int
	V               *big.Int
	Vi              []*big.Int
	CombineConstant *big.Int
}

// ThresholdPrivateShare is one party's share of a threshold Paillier
// private key: an id in {1..l} and s_i = f(id) mod n*m.
type ThresholdPrivateShare struct {
	*ThresholdPublicKey
	ID uint8
	Si *big.Int
}

// GenerateThresholdKeys samples a fresh (w, l) threshold Paillier key of the
// given modulus bit size and returns the l private shares (each carrying a
// pointer to the shared ThresholdPublicKey).
func GenerateThresholdKeys(bits int, l, w uint8, randSource io.Reader) ([]*ThresholdPrivateShare, error) {
	if l < 1 {
		return nil, fmt.Errorf("paillier: l must be at least 1, got %d: %w", l, therrors.ErrDomainViolation)
	}
	if w < 1 || w > l {
		return nil, fmt.Errorf("paillier: w must be in [1, l], got w=%d l=%d: %w", w, l, therrors.ErrDomainViolation)
	}
	if 2*int(w)-1 > int(l) {
		return nil, fmt.Errorf("paillier: need 2w-1 <= l for unambiguous reconstruction (w=%d, l=%d): %w", w, l, therrors.ErrDomainViolation)
	}
	if randSource == nil {
		randSource = rand.Reader
	}

	pPrimeBits := bits / 2
	qPrimeBits := bits - pPrimeBits

	var p, pPrime, q, qPrime *big.Int
	var err error
	for {
		p, pPrime, err = arith.SafePrimePair(pPrimeBits, randSource)
		if err != nil {
			return nil, err
		}
		q, qPrime, err = arith.SafePrimePair(qPrimeBits, randSource)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) != 0 && p.Cmp(qPrime) != 0 && q.Cmp(pPrime) != 0 && pPrime.Cmp(qPrime) != 0 {
			break
		}
	}

	n := new(big.Int).Mul(p, q)
	m := new(big.Int).Mul(pPrime, qPrime)
	nm := new(big.Int).Mul(n, m)

	mInv := new(big.Int).ModInverse(m, n)
	if mInv == nil {
		return nil, fmt.Errorf("paillier: m not invertible mod n: %w", therrors.ErrDomainViolation)
	}
	d := new(big.Int).Mul(m, mInv)
	d.Mod(d, nm)

	poly, err := newRandomPolynomial(int(w)-1, d, nm, randSource)
	if err != nil {
		return nil, err
	}

	pub := newPublicKey(n, randSource)

	// Sample v as a square in Z_{n²}* using the Shoup heuristic: a random r
	// coprime to n of up to four times the modulus bit length, squared mod n².
	var v *big.Int
	for {
		r, err := arith.RandomInt(4*n.BitLen(), randSource)
		if err != nil {
			return nil, err
		}
		gcd := new(big.Int).GCD(nil, nil, r, n)
		if gcd.Cmp(one) == 0 {
			v = new(big.Int).Exp(r, two, pub.NSquared)
			break
		}
	}

	delta := new(big.Int).MulRange(1, int64(l))
	deltaSquared := new(big.Int).Mul(delta, delta)
	combineConstant := new(big.Int).Mul(big.NewInt(4), deltaSquared)
	combineConstant.ModInverse(combineConstant, n)

	tpk := &ThresholdPublicKey{
		PublicKey:       pub,
		L:               l,
		W:               w,
		Delta:           delta,
		V:               v,
		Vi:              make([]*big.Int, l),
		CombineConstant: combineConstant,
	}

	shares := make([]*ThresholdPrivateShare, l)
	for i := uint8(0); i < l; i++ {
		id := i + 1
		si := poly.eval(big.NewInt(int64(id)))
		si.Mod(si, nm)
		deltaSi := new(big.Int).Mul(si, delta)
		tpk.Vi[i] = new(big.Int).Exp(v, deltaSi, pub.NSquared)
		shares[i] = &ThresholdPrivateShare{
			ThresholdPublicKey: tpk,
			ID:                 id,
			Si:                 si,
		}
	}
	return shares, nil
}
