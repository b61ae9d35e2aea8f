package zkp

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
)

// RangeRelationProof is the composite Fiat–Shamir proof the four-round
// threshold-ECDSA signer attaches to round 2 (spec.md §5): it binds a curve
// point (the prover's share of the signature nonce commitment) to three
// Paillier ciphertexts, proving in one shot that the point is g^eta1 and
// that each ciphertext encrypts the matching eta under the randomness the
// prover claims to have used, all range-bounded via the ñ,h1,h2 commitments.
type RangeRelationProof struct {
	U1             Point
	U2, U3, U4     *big.Int
	V1, V2, V3     *big.Int
	Z1, Z2, Z3     *big.Int
	S1, S3, S4, S5 *big.Int
	S6, S7         *big.Int
	T1, T2, T3     *big.Int
	E              *big.Int
}

// ProveRangeRelation proves knowledge of eta1, eta2, eta3 such that
// aggregate = base.ScalarMult(eta1), and w1, w2, w3 are Paillier
// encryptions of eta1, eta2, eta3 under randomness1, randomness2,
// randomness3 respectively. w1FHE/w2FHE/w3FHE supply the L2FHE masking
// fields folded into the transcript so the proof also binds to the exact
// L1 ciphertexts the peer will later see.
func ProveRangeRelation(
	pub *paillier.PublicKey, params *RangeRelationParams,
	eta1, eta2, eta3 *big.Int,
	base, aggregate Point,
	w1FHE, w2FHE, w3FHE L1Transcript,
	w1, w2, w3, randomness1, randomness2, randomness3 *big.Int,
	randSource io.Reader,
) (*RangeRelationProof, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	q := params.Q
	nTilde := params.NTilde
	n := pub.N
	nSquared := pub.NSquared
	g := pub.G

	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	q7 := new(big.Int).Exp(q, big.NewInt(7), nil)
	q5 := new(big.Int).Exp(q, big.NewInt(5), nil)

	alpha1, err := randBelow(q3, randSource)
	if err != nil {
		return nil, err
	}
	alpha2, err := randBelow(q3, randSource)
	if err != nil {
		return nil, err
	}
	alpha3, err := randBelow(q7, randSource)
	if err != nil {
		return nil, err
	}

	beta1, err := randomModNStarPlain(n, randSource)
	if err != nil {
		return nil, err
	}
	beta2, err := randomModNStarPlain(n, randSource)
	if err != nil {
		return nil, err
	}
	beta3, err := randomModNStarPlain(n, randSource)
	if err != nil {
		return nil, err
	}

	gamma1, err := randBelow(new(big.Int).Mul(q3, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	gamma2, err := randBelow(new(big.Int).Mul(q3, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	gamma3, err := randBelow(new(big.Int).Mul(q7, nTilde), randSource)
	if err != nil {
		return nil, err
	}

	rho1, err := randBelow(new(big.Int).Mul(q, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	rho2, err := randBelow(new(big.Int).Mul(q, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	rho3, err := randBelow(new(big.Int).Mul(q5, nTilde), randSource)
	if err != nil {
		return nil, err
	}

	z1 := commit(params.H1, eta1, params.H2, rho1, nTilde)
	z2 := commit(params.H1, eta2, params.H2, rho2, nTilde)
	z3 := commit(params.H1, eta3, params.H2, rho3, nTilde)

	u1 := base.ScalarMult(alpha1)
	u2 := commit(g, alpha1, beta1, n, nSquared)
	u3 := commit(g, alpha2, beta2, n, nSquared)
	u4 := commit(g, alpha3, beta3, n, nSquared)

	v1 := commit(params.H1, alpha1, params.H2, gamma1, nTilde)
	v2 := commit(params.H1, alpha2, params.H2, gamma2, nTilde)
	v3 := commit(params.H1, alpha3, params.H2, gamma3, nTilde)

	e := transcriptHash(base, aggregate, w1FHE, w2FHE, w3FHE, z1, new(big.Int).SetBytes(u1.Bytes()), u2, u3, u4, v1, v2, v3)

	s1 := new(big.Int).Add(new(big.Int).Mul(e, eta1), alpha1)
	t1 := new(big.Int).Mod(new(big.Int).Mul(new(big.Int).Exp(randomness1, e, n), beta1), n)
	t2 := new(big.Int).Mod(new(big.Int).Mul(new(big.Int).Exp(randomness2, e, n), beta2), n)
	t3 := new(big.Int).Mod(new(big.Int).Mul(new(big.Int).Exp(randomness3, e, n), beta3), n)

	s3 := new(big.Int).Add(new(big.Int).Mul(e, rho1), gamma1)
	s4 := new(big.Int).Add(new(big.Int).Mul(e, eta2), alpha2)
	s5 := new(big.Int).Add(new(big.Int).Mul(e, rho2), gamma2)
	s6 := new(big.Int).Add(new(big.Int).Mul(e, eta3), alpha3)
	s7 := new(big.Int).Add(new(big.Int).Mul(e, rho3), gamma3)

	return &RangeRelationProof{
		U1: u1, U2: u2, U3: u3, U4: u4,
		V1: v1, V2: v2, V3: v3,
		Z1: z1, Z2: z2, Z3: z3,
		S1: s1, S3: s3, S4: s4, S5: s5, S6: s6, S7: s7,
		T1: t1, T2: t2, T3: t3,
		E: e,
	}, nil
}

// Verify runs all eight verification equations. Per spec.md §5 they run
// concurrently and every one runs to completion before Verify inspects the
// results, so a verifier's timing does not leak which check (if any) failed.
func (p *RangeRelationProof) Verify(
	pub *paillier.PublicKey, params *RangeRelationParams,
	base, aggregate Point,
	w1FHE, w2FHE, w3FHE L1Transcript,
	w1, w2, w3 *big.Int,
) error {
	n := pub.N
	nSquared := pub.NSquared
	nTilde := params.NTilde
	h1, h2 := params.H1, params.H2
	g := pub.G
	negE := new(big.Int).Neg(p.E)

	checks := []func() bool{
		func() bool {
			u1Expected := base.ScalarMult(p.S1).Add(aggregate.ScalarMult(negE))
			return p.U1.Equal(u1Expected)
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(g, p.S1, nSquared), new(big.Int).Exp(p.T1, n, nSquared))
			lhs.Mul(lhs, new(big.Int).Exp(w1, negE, nSquared))
			lhs.Mod(lhs, nSquared)
			return p.U2.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(g, p.S4, nSquared), new(big.Int).Exp(p.T2, n, nSquared))
			lhs.Mul(lhs, new(big.Int).Exp(w2, negE, nSquared))
			lhs.Mod(lhs, nSquared)
			return p.U3.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(g, p.S6, nSquared), new(big.Int).Exp(p.T3, n, nSquared))
			lhs.Mul(lhs, new(big.Int).Exp(w3, negE, nSquared))
			lhs.Mod(lhs, nSquared)
			return p.U4.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(h1, p.S1, nTilde), new(big.Int).Exp(h2, p.S3, nTilde))
			lhs.Mul(lhs, new(big.Int).Exp(p.Z1, negE, nTilde))
			lhs.Mod(lhs, nTilde)
			return p.V1.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(h1, p.S4, nTilde), new(big.Int).Exp(h2, p.S5, nTilde))
			lhs.Mul(lhs, new(big.Int).Exp(p.Z2, negE, nTilde))
			lhs.Mod(lhs, nTilde)
			return p.V2.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(h1, p.S6, nTilde), new(big.Int).Exp(h2, p.S7, nTilde))
			lhs.Mul(lhs, new(big.Int).Exp(p.Z3, negE, nTilde))
			lhs.Mod(lhs, nTilde)
			return p.V3.Cmp(lhs) == 0
		},
		func() bool {
			eRecovered := transcriptHash(base, aggregate, w1FHE, w2FHE, w3FHE, p.Z1, new(big.Int).SetBytes(p.U1.Bytes()), p.U2, p.U3, p.U4, p.V1, p.V2, p.V3)
			return eRecovered.Cmp(p.E) == 0
		},
	}

	return runChecksConcurrently(checks)
}

func commit(base1 *big.Int, exp1 *big.Int, base2 *big.Int, exp2 *big.Int, modulus *big.Int) *big.Int {
	a := new(big.Int).Exp(base1, exp1, modulus)
	b := new(big.Int).Exp(base2, exp2, modulus)
	a.Mul(a, b)
	a.Mod(a, modulus)
	return a
}

func randBelow(limit *big.Int, randSource io.Reader) (*big.Int, error) {
	return rand.Int(randSource, limit)
}

func transcriptHash(base, aggregate Point, w1, w2, w3 L1Transcript, tail ...*big.Int) *big.Int {
	elements := make([]*big.Int, 0, 8+len(tail))
	appendPoint := func(pt Point) {
		elements = append(elements, new(big.Int).SetBytes(pt.Bytes()))
	}
	appendL1 := func(l L1Transcript) {
		a, beta := l.TranscriptFields()
		elements = append(elements, a, beta)
	}
	appendPoint(base)
	appendPoint(aggregate)
	appendL1(w1)
	appendL1(w2)
	appendL1(w3)
	elements = append(elements, tail...)
	return fiatShamir(elements...)
}
