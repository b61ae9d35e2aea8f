package zkp

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/citp/ThresholdECDSA/paillier"
)

// NonceConsistencyProof attests that the prover knows eta1 (a nonce) and
// eta2 (a mask multiplier) such that aggregate = base.ScalarMult(eta1) and
// w = paillier.Add(pub, paillier.Multiply(pub, u, eta1), paillier.Encrypt(pub,
// q*eta2, randomness)), range-bounding both secrets via ñ,h1,h2. This is the
// plain six-round signer's round 4 relation, binding its curve-point nonce
// commitment to the masked Paillier value opened alongside it, which the
// parties partially decrypt in round 5.
type NonceConsistencyProof struct {
	U1         Point
	U2, U3     *big.Int
	Z1, Z2     *big.Int
	S1, S2     *big.Int
	T1, T2, T3 *big.Int
	V1, V3     *big.Int
	E          *big.Int
}

// ProveNonceConsistency builds a NonceConsistencyProof. u is the aggregate
// encryption of the round's blinding nonce sum, w is the masked ciphertext
// paillier.Add(paillier.Multiply(pub, u, eta1), paillier.Encrypt(pub,
// q*eta2, randomness)) the prover is about to publish, and base/aggregate
// are the curve generator and the prover's nonce commitment point
// aggregate = base.ScalarMult(eta1). w only ever enters the Fiat-Shamir
// transcript; it plays no other role in the algebra.
func ProveNonceConsistency(
	pub *paillier.PublicKey, params *RangeRelationParams,
	eta1, eta2, randomness, u, w *big.Int,
	base, aggregate Point,
	randSource io.Reader,
) (*NonceConsistencyProof, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	q := params.Q
	nTilde := params.NTilde
	h1, h2 := params.H1, params.H2
	n := pub.N
	nSquared := pub.NSquared
	g := pub.G

	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	q8 := new(big.Int).Exp(q, big.NewInt(8), nil)

	alpha, err := randBelow(q3, randSource)
	if err != nil {
		return nil, err
	}
	beta, err := randomModNStarPlain(n, randSource)
	if err != nil {
		return nil, err
	}
	gamma, err := randBelow(new(big.Int).Mul(q3, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	theta, err := randBelow(q8, randSource)
	if err != nil {
		return nil, err
	}
	mu, err := randomModNStarPlain(n, randSource)
	if err != nil {
		return nil, err
	}
	tau, err := randBelow(new(big.Int).Mul(q8, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	rho1, err := randBelow(new(big.Int).Mul(q, nTilde), randSource)
	if err != nil {
		return nil, err
	}
	q6 := new(big.Int).Exp(q, big.NewInt(6), nil)
	rho2, err := randBelow(new(big.Int).Mul(q6, nTilde), randSource)
	if err != nil {
		return nil, err
	}

	z1 := commit(h1, eta1, h2, rho1, nTilde)
	z2 := commit(h1, eta2, h2, rho2, nTilde)
	u1 := base.ScalarMult(alpha)
	u2 := commit(g, alpha, beta, n, nSquared)
	u3 := commit(h1, alpha, h2, gamma, nTilde)

	qTheta := new(big.Int).Mul(q, theta)
	v1 := new(big.Int).Mul(new(big.Int).Exp(u, alpha, nSquared), new(big.Int).Exp(g, qTheta, nSquared))
	v1.Mul(v1, new(big.Int).Exp(mu, n, nSquared))
	v1.Mod(v1, nSquared)
	v3 := commit(h1, theta, h2, tau, nTilde)

	e := nonceTranscriptHash(base, u1, w, u, z1, z2, u2, u3, v1, v3)

	s1 := new(big.Int).Add(new(big.Int).Mul(e, eta1), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho1), gamma)
	t1 := new(big.Int).Mod(new(big.Int).Mul(new(big.Int).Exp(randomness, e, n), mu), n)
	t2 := new(big.Int).Add(new(big.Int).Mul(e, eta2), theta)
	t3 := new(big.Int).Add(new(big.Int).Mul(e, rho2), tau)

	return &NonceConsistencyProof{
		U1: u1, U2: u2, U3: u3,
		Z1: z1, Z2: z2,
		S1: s1, S2: s2,
		T1: t1, T2: t2, T3: t3,
		V1: v1, V3: v3,
		E: e,
	}, nil
}

// Verify checks the proof against the claimed u and w, running the five
// checks concurrently.
func (p *NonceConsistencyProof) Verify(
	pub *paillier.PublicKey, params *RangeRelationParams,
	u, w *big.Int, base, aggregate Point,
) error {
	n := pub.N
	nSquared := pub.NSquared
	nTilde := params.NTilde
	h1, h2 := params.H1, params.H2
	g := pub.G
	q := params.Q
	negE := new(big.Int).Neg(p.E)

	checks := []func() bool{
		func() bool {
			u1Expected := base.ScalarMult(p.S1).Add(aggregate.ScalarMult(negE))
			return p.U1.Equal(u1Expected)
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(h1, p.S1, nTilde), new(big.Int).Exp(h2, p.S2, nTilde))
			lhs.Mul(lhs, new(big.Int).Exp(p.Z1, negE, nTilde))
			lhs.Mod(lhs, nTilde)
			return p.U3.Cmp(lhs) == 0
		},
		func() bool {
			qT2 := new(big.Int).Mul(q, p.T2)
			lhs := new(big.Int).Mul(new(big.Int).Exp(u, p.S1, nSquared), new(big.Int).Exp(g, qT2, nSquared))
			lhs.Mul(lhs, new(big.Int).Exp(p.T1, n, nSquared))
			lhs.Mul(lhs, new(big.Int).Exp(w, negE, nSquared))
			lhs.Mod(lhs, nSquared)
			return p.V1.Cmp(lhs) == 0
		},
		func() bool {
			lhs := new(big.Int).Mul(new(big.Int).Exp(h1, p.T2, nTilde), new(big.Int).Exp(h2, p.T3, nTilde))
			lhs.Mul(lhs, new(big.Int).Exp(p.Z2, negE, nTilde))
			lhs.Mod(lhs, nTilde)
			return p.V3.Cmp(lhs) == 0
		},
		func() bool {
			eRecovered := nonceTranscriptHash(base, p.U1, w, u, p.Z1, p.Z2, p.U2, p.U3, p.V1, p.V3)
			return eRecovered.Cmp(p.E) == 0
		},
	}
	return runChecksConcurrently(checks)
}

// nonceTranscriptHash folds the curve generator, the prover's per-round
// curve-point commitment, and the round's public ciphertexts into a single
// Fiat-Shamir challenge, mirroring Zkp_i2's sha256Hash(c, w, u, ...) digest.
func nonceTranscriptHash(base, u1 Point, w, u *big.Int, tail ...*big.Int) *big.Int {
	elements := make([]*big.Int, 0, 4+len(tail))
	elements = append(elements,
		new(big.Int).SetBytes(base.Bytes()),
		w, u,
		new(big.Int).SetBytes(u1.Bytes()),
	)
	elements = append(elements, tail...)
	return fiatShamir(elements...)
}
