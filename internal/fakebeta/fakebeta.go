// Package fakebeta derives the side-chain-centroid (SCC, "J") distance
// matrices from the current Cα distance matrix by pure collinearity
// algebra: no separate coordinates are ever held for J points (spec.md
// §4.5).
package fakebeta

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/polymer"
)

// Position computes interior residue i's side-chain-centroid point
// directly in Euclidean space: J_i sits on the ray from H_i through
// Cα_i, on the far side of Cα_i, at the residue's prescribed |Cα-SCC|
// distance. Euclidean-space consumers (accessibility, side-chain
// decoration) use this instead of the Ab/Bb distance-space matrices.
func Position(chain *polymer.Chain, x *coordset.CoordSet, i int) [3]float64 {
	ca := vec3(x, i)
	if chain.IsTerminal(i) {
		return ca
	}
	res, ok := chain.Residue(i)
	if !ok || res.CASCCDistance == 0 {
		return ca
	}
	h := midpoint(vec3(x, i-1), vec3(x, i+1))
	dir := sub3(ca, h)
	n := norm3(dir)
	if n == 0 {
		return ca
	}
	scale := res.CASCCDistance / n
	return [3]float64{
		ca[0] + dir[0]*scale,
		ca[1] + dir[1]*scale,
		ca[2] + dir[2]*scale,
	}
}

func vec3(x *coordset.CoordSet, i int) [3]float64 {
	p := x.At(i)
	var v [3]float64
	for d := 0; d < 3 && d < len(p); d++ {
		v[d] = p[d]
	}
	return v
}

func midpoint(a, b [3]float64) [3]float64 {
	return [3]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

// Matrices holds the two derived squared-distance matrices: Ab(i,j) =
// |Cα_i - J_j|^2 for any point i and any interior residue j, and
// Bb(i,j) = |J_i - J_j|^2 for interior residues i,j. The Ab columns and
// the Bb rows/columns of the two terminal pseudo atoms are left at zero
// and must not be read; Ab rows exist for every point, including the
// terminals.
type Matrices struct {
	N  int
	Ab *numeric.Dense
	Bb *numeric.Dense
}

// Engine computes the per-residue λ ratio (|Cα_i - J_i| / |H_i - J_i|)
// from the three adjacent Cα distances, then expands it into the Ab/Bb
// matrices. Terminal pseudo-atoms have λ = 1 by convention (no side
// chain; spec.md §4.5).
type Engine struct {
	chain *polymer.Chain
}

// NewEngine builds a fake-β engine bound to chain's per-residue target
// |Cα-SCC| distances.
func NewEngine(chain *polymer.Chain) *Engine {
	return &Engine{chain: chain}
}

// Lambda returns |Cα_i - J_i| / |H_i - J_i| for interior residue i, computed
// from the three Cα-Cα squared distances (i-1,i), (i,i+1), (i-1,i+1) via
// the median-length (Apollonius) formula for H_i = midpoint(Cα_{i-1},
// Cα_{i+1}). Terminal indices (0 and chain.N()-1) return 1 (no side chain).
func (e *Engine) Lambda(d *distmat.DistMat, i int) float64 {
	if e.chain.IsTerminal(i) {
		return 1
	}
	res, ok := e.chain.Residue(i)
	if !ok {
		return 1
	}
	t := res.CASCCDistance
	h := numeric.SafeSqrt(medianSquared(d, i))
	denom := h + t
	if denom <= 0 {
		return 0
	}
	return t / denom
}

// medianSquared returns |Cα_i - H_i|^2 where H_i is the midpoint of
// Cα_{i-1} and Cα_{i+1}, via the standard median-of-a-triangle formula
// applied to the three adjacent squared Cα distances.
func medianSquared(d *distmat.DistMat, i int) float64 {
	dPrevI := d.At(i-1, i)
	dINext := d.At(i, i+1)
	dPrevNext := d.At(i-1, i+1)
	return (2*dPrevI + 2*dINext - dPrevNext) / 4
}

// Update derives the Ab/Bb matrices from the current squared-distance
// matrix d. Every interior residue's λ is recomputed first (spec.md
// §4.5: "updated from the current Cα distance matrix").
func (e *Engine) Update(d *distmat.DistMat) Matrices {
	n := e.chain.N()
	m := Matrices{N: n, Ab: numeric.NewDense(n, n), Bb: numeric.NewDense(n, n)}

	k := make([]float64, n)
	for i := 0; i < n; i++ {
		lambda := e.Lambda(d, i)
		if lambda >= 1 {
			k[i] = 1
		} else {
			k[i] = 1 / (1 - lambda)
		}
	}

	// ab(x,j) = |Cα_x - J_j|^2 for every x and every interior residue j,
	// via the affine-extension-point distance identity applied to
	// J_j = H_j + k_j*(Cα_j - H_j):
	//   |X-P(t)|^2 = (1-t)|X-A|^2 + t|X-B|^2 - t(1-t)|A-B|^2,  A=H_j, B=Cα_j, t=k_j.
	for j := 1; j <= e.chain.R(); j++ {
		hcSq := medianSquared(d, j) // |H_j - Cα_j|^2
		kj := k[j]
		coeff := kj * (1 - kj)
		for x := 0; x < n; x++ {
			dxCA := d.At(x, j)
			dxH := pointToHalfway(d, x, j)
			v := (1-kj)*dxH + kj*dxCA - coeff*hcSq
			m.Ab.Set(x, j, v)
		}
	}

	// bb(i,j) = |J_i - J_j|^2 for interior residues, reusing the Ab
	// column just built and applying the same extension identity on the
	// i side: A=H_i, B=Cα_i, t=k_i, X=J_j.
	for i := 1; i <= e.chain.R(); i++ {
		hiSq := medianSquared(d, i)
		ki := k[i]
		coeffI := ki * (1 - ki)
		for j := 1; j <= e.chain.R(); j++ {
			if i == j {
				m.Bb.Set(i, j, 0)
				continue
			}
			abIJ := m.Ab.At(i, j)
			hToJ := halfwayToJ(d, m, i, j)
			v := (1-ki)*hToJ + ki*abIJ - coeffI*hiSq
			m.Bb.Set(i, j, v)
		}
	}

	return m
}

// pointToHalfway returns |Cα_x - H_j|^2 via the midpoint distance
// identity: |X-H_j|^2 = (|X-Cα_{j-1}|^2 + |X-Cα_{j+1}|^2)/2 - |Cα_{j-1}-Cα_{j+1}|^2/4.
func pointToHalfway(d *distmat.DistMat, x, j int) float64 {
	return (d.At(x, j-1)+d.At(x, j+1))/2 - d.At(j-1, j+1)/4
}

// halfwayToJ returns |H_i - J_j|^2 via the same midpoint identity, using
// the already-computed Ab(i-1,j) and Ab(i+1,j) columns in place of raw
// Cα-Cα distances to the now-virtual H_i.
func halfwayToJ(d *distmat.DistMat, m Matrices, i, j int) float64 {
	return (m.Ab.At(i-1, j)+m.Ab.At(i+1, j))/2 - d.At(i-1, i+1)/4
}
