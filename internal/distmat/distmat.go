// Package distmat holds the engine's squared-distance work matrix: a
// lower-triangular N x N matrix of squared Cα-Cα distances, rows/columns
// 0 and R+1 being the terminal pseudo-atoms (spec.md §3, "Distance
// matrix (work)").
package distmat

import (
	"fmt"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/numeric"
)

// DistMat is a symmetric, zero-diagonal squared-distance matrix.
type DistMat struct {
	*numeric.Trimat
}

// New allocates an n x n squared-distance matrix, all entries zero.
func New(n int) *DistMat {
	return &DistMat{Trimat: numeric.NewTrimat(n)}
}

// FromCoords computes the squared-distance matrix of a coordinate set,
// the update step at the end of each outer iteration (spec.md §4.3:
// "Δ² <- squared_distance_matrix(X)").
func FromCoords(x *coordset.CoordSet) *DistMat {
	n := x.N()
	d := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			d.Set(i, j, x.Distance2(i, j))
		}
	}
	return d
}

// CheckInvariants verifies property 2 from spec.md §8: after every outer
// iteration the squared-distance matrix is symmetric (trivially true by
// construction here, since Trimat only ever stores one value per
// unordered pair) with zero diagonal and non-negative entries.
func (d *DistMat) CheckInvariants() error {
	n := d.Size()
	for i := 0; i < n; i++ {
		if d.At(i, i) != 0 {
			return fmt.Errorf("distmat: non-zero diagonal at %d: %v", i, d.At(i, i))
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if d.At(i, j) < 0 {
				return fmt.Errorf("distmat: negative squared distance at (%d,%d): %v", i, j, d.At(i, j))
			}
		}
	}
	return nil
}
