package numeric

import "gonum.org/v1/gonum/mat"

// EigenResult holds a symmetric matrix's eigendecomposition: Values in
// descending order, Vectors' columns the matching eigenvectors.
type EigenResult struct {
	Values  []float64
	Vectors *Dense
}

// FactorizeSymEigen eigendecomposes a symmetric matrix a via gonum's
// EigenSym, returning eigenvalues sorted descending with eigenvectors
// reordered to match (gonum returns them ascending).
func FactorizeSymEigen(a *Dense) (EigenResult, bool) {
	sym := mat.NewSymDense(a.Rows(), nil)
	for i := 0; i < a.Rows(); i++ {
		for j := i; j < a.Cols(); j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		return EigenResult{}, false
	}

	values := eig.Values(nil)
	var vecsRaw mat.Dense
	eig.VectorsTo(&vecsRaw)

	n := a.Rows()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if values[order[j]] > values[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	sortedValues := make([]float64, n)
	vectors := NewDense(n, n)
	for newCol, oldCol := range order {
		sortedValues[newCol] = values[oldCol]
		for row := 0; row < n; row++ {
			vectors.Set(row, newCol, vecsRaw.At(row, oldCol))
		}
	}

	return EigenResult{Values: sortedValues, Vectors: vectors}, true
}
