package numeric

import "math"

// LUResult is the outcome of an in-place LU decomposition with partial
// pivoting, a direct port of lu_decomp/lu_det in
// original_source/lib/c/src/matrix.c: Sign is the sign of the row
// permutation's determinant (0 if the matrix turned out singular), and
// LogAbs is the sum of log|pivot| across the decomposed diagonal so the
// determinant can be reconstructed as Sign*exp(LogAbs) without the
// overflow a plain running product would suffer for large N.
type LUResult struct {
	lu     []float64 // n x n, row-major, decomposed in place
	perm   []int
	n      int
	Sign   int
	LogAbs float64
}

// DecomposeLU factorises the square matrix a. A singular pivot column
// (no usable pivot above epsilon) yields Sign==0, LogAbs==-Inf; callers
// treat that as a degenerate rotation/determinant and continue, per the
// error-handling design (§7, "Singular matrix").
func DecomposeLU(a *Dense) LUResult {
	n := a.Rows()
	lu := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			lu[i*n+j] = a.At(i, j)
		}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	sign := 1
	const tiny = 1e-300
	for k := 0; k < n; k++ {
		// partial pivot: largest magnitude in column k at/below row k
		piv := k
		best := math.Abs(lu[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(lu[i*n+k]); v > best {
				best = v
				piv = i
			}
		}
		if best < tiny {
			return LUResult{n: n, Sign: 0, LogAbs: math.Inf(-1)}
		}
		if piv != k {
			for j := 0; j < n; j++ {
				lu[k*n+j], lu[piv*n+j] = lu[piv*n+j], lu[k*n+j]
			}
			perm[k], perm[piv] = perm[piv], perm[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			factor := lu[i*n+k] / lu[k*n+k]
			lu[i*n+k] = factor
			for j := k + 1; j < n; j++ {
				lu[i*n+j] -= factor * lu[k*n+j]
			}
		}
	}

	logAbs := 0.0
	for k := 0; k < n; k++ {
		logAbs += math.Log(math.Abs(lu[k*n+k]))
	}

	return LUResult{lu: lu, perm: perm, n: n, Sign: sign, LogAbs: logAbs}
}

// Determinant returns Sign*exp(LogAbs), i.e. det(A); 0 for a matrix
// DecomposeLU found singular.
func (r LUResult) Determinant() float64 {
	if r.Sign == 0 {
		return 0
	}
	return float64(r.Sign) * math.Exp(r.LogAbs)
}

// Solve returns x solving A*x = b for the matrix this LUResult
// decomposed, by permuted forward then back substitution. ok is false
// for a singular matrix (Sign==0), in which case x is nil: the caller's
// normal-equations solve (e.g. the hydrophobic predictor's Gauss-Newton
// fit) then skips the update for that iteration.
func (r LUResult) Solve(b []float64) ([]float64, bool) {
	if r.Sign == 0 {
		return nil, false
	}
	n := r.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[r.perm[i]]
		for j := 0; j < i; j++ {
			sum -= r.lu[i*n+j] * y[j]
		}
		y[i] = sum
	}
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= r.lu[i*n+j] * x[j]
		}
		x[i] = sum / r.lu[i*n+i]
	}
	return x, true
}
