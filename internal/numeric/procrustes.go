package numeric

import "math"

// ProcrustesResult is the outcome of a weighted rigid-body (Procrustes)
// fit of one 3D point set onto another, a direct adaptation of
// McLachlan's algorithm as implemented in
// original_source/lib/c/src/bestrot.c (best_rot): the buggy-Kabsch
// alternative the original authors explicitly replaced.
type ProcrustesResult struct {
	// Rotation is the 3x3 matrix R such that R*x_n approximates y_n for
	// centred point sets X, Y.
	Rotation [3][3]float64
	// RMS is the weighted least-squares fit error, or -1.0 if the cross
	// covariance lost rank (Rank<3): the fit is then meaningless and the
	// caller (ideal-structure fit, §4.6) skips this element for the
	// iteration rather than applying a degenerate rotation.
	RMS  float64
	Rank int
}

// CenterVectors computes the weighted centroid of a set of 3D points and
// subtracts it from every point in place, returning the centroid. A nil
// weight vector means uniform weighting.
func CenterVectors(points [][3]float64, weights []float64) [3]float64 {
	var ctr [3]float64
	if len(points) == 0 {
		return ctr
	}
	wsum := 0.0
	for i := range points {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		wsum += w
		for d := 0; d < 3; d++ {
			ctr[d] += w * points[i][d]
		}
	}
	if wsum == 0 {
		wsum = float64(len(points))
	}
	for d := 0; d < 3; d++ {
		ctr[d] /= wsum
	}
	for i := range points {
		for d := 0; d < 3; d++ {
			points[i][d] -= ctr[d]
		}
	}
	return ctr
}

// BestRot finds the weighted rotation bringing centred point set X onto
// centred point set Y (both Vno x 3, row per point). A nil weight vector
// means uniform weighting. allowReflection corresponds to the source's
// implicit "flip" handling: when true, a negative cross-covariance
// determinant is accepted as-is (permitting a reflection to minimise
// RMS); when false, the proper-rotation branch (Psign folded into the
// third singular vector) is used, matching best_rot's default behaviour.
func BestRot(x, y [][3]float64, weights []float64, allowReflection bool) ProcrustesResult {
	n := len(x)
	cross := NewDense(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				w := 1.0
				if weights != nil {
					w = weights[k]
				}
				sum += w * x[k][i] * y[k][j]
			}
			cross.Set(i, j, sum)
		}
	}

	svd, ok := FactorizeSVD(cross)
	if !ok || svd.Rank < 3 {
		return ProcrustesResult{RMS: -1.0, Rank: svd.Rank}
	}

	sign := 1.0
	if !allowReflection {
		det := DecomposeLU(cross).Determinant()
		if det < 0 {
			sign = -1.0
		}
	}

	var rot [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := svd.V.At(i, 0)*svd.U.At(j, 0) + svd.V.At(i, 1)*svd.U.At(j, 1) +
				sign*svd.V.At(i, 2)*svd.U.At(j, 2)
			rot[i][j] = roundSmall(v, 1e-14)
		}
	}

	wsum := 0.0
	errSum := 0.0
	for k := 0; k < n; k++ {
		w := 1.0
		if weights != nil {
			w = weights[k]
		}
		var diff [3]float64
		for i := 0; i < 3; i++ {
			pred := rot[i][0]*x[k][0] + rot[i][1]*x[k][1] + rot[i][2]*x[k][2]
			diff[i] = pred - y[k][i]
		}
		d2 := diff[0]*diff[0] + diff[1]*diff[1] + diff[2]*diff[2]
		errSum += w * d2
		wsum += w
	}
	if wsum == 0 {
		wsum = float64(n)
	}

	return ProcrustesResult{Rotation: rot, RMS: math.Sqrt(errSum / wsum), Rank: svd.Rank}
}

// Apply rotates point p by r.
func (r ProcrustesResult) Apply(p [3]float64) [3]float64 {
	return [3]float64{
		r.Rotation[0][0]*p[0] + r.Rotation[0][1]*p[1] + r.Rotation[0][2]*p[2],
		r.Rotation[1][0]*p[0] + r.Rotation[1][1]*p[1] + r.Rotation[1][2]*p[2],
		r.Rotation[2][0]*p[0] + r.Rotation[2][1]*p[1] + r.Rotation[2][2]*p[2],
	}
}
