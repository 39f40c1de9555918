package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Affine is a 2x3 affine transform mapping source points to destination
// points:
//
//	x' = M00*x + M01*y + M02
//	y' = M10*x + M11*y + M12
type Affine struct {
	M00, M01, M02 float64
	M10, M11, M12 float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{M00: 1, M11: 1}
}

// Translation returns a transform shifting points by (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{M00: 1, M02: tx, M11: 1, M12: ty}
}

// RotationAbout returns a transform rotating by angle degrees
// (counter-clockwise) about (cx, cy) with uniform scaling, matching
// getRotationMatrix2D.
func RotationAbout(cx, cy, angleDeg, scale float64) Affine {
	rad := angleDeg * math.Pi / 180
	alpha := scale * math.Cos(rad)
	beta := scale * math.Sin(rad)
	return Affine{
		M00: alpha, M01: beta, M02: (1-alpha)*cx - beta*cy,
		M10: -beta, M11: alpha, M12: beta*cx + (1-alpha)*cy,
	}
}

// Apply maps a point through the transform.
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.M00*x + a.M01*y + a.M02, a.M10*x + a.M11*y + a.M12
}

// Invert returns the inverse transform. Singular transforms are an error.
func (a Affine) Invert() (Affine, error) {
	det := a.M00*a.M11 - a.M01*a.M10
	if math.Abs(det) < 1e-12 {
		return Affine{}, fmt.Errorf("affine transform is singular")
	}
	inv := Affine{
		M00: a.M11 / det,
		M01: -a.M01 / det,
		M10: -a.M10 / det,
		M11: a.M00 / det,
	}
	inv.M02 = -(inv.M00*a.M02 + inv.M01*a.M12)
	inv.M12 = -(inv.M10*a.M02 + inv.M11*a.M12)
	return inv, nil
}

// AffineFromPoints solves the transform mapping three source points to
// three destination points, the getAffineTransform equivalent. Collinear
// source points are an error.
func AffineFromPoints(src, dst [3][2]float64) (Affine, error) {
	// Six equations in six unknowns, solved as one dense system.
	a := mat.NewDense(6, 6, nil)
	b := mat.NewVecDense(6, nil)
	for i := 0; i < 3; i++ {
		x, y := src[i][0], src[i][1]
		a.Set(2*i, 0, x)
		a.Set(2*i, 1, y)
		a.Set(2*i, 2, 1)
		a.Set(2*i+1, 3, x)
		a.Set(2*i+1, 4, y)
		a.Set(2*i+1, 5, 1)
		b.SetVec(2*i, dst[i][0])
		b.SetVec(2*i+1, dst[i][1])
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return Affine{}, fmt.Errorf("source points are collinear: %w", err)
	}
	return Affine{
		M00: sol.AtVec(0), M01: sol.AtVec(1), M02: sol.AtVec(2),
		M10: sol.AtVec(3), M11: sol.AtVec(4), M12: sol.AtVec(5),
	}, nil
}
