package cloud

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// RigidTransform is a rotation followed by a translation.
type RigidTransform struct {
	R [9]float64
	T r3.Vector
}

// Identity returns the no-op transform.
func Identity() RigidTransform {
	return RigidTransform{R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// Apply transforms one point.
func (rt RigidTransform) Apply(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: rt.R[0]*p.X + rt.R[1]*p.Y + rt.R[2]*p.Z + rt.T.X,
		Y: rt.R[3]*p.X + rt.R[4]*p.Y + rt.R[5]*p.Z + rt.T.Y,
		Z: rt.R[6]*p.X + rt.R[7]*p.Y + rt.R[8]*p.Z + rt.T.Z,
	}
}

// compose returns a∘b, applying b first.
func compose(a, b RigidTransform) RigidTransform {
	var out RigidTransform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a.R[i*3+k] * b.R[k*3+j]
			}
			out.R[i*3+j] = s
		}
	}
	out.T = rotate(a.R, b.T).Add(a.T)
	return out
}

func rotate(r [9]float64, p r3.Vector) r3.Vector {
	return r3.Vector{
		X: r[0]*p.X + r[1]*p.Y + r[2]*p.Z,
		Y: r[3]*p.X + r[4]*p.Y + r[5]*p.Z,
		Z: r[6]*p.X + r[7]*p.Y + r[8]*p.Z,
	}
}

// ICPResult reports an iterative-closest-point alignment.
type ICPResult struct {
	Transform RigidTransform
	// RMS is the final root-mean-square correspondence distance.
	RMS float64
	// Iterations actually run before convergence.
	Iterations int
}

// ICP aligns the source cloud onto the target by iterating nearest-
// neighbor correspondence and the Kabsch closed-form rigid fit until
// the RMS improvement drops below tolerance or maxIter is reached.
func ICP(source, target *PointCloud, maxIter int, tolerance float64) (*ICPResult, error) {
	if source.Len() < 3 || target.Len() < 3 {
		return nil, fmt.Errorf("icp needs at least 3 points in each cloud, got %d and %d", source.Len(), target.Len())
	}
	if maxIter <= 0 {
		maxIter = 50
	}
	if tolerance <= 0 {
		tolerance = 1e-8
	}

	current := source.Clone()
	total := Identity()
	prevRMS := math.Inf(1)

	var res ICPResult
	for iter := 0; iter < maxIter; iter++ {
		// Correspondences: nearest target point for each source point.
		matched := make([]r3.Vector, current.Len())
		var sumSq float64
		for i, p := range current.Points {
			q, d2 := nearest(target, p)
			matched[i] = q
			sumSq += d2
		}
		rms := math.Sqrt(sumSq / float64(current.Len()))
		res.RMS = rms
		res.Iterations = iter + 1

		if prevRMS-rms < tolerance {
			break
		}
		prevRMS = rms

		step, err := kabsch(current.Points, matched)
		if err != nil {
			return nil, err
		}
		for i, p := range current.Points {
			current.Points[i] = step.Apply(p)
		}
		total = compose(step, total)
	}
	res.Transform = total
	return &res, nil
}

func nearest(pc *PointCloud, p r3.Vector) (r3.Vector, float64) {
	best := pc.Points[0]
	bestD := math.Inf(1)
	for _, q := range pc.Points {
		d := q.Sub(p).Norm2()
		if d < bestD {
			bestD = d
			best = q
		}
	}
	return best, bestD
}

// kabsch computes the rigid transform minimizing the squared distance
// between paired points, via SVD of the cross-covariance.
func kabsch(src, dst []r3.Vector) (RigidTransform, error) {
	n := float64(len(src))
	var cs, cd r3.Vector
	for i := range src {
		cs = cs.Add(src[i])
		cd = cd.Add(dst[i])
	}
	cs = cs.Mul(1 / n)
	cd = cd.Mul(1 / n)

	h := mat.NewDense(3, 3, nil)
	for i := range src {
		a := src[i].Sub(cs)
		b := dst[i].Sub(cd)
		av := []float64{a.X, a.Y, a.Z}
		bv := []float64{b.X, b.Y, b.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+av[r]*bv[c])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Identity(), fmt.Errorf("icp: SVD of cross-covariance failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&v, u.T())

	// Reflections are not rigid motions; flip the last singular axis.
	if mat.Det(&r) < 0 {
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		r.Mul(&v, u.T())
	}

	var rt RigidTransform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rt.R[i*3+j] = r.At(i, j)
		}
	}
	rt.T = cd.Sub(rotate(rt.R, cs))
	return rt, nil
}
