package calib

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pixelmill/govision/internal/features"
	"github.com/pixelmill/govision/internal/geometry"
)

// View is one observation of the planar calibration target: board
// points in target coordinates (Z = 0) paired with their detected pixel
// positions, in the same order.
type View struct {
	Board  [][2]float64
	Pixels [][2]float64
}

// Extrinsics is the pose of the calibration target in one view, as a
// rotation matrix and translation vector.
type Extrinsics struct {
	R [9]float64
	T [3]float64
}

// Calibrate runs Zhang's method over at least three views of a planar
// target: a homography per view, closed-form intrinsics from the
// absolute conic constraints, per-view extrinsics, and a linear
// least-squares fit of the two leading radial distortion terms.
func Calibrate(width, height int, views []View) (*Camera, []Extrinsics, error) {
	if len(views) < 3 {
		return nil, nil, fmt.Errorf("calibration needs at least 3 views, got %d", len(views))
	}

	homs := make([]geometry.Homography, len(views))
	for i, view := range views {
		if len(view.Board) != len(view.Pixels) {
			return nil, nil, fmt.Errorf("view %d: %d board points but %d pixels", i, len(view.Board), len(view.Pixels))
		}
		if len(view.Board) < 4 {
			return nil, nil, fmt.Errorf("view %d: needs at least 4 points, got %d", i, len(view.Board))
		}
		matches := make([]features.Match, len(view.Board))
		for j := range view.Board {
			matches[j] = features.Match{
				SrcX: view.Board[j][0], SrcY: view.Board[j][1],
				DstX: view.Pixels[j][0], DstY: view.Pixels[j][1],
			}
		}
		h, err := features.EstimateHomography(matches)
		if err != nil {
			return nil, nil, fmt.Errorf("view %d homography: %w", i, err)
		}
		homs[i] = h
	}

	intr, err := intrinsicsFromHomographies(width, height, homs)
	if err != nil {
		return nil, nil, err
	}

	exts := make([]Extrinsics, len(views))
	for i, h := range homs {
		exts[i] = extrinsicsFromHomography(intr, h)
	}

	cam := &Camera{Intrinsics: intr}
	cam.Distortion = fitRadialDistortion(cam, views, exts)
	cam.RMSError = ReprojectionRMS(cam, views, exts)
	return cam, exts, nil
}

// vij builds the absolute-conic constraint row for homography columns i
// and j.
func vij(h geometry.Homography, i, j int) []float64 {
	// Column k of H is (h[k], h[3+k], h[6+k]).
	hi := [3]float64{h[i], h[3+i], h[6+i]}
	hj := [3]float64{h[j], h[3+j], h[6+j]}
	return []float64{
		hi[0] * hj[0],
		hi[0]*hj[1] + hi[1]*hj[0],
		hi[1] * hj[1],
		hi[2]*hj[0] + hi[0]*hj[2],
		hi[2]*hj[1] + hi[1]*hj[2],
		hi[2] * hj[2],
	}
}

func intrinsicsFromHomographies(width, height int, homs []geometry.Homography) (Intrinsics, error) {
	var intr Intrinsics
	n := len(homs)
	v := mat.NewDense(2*n, 6, nil)
	for i, h := range homs {
		v.SetRow(2*i, vij(h, 0, 1))
		v01 := vij(h, 0, 0)
		v11 := vij(h, 1, 1)
		row := make([]float64, 6)
		for k := range row {
			row[k] = v01[k] - v11[k]
		}
		v.SetRow(2*i+1, row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(v, mat.SVDThin); !ok {
		return intr, fmt.Errorf("intrinsics SVD failed to converge")
	}
	var vt mat.Dense
	svd.VTo(&vt)
	var b [6]float64
	for i := range b {
		b[i] = vt.At(i, 5)
	}

	// b = (B11, B12, B22, B13, B23, B33) of the image of the absolute
	// conic; closed-form extraction per Zhang.
	b11, b12, b22, b13, b23, b33 := b[0], b[1], b[2], b[3], b[4], b[5]
	den := b11*b22 - b12*b12
	if math.Abs(den) < 1e-18 {
		return intr, fmt.Errorf("degenerate calibration: views are not independent")
	}
	cy := (b12*b13 - b11*b23) / den
	lambda := b33 - (b13*b13+cy*(b12*b13-b11*b23))/b11
	fx2 := lambda / b11
	fy2 := lambda * b11 / den
	if fx2 <= 0 || fy2 <= 0 {
		// The singular vector sign is arbitrary; retry negated.
		b11, b12, b22, b13, b23, b33 = -b11, -b12, -b22, -b13, -b23, -b33
		den = b11*b22 - b12*b12
		cy = (b12*b13 - b11*b23) / den
		lambda = b33 - (b13*b13+cy*(b12*b13-b11*b23))/b11
		fx2 = lambda / b11
		fy2 = lambda * b11 / den
	}
	if fx2 <= 0 || fy2 <= 0 {
		return intr, fmt.Errorf("degenerate calibration: negative focal length squared")
	}
	fx := math.Sqrt(fx2)
	fy := math.Sqrt(fy2)
	skew := -b12 * fx * fx * fy / lambda
	cx := skew*cy/fx - b13*fx*fx/lambda

	intr = Intrinsics{
		Width: width, Height: height,
		Fx: fx, Fy: fy, Cx: cx, Cy: cy, Skew: skew,
	}
	if math.Abs(intr.Skew) < 1e-6*fx {
		intr.Skew = 0
	}
	return intr, intr.Validate()
}

func extrinsicsFromHomography(intr Intrinsics, h geometry.Homography) Extrinsics {
	// K^-1 * H gives (r1 r2 t) up to scale.
	kinv := func(u, v, w float64) (float64, float64, float64) {
		y := (v - intr.Cy*w) / intr.Fy
		x := (u - intr.Skew*y - intr.Cx*w) / intr.Fx
		return x, y, w
	}

	var r1, r2, t [3]float64
	r1[0], r1[1], r1[2] = kinv(h[0], h[3], h[6])
	r2[0], r2[1], r2[2] = kinv(h[1], h[4], h[7])
	t[0], t[1], t[2] = kinv(h[2], h[5], h[8])

	norm := func(v [3]float64) float64 {
		return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	scale := 1 / norm(r1)
	if t[2]*scale < 0 {
		// The target must sit in front of the camera.
		scale = -scale
	}
	for i := 0; i < 3; i++ {
		r1[i] *= scale
		r2[i] *= scale
		t[i] *= scale
	}

	// Re-orthogonalize r2 against r1 and take r3 as their cross product.
	dot := r1[0]*r2[0] + r1[1]*r2[1] + r1[2]*r2[2]
	for i := 0; i < 3; i++ {
		r2[i] -= dot * r1[i]
	}
	n2 := norm(r2)
	for i := 0; i < 3; i++ {
		r2[i] /= n2
	}
	r3 := [3]float64{
		r1[1]*r2[2] - r1[2]*r2[1],
		r1[2]*r2[0] - r1[0]*r2[2],
		r1[0]*r2[1] - r1[1]*r2[0],
	}

	return Extrinsics{
		R: [9]float64{
			r1[0], r2[0], r3[0],
			r1[1], r2[1], r3[1],
			r1[2], r2[2], r3[2],
		},
		T: t,
	}
}

// Transform applies the extrinsic pose to a target-frame point.
func (e Extrinsics) Transform(x, y, z float64) (float64, float64, float64) {
	return e.R[0]*x + e.R[1]*y + e.R[2]*z + e.T[0],
		e.R[3]*x + e.R[4]*y + e.R[5]*z + e.T[1],
		e.R[6]*x + e.R[7]*y + e.R[8]*z + e.T[2]
}

// fitRadialDistortion solves the linear system relating ideal and
// observed pixel positions for the K1 and K2 radial terms.
func fitRadialDistortion(cam *Camera, views []View, exts []Extrinsics) Distortion {
	var rows [][2]float64
	var rhs []float64
	in := cam.Intrinsics
	for i, view := range views {
		for j := range view.Board {
			X, Y, Z := exts[i].Transform(view.Board[j][0], view.Board[j][1], 0)
			if Z <= 0 {
				continue
			}
			xn, yn := X/Z, Y/Z
			r2 := xn*xn + yn*yn
			u := in.Fx*xn + in.Skew*yn + in.Cx
			v := in.Fy*yn + in.Cy

			// Observed minus ideal, in pixels, against the radial model.
			du := view.Pixels[j][0] - u
			dv := view.Pixels[j][1] - v
			rows = append(rows, [2]float64{(u - in.Cx) * r2, (u - in.Cx) * r2 * r2})
			rhs = append(rhs, du)
			rows = append(rows, [2]float64{(v - in.Cy) * r2, (v - in.Cy) * r2 * r2})
			rhs = append(rhs, dv)
		}
	}
	if len(rows) < 2 {
		return Distortion{}
	}

	a := mat.NewDense(len(rows), 2, nil)
	for i, r := range rows {
		a.SetRow(i, r[:])
	}
	bvec := mat.NewVecDense(len(rhs), rhs)
	var sol mat.VecDense
	if err := sol.SolveVec(a, bvec); err != nil {
		return Distortion{}
	}
	return Distortion{K1: sol.AtVec(0), K2: sol.AtVec(1)}
}

// ReprojectionRMS computes the root-mean-square pixel error of the
// calibrated model over all views.
func ReprojectionRMS(cam *Camera, views []View, exts []Extrinsics) float64 {
	var sum float64
	var n int
	for i, view := range views {
		for j := range view.Board {
			X, Y, Z := exts[i].Transform(view.Board[j][0], view.Board[j][1], 0)
			u, v, err := cam.Project(X, Y, Z)
			if err != nil {
				continue
			}
			du := u - view.Pixels[j][0]
			dv := v - view.Pixels[j][1]
			sum += du*du + dv*dv
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}
