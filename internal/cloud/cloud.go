package cloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// PointCloud is an unorganized set of 3D points.
type PointCloud struct {
	Points []r3.Vector
}

// New returns a cloud over the given points without copying.
func New(points []r3.Vector) *PointCloud {
	return &PointCloud{Points: points}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return len(pc.Points) }

// Clone deep-copies the cloud.
func (pc *PointCloud) Clone() *PointCloud {
	out := make([]r3.Vector, len(pc.Points))
	copy(out, pc.Points)
	return &PointCloud{Points: out}
}

// Centroid returns the mean point. Ok is false for an empty cloud.
func (pc *PointCloud) Centroid() (r3.Vector, bool) {
	if len(pc.Points) == 0 {
		return r3.Vector{}, false
	}
	var sum r3.Vector
	for _, p := range pc.Points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pc.Points))), true
}

// Bounds returns the axis-aligned bounding box. Ok is false for an
// empty cloud.
func (pc *PointCloud) Bounds() (min, max r3.Vector, ok bool) {
	if len(pc.Points) == 0 {
		return r3.Vector{}, r3.Vector{}, false
	}
	min, max = pc.Points[0], pc.Points[0]
	for _, p := range pc.Points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max, true
}

// Axis selects a coordinate for filtering.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) of(p r3.Vector) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	}
	return p.Z
}

// Passthrough keeps points whose coordinate along the axis lies in
// [lo, hi].
func (pc *PointCloud) Passthrough(axis Axis, lo, hi float64) *PointCloud {
	var out []r3.Vector
	for _, p := range pc.Points {
		if v := axis.of(p); v >= lo && v <= hi {
			out = append(out, p)
		}
	}
	return &PointCloud{Points: out}
}

// VoxelDownsample replaces all points falling in the same cubic cell of
// the given edge length with their centroid. Cell order in the result
// is unspecified.
func (pc *PointCloud) VoxelDownsample(leaf float64) *PointCloud {
	if leaf <= 0 || len(pc.Points) == 0 {
		return pc.Clone()
	}
	type cell struct{ x, y, z int }
	sums := make(map[cell]r3.Vector)
	counts := make(map[cell]int)
	for _, p := range pc.Points {
		c := cell{
			x: int(math.Floor(p.X / leaf)),
			y: int(math.Floor(p.Y / leaf)),
			z: int(math.Floor(p.Z / leaf)),
		}
		sums[c] = sums[c].Add(p)
		counts[c]++
	}
	out := make([]r3.Vector, 0, len(sums))
	for c, s := range sums {
		out = append(out, s.Mul(1/float64(counts[c])))
	}
	return &PointCloud{Points: out}
}
