// Package geoindex provides read-only spatial indices over features in a
// single projected frame (meters), so Euclidean distance equals ground
// distance. Indices are built once per reference layer and are safe for
// concurrent queries.
package geoindex

import (
	"errors"
	"fmt"
	"math"
)

// ErrMixedFrame is returned when a feature looks like a degree-valued
// geodetic coordinate rather than a projected one. Mixing frames would make
// every distance meaningless, so the build rejects it outright.
var ErrMixedFrame = errors.New("geoindex: feature coordinates appear to be in degrees, expected projected meters")

// ErrEmptyLayer is returned when an index is built over no features.
var ErrEmptyLayer = errors.New("geoindex: reference layer contains no features")

// Point is a projected coordinate in meters.
type Point struct {
	Easting  float64
	Northing float64
}

// PointFeature is one indexable point. Ordinal is the feature's position in
// the input sequence and doubles as the deterministic tie-break key.
type PointFeature struct {
	Point
	Ordinal int
}

// Match is a successful nearest-neighbor result.
type Match struct {
	Ordinal  int
	Point    Point
	Distance float64
}

// tieTolerance treats distances this close (meters) as equal, so equidistant
// candidates resolve by input ordinal rather than floating-point noise.
const tieTolerance = 1e-9

type kdNode struct {
	feature PointFeature
	axis    int // 0: easting, 1: northing
	left    *kdNode
	right   *kdNode
}

// PointIndex is a KD-tree over projected point features. Read-only after
// construction.
type PointIndex struct {
	root *kdNode
	size int
}

// NewPointIndex builds the tree by recursive median split. Build is
// O(n log n); queries prune subtrees whose splitting plane lies beyond the
// current best distance.
func NewPointIndex(points []Point) (*PointIndex, error) {
	if len(points) == 0 {
		return nil, ErrEmptyLayer
	}
	features := make([]PointFeature, len(points))
	for i, p := range points {
		if looksGeodetic(p) {
			return nil, fmt.Errorf("%w: feature %d (%.6f, %.6f)", ErrMixedFrame, i, p.Easting, p.Northing)
		}
		features[i] = PointFeature{Point: p, Ordinal: i}
	}
	return &PointIndex{root: buildKD(features, 0), size: len(features)}, nil
}

// Len reports the number of indexed features.
func (idx *PointIndex) Len() int { return idx.size }

// Nearest returns the closest feature to (easting, northing) within maxDist
// meters. A feature at exactly maxDist matches; anything beyond does not.
// Equidistant features resolve to the lowest input ordinal.
func (idx *PointIndex) Nearest(easting, northing float64, maxDist float64) (Match, bool) {
	query := Point{Easting: easting, Northing: northing}
	best := Match{Ordinal: -1, Distance: math.MaxFloat64}

	var search func(n *kdNode)
	search = func(n *kdNode) {
		if n == nil {
			return
		}
		d := distance(query, n.feature.Point)
		if d < best.Distance-tieTolerance ||
			(math.Abs(d-best.Distance) <= tieTolerance && n.feature.Ordinal < best.Ordinal) {
			best = Match{Ordinal: n.feature.Ordinal, Point: n.feature.Point, Distance: d}
		}

		var key, split float64
		if n.axis == 0 {
			key, split = query.Easting, n.feature.Easting
		} else {
			key, split = query.Northing, n.feature.Northing
		}
		near, far := n.left, n.right
		if key > split {
			near, far = n.right, n.left
		}
		search(near)
		// The far side can only hold an equal-or-better candidate when the
		// splitting plane is within the current best distance (plus the tie
		// margin, so equidistant lower ordinals are not pruned away).
		if math.Abs(key-split) <= best.Distance+tieTolerance {
			search(far)
		}
	}
	search(idx.root)

	if best.Ordinal < 0 || best.Distance > maxDist {
		return Match{}, false
	}
	return best, true
}

func buildKD(features []PointFeature, depth int) *kdNode {
	if len(features) == 0 {
		return nil
	}
	axis := depth % 2
	mid := len(features) / 2
	selectNth(features, mid, axis)
	node := &kdNode{feature: features[mid], axis: axis}
	node.left = buildKD(features[:mid], depth+1)
	node.right = buildKD(features[mid+1:], depth+1)
	return node
}

// selectNth partially sorts so that features[n] holds the nth element along
// the given axis, avoiding a full sort at every level.
func selectNth(a []PointFeature, n, axis int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, axis)
		switch {
		case p == n:
			return
		case n < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

func partition(a []PointFeature, lo, hi, pivot, axis int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if less(a[j], pv, axis) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func less(x, y PointFeature, axis int) bool {
	if axis == 0 {
		return x.Easting < y.Easting
	}
	return x.Northing < y.Northing
}

func distance(a, b Point) float64 {
	return math.Hypot(a.Easting-b.Easting, a.Northing-b.Northing)
}

// looksGeodetic flags coordinate pairs that fit inside the degree range.
// Valid National Grid coordinates are all far outside it, so a pair this
// small is almost certainly an unconverted lon/lat.
func looksGeodetic(p Point) bool {
	return math.Abs(p.Easting) <= 180 && math.Abs(p.Northing) <= 90
}
