package geoindex

import "fmt"

// Polygon is a ring set in projected meters: the first ring is the outer
// boundary, any further rings are holes.
type Polygon struct {
	Rings [][]Point
}

type indexedPolygon struct {
	polygon Polygon
	bbox    [4]float64 // minE, minN, maxE, maxN
	ordinal int
}

// PolygonIndex answers containment queries over area features. Candidates
// are prefiltered by bounding box before the exact ring test.
type PolygonIndex struct {
	polygons []indexedPolygon
}

// NewPolygonIndex builds the index, computing bounding boxes up front.
func NewPolygonIndex(polygons []Polygon) (*PolygonIndex, error) {
	if len(polygons) == 0 {
		return nil, ErrEmptyLayer
	}
	indexed := make([]indexedPolygon, 0, len(polygons))
	for i, poly := range polygons {
		if len(poly.Rings) == 0 || len(poly.Rings[0]) < 3 {
			return nil, fmt.Errorf("geoindex: polygon %d has no valid outer ring", i)
		}
		for _, ring := range poly.Rings {
			for _, p := range ring {
				if looksGeodetic(p) {
					return nil, fmt.Errorf("%w: polygon %d", ErrMixedFrame, i)
				}
			}
		}
		indexed = append(indexed, indexedPolygon{polygon: poly, bbox: bbox(poly), ordinal: i})
	}
	return &PolygonIndex{polygons: indexed}, nil
}

// Containing returns the ordinal of the first polygon (in input order) whose
// boundary contains the point, or false when none does.
func (idx *PolygonIndex) Containing(easting, northing float64) (int, bool) {
	pt := Point{Easting: easting, Northing: northing}
	for _, cand := range idx.polygons {
		if !inBBox(pt, cand.bbox) {
			continue
		}
		if containsPoint(cand.polygon, pt) {
			return cand.ordinal, true
		}
	}
	return 0, false
}

// containsPoint applies the even-odd rule: inside the outer ring and outside
// every hole.
func containsPoint(poly Polygon, pt Point) bool {
	if !pointInRing(pt, poly.Rings[0]) {
		return false
	}
	for _, hole := range poly.Rings[1:] {
		if pointInRing(pt, hole) {
			return false
		}
	}
	return true
}

// pointInRing is the ray-casting test. The tiny denominator offset keeps
// horizontal edges from dividing by zero.
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt.Easting, pt.Northing
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Easting, ring[i].Northing
		xj, yj := ring[j].Easting, ring[j].Northing
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi) {
			inside = !inside
		}
	}
	return inside
}

func bbox(poly Polygon) [4]float64 {
	outer := poly.Rings[0]
	b := [4]float64{outer[0].Easting, outer[0].Northing, outer[0].Easting, outer[0].Northing}
	for _, p := range outer {
		if p.Easting < b[0] {
			b[0] = p.Easting
		}
		if p.Northing < b[1] {
			b[1] = p.Northing
		}
		if p.Easting > b[2] {
			b[2] = p.Easting
		}
		if p.Northing > b[3] {
			b[3] = p.Northing
		}
	}
	return b
}

func inBBox(pt Point, b [4]float64) bool {
	return pt.Easting >= b[0] && pt.Easting <= b[2] && pt.Northing >= b[1] && pt.Northing <= b[3]
}
