// Package resolver applies the per-layer proximity policies: nearest road
// classification, nearest postcode and mobile coverage. Each layer has its
// own distance threshold and an explicit unmatched state when nothing lies
// within it.
package resolver

import (
	"fmt"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/geoindex"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
)

// Providers lists the mobile networks reported in every coverage summary, in
// display order. A provider with no containing polygon is reported at level
// 0 (no signal), never omitted.
var Providers = []string{"EE", "Three", "Vodafone", "O2"}

// signalLabels maps the regulator's 0..4 signal levels to display labels.
var signalLabels = [5]string{"Black", "Red", "Amber", "Green", "Blue"}

// roadSampleSpacing is the vertex spacing (meters) road lines are densified
// to before indexing, bounding the nearest-vertex approximation error.
const roadSampleSpacing = 2.0

// Config holds the layer thresholds. The zero value is not usable; use
// DefaultConfig.
type Config struct {
	RoadDistance     float64
	PostcodeDistance float64
}

// DefaultConfig returns the deployed thresholds: 50m for road access, 300m
// for postcodes.
func DefaultConfig() Config {
	return Config{RoadDistance: 50, PostcodeDistance: 300}
}

type providerCoverage struct {
	index  *geoindex.PolygonIndex
	levels []int
}

// Resolver wraps one immutable spatial index per reference layer. Any layer
// may be absent, in which case its lookups report unmatched; the caller
// decides whether absence is a warning. Safe for concurrent use.
type Resolver struct {
	cfg Config

	roads     *geoindex.PointIndex
	roadClass []string

	postcodes *geoindex.PointIndex
	centroids []refdata.PostcodeCentroid

	coverage map[string]providerCoverage
}

// New builds the per-layer indices. Nil layer slices are allowed and leave
// that layer unavailable.
func New(cfg Config, roads []refdata.RoadSegment, centroids []refdata.PostcodeCentroid, areas []refdata.CoverageArea) (*Resolver, error) {
	r := &Resolver{cfg: cfg}

	if len(roads) > 0 {
		var points []geoindex.Point
		var class []string
		for _, seg := range roads {
			for _, v := range geoindex.DensifyLine(seg.Line, roadSampleSpacing) {
				points = append(points, v)
				class = append(class, seg.Classification)
			}
		}
		idx, err := geoindex.NewPointIndex(points)
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to index road layer: %w", err)
		}
		r.roads = idx
		r.roadClass = class
	}

	if len(centroids) > 0 {
		points := make([]geoindex.Point, len(centroids))
		for i, c := range centroids {
			points[i] = geoindex.Point{Easting: c.Easting, Northing: c.Northing}
		}
		idx, err := geoindex.NewPointIndex(points)
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to index postcode layer: %w", err)
		}
		r.postcodes = idx
		r.centroids = centroids
	}

	if len(areas) > 0 {
		byProvider := map[string][]refdata.CoverageArea{}
		for _, area := range areas {
			byProvider[area.Provider] = append(byProvider[area.Provider], area)
		}
		r.coverage = make(map[string]providerCoverage, len(byProvider))
		for provider, provAreas := range byProvider {
			polys := make([]geoindex.Polygon, len(provAreas))
			levels := make([]int, len(provAreas))
			for i, a := range provAreas {
				polys[i] = a.Polygon
				levels[i] = a.SignalLevel
			}
			idx, err := geoindex.NewPolygonIndex(polys)
			if err != nil {
				return nil, fmt.Errorf("resolver: failed to index %s coverage layer: %w", provider, err)
			}
			r.coverage[provider] = providerCoverage{index: idx, levels: levels}
		}
	}

	return r, nil
}

// HasRoads reports whether the road layer was loaded.
func (r *Resolver) HasRoads() bool { return r.roads != nil }

// HasPostcodes reports whether the postcode layer was loaded.
func (r *Resolver) HasPostcodes() bool { return r.postcodes != nil }

// HasCoverage reports whether any coverage layer was loaded.
func (r *Resolver) HasCoverage() bool { return len(r.coverage) > 0 }

// RoadAccess returns the classification of the nearest road vertex within
// the road threshold.
func (r *Resolver) RoadAccess(easting, northing float64) models.RoadAccess {
	if r.roads == nil {
		return models.RoadAccess{State: models.Unmatched}
	}
	m, ok := r.roads.Nearest(easting, northing, r.cfg.RoadDistance)
	if !ok {
		return models.RoadAccess{State: models.Unmatched}
	}
	return models.RoadAccess{State: models.Matched, Classification: r.roadClass[m.Ordinal]}
}

// NearestPostcode returns the closest postcode centroid within the postcode
// threshold, carrying the centroid so coverage can be keyed to it.
func (r *Resolver) NearestPostcode(easting, northing float64) models.PostcodeMatch {
	if r.postcodes == nil {
		return models.PostcodeMatch{State: models.Unmatched}
	}
	m, ok := r.postcodes.Nearest(easting, northing, r.cfg.PostcodeDistance)
	if !ok {
		return models.PostcodeMatch{State: models.Unmatched}
	}
	c := r.centroids[m.Ordinal]
	return models.PostcodeMatch{
		State:    models.Matched,
		Postcode: c.Postcode,
		Easting:  c.Easting,
		Northing: c.Northing,
	}
}

// Coverage aggregates the per-provider minimum signal level at the matched
// postcode's centroid. With no postcode match there is nothing to key the
// containment test to, so the whole field is unmatched.
func (r *Resolver) Coverage(postcode models.PostcodeMatch) models.CoverageSummary {
	if len(r.coverage) == 0 || postcode.State != models.Matched {
		return models.CoverageSummary{State: models.Unmatched}
	}

	summary := ""
	for i, provider := range Providers {
		level := 0
		if pc, ok := r.coverage[provider]; ok {
			if ord, found := pc.index.Containing(postcode.Easting, postcode.Northing); found {
				level = pc.levels[ord]
			}
		}
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%s (%s)", provider, signalLabels[level])
	}
	return models.CoverageSummary{State: models.Matched, Summary: summary}
}
