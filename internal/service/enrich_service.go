package service

import (
	"context"
	"fmt"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/osgrid"
)

// EnrichService contains the core business logic for ad-hoc point enrichment
type EnrichService struct {
	resolver ProximityResolver
}

// ProximityResolver interface for dependency injection
type ProximityResolver interface {
	RoadAccess(easting, northing float64) models.RoadAccess
	NearestPostcode(easting, northing float64) models.PostcodeMatch
	Coverage(postcode models.PostcodeMatch) models.CoverageSummary
}

// NewEnrichService creates a new enrich service
func NewEnrichService(resolver ProximityResolver) *EnrichService {
	return &EnrichService{resolver: resolver}
}

// EnrichPoint converts a WGS84 coordinate to the projected grid and attaches
// proximity metadata. Coordinates outside the National Grid return
// osgrid.ErrOutOfBounds.
func (s *EnrichService) EnrichPoint(ctx context.Context, lon, lat float64) (*models.PointEnrichment, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f", lon)
	}

	easting, northing := osgrid.ToProjected(lon, lat)
	gridRef, err := osgrid.GridReference(easting, northing, 1)
	if err != nil {
		return nil, fmt.Errorf("service: failed to encode grid reference: %w", err)
	}

	result := &models.PointEnrichment{
		Longitude: lon,
		Latitude:  lat,
		Easting:   int(easting),
		Northing:  int(northing),
		GridRef:   gridRef,
	}

	if road := s.resolver.RoadAccess(easting, northing); road.State == models.Matched {
		result.RoadAccessType = road.Classification
	}
	postcode := s.resolver.NearestPostcode(easting, northing)
	if postcode.State == models.Matched {
		result.Postcode = postcode.Postcode
	}
	if coverage := s.resolver.Coverage(postcode); coverage.State == models.Matched {
		result.MobileCoverage = coverage.Summary
	}
	return result, nil
}
