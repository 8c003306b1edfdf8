package service

import (
	"context"
	"fmt"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/address"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

// AddressService contains the core business logic for address geocoding
type AddressService struct {
	resolver PostcodeResolver
}

// PostcodeResolver interface for dependency injection
type PostcodeResolver interface {
	Resolve(postcode string) (lon, lat float64, ok bool)
}

// NewAddressService creates a new address service
func NewAddressService(resolver PostcodeResolver) *AddressService {
	return &AddressService{resolver: resolver}
}

// Geocode resolves a free-text address to an approximate coordinate via its
// extracted postcode. An address with no postcode-shaped token or an unknown
// postcode yields an explicitly unresolved location, not an error.
func (s *AddressService) Geocode(ctx context.Context, addr string) (models.ApproximateLocation, error) {
	if addr == "" {
		return models.ApproximateLocation{}, fmt.Errorf("service: address cannot be empty")
	}

	postcode, ok := address.ExtractPostcode(addr)
	if !ok {
		return models.ApproximateLocation{Resolved: false}, nil
	}

	lon, lat, ok := s.resolver.Resolve(postcode)
	if !ok {
		return models.ApproximateLocation{Resolved: false, Postcode: postcode}, nil
	}
	return models.ApproximateLocation{
		Resolved:  true,
		Postcode:  postcode,
		Longitude: lon,
		Latitude:  lat,
	}, nil
}
