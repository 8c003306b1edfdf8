// Package address resolves free-text postal addresses to approximate
// coordinates by extracting a postcode and looking up its centroid.
package address

import (
	"regexp"
	"strings"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/osgrid"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
)

// postcodePattern matches UK-postcode-shaped tokens, including the special
// outward codes (BFPO, overseas territories, GIR).
// https://stackoverflow.com/questions/164979/regex-for-matching-uk-postcodes
var postcodePattern = regexp.MustCompile(`(([A-Z]{1,2}\d[A-Z\d]?|ASCN|STHL|TDCU|BBND|[BFS]IQQ|PCRN|TKCA) ?\d[A-Z]{2}|BFPO ?\d{1,4}|(KY\d|MSR|VG|AI)[ -]?\d{4}|[A-Z]{2} ?\d{2}|GE ?CX|GIR ?0A{2}|SAN ?TA1)`)

// ExtractPostcode returns the last postcode-shaped token in the address,
// upper-cased and space-stripped. Addresses routinely mention street-like
// tokens that also match the pattern, and the postcode conventionally comes
// last, so the final match wins.
func ExtractPostcode(addr string) (string, bool) {
	matches := postcodePattern.FindAllString(strings.ToUpper(addr), -1)
	if len(matches) == 0 {
		return "", false
	}
	return refdata.NormalizePostcode(matches[len(matches)-1]), true
}

// Resolver maps normalized postcodes to centroids and converts them back to
// WGS84. The table is immutable after construction.
type Resolver struct {
	centroids map[string]refdata.PostcodeCentroid
}

// NewResolver builds the lookup table from a postcode centroid layer.
func NewResolver(centroids []refdata.PostcodeCentroid) *Resolver {
	table := make(map[string]refdata.PostcodeCentroid, len(centroids))
	for _, c := range centroids {
		key := refdata.NormalizePostcode(c.Postcode)
		if _, exists := table[key]; !exists {
			table[key] = c
		}
	}
	return &Resolver{centroids: table}
}

// Resolve returns the WGS84 coordinate of a postcode's centroid. Unknown
// postcodes are reported as not found, never as a zero coordinate.
func (r *Resolver) Resolve(postcode string) (lon, lat float64, ok bool) {
	c, ok := r.centroids[refdata.NormalizePostcode(postcode)]
	if !ok {
		return 0, 0, false
	}
	lon, lat = osgrid.ToGeodetic(c.Easting, c.Northing)
	return lon, lat, true
}

// Geolocate resolves one address record. Records with no extractable or no
// known postcode come back explicitly unresolved.
func (r *Resolver) Geolocate(record models.AddressRecord) models.GeolocatedAddress {
	result := models.GeolocatedAddress{Source: record}

	postcode, ok := ExtractPostcode(record.Address)
	if !ok {
		return result
	}
	result.Location.Postcode = postcode

	lon, lat, ok := r.Resolve(postcode)
	if !ok {
		return result
	}
	result.Location.Resolved = true
	result.Location.Longitude = lon
	result.Location.Latitude = lat
	return result
}

// GeolocateAll resolves a batch in input order.
func (r *Resolver) GeolocateAll(records []models.AddressRecord) []models.GeolocatedAddress {
	out := make([]models.GeolocatedAddress, len(records))
	for i, record := range records {
		out[i] = r.Geolocate(record)
	}
	return out
}
