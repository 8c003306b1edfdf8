// Package refdata loads the read-only reference layers the enrichment run
// depends on: postcode centroids, road segments and mobile coverage areas.
// Layers are loaded once per run, in the projected frame, and never written.
package refdata

import (
	"time"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/geoindex"
)

// PostcodeCentroid is one Code-Point Open row: a postcode and its centroid
// in projected meters. Postcodes are stored space-stripped and upper-cased.
type PostcodeCentroid struct {
	Postcode string
	Easting  float64
	Northing float64
}

// RoadSegment is one road line with its classification (e.g. "A Road",
// "Restricted Local Access Road").
type RoadSegment struct {
	Classification string
	Line           []geoindex.Point
}

// CoverageArea is one provider's predicted-signal polygon. SignalLevel uses
// the regulator's 0..4 scale.
type CoverageArea struct {
	Provider    string
	SignalLevel int
	Polygon     geoindex.Polygon
}

// Retry runs fn up to attempts times, sleeping delay between failures. Used
// around layer loads and collaborator calls so a transient outage degrades
// gracefully instead of aborting the batch.
func Retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
