package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

const gpxCreator = "SpatialDataIncidentResponse -- github.com/Fraser-Greenlee/SpatialDataIncidentResponse"

type gpxFile struct {
	XMLName   xml.Name      `xml:"gpx"`
	Version   string        `xml:"version,attr"`
	Creator   string        `xml:"creator,attr"`
	Namespace string        `xml:"xmlns,attr"`
	Waypoints []gpxWaypoint `xml:"wpt"`
}

type gpxWaypoint struct {
	Lat     float64 `xml:"lat,attr"`
	Lon     float64 `xml:"lon,attr"`
	Name    string  `xml:"name"`
	Comment string  `xml:"cmt,omitempty"`
	Desc    string  `xml:"desc,omitempty"`
	Symbol  string  `xml:"sym,omitempty"`
}

// WriteGPX emits finalized records as GPX 1.1 waypoints. The description
// concatenates every enriched field so GPS units with no column display
// still show the whole record; symbol is an optional device-specific string.
func WriteGPX(w io.Writer, records []models.EnrichedRecord, symbol string) error {
	file := gpxFile{
		Version:   "1.1",
		Creator:   gpxCreator,
		Namespace: "http://www.topografix.com/GPX/1/1",
	}
	for _, rec := range records {
		if rec.State != models.StateFinalized {
			continue
		}
		desc := describe(rec)
		file.Waypoints = append(file.Waypoints, gpxWaypoint{
			Lat:     rec.Source.Latitude,
			Lon:     rec.Source.Longitude,
			Name:    rec.Source.DisplayName(),
			Comment: desc,
			Desc:    desc,
			Symbol:  symbol,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: failed to write gpx header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("export: failed to encode gpx: %w", err)
	}
	return nil
}

func describe(rec models.EnrichedRecord) string {
	parts := []string{
		"Verified: " + fmt.Sprint(rec.Source.Verified),
		"Easting: " + fmt.Sprint(rec.Derived.Easting),
		"Northing: " + fmt.Sprint(rec.Derived.Northing),
		"OSGridRef1m: " + rec.Derived.GridRef,
	}
	if rec.Derived.What3Words != "" {
		parts = append(parts, "What3Words: "+rec.Derived.What3Words)
	}
	if md := rec.Metadata; md != nil {
		cols := metadataColumns(md)
		parts = append(parts,
			"RoadAccessType: "+cols[0],
			"Postcode: "+cols[1],
			"MobileCoverage: "+cols[2])
	}
	for _, attr := range rec.Source.Attributes {
		parts = append(parts, attr.Key+": "+attr.Value)
	}
	return strings.Join(parts, " | ")
}
