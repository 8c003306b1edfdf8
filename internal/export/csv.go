// Package export writes enriched records to the interchange formats the
// team actually loads onto devices: CSV for spreadsheets and GPX for GPS
// units. Failed records are excluded here; they are accounted for in the run
// summary instead.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

// WriteCSV emits one row per finalized record: composited name, verification
// status, source and derived coordinates, then metadata columns for
// rendezvous batches, then the carried-through attributes in input column
// order. Unmatched metadata fields are written as "Unknown" so a blank cell
// never masquerades as a value.
func WriteCSV(w io.Writer, records []models.EnrichedRecord) error {
	withMetadata := false
	attrKeys := []string{}
	seen := map[string]bool{}
	for _, rec := range records {
		if rec.State != models.StateFinalized {
			continue
		}
		if rec.Metadata != nil {
			withMetadata = true
		}
		for _, attr := range rec.Source.Attributes {
			if !seen[attr.Key] {
				seen[attr.Key] = true
				attrKeys = append(attrKeys, attr.Key)
			}
		}
	}

	header := []string{"Name", "Verified", "VerifiedDate", "Longitude", "Latitude",
		"Easting", "Northing", "OSGridRef1m", "What3Words", "GoogleMapsURL"}
	if withMetadata {
		header = append(header, "RoadAccessType", "Postcode", "MobileCoverage")
	}
	header = append(header, attrKeys...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: failed to write csv header: %w", err)
	}

	for _, rec := range records {
		if rec.State != models.StateFinalized {
			continue
		}
		row := []string{
			rec.Source.DisplayName(),
			strconv.FormatBool(rec.Source.Verified),
			rec.Source.VerifiedDate,
			strconv.FormatFloat(rec.Source.Longitude, 'f', -1, 64),
			strconv.FormatFloat(rec.Source.Latitude, 'f', -1, 64),
			strconv.Itoa(rec.Derived.Easting),
			strconv.Itoa(rec.Derived.Northing),
			rec.Derived.GridRef,
			rec.Derived.What3Words,
			rec.Derived.GoogleMapsURL,
		}
		if withMetadata {
			row = append(row, metadataColumns(rec.Metadata)...)
		}
		attrs := map[string]string{}
		for _, attr := range rec.Source.Attributes {
			attrs[attr.Key] = attr.Value
		}
		for _, key := range attrKeys {
			row = append(row, attrs[key])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: failed to write csv row for %s: %w", rec.Source.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAddressCSV emits the geolocated team-member sheet: the source columns
// with the extracted postcode and approximate coordinate appended. Unresolved
// addresses keep their row with the coordinate cells left blank.
func WriteAddressCSV(w io.Writer, records []models.GeolocatedAddress) error {
	attrKeys := []string{}
	seen := map[string]bool{}
	for _, rec := range records {
		for _, attr := range rec.Source.Attributes {
			if !seen[attr.Key] {
				seen[attr.Key] = true
				attrKeys = append(attrKeys, attr.Key)
			}
		}
	}

	header := []string{"Name", "Contact", "Notes", "Address", "Postcode", "Longitude", "Latitude"}
	header = append(header, attrKeys...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: failed to write csv header: %w", err)
	}

	for _, rec := range records {
		lon, lat := "", ""
		if rec.Location.Resolved {
			lon = strconv.FormatFloat(rec.Location.Longitude, 'f', -1, 64)
			lat = strconv.FormatFloat(rec.Location.Latitude, 'f', -1, 64)
		}
		row := []string{
			rec.Source.Name,
			rec.Source.Contact,
			rec.Source.Notes,
			rec.Source.Address,
			rec.Location.Postcode,
			lon,
			lat,
		}
		attrs := map[string]string{}
		for _, attr := range rec.Source.Attributes {
			attrs[attr.Key] = attr.Value
		}
		for _, key := range attrKeys {
			row = append(row, attrs[key])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: failed to write csv row for %s: %w", rec.Source.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func metadataColumns(md *models.Metadata) []string {
	if md == nil {
		return []string{"", "", ""}
	}
	road, postcode, coverage := "Unknown", "Unknown", "Unknown"
	if md.RoadAccess.State == models.Matched {
		road = md.RoadAccess.Classification
	}
	if md.Postcode.State == models.Matched {
		postcode = md.Postcode.Postcode
	}
	if md.Coverage.State == models.Matched {
		coverage = md.Coverage.Summary
	}
	return []string{road, postcode, coverage}
}
