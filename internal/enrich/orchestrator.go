// Package enrich drives a batch enrichment run: every input record moves
// through Raw -> Transformed -> MetadataResolved (rendezvous only) ->
// Finalized, or ends Failed with a cause. The batch always completes; a bad
// record never aborts its neighbours.
package enrich

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/osgrid"
)

// gridRefResolution is the emitted grid-reference resolution in meters.
const gridRefResolution = 1

// MetadataResolver is the proximity lookup surface the orchestrator needs
// for rendezvous records.
type MetadataResolver interface {
	RoadAccess(easting, northing float64) models.RoadAccess
	NearestPostcode(easting, northing float64) models.PostcodeMatch
	Coverage(postcode models.PostcodeMatch) models.CoverageSummary
}

// WordsClient is the three-word-address collaborator. A nil client simply
// leaves the field empty.
type WordsClient interface {
	Words(ctx context.Context, lon, lat float64) (string, error)
}

// URLBuilder derives the map deep link for a coordinate.
type URLBuilder func(lon, lat float64) string

// Orchestrator runs enrichment over an immutable input set against
// read-only reference indices. Records are processed concurrently; output
// order always equals input order.
type Orchestrator struct {
	resolver MetadataResolver
	words    WordsClient
	mapsURL  URLBuilder
	workers  int
	logger   zerolog.Logger
}

// New builds an orchestrator. workers below 1 is clamped to 1.
func New(resolver MetadataResolver, words WordsClient, mapsURL URLBuilder, workers int, logger zerolog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		resolver: resolver,
		words:    words,
		mapsURL:  mapsURL,
		workers:  workers,
		logger:   logger,
	}
}

type recordResult struct {
	record   models.EnrichedRecord
	warnings []string
}

// Run enriches every record and reports the batch accounting. The returned
// slice holds one entry per input record in input order; failed records are
// present with StateFailed so callers can exclude them from exports while
// the summary still accounts for them.
func (o *Orchestrator) Run(ctx context.Context, records []models.LocationRecord) ([]models.EnrichedRecord, models.RunSummary) {
	results := make([]recordResult, len(records))
	tasks := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				results[i] = o.enrichOne(ctx, records[i])
			}
		}()
	}
	for i := range records {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	out := make([]models.EnrichedRecord, len(records))
	summary := models.RunSummary{Processed: len(records)}
	for i, res := range results {
		out[i] = res.record
		summary.Warnings = append(summary.Warnings, res.warnings...)

		if res.record.State == models.StateFailed {
			summary.Failed++
			summary.Failures = append(summary.Failures, models.Failure{
				ID:    res.record.Source.ID,
				Cause: res.record.Cause,
			})
			o.logger.Warn().Str("id", res.record.Source.ID).Str("cause", res.record.Cause).Msg("record failed")
			continue
		}

		summary.Finalized++
		if md := res.record.Metadata; md != nil {
			if md.RoadAccess.State == models.Unmatched {
				summary.UnmatchedRoad++
			}
			if md.Postcode.State == models.Unmatched {
				summary.UnmatchedPostcode++
			}
			if md.Coverage.State == models.Unmatched {
				summary.UnmatchedCoverage++
			}
		}
	}
	o.logger.Info().
		Int("processed", summary.Processed).
		Int("finalized", summary.Finalized).
		Int("failed", summary.Failed).
		Msg("enrichment run complete")
	return out, summary
}

func (o *Orchestrator) enrichOne(ctx context.Context, record models.LocationRecord) recordResult {
	enriched := models.EnrichedRecord{Source: record, State: models.StateRaw}

	if cause, ok := validate(record); !ok {
		enriched.State = models.StateFailed
		enriched.Cause = cause
		return recordResult{record: enriched}
	}

	easting, northing := osgrid.ToProjected(record.Longitude, record.Latitude)
	gridRef, err := osgrid.GridReference(easting, northing, gridRefResolution)
	if err != nil {
		enriched.State = models.StateFailed
		enriched.Cause = fmt.Sprintf("transform: %v", err)
		return recordResult{record: enriched}
	}
	enriched.Derived = models.Derived{
		Easting:  int(easting),
		Northing: int(northing),
		GridRef:  gridRef,
	}
	enriched.State = models.StateTransformed

	if record.Kind == models.KindRendezvous {
		postcode := o.resolver.NearestPostcode(easting, northing)
		enriched.Metadata = &models.Metadata{
			RoadAccess: o.resolver.RoadAccess(easting, northing),
			Postcode:   postcode,
			Coverage:   o.resolver.Coverage(postcode),
		}
		enriched.State = models.StateMetadataResolved
	}

	var warnings []string
	if o.mapsURL != nil {
		enriched.Derived.GoogleMapsURL = o.mapsURL(record.Longitude, record.Latitude)
	}
	if o.words != nil {
		words, err := o.words.Words(ctx, record.Longitude, record.Latitude)
		if err != nil {
			// Collaborator failure degrades this one field, never the record.
			warnings = append(warnings, fmt.Sprintf("record %s: what3words unavailable: %v", record.ID, err))
		} else {
			enriched.Derived.What3Words = words
		}
	}

	enriched.State = models.StateFinalized
	return recordResult{record: enriched, warnings: warnings}
}

// validate enforces the input contract: required fields present and the
// coordinate inside the WGS84 range.
func validate(record models.LocationRecord) (cause string, ok bool) {
	switch {
	case record.ID == "":
		return "validation: missing required field ID", false
	case record.Name == "":
		return "validation: missing required field Name", false
	case math.IsNaN(record.Longitude) || math.IsNaN(record.Latitude):
		return "validation: coordinate is not a number", false
	case record.Longitude < -180 || record.Longitude > 180:
		return fmt.Sprintf("validation: longitude %v out of range", record.Longitude), false
	case record.Latitude < -90 || record.Latitude > 90:
		return fmt.Sprintf("validation: latitude %v out of range", record.Latitude), false
	}
	return "", true
}
