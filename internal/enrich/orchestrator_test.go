package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/external"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/geoindex"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/resolver"
)

// MockWordsClient is a mock implementation of the WordsClient interface
type MockWordsClient struct {
	mock.Mock
}

func (m *MockWordsClient) Words(ctx context.Context, lon, lat float64) (string, error) {
	args := m.Called(ctx, lon, lat)
	return args.String(0), args.Error(1)
}

// testResolver indexes a postcode centroid and a road segment around the
// Conwy valley test coordinate (-3.80048028, 53.13997834), which projects to
// roughly (279660, 361829).
func testResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	roads := []refdata.RoadSegment{
		{Classification: "Minor Road", Line: []geoindex.Point{
			{Easting: 279650, Northing: 361860}, {Easting: 279700, Northing: 361860},
		}},
	}
	centroids := []refdata.PostcodeCentroid{
		{Postcode: "LL260DF", Easting: 279700, Northing: 361900},
	}
	r, err := resolver.New(resolver.DefaultConfig(), roads, centroids, nil)
	require.NoError(t, err)
	return r
}

func newOrchestrator(t *testing.T, words WordsClient, workers int) *Orchestrator {
	t.Helper()
	return New(testResolver(t), words, external.GoogleMapsURL, workers, zerolog.Nop())
}

func TestRunAccessPoint(t *testing.T) {
	o := newOrchestrator(t, nil, 1)
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "AP001", Name: "Ogof Ddu", Kind: models.KindAccessPoint, Longitude: -3.96894, Latitude: 52.99787},
	})
	require.Len(t, out, 1)
	rec := out[0]

	assert.Equal(t, models.StateFinalized, rec.State)
	assert.Nil(t, rec.Metadata, "access points receive no proximity metadata")
	assert.InDelta(t, 267958, rec.Derived.Easting, 5)
	assert.InDelta(t, 346317, rec.Derived.Northing, 5)
	assert.Regexp(t, `^SH \d{5} \d{5}$`, rec.Derived.GridRef)
	assert.Equal(t, external.GoogleMapsURL(-3.96894, 52.99787), rec.Derived.GoogleMapsURL)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Finalized)
	assert.Zero(t, summary.Failed)
}

func TestRunRendezvousMetadata(t *testing.T) {
	o := newOrchestrator(t, nil, 1)
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "RV001", Name: "Bont Newydd", Kind: models.KindRendezvous, Longitude: -3.80048028, Latitude: 53.13997834},
	})
	require.Len(t, out, 1)
	md := out[0].Metadata
	require.NotNil(t, md)

	assert.Equal(t, models.Matched, md.Postcode.State)
	assert.Equal(t, "LL260DF", md.Postcode.Postcode)
	assert.Equal(t, models.Matched, md.RoadAccess.State)
	assert.Equal(t, "Minor Road", md.RoadAccess.Classification)
	// No coverage layer loaded: explicit unmatched, counted in the summary.
	assert.Equal(t, models.Unmatched, md.Coverage.State)
	assert.Equal(t, 1, summary.UnmatchedCoverage)
	assert.Zero(t, summary.UnmatchedPostcode)
}

func TestRunRendezvousBeyondThresholds(t *testing.T) {
	o := newOrchestrator(t, nil, 1)
	// A valid grid coordinate tens of kilometers from every reference
	// feature: all metadata fields unmatched, record still finalized.
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "RV002", Name: "Remote", Kind: models.KindRendezvous, Longitude: -3.2, Latitude: 52.7},
	})
	require.Len(t, out, 1)
	require.Equal(t, models.StateFinalized, out[0].State)
	md := out[0].Metadata
	require.NotNil(t, md)
	assert.Equal(t, models.Unmatched, md.RoadAccess.State)
	assert.Equal(t, models.Unmatched, md.Postcode.State)
	assert.Equal(t, 1, summary.UnmatchedRoad)
	assert.Equal(t, 1, summary.UnmatchedPostcode)
}

func TestRunIsolatesBadRecords(t *testing.T) {
	o := newOrchestrator(t, nil, 2)
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "AP001", Name: "Good", Kind: models.KindAccessPoint, Longitude: -3.96894, Latitude: 52.99787},
		{ID: "AP002", Name: "Bad lon", Kind: models.KindAccessPoint, Longitude: 181, Latitude: 52.0},
		{ID: "", Name: "No ID", Kind: models.KindAccessPoint, Longitude: -3.9, Latitude: 52.9},
		{ID: "AP004", Name: "Outside grid", Kind: models.KindAccessPoint, Longitude: 10.0, Latitude: 40.0},
		{ID: "AP005", Name: "Also good", Kind: models.KindAccessPoint, Longitude: -3.80048028, Latitude: 53.13997834},
	})
	require.Len(t, out, 5)

	assert.Equal(t, models.StateFinalized, out[0].State)
	assert.Equal(t, models.StateFailed, out[1].State)
	assert.Contains(t, out[1].Cause, "validation")
	assert.Equal(t, models.StateFailed, out[2].State)
	assert.Contains(t, out[2].Cause, "required field ID")
	assert.Equal(t, models.StateFailed, out[3].State)
	assert.Contains(t, out[3].Cause, "transform")
	assert.Equal(t, models.StateFinalized, out[4].State)

	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 2, summary.Finalized)
	assert.Equal(t, 3, summary.Failed)
	require.Len(t, summary.Failures, 3)
	assert.Equal(t, "AP002", summary.Failures[0].ID)
}

func TestRunPreservesInputOrder(t *testing.T) {
	o := newOrchestrator(t, nil, 8)
	records := make([]models.LocationRecord, 200)
	for i := range records {
		records[i] = models.LocationRecord{
			ID:        fmt.Sprintf("RV%03d", i),
			Name:      "RV",
			Kind:      models.KindRendezvous,
			Longitude: -3.8 + float64(i)*1e-4,
			Latitude:  53.1,
		}
	}
	out, _ := o.Run(context.Background(), records)
	require.Len(t, out, len(records))
	for i, rec := range out {
		assert.Equal(t, records[i].ID, rec.Source.ID, "output order must match input order under parallel execution")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	o := newOrchestrator(t, nil, 4)
	records := []models.LocationRecord{
		{ID: "AP001", Name: "Ogof Ddu", Kind: models.KindAccessPoint, Longitude: -3.96894, Latitude: 52.99787},
		{ID: "RV001", Name: "Bont Newydd", Kind: models.KindRendezvous, Longitude: -3.80048028, Latitude: 53.13997834},
	}
	first, firstSummary := o.Run(context.Background(), records)
	second, secondSummary := o.Run(context.Background(), records)
	assert.Equal(t, first, second, "derived fields must be bit-identical across runs on unchanged input")
	assert.Equal(t, firstSummary, secondSummary)
}

func TestRunWhat3WordsSuccess(t *testing.T) {
	words := new(MockWordsClient)
	words.On("Words", mock.Anything, -3.96894, 52.99787).Return("filled.count.soap", nil)

	o := newOrchestrator(t, words, 1)
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "AP001", Name: "Ogof Ddu", Kind: models.KindAccessPoint, Longitude: -3.96894, Latitude: 52.99787},
	})
	assert.Equal(t, "filled.count.soap", out[0].Derived.What3Words)
	assert.Empty(t, summary.Warnings)
	words.AssertExpectations(t)
}

func TestRunWhat3WordsFailureDegradesFieldOnly(t *testing.T) {
	words := new(MockWordsClient)
	words.On("Words", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	o := newOrchestrator(t, words, 1)
	out, summary := o.Run(context.Background(), []models.LocationRecord{
		{ID: "AP001", Name: "Ogof Ddu", Kind: models.KindAccessPoint, Longitude: -3.96894, Latitude: 52.99787},
	})
	assert.Equal(t, models.StateFinalized, out[0].State, "collaborator failure must not fail the record")
	assert.Empty(t, out[0].Derived.What3Words)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "what3words unavailable")
}
