package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

func TestReadLocationRecords(t *testing.T) {
	csvData := `ID,Name,Longitude,Latitude,VerifiedDate,Parking,Notes
RV001,Bont Newydd,-3.80048028,53.13997834,2022-05-14,Layby for 3 cars,Gate locked in winter
RV002,Remote,-3.2,52.7,,,
`
	records, err := ReadLocationRecords(strings.NewReader(csvData), models.KindRendezvous)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "RV001", first.ID)
	assert.Equal(t, "Bont Newydd", first.Name)
	assert.Equal(t, models.KindRendezvous, first.Kind)
	assert.Equal(t, -3.80048028, first.Longitude)
	assert.True(t, first.Verified)
	assert.Equal(t, "2022-05-14", first.VerifiedDate)
	assert.Equal(t, []models.Attribute{
		{Key: "Parking", Value: "Layby for 3 cars"},
		{Key: "Notes", Value: "Gate locked in winter"},
	}, first.Attributes)

	second := records[1]
	assert.False(t, second.Verified)
	assert.Empty(t, second.VerifiedDate)
}

func TestReadLocationRecordsMissingColumn(t *testing.T) {
	_, err := ReadLocationRecords(strings.NewReader("ID,Name,Longitude\nAP1,x,-3.9\n"), models.KindAccessPoint)
	assert.ErrorContains(t, err, "missing required column Latitude")
}

func TestReadLocationRecordsDuplicateID(t *testing.T) {
	csvData := `ID,Name,Longitude,Latitude
AP1,First,-3.9,52.9
AP1,Second,-3.8,52.8
`
	_, err := ReadLocationRecords(strings.NewReader(csvData), models.KindAccessPoint)
	assert.ErrorContains(t, err, "duplicate ID AP1")
}

func TestReadLocationRecordsMalformedCoordinateIsPerRecord(t *testing.T) {
	csvData := `ID,Name,Longitude,Latitude
AP1,Fine,-3.9,52.9
AP2,Broken,not-a-number,52.8
`
	records, err := ReadLocationRecords(strings.NewReader(csvData), models.KindAccessPoint)
	require.NoError(t, err, "a malformed coordinate must not abort the sheet")
	require.Len(t, records, 2)
	// The sentinel is outside the valid range, so the orchestrator rejects
	// this record with a validation cause.
	assert.Greater(t, records[1].Longitude, 180.0)
}

func TestReadLocationRecordsUnparseableDateLeavesUnverified(t *testing.T) {
	csvData := `ID,Name,Longitude,Latitude,VerifiedDate
AP1,X,-3.9,52.9,sometime in May
`
	records, err := ReadLocationRecords(strings.NewReader(csvData), models.KindAccessPoint)
	require.NoError(t, err)
	assert.False(t, records[0].Verified)
}

func TestReadAddressRecords(t *testing.T) {
	csvData := `Name,Contact,Address,Role
A Member,07700 900000,7 Carno Bettws NP20 7GU,Surface
B Member,,The Old Chapel,Underground
`
	records, err := ReadAddressRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A Member", records[0].Name)
	assert.Equal(t, "7 Carno Bettws NP20 7GU", records[0].Address)
	assert.Equal(t, []models.Attribute{{Key: "Role", Value: "Surface"}}, records[0].Attributes)

	_, err = ReadAddressRecords(strings.NewReader("Name,Phone\nx,y\n"))
	assert.ErrorContains(t, err, "missing required column Address")
}
