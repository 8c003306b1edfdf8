package models

// PointEnrichment is the API-facing enrichment of a single ad-hoc
// coordinate: the same derived fields a batch record receives, minus the
// record identity.
type PointEnrichment struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Easting   int     `json:"easting"`
	Northing  int     `json:"northing"`
	GridRef   string  `json:"os_grid_ref"`

	RoadAccessType string `json:"road_access_type,omitempty"`
	Postcode       string `json:"postcode,omitempty"`
	MobileCoverage string `json:"mobile_coverage,omitempty"`
}
