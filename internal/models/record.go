package models

// Kind distinguishes the two record pipelines. Access points only receive
// coordinate conversions; rendezvous points additionally receive proximity
// metadata.
type Kind int

const (
	KindAccessPoint Kind = iota
	KindRendezvous
)

func (k Kind) String() string {
	switch k {
	case KindAccessPoint:
		return "AccessPoint"
	case KindRendezvous:
		return "Rendezvous"
	}
	return "Unknown"
}

// Attribute is a carried-through spreadsheet column. Attributes are opaque to
// the engine and preserved verbatim, in input column order.
type Attribute struct {
	Key   string
	Value string
}

// LocationRecord is a single input row. Source fields are never mutated after
// construction; enrichment only attaches derived data alongside them.
type LocationRecord struct {
	ID           string
	Name         string
	Kind         Kind
	Longitude    float64
	Latitude     float64
	Verified     bool
	VerifiedDate string // YYYY-MM-DD, empty when unverified
	Attributes   []Attribute
}

// DisplayName composites the name and source ID, e.g. "Ogof Ddu (AP014)".
func (r LocationRecord) DisplayName() string {
	if r.ID == "" {
		return r.Name
	}
	return r.Name + " (" + r.ID + ")"
}

// Derived holds the fields computed from the source coordinate. They are a
// pure function of (Longitude, Latitude): re-running enrichment on unchanged
// input reproduces them bit-identically.
type Derived struct {
	Easting       int
	Northing      int
	GridRef       string
	What3Words    string
	GoogleMapsURL string
}

// MatchState reports whether a proximity lookup found a feature within its
// threshold. Unmatched is explicit: it means "nothing close enough", not
// "field missing".
type MatchState int

const (
	Unmatched MatchState = iota
	Matched
)

func (s MatchState) String() string {
	if s == Matched {
		return "Matched"
	}
	return "Unmatched"
}

// RoadAccess is the nearest road classification within the road threshold.
type RoadAccess struct {
	State          MatchState
	Classification string
}

// PostcodeMatch is the nearest postcode centroid within the postcode
// threshold. The centroid is kept in projected meters because coverage
// containment is keyed to it.
type PostcodeMatch struct {
	State    MatchState
	Postcode string
	Easting  float64
	Northing float64
}

// CoverageSummary aggregates per-provider minimum signal levels at the
// matched postcode centroid into one display string.
type CoverageSummary struct {
	State   MatchState
	Summary string
}

// Metadata carries the rendezvous-only proximity fields. Each field holds its
// own match state; one unmatched field never invalidates the others.
type Metadata struct {
	RoadAccess RoadAccess
	Postcode   PostcodeMatch
	Coverage   CoverageSummary
}

// RecordState tracks a record through the enrichment state machine.
type RecordState int

const (
	StateRaw RecordState = iota
	StateTransformed
	StateMetadataResolved
	StateFinalized
	StateFailed
)

func (s RecordState) String() string {
	switch s {
	case StateRaw:
		return "Raw"
	case StateTransformed:
		return "Transformed"
	case StateMetadataResolved:
		return "MetadataResolved"
	case StateFinalized:
		return "Finalized"
	case StateFailed:
		return "Failed"
	}
	return "Unknown"
}

// EnrichedRecord is the terminal per-record result. Failed records keep their
// cause and are excluded from exports but reported in the run summary.
type EnrichedRecord struct {
	Source   LocationRecord
	Derived  Derived
	Metadata *Metadata // nil for access points
	State    RecordState
	Cause    string // set only when State is StateFailed
}
