package models

// AddressRecord is one row of the team-member pipeline: a free-text address
// that may contain a postcode.
type AddressRecord struct {
	Name       string
	Contact    string
	Notes      string
	Address    string
	Attributes []Attribute
}

// ApproximateLocation is the coordinate resolved from an address's extracted
// postcode. Resolved is explicit: an unresolved record never carries a
// zero-valued coordinate masquerading as a real one.
type ApproximateLocation struct {
	Resolved  bool    `json:"resolved"`
	Postcode  string  `json:"postcode,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
}

// GeolocatedAddress pairs an input address record with its resolution result.
type GeolocatedAddress struct {
	Source   AddressRecord
	Location ApproximateLocation
}
