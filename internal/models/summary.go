package models

// Failure records why a single record was excluded from output.
type Failure struct {
	ID    string
	Cause string
}

// RunSummary is the batch-level accounting: every input record is either
// finalized or listed as a failure, and unmatched counts are tracked per
// metadata field.
type RunSummary struct {
	Processed         int
	Finalized         int
	Failed            int
	UnmatchedRoad     int
	UnmatchedPostcode int
	UnmatchedCoverage int
	Failures          []Failure
	Warnings          []string
}
