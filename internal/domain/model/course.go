package model

// Course is a venue with a fixed distance and a difficulty adjustment.
//
// Adjustment is a signed fraction relative to the normalized baseline:
// +0.03 means runners go about 3% slower here than on a neutral course.
// Only the course adjuster writes it. Distance never changes after creation.
type Course struct {
	ID   string
	Name string

	// Distance in miles.
	Distance float64

	// Adjustment is forced to zero for championship courses.
	Adjustment   float64
	Championship bool
}
