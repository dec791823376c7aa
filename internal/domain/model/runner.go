package model

// Runner is an athlete. SeedTime is a 5km-equivalent projection in
// milliseconds, written only by the seed time estimator.
type Runner struct {
	ID        string
	FirstName string
	LastName  string
	GradYear  int
	SeedTime  int64
}

// DisplayName returns the runner's full name.
func (r Runner) DisplayName() string {
	return r.FirstName + " " + r.LastName
}
