package model

// Result is one runner's finish in one race. Time is raw milliseconds on the
// race's own course and is meaningful only when Status is StatusComplete.
// Place is the recorded finish order, used as a tie-break when times are
// equal. Results with StatusNotStarted are deleted if the runner never
// starts.
type Result struct {
	ID       string
	RunnerID string
	RaceID   string
	TeamID   string

	Time   int64
	Place  int
	Status ResultStatus
}

// Completed reports whether the result carries a finish time.
func (r Result) Completed() bool {
	return r.Status == StatusComplete && r.Time > 0
}
