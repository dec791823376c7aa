package model

import "time"

// Race is one meet on one course. TeamIDs are the participating teams;
// every result in the race must belong to one of them.
//
// A race is immutable once its results are complete, except for re-scoring
// triggers such as a ScoringType toggle, which invalidate cached dual
// outcomes for the race.
type Race struct {
	ID          string
	Name        string
	Date        time.Time
	Gender      Gender
	ScoringType ScoringType
	JV          bool
	CourseID    string
	TeamIDs     []string
}

// Year returns the season year of the race.
func (r Race) Year() int {
	return r.Date.Year()
}

// HasTeam reports whether the team participates in this race.
func (r Race) HasTeam(teamID string) bool {
	for _, id := range r.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
