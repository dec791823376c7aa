package model

// DualOutcome caches the result of one clean two-team varsity dual within a
// race, keyed by the unordered team pair. Rows exist only for races scored as
// exactly a two-team dual; multi-team or JV decompositions delete any rows
// for the race instead of recreating them, and invitationals never produce
// rows. Season standings are tallied from these rows.
type DualOutcome struct {
	ID          string
	RaceID      string
	WinnerID    string
	LoserID     string
	WinnerScore int
	LoserScore  int
}

// Involves reports whether the team is either side of the outcome.
func (o DualOutcome) Involves(teamID string) bool {
	return o.WinnerID == teamID || o.LoserID == teamID
}

// SamePair reports whether the outcome covers the same unordered team pair.
func (o DualOutcome) SamePair(teamA, teamB string) bool {
	return (o.WinnerID == teamA && o.LoserID == teamB) ||
		(o.WinnerID == teamB && o.LoserID == teamA)
}
