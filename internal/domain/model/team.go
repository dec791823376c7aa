package model

// Team is one school's squad for a season. The win/loss counters are
// denormalized: the standings aggregator recomputes and overwrites them from
// cached dual outcomes and is the only writer. Nothing increments them in
// place.
type Team struct {
	ID       string
	SchoolID string
	Gender   Gender
	Year     int

	Wins         int
	Losses       int
	LeagueWins   int
	LeagueLosses int
}
