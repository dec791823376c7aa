package model

// School fields are display and league-membership data; league membership
// decides which dual outcomes count toward league standings.
type School struct {
	ID        string
	ShortName string
	LongName  string
	LeagueID  string
}

// League groups schools for standings.
type League struct {
	ID        string
	ShortName string
}
