// Package standings builds season team records and league standings from
// cached dual outcomes.
package standings

import (
	"sort"
	"time"

	"github.com/okian/harrier/internal/domain/model"
)

// zeroDualPct stands in for an undefined win percentage when a team has no
// recorded duals, so dual-less teams sort below any team with at least one
// dual while still appearing in the table.
const zeroDualPct = 0.001

// DualResult is one dual meet from the team's point of view.
type DualResult struct {
	RaceID             string
	RaceDate           time.Time
	OpponentTeamID     string
	OpponentSchoolID   string
	OpponentSchoolName string
	Won                bool
	OwnScore           int
	OpponentScore      int
}

// Rank orders teams in standings. Better teams compare Less.
type Rank struct {
	LeagueWinPct float64
	TotalWinPct  float64
	TotalWins    int
	SchoolName   string
}

// Less reports whether r ranks ahead of other: higher league win percentage
// first, then higher overall win percentage, then more total wins, then
// school name alphabetically.
func (r Rank) Less(other Rank) bool {
	if r.LeagueWinPct != other.LeagueWinPct {
		return r.LeagueWinPct > other.LeagueWinPct
	}
	if r.TotalWinPct != other.TotalWinPct {
		return r.TotalWinPct > other.TotalWinPct
	}
	if r.TotalWins != other.TotalWins {
		return r.TotalWins > other.TotalWins
	}
	return r.SchoolName < other.SchoolName
}

// TeamRecord is a team's season dual-meet record. Its totals are the
// authoritative values for the team's denormalized counters.
type TeamRecord struct {
	TeamID       string
	Gender       model.Gender
	Year         int
	SchoolID     string
	SchoolName   string
	TotalWins    int
	TotalLosses  int
	LeagueWins   int
	LeagueLosses int
	Rank         Rank
	Duals        []DualResult
}

// LeagueStandings is a sorted table of team records for one league season.
type LeagueStandings struct {
	LeagueID   string
	LeagueName string
	Year       int
	Gender     model.Gender
	Teams      []TeamRecord
}

// Input is the snapshot needed to build one team's record.
type Input struct {
	Team   model.Team
	School model.School
	// Outcomes are the dual outcomes where the team is winner or loser.
	Outcomes []model.DualOutcome
	// Lookup tables for opponents and race dates.
	Teams   map[string]model.Team
	Schools map[string]model.School
	Races   map[string]model.Race
}

// BuildTeamRecord classifies each outcome as a win or loss, counting league
// wins and losses only against opponents whose school belongs to the same
// league. Duals are listed newest first.
func BuildTeamRecord(in Input) TeamRecord {
	rec := TeamRecord{
		TeamID:     in.Team.ID,
		Gender:     in.Team.Gender,
		Year:       in.Team.Year,
		SchoolID:   in.School.ID,
		SchoolName: in.School.ShortName,
	}

	for _, outcome := range in.Outcomes {
		if !outcome.Involves(in.Team.ID) {
			continue
		}
		won := outcome.WinnerID == in.Team.ID
		oppID := outcome.LoserID
		ownScore, oppScore := outcome.WinnerScore, outcome.LoserScore
		if !won {
			oppID = outcome.WinnerID
			ownScore, oppScore = outcome.LoserScore, outcome.WinnerScore
		}
		opp := in.Teams[oppID]
		oppSchool := in.Schools[opp.SchoolID]
		race := in.Races[outcome.RaceID]

		rec.Duals = append(rec.Duals, DualResult{
			RaceID:             outcome.RaceID,
			RaceDate:           race.Date,
			OpponentTeamID:     oppID,
			OpponentSchoolID:   oppSchool.ID,
			OpponentSchoolName: oppSchool.ShortName,
			Won:                won,
			OwnScore:           ownScore,
			OpponentScore:      oppScore,
		})

		if won {
			rec.TotalWins++
		} else {
			rec.TotalLosses++
		}
		if oppSchool.LeagueID == in.School.LeagueID {
			if won {
				rec.LeagueWins++
			} else {
				rec.LeagueLosses++
			}
		}
	}

	sort.SliceStable(rec.Duals, func(i, j int) bool {
		return rec.Duals[i].RaceDate.After(rec.Duals[j].RaceDate)
	})

	rec.Rank = Rank{
		LeagueWinPct: winPct(rec.LeagueWins, rec.LeagueLosses),
		TotalWinPct:  winPct(rec.TotalWins, rec.TotalLosses),
		TotalWins:    rec.TotalWins,
		SchoolName:   in.School.ShortName,
	}
	return rec
}

// BuildLeagueStandings sorts the records best-first for one league season.
func BuildLeagueStandings(league model.League, year int, gender model.Gender, records []TeamRecord) LeagueStandings {
	sorted := make([]TeamRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank.Less(sorted[j].Rank)
	})
	return LeagueStandings{
		LeagueID:   league.ID,
		LeagueName: league.ShortName,
		Year:       year,
		Gender:     gender,
		Teams:      sorted,
	}
}

func winPct(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return zeroDualPct
	}
	return float64(wins) / float64(total)
}
