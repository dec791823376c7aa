// Package scoring converts a race's raw results into individual placings,
// team score tables, and, for multi-team duals, a decomposed win/loss table.
package scoring

import (
	"context"
	"sort"

	"github.com/okian/harrier/internal/domain/model"
	"github.com/okian/harrier/internal/domain/timing"
)

// Scoring rule constants.
const (
	// minScoringRunners is how many complete results a team needs to be
	// eligible for team scoring.
	minScoringRunners = 5
	// maxTeamScorers is the deepest within-team place that still displaces
	// opponents' points.
	maxTeamScorers = 7
	// scoringRunners is how many of a team's scorers count toward its score.
	scoringRunners = 5
	// unscoreableTeamPlace marks a result with no time.
	unscoreableTeamPlace = 1000
	// missingSixthTime sorts teams without a sixth finisher last in the
	// sixth-runner tie-break.
	missingSixthTime = 999_999_999
)

// Mode is the scoring path selected once per race from its scoring type,
// eligible team count, and JV flag.
type Mode int

// Mode values.
const (
	// ModeInvitational scores the race once with every eligible team.
	ModeInvitational Mode = iota
	// ModeDual scores exactly two eligible varsity teams as one dual whose
	// outcome counts toward the season record.
	ModeDual
	// ModeMultiTeamDual decomposes three or more teams (or any JV dual)
	// into pairwise contests plus a win/loss table; no outcome is cached.
	ModeMultiTeamDual
)

// SelectMode picks the scoring path for a race.
func SelectMode(scoringType model.ScoringType, eligibleTeams int, jv bool) Mode {
	switch {
	case scoringType == model.ScoringInvitational:
		return ModeInvitational
	case eligibleTeams > 2 || jv:
		return ModeMultiTeamDual
	default:
		return ModeDual
	}
}

// IndividualResult is one row of the overall finish order.
type IndividualResult struct {
	Place      int
	ResultID   string
	RunnerID   string
	RunnerName string
	GradYear   int
	SchoolID   string
	SchoolName string
	TeamID     string
	Time       int64
	TimeText   string
	PaceText   string
	TeamPlace  int
	// Points is zero unless the runner scores for an eligible team.
	Points int
}

// TeamResult is one team's line in a score table. Lower scores win.
type TeamResult struct {
	TeamID         string
	SchoolID       string
	SchoolName     string
	SchoolLongName string
	Gender         model.Gender
	Score          int
	Place          int
	// AverageTime is the mean time of the five scoring runners.
	AverageTime int64
	// FirstFifthSpread is the gap between the first and fifth scorer.
	FirstFifthSpread int64
	// SixthTime breaks score ties; missingSixthTime when fewer than six
	// finished.
	SixthTime int64
	Scorers   []IndividualResult
}

// WinLossRow summarizes one team's pairwise record in a multi-team dual.
type WinLossRow struct {
	TeamID         string
	SchoolID       string
	SchoolLongName string
	Gender         model.Gender
	Wins           int
	Losses         int
}

// Summary is the full scored output of one race.
type Summary struct {
	RaceID     string
	Mode       Mode
	Individual []IndividualResult
	// TeamTables holds one table (invitational or two-team dual) or one
	// per scored pair.
	TeamTables [][]TeamResult
	// WinLoss is nil except for multi-team duals.
	WinLoss []WinLossRow
}

// WinningSchool returns the school that won an invitational, if the summary
// has a scored table.
func (s Summary) WinningSchool() (string, bool) {
	if s.Mode != ModeInvitational || len(s.TeamTables) == 0 || len(s.TeamTables[0]) == 0 {
		return "", false
	}
	return s.TeamTables[0][0].SchoolID, true
}

// Input is the in-memory snapshot needed to score one race. The caller
// guarantees referential integrity; results referencing teams outside the
// race are a precondition violation.
type Input struct {
	Race    model.Race
	Course  model.Course
	Teams   []model.Team
	Schools map[string]model.School
	Runners map[string]model.Runner
	Results []model.Result
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// Scorer scores races. It is stateless and safe for concurrent use.
type Scorer struct{}

// New creates a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score produces the race summary. A race with no eligible teams yields
// empty tables, not an error; scoring is a pure function of its input and
// re-scoring an unchanged race returns identical output.
func (s *Scorer) Score(_ context.Context, in Input) Summary {
	eligible := eligibleTeams(in)
	individual := s.individualResults(in, eligible)

	summary := Summary{
		RaceID:     in.Race.ID,
		Mode:       SelectMode(in.Race.ScoringType, len(eligible), in.Race.JV),
		Individual: individual,
	}

	// Corner case: fewer than two eligible teams means no team contest.
	if len(eligible) < 2 {
		return summary
	}

	switch summary.Mode {
	case ModeInvitational, ModeDual:
		summary.TeamTables = [][]TeamResult{s.scoreTeams(in, eligible, individual)}
	case ModeMultiTeamDual:
		for _, pair := range sameGenderPairs(eligible) {
			summary.TeamTables = append(summary.TeamTables, s.scoreTeams(in, pair, individual))
		}
		summary.WinLoss = winLossTable(in, eligible, summary.TeamTables)
	}
	return summary
}

// eligibleTeams returns the race's teams with at least five complete
// results, in the order they appear on the race.
func eligibleTeams(in Input) []model.Team {
	counts := make(map[string]int)
	for _, res := range in.Results {
		if res.Completed() {
			counts[res.TeamID]++
		}
	}
	var teams []model.Team
	for _, t := range in.Teams {
		if counts[t.ID] >= minScoringRunners {
			teams = append(teams, t)
		}
	}
	return teams
}

// individualResults orders complete results by (time, place) and assigns
// overall places, within-team places, and points. Points run sequentially
// across all eligible teams' scorers; everyone else gets zero.
func (s *Scorer) individualResults(in Input, eligible []model.Team) []IndividualResult {
	eligibleSet := make(map[string]bool, len(eligible))
	for _, t := range eligible {
		eligibleSet[t.ID] = true
	}

	var timed []model.Result
	for _, res := range in.Results {
		if res.Completed() {
			timed = append(timed, res)
		}
	}
	sort.Slice(timed, func(i, j int) bool {
		if timed[i].Time != timed[j].Time {
			return timed[i].Time < timed[j].Time
		}
		return timed[i].Place < timed[j].Place
	})

	teamSeen := make(map[string]int)
	rows := make([]IndividualResult, 0, len(timed))
	points := 1
	for i, res := range timed {
		teamSeen[res.TeamID]++
		teamPlace := teamSeen[res.TeamID]
		if res.Time <= 0 {
			teamPlace = unscoreableTeamPlace
		}

		runner := in.Runners[res.RunnerID]
		school := in.Schools[schoolOf(in.Teams, res.TeamID)]
		pace, _ := timing.Pace(res, in.Course)

		row := IndividualResult{
			Place:      i + 1,
			ResultID:   res.ID,
			RunnerID:   res.RunnerID,
			RunnerName: runner.DisplayName(),
			GradYear:   runner.GradYear,
			SchoolID:   school.ID,
			SchoolName: school.ShortName,
			TeamID:     res.TeamID,
			Time:       res.Time,
			TimeText:   timing.FormatTime(res.Time, 1),
			PaceText:   timing.FormatTime(int64(pace), 1),
			TeamPlace:  teamPlace,
		}
		if teamPlace <= maxTeamScorers && eligibleSet[res.TeamID] {
			row.Points = points
			points++
		}
		rows = append(rows, row)
	}
	return rows
}

// scoreTeams scores an isolated contest between the given teams, using only
// their own runners. Points are re-assigned within the contest so a pairwise
// dual is not diluted by third teams.
func (s *Scorer) scoreTeams(in Input, teams []model.Team, individual []IndividualResult) []TeamResult {
	inContest := make(map[string]bool, len(teams))
	for _, t := range teams {
		inContest[t.ID] = true
	}

	var scorers []IndividualResult
	for _, row := range individual {
		if inContest[row.TeamID] && row.TeamPlace <= maxTeamScorers {
			row.Points = len(scorers) + 1
			scorers = append(scorers, row)
		}
	}

	table := make([]TeamResult, 0, len(teams))
	for _, team := range teams {
		var own []IndividualResult
		for _, row := range scorers {
			if row.TeamID == team.ID {
				own = append(own, row)
			}
		}
		school := in.Schools[team.SchoolID]

		var score int
		var timeSum int64
		for _, row := range own[:scoringRunners] {
			score += row.Points
			timeSum += row.Time
		}
		sixth := int64(missingSixthTime)
		if len(own) > scoringRunners {
			sixth = own[scoringRunners].Time
		}

		table = append(table, TeamResult{
			TeamID:           team.ID,
			SchoolID:         school.ID,
			SchoolName:       school.ShortName,
			SchoolLongName:   school.LongName,
			Gender:           team.Gender,
			Score:            score,
			AverageTime:      timeSum / scoringRunners,
			FirstFifthSpread: own[scoringRunners-1].Time - own[0].Time,
			SixthTime:        sixth,
			Scorers:          own,
		})
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Score != table[j].Score {
			return table[i].Score < table[j].Score
		}
		return table[i].SixthTime < table[j].SixthTime
	})
	for i := range table {
		table[i].Place = i + 1
	}
	return table
}

// sameGenderPairs returns every two-team combination with matching genders.
func sameGenderPairs(teams []model.Team) [][]model.Team {
	var pairs [][]model.Team
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			if teams[i].Gender == teams[j].Gender {
				pairs = append(pairs, []model.Team{teams[i], teams[j]})
			}
		}
	}
	return pairs
}

// winLossTable tallies one win per pairwise contest won and one loss
// otherwise, sorted by wins descending then losses ascending.
func winLossTable(in Input, eligible []model.Team, tables [][]TeamResult) []WinLossRow {
	wins := make(map[string]int)
	losses := make(map[string]int)
	appeared := make(map[string]bool)
	for _, table := range tables {
		for _, tr := range table {
			appeared[tr.TeamID] = true
			if tr.Place == 1 {
				wins[tr.TeamID]++
			} else {
				losses[tr.TeamID]++
			}
		}
	}

	var rows []WinLossRow
	for _, team := range eligible {
		// A team with no same-gender opponent has no pairwise record.
		if !appeared[team.ID] {
			continue
		}
		school := in.Schools[team.SchoolID]
		rows = append(rows, WinLossRow{
			TeamID:         team.ID,
			SchoolID:       school.ID,
			SchoolLongName: school.LongName,
			Gender:         team.Gender,
			Wins:           wins[team.ID],
			Losses:         losses[team.ID],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Losses < rows[j].Losses
	})
	return rows
}

// schoolOf resolves a team ID to its school ID within the race's team list.
func schoolOf(teams []model.Team, teamID string) string {
	for _, t := range teams {
		if t.ID == teamID {
			return t.SchoolID
		}
	}
	return ""
}
