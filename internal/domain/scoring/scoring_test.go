package scoring_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/harrier/internal/adapters/repository"
	"github.com/okian/harrier/internal/domain/model"
	"github.com/okian/harrier/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fixture assembles a scoring input one team and one finisher at a time.
// Finish times are derived from overall place so the finish order is exactly
// the insertion order of places.
type fixture struct {
	in scoring.Input
}

func newFixture(scoringType model.ScoringType) *fixture {
	f := &fixture{}
	f.in.Race = model.Race{
		ID:          "race-1",
		Name:        "League Meet",
		Date:        time.Date(2023, 10, 7, 0, 0, 0, 0, time.UTC),
		Gender:      model.GenderBoys,
		ScoringType: scoringType,
		CourseID:    "course-1",
	}
	f.in.Course = model.Course{ID: "course-1", Name: "Crystal Springs", Distance: 2.95}
	f.in.Schools = make(map[string]model.School)
	f.in.Runners = make(map[string]model.Runner)
	return f
}

func (f *fixture) addTeam(id, school string, gender model.Gender) {
	schoolID := "school-" + id
	f.in.Schools[schoolID] = model.School{
		ID:        schoolID,
		ShortName: school,
		LongName:  school + " High School",
	}
	f.in.Teams = append(f.in.Teams, model.Team{
		ID:       id,
		SchoolID: schoolID,
		Gender:   gender,
		Year:     2023,
	})
	f.in.Race.TeamIDs = append(f.in.Race.TeamIDs, id)
}

func (f *fixture) addFinisher(teamID string, place int) {
	runnerID := fmt.Sprintf("runner-%s-%d", teamID, place)
	f.in.Runners[runnerID] = model.Runner{
		ID:        runnerID,
		FirstName: "Runner",
		LastName:  fmt.Sprintf("%s-%d", teamID, place),
		GradYear:  2025,
	}
	f.in.Results = append(f.in.Results, model.Result{
		ID:       fmt.Sprintf("result-%s-%d", teamID, place),
		RunnerID: runnerID,
		RaceID:   f.in.Race.ID,
		TeamID:   teamID,
		Time:     1_000_000 + int64(place)*10_000,
		Place:    place,
		Status:   model.StatusComplete,
	})
}

// addFinishers registers one finisher per overall place.
func (f *fixture) addFinishers(teamID string, places ...int) {
	for _, p := range places {
		f.addFinisher(teamID, p)
	}
}

func TestSelectMode(t *testing.T) {
	Convey("Mode selection follows scoring type, team count, and JV flag", t, func() {
		So(scoring.SelectMode(model.ScoringInvitational, 10, false), ShouldEqual, scoring.ModeInvitational)
		So(scoring.SelectMode(model.ScoringInvitational, 2, true), ShouldEqual, scoring.ModeInvitational)
		So(scoring.SelectMode(model.ScoringDual, 2, false), ShouldEqual, scoring.ModeDual)
		So(scoring.SelectMode(model.ScoringDual, 3, false), ShouldEqual, scoring.ModeMultiTeamDual)
		So(scoring.SelectMode(model.ScoringDual, 2, true), ShouldEqual, scoring.ModeMultiTeamDual)
	})
}

func TestScoreTwoTeamDual(t *testing.T) {
	Convey("Given a varsity dual where the teams alternate finishes", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addFinishers("team-a", 1, 3, 5, 7, 9)
		f.addFinishers("team-b", 2, 4, 6, 8, 10)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then the race scores as a dual with one two-row table", func() {
			So(sum.Mode, ShouldEqual, scoring.ModeDual)
			So(sum.TeamTables, ShouldHaveLength, 1)
			So(sum.TeamTables[0], ShouldHaveLength, 2)
			So(sum.WinLoss, ShouldBeNil)
		})

		Convey("Then the odd places beat the even places 25 to 30", func() {
			table := sum.TeamTables[0]
			So(table[0].TeamID, ShouldEqual, "team-a")
			So(table[0].Score, ShouldEqual, 25)
			So(table[0].Place, ShouldEqual, 1)
			So(table[1].TeamID, ShouldEqual, "team-b")
			So(table[1].Score, ShouldEqual, 30)
			So(table[1].Place, ShouldEqual, 2)
		})

		Convey("Then individual places and points run 1..10 in finish order", func() {
			So(sum.Individual, ShouldHaveLength, 10)
			for i, row := range sum.Individual {
				So(row.Place, ShouldEqual, i+1)
				So(row.Points, ShouldEqual, i+1)
			}
			So(sum.Individual[0].TeamID, ShouldEqual, "team-a")
			So(sum.Individual[0].SchoolName, ShouldEqual, "Aragon")
		})

		Convey("Then the winner's spread covers its first to fifth scorer", func() {
			// Places 1 and 9 are 80,000ms apart at 10,000ms per place.
			So(sum.TeamTables[0][0].FirstFifthSpread, ShouldEqual, int64(80_000))
		})

		Convey("And reconciling records exactly one dual outcome", func() {
			store := repository.NewMemStore()
			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)

			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldHaveLength, 1)
			So(outcomes[0].WinnerID, ShouldEqual, "team-a")
			So(outcomes[0].LoserID, ShouldEqual, "team-b")
			So(outcomes[0].WinnerScore, ShouldEqual, 25)
			So(outcomes[0].LoserScore, ShouldEqual, 30)

			Convey("And reconciling again keeps the same row", func() {
				So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
				again, err := store.OutcomesByRace(context.Background(), "race-1")
				So(err, ShouldBeNil)
				So(again, ShouldHaveLength, 1)
				So(again[0].ID, ShouldEqual, outcomes[0].ID)
			})
		})
	})
}

func TestScoreMultiTeamDual(t *testing.T) {
	Convey("Given a triangular dual with round-robin finishes", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addTeam("team-c", "Capuchino", model.GenderBoys)
		f.addFinishers("team-a", 1, 4, 7, 10, 13)
		f.addFinishers("team-b", 2, 5, 8, 11, 14)
		f.addFinishers("team-c", 3, 6, 9, 12, 15)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then every pair gets its own re-pointed table", func() {
			So(sum.Mode, ShouldEqual, scoring.ModeMultiTeamDual)
			So(sum.TeamTables, ShouldHaveLength, 3)
			for _, table := range sum.TeamTables {
				So(table, ShouldHaveLength, 2)
				// Alternating finishes always re-point to 25 vs 30.
				So(table[0].Score, ShouldEqual, 25)
				So(table[1].Score, ShouldEqual, 30)
			}
		})

		Convey("Then the win/loss table orders teams by pairwise record", func() {
			So(sum.WinLoss, ShouldHaveLength, 3)
			So(sum.WinLoss[0].TeamID, ShouldEqual, "team-a")
			So(sum.WinLoss[0].Wins, ShouldEqual, 2)
			So(sum.WinLoss[0].Losses, ShouldEqual, 0)
			So(sum.WinLoss[1].TeamID, ShouldEqual, "team-b")
			So(sum.WinLoss[1].Wins, ShouldEqual, 1)
			So(sum.WinLoss[1].Losses, ShouldEqual, 1)
			So(sum.WinLoss[2].TeamID, ShouldEqual, "team-c")
			So(sum.WinLoss[2].Wins, ShouldEqual, 0)
			So(sum.WinLoss[2].Losses, ShouldEqual, 2)
		})

		Convey("And reconciling deletes any cached outcome for the race", func() {
			store := repository.NewMemStore()
			store.PutOutcome(model.DualOutcome{
				ID:       "stale",
				RaceID:   "race-1",
				WinnerID: "team-a",
				LoserID:  "team-b",
			})

			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldBeEmpty)
		})
	})

	Convey("Given a combined race with a lone girls team", t, func() {
		f := newFixture(model.ScoringDual)
		f.in.Race.Gender = model.GenderCombo
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addTeam("team-c", "Capuchino", model.GenderBoys)
		f.addTeam("team-g", "Galileo", model.GenderGirls)
		f.addFinishers("team-a", 1, 4, 7, 10, 13)
		f.addFinishers("team-b", 2, 5, 8, 11, 14)
		f.addFinishers("team-c", 3, 6, 9, 12, 15)
		f.addFinishers("team-g", 16, 17, 18, 19, 20)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then the girls team pairs with nobody and has no record", func() {
			So(sum.TeamTables, ShouldHaveLength, 3)
			So(sum.WinLoss, ShouldHaveLength, 3)
			for _, row := range sum.WinLoss {
				So(row.TeamID, ShouldNotEqual, "team-g")
			}
		})
	})
}

func TestScoreInvitational(t *testing.T) {
	Convey("Given an invitational with three full teams", t, func() {
		f := newFixture(model.ScoringInvitational)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addTeam("team-c", "Capuchino", model.GenderBoys)
		f.addFinishers("team-a", 1, 4, 7, 10, 13)
		f.addFinishers("team-b", 2, 5, 8, 11, 14)
		f.addFinishers("team-c", 3, 6, 9, 12, 15)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then all teams score in a single combined table", func() {
			So(sum.Mode, ShouldEqual, scoring.ModeInvitational)
			So(sum.TeamTables, ShouldHaveLength, 1)
			So(sum.TeamTables[0], ShouldHaveLength, 3)
			So(sum.WinLoss, ShouldBeNil)

			school, ok := sum.WinningSchool()
			So(ok, ShouldBeTrue)
			So(school, ShouldEqual, "school-team-a")
		})

		Convey("And reconciling leaves stored outcomes alone", func() {
			store := repository.NewMemStore()
			store.PutOutcome(model.DualOutcome{
				ID:       "kept",
				RaceID:   "race-1",
				WinnerID: "team-a",
				LoserID:  "team-b",
			})

			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldHaveLength, 1)
		})
	})
}

func TestScoreEligibility(t *testing.T) {
	Convey("Given three entered teams but one with only four finishers", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addTeam("team-c", "Capuchino", model.GenderBoys)
		f.addFinishers("team-a", 1, 4, 7, 10, 13)
		f.addFinishers("team-b", 2, 5, 8, 11, 14)
		f.addFinishers("team-c", 3, 6, 9, 12)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then the race collapses to a clean two-team dual", func() {
			So(sum.Mode, ShouldEqual, scoring.ModeDual)
			So(sum.TeamTables, ShouldHaveLength, 1)
			So(sum.TeamTables[0], ShouldHaveLength, 2)
		})

		Convey("Then the incomplete team's runners still place but never score", func() {
			for _, row := range sum.Individual {
				if row.TeamID == "team-c" {
					So(row.Points, ShouldEqual, 0)
				}
			}
		})
	})

	Convey("Given a race with only one eligible team", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addFinishers("team-a", 1, 2, 3, 4, 5)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then individuals place but no team contest happens", func() {
			So(sum.Individual, ShouldHaveLength, 5)
			So(sum.TeamTables, ShouldBeEmpty)
			So(sum.WinLoss, ShouldBeNil)
		})

		Convey("And reconciling is a no-op", func() {
			store := repository.NewMemStore()
			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldBeEmpty)
		})
	})

	Convey("Given a race with no results at all", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then the summary is empty but well-formed", func() {
			So(sum.RaceID, ShouldEqual, "race-1")
			So(sum.Individual, ShouldBeEmpty)
			So(sum.TeamTables, ShouldBeEmpty)
		})
	})
}

func TestScoreJVDual(t *testing.T) {
	Convey("Given a two-team JV dual", t, func() {
		f := newFixture(model.ScoringDual)
		f.in.Race.JV = true
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		f.addFinishers("team-a", 1, 3, 5, 7, 9)
		f.addFinishers("team-b", 2, 4, 6, 8, 10)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then it scores as a multi-team dual with a win/loss table", func() {
			So(sum.Mode, ShouldEqual, scoring.ModeMultiTeamDual)
			So(sum.TeamTables, ShouldHaveLength, 1)
			So(sum.WinLoss, ShouldHaveLength, 2)
		})

		Convey("And reconciling erases any varsity outcome for the race", func() {
			store := repository.NewMemStore()
			store.PutOutcome(model.DualOutcome{
				ID:       "varsity",
				RaceID:   "race-1",
				WinnerID: "team-a",
				LoserID:  "team-b",
			})

			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldBeEmpty)
		})
	})
}

func TestScoreSixthRunnerTieBreak(t *testing.T) {
	Convey("Given a dual where both teams score 28", t, func() {
		f := newFixture(model.ScoringDual)
		f.addTeam("team-a", "Aragon", model.GenderBoys)
		f.addTeam("team-b", "Burlingame", model.GenderBoys)
		// Each team's top five sum to 28; the sixth runners decide it.
		f.addFinishers("team-a", 1, 4, 6, 8, 9, 10)
		f.addFinishers("team-b", 2, 3, 5, 7, 11, 12)

		sum := scoring.New().Score(context.Background(), f.in)

		Convey("Then the faster sixth runner wins the tie", func() {
			table := sum.TeamTables[0]
			So(table[0].Score, ShouldEqual, table[1].Score)
			So(table[0].TeamID, ShouldEqual, "team-a")
			So(table[0].Place, ShouldEqual, 1)
			So(table[0].SixthTime, ShouldBeLessThan, table[1].SixthTime)
		})

		Convey("And the tie-break winner takes the dual outcome", func() {
			store := repository.NewMemStore()
			So(scoring.New().Reconcile(context.Background(), sum, store), ShouldBeNil)
			outcomes, err := store.OutcomesByRace(context.Background(), "race-1")
			So(err, ShouldBeNil)
			So(outcomes, ShouldHaveLength, 1)
			So(outcomes[0].WinnerID, ShouldEqual, "team-a")
			So(outcomes[0].WinnerScore, ShouldEqual, outcomes[0].LoserScore)
		})
	})
}
