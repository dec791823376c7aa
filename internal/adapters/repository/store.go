// Package repository defines the persistence boundary the core reads
// entities from and writes computed values to.
package repository

import (
	"context"

	"github.com/okian/harrier/internal/domain/model"
)

// Store provides read access to the entity snapshot and write access to the
// values the core computes: course adjustments, team counters, seed times,
// and cached dual outcomes. Writes to a single entity are serialized by the
// implementation.
type Store interface {
	Course(ctx context.Context, id string) (model.Course, error)
	Courses(ctx context.Context) ([]model.Course, error)
	// SaveCourseAdjustment overwrites the course's difficulty adjustment.
	SaveCourseAdjustment(ctx context.Context, courseID string, adjustment float64) error

	Runner(ctx context.Context, id string) (model.Runner, error)
	// SaveSeedTime overwrites the runner's projected 5km-equivalent time.
	SaveSeedTime(ctx context.Context, runnerID string, seedTime int64) error

	School(ctx context.Context, id string) (model.School, error)
	League(ctx context.Context, id string) (model.League, error)
	Leagues(ctx context.Context) ([]model.League, error)

	Team(ctx context.Context, id string) (model.Team, error)
	TeamsByLeague(ctx context.Context, leagueID string, year int, gender model.Gender) ([]model.Team, error)
	// SaveTeamCounters overwrites the team's denormalized win/loss totals.
	SaveTeamCounters(ctx context.Context, teamID string, wins, losses, leagueWins, leagueLosses int) error

	Race(ctx context.Context, id string) (model.Race, error)
	Races(ctx context.Context) ([]model.Race, error)

	Results(ctx context.Context) ([]model.Result, error)
	ResultsByRace(ctx context.Context, raceID string) ([]model.Result, error)
	ResultsByRunner(ctx context.Context, runnerID string) ([]model.Result, error)
	// DeleteNotStarted removes the runner's not-started results.
	DeleteNotStarted(ctx context.Context, runnerID string) error

	OutcomesByRace(ctx context.Context, raceID string) ([]model.DualOutcome, error)
	OutcomesByTeam(ctx context.Context, teamID string) ([]model.DualOutcome, error)
	UpsertOutcome(ctx context.Context, outcome model.DualOutcome) error
	DeleteOutcomesByRace(ctx context.Context, raceID string) error
}

// OutcomeJournal persists dual outcomes outside the in-memory snapshot so a
// batch process can rebuild its cache across restarts.
type OutcomeJournal interface {
	Record(outcome model.DualOutcome) error
	Erase(raceID string) error
	Load() ([]model.DualOutcome, error)
}
