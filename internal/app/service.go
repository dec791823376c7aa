// Package service exposes the core scoring operations to external
// collaborators: course adjustment, race scoring, standings, and seed times.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/harrier/internal/adapters/jobs"
	"github.com/okian/harrier/internal/adapters/repository"
	"github.com/okian/harrier/internal/domain/adjust"
	"github.com/okian/harrier/internal/domain/model"
	"github.com/okian/harrier/internal/domain/scoring"
	"github.com/okian/harrier/internal/domain/seeding"
	"github.com/okian/harrier/internal/domain/standings"
	"github.com/okian/harrier/pkg/logger"
	"github.com/okian/harrier/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence boundary.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithAdjuster replaces the default course adjuster.
func WithAdjuster(a *adjust.Adjuster) Option {
	return func(s *Service) {
		if a != nil {
			s.adjuster = a
		}
	}
}

// WithJobWorkers bounds parallelism of the batch operations.
func WithJobWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jobWorkers = n
		}
	}
}

// Service implements the operations collaborators call. All computations run
// over the store's current snapshot and are idempotent given unchanged
// inputs.
type Service struct {
	store      repository.Store
	adjuster   *adjust.Adjuster
	scorer     *scoring.Scorer
	jobWorkers int
	logger     logger.Logger
	metrics    *metrics.Manager
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:      repository.NewMemStore(),
		adjuster:   adjust.New(),
		scorer:     scoring.New(),
		jobWorkers: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager(metrics.WithEnabled(false))
	}
	return s
}

// ComputeCourseAdjustment recomputes and persists one course's difficulty
// adjustment from the full historical result set.
func (s *Service) ComputeCourseAdjustment(ctx context.Context, courseID string) (adjust.Adjustment, error) {
	start := time.Now()

	course, err := s.store.Course(ctx, courseID)
	if err != nil {
		return adjust.Adjustment{}, err
	}
	data, err := s.loadAdjustDataset(ctx)
	if err != nil {
		return adjust.Adjustment{}, err
	}

	result := s.adjuster.Compute(ctx, course, data)
	if err := s.store.SaveCourseAdjustment(ctx, courseID, result.Value); err != nil {
		return adjust.Adjustment{}, err
	}

	s.metrics.AdjustmentComputed(time.Since(start), result.Status == adjust.StatusInsufficientData)
	s.logger.Info(ctx, "course adjustment computed",
		logger.String("course_id", courseID),
		logger.Float64("adjustment", result.Value),
		logger.String("status", string(result.Status)),
		logger.Int("comparisons", len(result.Comparisons)),
	)
	return result, nil
}

// UpdateAllCourseAdjustments recomputes every course, one bounded parallel
// job per course. Each job writes only its own course record.
func (s *Service) UpdateAllCourseAdjustments(ctx context.Context) error {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return err
	}

	batch := make([]jobs.Job, 0, len(courses))
	for _, course := range courses {
		batch = append(batch, jobs.Job{
			Name: "adjust-course-" + course.ID,
			Run: func(ctx context.Context) error {
				_, err := s.ComputeCourseAdjustment(ctx, course.ID)
				return err
			},
		})
	}

	runner := jobs.NewRunner(jobs.WithWorkers(s.jobWorkers), jobs.WithLogger(s.logger))
	if err := runner.RunAll(ctx, batch); err != nil {
		return fmt.Errorf("update all course adjustments: %w", err)
	}
	s.metrics.BatchCompleted(time.Now())
	return nil
}

// ScoreRace scores one race and reconciles its cached dual outcomes.
// Concurrent scoring of the same race must be serialized by the caller.
func (s *Service) ScoreRace(ctx context.Context, raceID string) (scoring.Summary, error) {
	start := time.Now()

	in, err := s.loadScoringInput(ctx, raceID)
	if err != nil {
		return scoring.Summary{}, err
	}

	summary := s.scorer.Score(ctx, in)
	if err := s.scorer.Reconcile(ctx, summary, s.store); err != nil {
		return scoring.Summary{}, err
	}
	switch summary.Mode {
	case scoring.ModeDual:
		if len(summary.TeamTables) == 1 {
			s.metrics.OutcomeUpserted()
		}
	case scoring.ModeMultiTeamDual:
		s.metrics.OutcomesDeleted()
	}

	s.metrics.RaceScored(time.Since(start))
	s.logger.Info(ctx, "race scored",
		logger.String("race_id", raceID),
		logger.Int("finishers", len(summary.Individual)),
		logger.Int("team_tables", len(summary.TeamTables)),
	)
	return summary, nil
}

// BuildTeamRecord rebuilds a team's dual-meet record from cached outcomes
// and overwrites the team's denormalized win/loss counters. It is the only
// writer of those counters.
func (s *Service) BuildTeamRecord(ctx context.Context, teamID string) (standings.TeamRecord, error) {
	team, err := s.store.Team(ctx, teamID)
	if err != nil {
		return standings.TeamRecord{}, err
	}
	school, err := s.store.School(ctx, team.SchoolID)
	if err != nil {
		return standings.TeamRecord{}, err
	}
	outcomes, err := s.store.OutcomesByTeam(ctx, teamID)
	if err != nil {
		return standings.TeamRecord{}, err
	}

	in := standings.Input{
		Team:     team,
		School:   school,
		Outcomes: outcomes,
		Teams:    map[string]model.Team{team.ID: team},
		Schools:  map[string]model.School{school.ID: school},
		Races:    make(map[string]model.Race),
	}
	for _, outcome := range outcomes {
		oppID := outcome.WinnerID
		if oppID == teamID {
			oppID = outcome.LoserID
		}
		opp, err := s.store.Team(ctx, oppID)
		if err != nil {
			return standings.TeamRecord{}, err
		}
		oppSchool, err := s.store.School(ctx, opp.SchoolID)
		if err != nil {
			return standings.TeamRecord{}, err
		}
		race, err := s.store.Race(ctx, outcome.RaceID)
		if err != nil {
			return standings.TeamRecord{}, err
		}
		in.Teams[opp.ID] = opp
		in.Schools[oppSchool.ID] = oppSchool
		in.Races[race.ID] = race
	}

	record := standings.BuildTeamRecord(in)
	err = s.store.SaveTeamCounters(ctx, teamID,
		record.TotalWins, record.TotalLosses, record.LeagueWins, record.LeagueLosses)
	if err != nil {
		return standings.TeamRecord{}, err
	}

	s.metrics.TeamRecordBuilt()
	return record, nil
}

// BuildLeagueStandings builds and sorts the team records of one league
// season.
func (s *Service) BuildLeagueStandings(ctx context.Context, leagueID string, year int, gender model.Gender) (standings.LeagueStandings, error) {
	league, err := s.store.League(ctx, leagueID)
	if err != nil {
		return standings.LeagueStandings{}, err
	}
	teams, err := s.store.TeamsByLeague(ctx, leagueID, year, gender)
	if err != nil {
		return standings.LeagueStandings{}, err
	}

	records := make([]standings.TeamRecord, 0, len(teams))
	for _, team := range teams {
		record, err := s.BuildTeamRecord(ctx, team.ID)
		if err != nil {
			return standings.LeagueStandings{}, err
		}
		records = append(records, record)
	}

	s.metrics.StandingsBuilt()
	return standings.BuildLeagueStandings(league, year, gender, records), nil
}

// UpdateAllTeamRecords rebuilds both genders' standings for one league
// season, refreshing every team's counters.
func (s *Service) UpdateAllTeamRecords(ctx context.Context, leagueID string, year int) error {
	for _, gender := range []model.Gender{model.GenderBoys, model.GenderGirls} {
		if _, err := s.BuildLeagueStandings(ctx, leagueID, year, gender); err != nil {
			return fmt.Errorf("standings for league %s %s: %w", leagueID, gender, err)
		}
	}
	return nil
}

// UpdateSeedTime recomputes a runner's seed time from their most recent
// course-normalized results. A runner with no complete results keeps their
// current seed time; the second return reports whether anything changed.
func (s *Service) UpdateSeedTime(ctx context.Context, runnerID string) (int64, bool, error) {
	runner, err := s.store.Runner(ctx, runnerID)
	if err != nil {
		return 0, false, err
	}
	results, err := s.store.ResultsByRunner(ctx, runnerID)
	if err != nil {
		return 0, false, err
	}
	races, courses, err := s.loadRacesAndCourses(ctx)
	if err != nil {
		return 0, false, err
	}

	seed, ok := seeding.SeedTime(results, races, courses)
	if !ok {
		return runner.SeedTime, false, nil
	}
	if err := s.store.SaveSeedTime(ctx, runnerID, seed); err != nil {
		return 0, false, err
	}

	s.metrics.SeedTimeUpdated()
	s.logger.Debug(ctx, "seed time updated",
		logger.String("runner_id", runnerID),
		logger.Int("seed_time_ms", int(seed)),
	)
	return seed, true, nil
}

// RemoveNotStartedResults deletes a runner's results that never started.
func (s *Service) RemoveNotStartedResults(ctx context.Context, runnerID string) error {
	return s.store.DeleteNotStarted(ctx, runnerID)
}

func (s *Service) loadAdjustDataset(ctx context.Context) (adjust.Dataset, error) {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return adjust.Dataset{}, err
	}
	races, err := s.store.Races(ctx)
	if err != nil {
		return adjust.Dataset{}, err
	}
	results, err := s.store.Results(ctx)
	if err != nil {
		return adjust.Dataset{}, err
	}
	return adjust.Dataset{Courses: courses, Races: races, Results: results}, nil
}

func (s *Service) loadScoringInput(ctx context.Context, raceID string) (scoring.Input, error) {
	race, err := s.store.Race(ctx, raceID)
	if err != nil {
		return scoring.Input{}, err
	}
	course, err := s.store.Course(ctx, race.CourseID)
	if err != nil {
		return scoring.Input{}, err
	}
	results, err := s.store.ResultsByRace(ctx, raceID)
	if err != nil {
		return scoring.Input{}, err
	}

	in := scoring.Input{
		Race:    race,
		Course:  course,
		Results: results,
		Schools: make(map[string]model.School),
		Runners: make(map[string]model.Runner),
	}
	for _, teamID := range race.TeamIDs {
		team, err := s.store.Team(ctx, teamID)
		if err != nil {
			return scoring.Input{}, err
		}
		in.Teams = append(in.Teams, team)
		school, err := s.store.School(ctx, team.SchoolID)
		if err != nil {
			return scoring.Input{}, err
		}
		in.Schools[school.ID] = school
	}
	for _, res := range results {
		if _, ok := in.Runners[res.RunnerID]; ok {
			continue
		}
		runner, err := s.store.Runner(ctx, res.RunnerID)
		if err != nil {
			return scoring.Input{}, err
		}
		in.Runners[runner.ID] = runner
	}
	return in, nil
}

func (s *Service) loadRacesAndCourses(ctx context.Context) (map[string]model.Race, map[string]model.Course, error) {
	raceList, err := s.store.Races(ctx)
	if err != nil {
		return nil, nil, err
	}
	courseList, err := s.store.Courses(ctx)
	if err != nil {
		return nil, nil, err
	}
	races := make(map[string]model.Race, len(raceList))
	for _, r := range raceList {
		races[r.ID] = r
	}
	courses := make(map[string]model.Course, len(courseList))
	for _, c := range courseList {
		courses[c.ID] = c
	}
	return races, courses, nil
}
