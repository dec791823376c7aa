package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/harrier/internal/domain/model"
)

// MemStore is a mutex-protected in-memory Store. External collaborators
// (result upload, rosters) seed it with validated entities; the core reads
// the snapshot and writes its computed values back. A single lock serializes
// all writes, which satisfies the per-entity write ordering the core
// requires.
type MemStore struct {
	mu sync.RWMutex

	courses  map[string]model.Course
	runners  map[string]model.Runner
	schools  map[string]model.School
	leagues  map[string]model.League
	teams    map[string]model.Team
	races    map[string]model.Race
	results  map[string]model.Result
	outcomes map[string]model.DualOutcome

	journal OutcomeJournal
}

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		courses:  make(map[string]model.Course),
		runners:  make(map[string]model.Runner),
		schools:  make(map[string]model.School),
		leagues:  make(map[string]model.League),
		teams:    make(map[string]model.Team),
		races:    make(map[string]model.Race),
		results:  make(map[string]model.Result),
		outcomes: make(map[string]model.DualOutcome),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seeding methods used by collaborators and tests.

// PutCourse stores a course.
func (s *MemStore) PutCourse(c model.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

// PutRunner stores a runner.
func (s *MemStore) PutRunner(r model.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runners[r.ID] = r
}

// PutSchool stores a school.
func (s *MemStore) PutSchool(sc model.School) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schools[sc.ID] = sc
}

// PutLeague stores a league.
func (s *MemStore) PutLeague(l model.League) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[l.ID] = l
}

// PutTeam stores a team.
func (s *MemStore) PutTeam(t model.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

// PutRace stores a race.
func (s *MemStore) PutRace(r model.Race) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.races[r.ID] = r
}

// PutResult stores a result.
func (s *MemStore) PutResult(r model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.ID] = r
}

// PutOutcome stores a dual outcome without touching the journal, for
// rebuilding the cache from a journal at startup.
func (s *MemStore) PutOutcome(o model.DualOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[o.ID] = o
}

// Course returns the course or ErrNotFound.
func (s *MemStore) Course(_ context.Context, id string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Courses returns every course.
func (s *MemStore) Courses(_ context.Context) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	return out, nil
}

// SaveCourseAdjustment overwrites the course's adjustment.
func (s *MemStore) SaveCourseAdjustment(_ context.Context, courseID string, adjustment float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	c.Adjustment = adjustment
	s.courses[courseID] = c
	return nil
}

// Runner returns the runner or ErrNotFound.
func (s *MemStore) Runner(_ context.Context, id string) (model.Runner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runners[id]
	if !ok {
		return model.Runner{}, fmt.Errorf("runner %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// SaveSeedTime overwrites the runner's seed time.
func (s *MemStore) SaveSeedTime(_ context.Context, runnerID string, seedTime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runners[runnerID]
	if !ok {
		return fmt.Errorf("runner %s: %w", runnerID, ErrNotFound)
	}
	r.SeedTime = seedTime
	s.runners[runnerID] = r
	return nil
}

// School returns the school or ErrNotFound.
func (s *MemStore) School(_ context.Context, id string) (model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schools[id]
	if !ok {
		return model.School{}, fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	return sc, nil
}

// League returns the league or ErrNotFound.
func (s *MemStore) League(_ context.Context, id string) (model.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leagues[id]
	if !ok {
		return model.League{}, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	return l, nil
}

// Leagues returns every league.
func (s *MemStore) Leagues(_ context.Context) ([]model.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		out = append(out, l)
	}
	return out, nil
}

// Team returns the team or ErrNotFound.
func (s *MemStore) Team(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return model.Team{}, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// TeamsByLeague returns the teams of a league's schools for one season and
// gender.
func (s *MemStore) TeamsByLeague(_ context.Context, leagueID string, year int, gender model.Gender) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Team
	for _, t := range s.teams {
		if t.Year != year || t.Gender != gender {
			continue
		}
		school, ok := s.schools[t.SchoolID]
		if ok && school.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out, nil
}

// SaveTeamCounters overwrites the team's denormalized win/loss totals.
func (s *MemStore) SaveTeamCounters(_ context.Context, teamID string, wins, losses, leagueWins, leagueLosses int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	t.Wins = wins
	t.Losses = losses
	t.LeagueWins = leagueWins
	t.LeagueLosses = leagueLosses
	s.teams[teamID] = t
	return nil
}

// Race returns the race or ErrNotFound.
func (s *MemStore) Race(_ context.Context, id string) (model.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.races[id]
	if !ok {
		return model.Race{}, fmt.Errorf("race %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// Races returns every race.
func (s *MemStore) Races(_ context.Context) ([]model.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Race, 0, len(s.races))
	for _, r := range s.races {
		out = append(out, r)
	}
	return out, nil
}

// Results returns every result.
func (s *MemStore) Results(_ context.Context) ([]model.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Result, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	return out, nil
}

// ResultsByRace returns the results of one race.
func (s *MemStore) ResultsByRace(_ context.Context, raceID string) ([]model.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Result
	for _, r := range s.results {
		if r.RaceID == raceID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ResultsByRunner returns one runner's results.
func (s *MemStore) ResultsByRunner(_ context.Context, runnerID string) ([]model.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Result
	for _, r := range s.results {
		if r.RunnerID == runnerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteNotStarted removes the runner's not-started results.
func (s *MemStore) DeleteNotStarted(_ context.Context, runnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.results {
		if r.RunnerID == runnerID && r.Status == model.StatusNotStarted {
			delete(s.results, id)
		}
	}
	return nil
}

// OutcomesByRace returns the cached dual outcomes of one race.
func (s *MemStore) OutcomesByRace(_ context.Context, raceID string) ([]model.DualOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DualOutcome
	for _, o := range s.outcomes {
		if o.RaceID == raceID {
			out = append(out, o)
		}
	}
	return out, nil
}

// OutcomesByTeam returns the cached dual outcomes the team won or lost.
func (s *MemStore) OutcomesByTeam(_ context.Context, teamID string) ([]model.DualOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DualOutcome
	for _, o := range s.outcomes {
		if o.Involves(teamID) {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpsertOutcome stores the outcome, replacing any row for the same race and
// team pair, and writes through to the journal when configured.
func (s *MemStore) UpsertOutcome(_ context.Context, outcome model.DualOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, o := range s.outcomes {
		if o.RaceID == outcome.RaceID && o.SamePair(outcome.WinnerID, outcome.LoserID) && id != outcome.ID {
			delete(s.outcomes, id)
		}
	}
	s.outcomes[outcome.ID] = outcome
	if s.journal != nil {
		if err := s.journal.Record(outcome); err != nil {
			return fmt.Errorf("journal outcome %s: %w", outcome.ID, err)
		}
	}
	return nil
}

// DeleteOutcomesByRace removes every cached outcome for the race.
func (s *MemStore) DeleteOutcomesByRace(_ context.Context, raceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, o := range s.outcomes {
		if o.RaceID == raceID {
			delete(s.outcomes, id)
		}
	}
	if s.journal != nil {
		if err := s.journal.Erase(raceID); err != nil {
			return fmt.Errorf("erase journal for race %s: %w", raceID, err)
		}
	}
	return nil
}

var _ Store = (*MemStore)(nil)
