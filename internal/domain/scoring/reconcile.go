package scoring

import (
	"context"
	"fmt"

	"github.com/okian/harrier/internal/domain/model"
)

// OutcomeStore is the slice of the persistence boundary the reconciler
// needs.
type OutcomeStore interface {
	OutcomesByRace(ctx context.Context, raceID string) ([]model.DualOutcome, error)
	UpsertOutcome(ctx context.Context, outcome model.DualOutcome) error
	DeleteOutcomesByRace(ctx context.Context, raceID string) error
}

// Reconcile diffs the race's stored dual outcomes against the set the
// summary implies and applies the difference: a clean two-team varsity dual
// upserts its single row, a multi-team or JV dual deletes every row for the
// race, and an invitational (or a race without a team contest) leaves the
// store untouched.
func (s *Scorer) Reconcile(ctx context.Context, sum Summary, store OutcomeStore) error {
	switch sum.Mode {
	case ModeInvitational:
		return nil
	case ModeMultiTeamDual:
		if err := store.DeleteOutcomesByRace(ctx, sum.RaceID); err != nil {
			return fmt.Errorf("delete outcomes for race %s: %w", sum.RaceID, err)
		}
		return nil
	case ModeDual:
		if len(sum.TeamTables) != 1 || len(sum.TeamTables[0]) != 2 {
			// Fewer than two eligible teams: nothing to record.
			return nil
		}
	}

	winner, loser := sum.TeamTables[0][0], sum.TeamTables[0][1]
	desired := model.DualOutcome{
		RaceID:      sum.RaceID,
		WinnerID:    winner.TeamID,
		LoserID:     loser.TeamID,
		WinnerScore: winner.Score,
		LoserScore:  loser.Score,
	}

	stored, err := store.OutcomesByRace(ctx, sum.RaceID)
	if err != nil {
		return fmt.Errorf("load outcomes for race %s: %w", sum.RaceID, err)
	}
	for _, row := range stored {
		if row.SamePair(winner.TeamID, loser.TeamID) {
			desired.ID = row.ID
			break
		}
	}
	if desired.ID == "" {
		desired.ID = model.NewID()
	}
	if err := store.UpsertOutcome(ctx, desired); err != nil {
		return fmt.Errorf("upsert outcome for race %s: %w", sum.RaceID, err)
	}
	return nil
}
