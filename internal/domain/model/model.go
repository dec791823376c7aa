// Package model contains the cross-country entities passed between layers.
//
// External collaborators (result upload, rosters, admin tooling) create and
// validate these entities; the domain packages treat them as an in-memory
// snapshot and never re-validate referential integrity.
package model

import "github.com/google/uuid"

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Gender classifies a team or race.
type Gender string

// Gender values.
const (
	GenderBoys  Gender = "boys"
	GenderGirls Gender = "girls"
	// GenderCombo marks a race where boys and girls teams run together;
	// scoring still pairs teams of the same gender.
	GenderCombo Gender = "combo"
)

// ScoringType selects how a race is scored.
type ScoringType string

// ScoringType values.
const (
	// ScoringDual decomposes the race into pairwise two-team contests.
	ScoringDual ScoringType = "dual"
	// ScoringInvitational scores the race once as a combined contest.
	ScoringInvitational ScoringType = "invitational"
)

// ResultStatus tracks a result through its lifecycle.
type ResultStatus string

// ResultStatus values.
const (
	StatusNotStarted ResultStatus = "not-started"
	StatusComplete   ResultStatus = "complete"
)
