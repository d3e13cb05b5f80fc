package services

import (
	"errors"
	"fmt"

	"goagent-server/models"

	"golang.org/x/exp/slices"
)

var (
	// ErrInvalidTransition is returned when a requested status change is
	// not on the submission lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation marks input the caller should have rejected.
	ErrValidation = errors.New("validation error")
)

// The lifecycle graph: PENDING -> APPROVED or REJECTED, APPROVED -> PAID.
// PAID and REJECTED are terminal. A self-transition is rejected rather than
// treated as a no-op so callers cannot silently re-trigger side effects.
var legalTransitions = map[string][]string{
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusPaid},
	models.StatusPaid:     {},
	models.StatusRejected: {},
}

// CanTransition reports whether current -> target is a legal move.
func CanTransition(current, target string) bool {
	return slices.Contains(legalTransitions[current], target)
}

// Advance mutates the submission's status in memory after checking the
// transition graph. Persistence is the caller's job; on error the
// submission is left untouched. Admin access is enforced by the route
// middleware, not here.
func Advance(sub *models.DriveSubmission, target string, verification *models.VerificationResult) error {
	if _, known := legalTransitions[target]; !known {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if !CanTransition(sub.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sub.Status, target)
	}

	sub.Status = target
	if verification != nil {
		if err := sub.SetVerification(*verification); err != nil {
			return err
		}
	}
	return nil
}
