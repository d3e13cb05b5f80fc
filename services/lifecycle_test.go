package services

import (
	"errors"
	"testing"

	"goagent-server/models"
)

func TestCanTransition(t *testing.T) {
	statuses := []string{models.StatusPending, models.StatusApproved, models.StatusPaid, models.StatusRejected}

	allowed := map[[2]string]bool{
		{models.StatusPending, models.StatusApproved}: true,
		{models.StatusPending, models.StatusRejected}: true,
		{models.StatusApproved, models.StatusPaid}:    true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestAdvanceHappyPath(t *testing.T) {
	sub := &models.DriveSubmission{Status: models.StatusPending}

	if err := Advance(sub, models.StatusApproved, nil); err != nil {
		t.Fatalf("PENDING -> APPROVED failed: %v", err)
	}
	if sub.Status != models.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", sub.Status)
	}

	if err := Advance(sub, models.StatusPaid, nil); err != nil {
		t.Fatalf("APPROVED -> PAID failed: %v", err)
	}
	if sub.Status != models.StatusPaid {
		t.Fatalf("status = %s, want PAID", sub.Status)
	}

	// Terminal: nothing moves out of PAID
	err := Advance(sub, models.StatusPending, nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition out of PAID, got %v", err)
	}
	if sub.Status != models.StatusPaid {
		t.Fatalf("status changed on rejected transition: %s", sub.Status)
	}
}

func TestAdvanceRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{models.StatusPending, models.StatusPaid}, // no skipping approval
		{models.StatusRejected, models.StatusApproved},
		{models.StatusRejected, models.StatusPending},
		{models.StatusPaid, models.StatusApproved},
		{models.StatusApproved, models.StatusRejected},
		{models.StatusPending, "SHIPPED"},
	}

	for _, tc := range cases {
		sub := &models.DriveSubmission{Status: tc.from}
		err := Advance(sub, tc.to, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Advance(%s -> %s): expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
		if sub.Status != tc.from {
			t.Errorf("Advance(%s -> %s): status mutated to %s on failure", tc.from, tc.to, sub.Status)
		}
	}
}

// A self-transition is rejected rather than treated as a no-op, so a
// repeated admin click cannot silently re-attach side effects.
func TestAdvanceRejectsSelfTransition(t *testing.T) {
	for _, status := range []string{models.StatusPending, models.StatusApproved, models.StatusPaid, models.StatusRejected} {
		sub := &models.DriveSubmission{Status: status}
		verification := &models.VerificationResult{Verdict: models.VerdictAuthentic, Score: 90}

		err := Advance(sub, status, verification)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Advance(%s -> %s): expected ErrInvalidTransition, got %v", status, status, err)
		}
		if sub.GetVerification() != nil {
			t.Errorf("Advance(%s -> %s): verification attached despite rejection", status, status)
		}
	}
}

func TestAdvanceAttachesVerification(t *testing.T) {
	sub := &models.DriveSubmission{Status: models.StatusPending}
	verification := &models.VerificationResult{
		Score:    82,
		Verdict:  models.VerdictAuthentic,
		Findings: "Listing corroborated by two public records.",
		Sources:  []models.VerificationSource{{Title: "X", URI: "http://x"}},
	}

	if err := Advance(sub, models.StatusApproved, verification); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	stored := sub.GetVerification()
	if stored == nil {
		t.Fatal("verification not stored")
	}
	if stored.Score != 82 || stored.Verdict != models.VerdictAuthentic {
		t.Errorf("stored verification = %+v", stored)
	}
	if len(stored.Sources) != 1 || stored.Sources[0].URI != "http://x" {
		t.Errorf("stored sources = %+v", stored.Sources)
	}
}
