package services

import (
	"errors"
	"testing"
)

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		units int
		want  int64
	}{
		{0, 0},
		{1, 450},
		{30, 13500},
		{45, 20250},
		{120, 54000},
		{100000, 45000000},
	}

	for _, tc := range cases {
		got, err := ComputeCommission(tc.units)
		if err != nil {
			t.Fatalf("ComputeCommission(%d) returned error: %v", tc.units, err)
		}
		if got != tc.want {
			t.Errorf("ComputeCommission(%d) = %d, want %d", tc.units, got, tc.want)
		}
	}
}

func TestComputeCommissionRejectsNegativeUnits(t *testing.T) {
	_, err := ComputeCommission(-1)
	if err == nil {
		t.Fatal("expected error for negative units")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
