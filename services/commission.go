package services

import "fmt"

// CommissionRatePerUnit is the flat agent commission in naira per unit,
// fixed by the field-agent agreement.
const CommissionRatePerUnit = 450

// ComputeCommission returns the estimated commission for a drive covering
// the given number of units. Negative unit counts are a validation error;
// they are never coerced to zero.
func ComputeCommission(units int) (int64, error) {
	if units < 0 {
		return 0, fmt.Errorf("%w: noOfUnits must not be negative, got %d", ErrValidation, units)
	}
	return int64(units) * CommissionRatePerUnit, nil
}
