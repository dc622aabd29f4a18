package thermal

import "codeberg.org/kvernes/heatpumpmon/internal/errors"

const (
	ErrInvalidGapCap      = errors.ErrorCode("thermal_invalid_gap_cap")
	ErrInvalidInertiaLock = errors.ErrorCode("thermal_invalid_inertia_lock")
	ErrMissingSeries      = errors.ErrorCode("thermal_missing_series")
	ErrNilCalculator      = errors.ErrorCode("thermal_nil_calculator")
	ErrRehydrateFailed    = errors.ErrorCode("thermal_rehydrate_failed")
)
