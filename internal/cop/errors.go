package cop

import "codeberg.org/kvernes/heatpumpmon/internal/errors"

const (
	ErrInvalidMode   = errors.ErrorCode("cop_invalid_mode")
	ErrInvalidWindow = errors.ErrorCode("cop_invalid_window")
	ErrInvalidGapCap = errors.ErrorCode("cop_invalid_gap_cap")
	ErrNilCalculator = errors.ErrorCode("cop_nil_calculator")
)
