package thermal

import (
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
)

// Config describes one thermal energy service.
type Config struct {
	// MaxGap caps the elapsed time integrated between two consecutive
	// samples. Anything longer (restart, lost connectivity) is discarded.
	MaxGap time.Duration

	// InertiaLock is how long after a compressor stop residual heat may
	// still be credited to the last active classification.
	InertiaLock time.Duration

	// Location resolves local midnight for the daily reset.
	Location *time.Location

	// Series identifiers for lifetime total rehydration.
	HeatingSeries string
	CoolingSeries string
}

// DefaultConfig returns a config with a 90 second gap cap and a 180
// second inertia lock.
func DefaultConfig(deviceID string) Config {
	return Config{
		MaxGap:        90 * time.Second,
		InertiaLock:   180 * time.Second,
		Location:      time.Local,
		HeatingSeries: deviceID + "_heating_total",
		CoolingSeries: deviceID + "_cooling_total",
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.MaxGap <= 0 {
		return errFactory.New(ErrInvalidGapCap)
	}
	if c.InertiaLock < 0 {
		return errFactory.New(ErrInvalidInertiaLock)
	}
	if c.HeatingSeries == "" || c.CoolingSeries == "" {
		return errFactory.New(ErrMissingSeries)
	}

	return nil
}
