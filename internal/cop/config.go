package cop

import (
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
)

// Bounds are the physical plausibility limits a sample must satisfy
// before it contributes to the window. Violations discard the sample.
type Bounds struct {
	MinTempC        float64
	MaxTempC        float64
	MinFlowM3h      float64
	MaxFlowM3h      float64
	MinDeltaT       float64
	MaxDeltaT       float64
	MinThermalKW    float64
	MaxThermalKW    float64
	MinElectricalKW float64
	MaxElectricalKW float64
	MinCOP          float64
	MaxCOP          float64
}

// DefaultBounds returns limits suitable for residential water-loop heat
// pumps.
func DefaultBounds() Bounds {
	return Bounds{
		MinTempC:        -10,
		MaxTempC:        80,
		MinFlowM3h:      0.1,
		MaxFlowM3h:      10.0,
		MinDeltaT:       0.5,
		MaxDeltaT:       30.0,
		MinThermalKW:    0.1,
		MaxThermalKW:    50.0,
		MinElectricalKW: 0.1,
		MaxElectricalKW: 20.0,
		MinCOP:          0.5,
		MaxCOP:          8.0,
	}
}

// Thresholds control the quality tier of a computed COP.
type Thresholds struct {
	PreliminaryCount int
	OptimalCount     int
	PreliminarySpan  time.Duration
	OptimalSpan      time.Duration
}

// DefaultThresholds returns the stock confidence tiers.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PreliminaryCount: 6,
		OptimalCount:     10,
		PreliminarySpan:  3 * time.Minute,
		OptimalSpan:      15 * time.Minute,
	}
}

// Config describes one COP service instance.
type Config struct {
	Mode          measure.OperationMode
	WindowSpan    time.Duration
	WindowSamples int
	MaxGap        time.Duration
	Bounds        Bounds
	Thresholds    Thresholds
}

// DefaultConfig returns a config for the given mode with a 15 minute,
// 40 sample window and a 90 second integration gap cap. The sample cap
// must exceed the window span divided by the polling interval, or the
// count trim shortens the retained span below the optimal-tier minimum.
func DefaultConfig(mode measure.OperationMode) Config {
	return Config{
		Mode:          mode,
		WindowSpan:    15 * time.Minute,
		WindowSamples: 40,
		MaxGap:        90 * time.Second,
		Bounds:        DefaultBounds(),
		Thresholds:    DefaultThresholds(),
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	productionMode := false
	for _, m := range measure.ProductionModes {
		if c.Mode == m {
			productionMode = true
			break
		}
	}
	if !productionMode {
		return errFactory.WithData(ErrInvalidMode, c.Mode)
	}
	if c.WindowSpan <= 0 || c.WindowSamples <= 0 {
		return errFactory.New(ErrInvalidWindow)
	}
	if c.MaxGap <= 0 {
		return errFactory.New(ErrInvalidGapCap)
	}

	return nil
}
