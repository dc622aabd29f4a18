// Package thermal splits thermal energy production into heating and
// cooling, excluding defrost cycles and capturing genuine post-shutdown
// thermal inertia, and integrates it into daily and lifetime totals.
package thermal

import (
	"context"
	"math"
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/logger"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
)

// Classification is the production bucket a sample's energy lands in.
type Classification string

const (
	ClassHeating Classification = "heating"
	ClassCooling Classification = "cooling"
)

// Classifications lists both buckets for range-style consumers.
var Classifications = []Classification{ClassHeating, ClassCooling}

// Rehydrator supplies a prior lifetime total at construction so totals
// survive restarts. A nil value means no history exists for the series.
type Rehydrator interface {
	HistoricalTotal(ctx context.Context, seriesID string, since time.Time) (*float64, error)
}

// State is the read-only per-classification snapshot queried by the
// presentation layer.
type State struct {
	InstantPowerKW float64
	DeltaT         float64
	WaterFlowM3h   float64
	DailyEnergyKWh float64
	DailyStart     time.Time
	LastResetDate  time.Time
	TotalEnergyKWh float64
	LockedUntil    *time.Time
}

type classState struct {
	instantPowerKW float64
	deltaT         float64
	waterFlowM3h   float64
	dailyKWh       float64
	dailyStart     time.Time
	lastResetDate  time.Time
	totalKWh       float64
}

// Service integrates thermal power into per-classification energy totals.
// Single writer, tick-driven; reads are idempotent.
type Service struct {
	cfg  Config
	calc measure.ThermalCalculator

	heating classState
	cooling classState

	lastTimestamp     time.Time
	hasLast           bool
	compressorRunning bool
	lastActive        Classification
	hasActive         bool
	lockUntil         time.Time
	lockArmed         bool
}

// NewService builds the service and seeds lifetime totals from the
// rehydration port. A rehydration failure degrades to zero totals rather
// than refusing to start.
func NewService(cfg Config, calc measure.ThermalCalculator, rehydrator Rehydrator) (*Service, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if calc == nil {
		return nil, errFactory.New(ErrNilCalculator)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &Service{
		cfg:  cfg,
		calc: calc,
	}

	if rehydrator != nil {
		s.heating.totalKWh = rehydrate(rehydrator, cfg.HeatingSeries)
		s.cooling.totalKWh = rehydrate(rehydrator, cfg.CoolingSeries)
	}

	return s, nil
}

func rehydrate(r Rehydrator, seriesID string) float64 {
	total, err := r.HistoricalTotal(context.Background(), seriesID, time.Time{})
	if err != nil {
		logger.Warn().
			Str("series", seriesID).
			Str("error_code", string(ErrRehydrateFailed)).
			Err(err).
			Msg("History lookup failed, lifetime total starts at zero")
		return 0
	}
	if total == nil {
		return 0
	}

	return *total
}

// Update processes one measurement snapshot.
func (s *Service) Update(sample measure.Sample) {
	if s.hasLast && sample.Timestamp.Before(s.lastTimestamp) {
		logger.Debug().
			Str("error_code", string(errors.ErrStaleSample)).
			Time("timestamp", sample.Timestamp).
			Time("last", s.lastTimestamp).
			Msg("Rejected out-of-order sample")
		return
	}

	// Defrost heat is not production. The sample is discarded before
	// transition bookkeeping, so a defrost tick can neither arm nor feed
	// an inertia lock.
	if sample.DefrostActive {
		return
	}

	// Compressor stop arms the inertia lock for the last active bucket.
	if s.compressorRunning && !sample.CompressorRunning && s.hasActive {
		s.lockUntil = sample.Timestamp.Add(s.cfg.InertiaLock)
		s.lockArmed = true
	}
	if sample.CompressorRunning {
		s.lockArmed = false
	}

	s.rollover(&s.heating, sample.Timestamp)
	s.rollover(&s.cooling, sample.Timestamp)

	deltaT := sample.DeltaT()
	power, powerOK := s.calc.PowerKW(sample.WaterFlowM3h, deltaT)

	target, hasTarget := s.target(sample, deltaT)

	if hasTarget && powerOK {
		s.integrate(target, sample, math.Abs(power), deltaT)
	} else {
		s.heating.instantPowerKW = 0
		s.cooling.instantPowerKW = 0
	}

	if sample.CompressorRunning && hasTarget {
		s.lastActive = target
		s.hasActive = true
	}

	s.lastTimestamp = sample.Timestamp
	s.hasLast = true
	s.compressorRunning = sample.CompressorRunning
}

// target resolves which bucket, if any, this sample accumulates into.
func (s *Service) target(sample measure.Sample, deltaT float64) (Classification, bool) {
	classification, ok := classify(sample.Mode, deltaT)

	if sample.CompressorRunning {
		return classification, ok
	}

	// Compressor stopped: only the inertia lock keeps accumulation alive,
	// and only while the last active bucket's ΔT sign holds.
	if !s.lockArmed || !s.hasActive {
		return "", false
	}
	if sample.Timestamp.After(s.lockUntil) {
		s.lockArmed = false
		return "", false
	}
	if !signMatches(s.lastActive, deltaT) {
		s.lockArmed = false
		return "", false
	}

	return s.lastActive, true
}

// classify applies the sign/mode rule. DHW and pool production always
// counts as heating: valve switching produces transient negative ΔT that
// must not be misread as cooling.
func classify(mode measure.OperationMode, deltaT float64) (Classification, bool) {
	switch mode {
	case measure.ModeDHW, measure.ModePool:
		return ClassHeating, true
	}

	switch {
	case deltaT > 0:
		return ClassHeating, true
	case deltaT < 0:
		return ClassCooling, true
	default:
		return "", false
	}
}

func signMatches(class Classification, deltaT float64) bool {
	if class == ClassHeating {
		return deltaT > 0
	}

	return deltaT < 0
}

func (s *Service) integrate(target Classification, sample measure.Sample, powerKW, deltaT float64) {
	active := s.class(target)
	inactive := s.other(target)

	var elapsed time.Duration
	if s.hasLast {
		elapsed = sample.Timestamp.Sub(s.lastTimestamp)
		if elapsed > s.cfg.MaxGap {
			elapsed = s.cfg.MaxGap
		}
	}

	increment := powerKW * elapsed.Hours()
	active.dailyKWh += increment
	active.totalKWh += increment
	if active.dailyStart.IsZero() {
		active.dailyStart = sample.Timestamp
	}

	active.instantPowerKW = powerKW
	active.deltaT = deltaT
	active.waterFlowM3h = sample.WaterFlowM3h
	inactive.instantPowerKW = 0
}

// rollover resets the daily counter on the first sample of a new local
// calendar day. Lifetime totals are never reset.
func (s *Service) rollover(cs *classState, ts time.Time) {
	local := ts.In(s.cfg.Location)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.cfg.Location)

	if cs.lastResetDate.IsZero() {
		cs.lastResetDate = date
		return
	}
	if date.After(cs.lastResetDate) {
		cs.dailyKWh = 0
		cs.dailyStart = time.Time{}
		cs.lastResetDate = date
	}
}

func (s *Service) class(c Classification) *classState {
	if c == ClassHeating {
		return &s.heating
	}

	return &s.cooling
}

func (s *Service) other(c Classification) *classState {
	if c == ClassHeating {
		return &s.cooling
	}

	return &s.heating
}

// Snapshot returns the read-only state for one classification.
func (s *Service) Snapshot(c Classification) State {
	cs := s.class(c)

	state := State{
		InstantPowerKW: cs.instantPowerKW,
		DeltaT:         cs.deltaT,
		WaterFlowM3h:   cs.waterFlowM3h,
		DailyEnergyKWh: cs.dailyKWh,
		DailyStart:     cs.dailyStart,
		LastResetDate:  cs.lastResetDate,
		TotalEnergyKWh: cs.totalKWh,
	}

	if s.lockArmed {
		until := s.lockUntil
		state.LockedUntil = &until
	}

	return state
}

// Series returns the history series identifier for a classification.
func (s *Service) Series(c Classification) string {
	if c == ClassHeating {
		return s.cfg.HeatingSeries
	}

	return s.cfg.CoolingSeries
}
