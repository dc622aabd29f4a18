// Package cop computes a quality-scored coefficient of performance per
// operating mode from a sliding window of accepted samples.
package cop

import (
	"math"
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/logger"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
	"codeberg.org/kvernes/heatpumpmon/internal/window"
)

// Quality is the confidence tier of a computed COP.
type Quality string

const (
	QualityNoData       Quality = "no_data"
	QualityInsufficient Quality = "insufficient_data"
	QualityPreliminary  Quality = "preliminary"
	QualityOptimal      Quality = "optimal"
)

// Result is the read-only outcome of a COP computation. Value is nil
// whenever the number would be misleading.
type Result struct {
	Value            *float64
	Quality          Quality
	MeasurementCount int
	TimeSpanMinutes  float64
}

// Service derives the COP for one operating mode. One writer per
// instance; the four per-mode instances are fully independent.
type Service struct {
	cfg        Config
	thermal    measure.ThermalCalculator
	electrical measure.ElectricalCalculator
	acc        *window.Accumulator

	lastAccepted time.Time
	hasAccepted  bool
}

// NewService builds a COP service for cfg.Mode with its own accumulator.
func NewService(cfg Config, thermal measure.ThermalCalculator, electrical measure.ElectricalCalculator) (*Service, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if thermal == nil || electrical == nil {
		return nil, errFactory.New(ErrNilCalculator)
	}

	return &Service{
		cfg:        cfg,
		thermal:    thermal,
		electrical: electrical,
		acc:        window.New(cfg.WindowSpan, cfg.WindowSamples),
	}, nil
}

// Update gates the sample and, when accepted, converts the tick's power
// into energy increments over the capped elapsed time. Rejections are
// silent; they are a normal part of operation.
func (s *Service) Update(sample measure.Sample) {
	if !sample.CompressorRunning {
		return
	}
	if sample.Mode != s.cfg.Mode {
		return
	}
	if s.hasAccepted && sample.Timestamp.Before(s.lastAccepted) {
		logger.Debug().
			Str("error_code", string(errors.ErrStaleSample)).
			Str("mode", string(s.cfg.Mode)).
			Time("timestamp", sample.Timestamp).
			Time("last_accepted", s.lastAccepted).
			Msg("Rejected out-of-order sample")
		return
	}

	thermalKW, ok := s.thermal.PowerKW(sample.WaterFlowM3h, sample.DeltaT())
	if !ok {
		return
	}
	electricalKW, ok := s.electrical.PowerKW(sample.ElectricalPowerKW)
	if !ok {
		return
	}

	// Magnitude of the transfer; the thermal split service owns signs.
	thermalKW = math.Abs(thermalKW)

	if !s.plausible(sample, thermalKW, electricalKW) {
		logger.Debug().
			Str("mode", string(s.cfg.Mode)).
			Float64("thermal_kw", thermalKW).
			Float64("electrical_kw", electricalKW).
			Msg("Discarded implausible sample")
		return
	}

	var elapsed time.Duration
	if s.hasAccepted {
		elapsed = sample.Timestamp.Sub(s.lastAccepted)
		if elapsed > s.cfg.MaxGap {
			elapsed = s.cfg.MaxGap
		}
	}

	hours := elapsed.Hours()
	s.acc.Add(sample.Timestamp, thermalKW*hours, electricalKW*hours)
	s.lastAccepted = sample.Timestamp
	s.hasAccepted = true
}

func (s *Service) plausible(sample measure.Sample, thermalKW, electricalKW float64) bool {
	b := s.cfg.Bounds
	deltaT := math.Abs(sample.DeltaT())

	if sample.WaterInletC < b.MinTempC || sample.WaterInletC > b.MaxTempC {
		return false
	}
	if sample.WaterOutletC < b.MinTempC || sample.WaterOutletC > b.MaxTempC {
		return false
	}
	if sample.WaterFlowM3h < b.MinFlowM3h || sample.WaterFlowM3h > b.MaxFlowM3h {
		return false
	}
	if deltaT < b.MinDeltaT || deltaT > b.MaxDeltaT {
		return false
	}
	if thermalKW < b.MinThermalKW || thermalKW > b.MaxThermalKW {
		return false
	}
	if electricalKW < b.MinElectricalKW || electricalKW > b.MaxElectricalKW {
		return false
	}

	return true
}

// Value computes the COP over the current window. It never mutates state,
// so repeated reads without an intervening Update are identical.
func (s *Service) Value() Result {
	agg := s.acc.Aggregate()

	result := Result{
		Quality:          QualityNoData,
		MeasurementCount: agg.Count,
		TimeSpanMinutes:  agg.SpanMinutes,
	}

	if agg.Count == 0 || agg.SumElectricalKWh <= 0 {
		return result
	}

	result.Quality = s.quality(agg.Count, agg.SpanMinutes)

	value := agg.SumThermalKWh / agg.SumElectricalKWh
	if value < s.cfg.Bounds.MinCOP || value > s.cfg.Bounds.MaxCOP {
		// Physically implausible; report the tier without a number.
		return result
	}

	result.Value = &value

	return result
}

// Mode returns the operating mode this instance is configured for.
func (s *Service) Mode() measure.OperationMode {
	return s.cfg.Mode
}

func (s *Service) quality(count int, spanMinutes float64) Quality {
	t := s.cfg.Thresholds

	if count < t.PreliminaryCount || spanMinutes < t.PreliminarySpan.Minutes() {
		return QualityInsufficient
	}
	if count >= t.OptimalCount && spanMinutes >= t.OptimalSpan.Minutes() {
		return QualityOptimal
	}

	return QualityPreliminary
}
