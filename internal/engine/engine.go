// Package engine fans each measurement snapshot out to the per-mode COP
// services and the thermal split service, isolating failures so no stream
// can halt or corrupt another.
package engine

import (
	"fmt"
	"sync"

	"codeberg.org/kvernes/heatpumpmon/internal/cop"
	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
	"codeberg.org/kvernes/heatpumpmon/internal/thermal"
)

// Engine owns the five logical metric streams (4 COP modes + the thermal
// split). The services themselves assume a single writer; the engine
// serializes the adapter's updates against snapshot readers (exporter
// scrapes, total persistence).
type Engine struct {
	mu          sync.Mutex
	copServices map[measure.OperationMode]*cop.Service
	thermal     *thermal.Service
}

// New wires the streams together. Every COP service must be configured
// for a distinct mode.
func New(copServices []*cop.Service, thermalSvc *thermal.Service) (*Engine, error) {
	errFactory := errors.New()

	if thermalSvc == nil {
		return nil, errFactory.WithMessage(errors.ErrInitApp, "thermal service is required")
	}

	byMode := make(map[measure.OperationMode]*cop.Service, len(copServices))
	for _, svc := range copServices {
		if svc == nil {
			return nil, errFactory.WithMessage(errors.ErrInitApp, "nil COP service")
		}
		if _, dup := byMode[svc.Mode()]; dup {
			return nil, errFactory.WithData(errors.ErrInitApp, svc.Mode())
		}
		byMode[svc.Mode()] = svc
	}

	return &Engine{
		copServices: byMode,
		thermal:     thermalSvc,
	}, nil
}

// Update delivers the snapshot to every stream. A panicking stream is
// reported to the caller for logging; the remaining streams still run,
// and the next tick's sample naturally supersedes the failed one.
func (e *Engine) Update(sample measure.Sample) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var failed []string

	for _, mode := range measure.ProductionModes {
		svc, ok := e.copServices[mode]
		if !ok {
			continue
		}
		if recovered := protect(func() { svc.Update(sample) }); recovered != nil {
			failed = append(failed, fmt.Sprintf("cop/%s: %v", mode, recovered))
		}
	}

	if recovered := protect(func() { e.thermal.Update(sample) }); recovered != nil {
		failed = append(failed, fmt.Sprintf("thermal: %v", recovered))
	}

	if len(failed) > 0 {
		return errors.New().WithData(errors.ErrStreamPanic, failed)
	}

	return nil
}

func protect(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	fn()

	return nil
}

// COP returns the current result for one mode instance.
func (e *Engine) COP(mode measure.OperationMode) (cop.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	svc, ok := e.copServices[mode]
	if !ok {
		return cop.Result{}, false
	}

	return svc.Value(), true
}

// Modes lists the modes with a configured COP instance.
func (e *Engine) Modes() []measure.OperationMode {
	modes := make([]measure.OperationMode, 0, len(e.copServices))
	for _, mode := range measure.ProductionModes {
		if _, ok := e.copServices[mode]; ok {
			modes = append(modes, mode)
		}
	}

	return modes
}

// Thermal returns the read-only energy state for one classification.
func (e *Engine) Thermal(class thermal.Classification) thermal.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.thermal.Snapshot(class)
}

// ThermalSeries returns the history series identifier for a classification.
func (e *Engine) ThermalSeries(class thermal.Classification) string {
	return e.thermal.Series(class)
}
