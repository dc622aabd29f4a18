// Package measure holds the measurement domain model: the per-tick
// snapshot delivered by the device adapter, the operation-mode taxonomy
// and the power calculators the derived-metric services are built on.
package measure

import "time"

// OperationMode is the domain-level classification of what the heat pump
// is producing. It is derived from the raw operation-state register via an
// explicit ModeTable, never from the coarser unit-mode flag.
type OperationMode string

const (
	ModeHeating OperationMode = "heating"
	ModeCooling OperationMode = "cooling"
	ModeDHW     OperationMode = "dhw"
	ModePool    OperationMode = "pool"
	ModeUnknown OperationMode = "unknown"
)

// ProductionModes lists the modes a COP service can be configured for.
var ProductionModes = []OperationMode{ModeHeating, ModeCooling, ModeDHW, ModePool}

// Sample is one immutable measurement snapshot delivered by the host per
// polling tick. Electrical power may be absent when no external power
// sensor is wired.
type Sample struct {
	Timestamp         time.Time
	WaterFlowM3h      float64
	WaterInletC       float64
	WaterOutletC      float64
	ElectricalPowerKW *float64
	CompressorRunning bool
	DefrostActive     bool
	Mode              OperationMode
}

// DeltaT returns outlet minus inlet water temperature in Kelvin.
func (s Sample) DeltaT() float64 {
	return s.WaterOutletC - s.WaterInletC
}
