package measure

import "math"

// Standard properties of water in the loop temperature range.
const (
	waterDensityKgM3  = 998.2
	waterSpecificHeat = 4.186 // kJ/(kg·K)
	secondsPerHour    = 3600.0
)

// ThermalCalculator computes instantaneous thermal power from water flow
// and temperature differential. Implementations are pure; invalid inputs
// yield ok=false instead of an error.
type ThermalCalculator interface {
	PowerKW(flowM3h, deltaTC float64) (float64, bool)
}

type waterCalculator struct {
	density      float64
	specificHeat float64
}

// NewWaterCalculator returns a ThermalCalculator using standard water
// density and specific heat.
func NewWaterCalculator() ThermalCalculator {
	return &waterCalculator{
		density:      waterDensityKgM3,
		specificHeat: waterSpecificHeat,
	}
}

// PowerKW returns flow × density × c_p × ΔT / 3600. The sign follows ΔT:
// positive for heating, negative for cooling.
func (c *waterCalculator) PowerKW(flowM3h, deltaTC float64) (float64, bool) {
	if math.IsNaN(flowM3h) || math.IsInf(flowM3h, 0) ||
		math.IsNaN(deltaTC) || math.IsInf(deltaTC, 0) {
		return 0, false
	}
	if flowM3h <= 0 {
		return 0, false
	}

	return flowM3h * c.density * c.specificHeat * deltaTC / secondsPerHour, true
}
