package measure

import "math"

// ElectricalUnit describes how an external power sensor reports values.
type ElectricalUnit string

const (
	UnitAuto     ElectricalUnit = "auto"
	UnitWatt     ElectricalUnit = "watt"
	UnitKilowatt ElectricalUnit = "kilowatt"
)

// A compressor draws a few kW at most; readings at or above this are
// assumed to be watts when the unit is auto-detected.
const autoWattThreshold = 100.0

// ElectricalCalculator normalizes raw electrical readings to kW. A nil
// reading (sensor absent) yields ok=false.
type ElectricalCalculator interface {
	PowerKW(raw *float64) (float64, bool)
}

type normalizer struct {
	unit ElectricalUnit
}

// NewElectricalNormalizer returns an ElectricalCalculator for the given
// sensor unit.
func NewElectricalNormalizer(unit ElectricalUnit) ElectricalCalculator {
	return &normalizer{unit: unit}
}

func (n *normalizer) PowerKW(raw *float64) (float64, bool) {
	if raw == nil {
		return 0, false
	}

	value := *raw
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}

	switch n.unit {
	case UnitWatt:
		return value / 1000, true
	case UnitKilowatt:
		return value, true
	default:
		if value >= autoWattThreshold {
			return value / 1000, true
		}
		return value, true
	}
}
