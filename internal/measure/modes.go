package measure

// Raw operation-state register values as reported by the device. The
// device additionally exposes a coarser "unit mode" register; that one
// cannot distinguish dhw from space heating and must never be used for
// per-mode classification.
const (
	StateStandby        = 0
	StateHeating        = 1
	StateCooling        = 2
	StateHotWater       = 3
	StatePool           = 4
	StateDefrost        = 5
	StateAntiLegionella = 6
	StateStartDelay     = 7
	StateEvacuation     = 8
	StateManualTest     = 9
	StateAlarm          = 10
	StateOff            = 11
)

// ModeTable maps raw operation-state register values to domain modes.
// It is injected into the ingest layer as a single value so the mapping
// lives in exactly one place.
type ModeTable map[int]OperationMode

// DefaultModeTable returns the mapping for the stock register layout.
func DefaultModeTable() ModeTable {
	return ModeTable{
		StateStandby:        ModeUnknown,
		StateHeating:        ModeHeating,
		StateCooling:        ModeCooling,
		StateHotWater:       ModeDHW,
		StatePool:           ModePool,
		StateDefrost:        ModeUnknown,
		StateAntiLegionella: ModeDHW,
		StateStartDelay:     ModeUnknown,
		StateEvacuation:     ModeUnknown,
		StateManualTest:     ModeUnknown,
		StateAlarm:          ModeUnknown,
		StateOff:            ModeUnknown,
	}
}

// ModeForState resolves a raw register value through the table.
// Unlisted states resolve to ModeUnknown.
func (t ModeTable) ModeForState(state int) OperationMode {
	if mode, ok := t[state]; ok {
		return mode
	}

	return ModeUnknown
}
