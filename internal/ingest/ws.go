// Package ingest receives measurement snapshots pushed by the device
// adapter over a websocket, one message per poll tick. All register
// decoding happens on the adapter side; this layer only maps the raw
// operation-state code through the injected mode table.
package ingest

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/logger"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
)

// Snapshot is the wire format of one measurement tick.
type Snapshot struct {
	Timestamp         time.Time `json:"timestamp"`
	WaterFlowM3h      float64   `json:"water_flow_m3h"`
	WaterInletC       float64   `json:"water_inlet_c"`
	WaterOutletC      float64   `json:"water_outlet_c"`
	ElectricalPowerKW *float64  `json:"electrical_power_kw,omitempty"`
	CompressorRunning bool      `json:"compressor_running"`
	DefrostActive     bool      `json:"defrost_active"`
	OperationState    int       `json:"operation_state"`
}

// Sink consumes decoded samples; the engine implements it.
type Sink interface {
	Update(sample measure.Sample) error
}

// Handler upgrades adapter connections and feeds decoded samples into
// the sink. One adapter connection is expected at a time; the engine
// assumes a single writer.
type Handler struct {
	sink     Sink
	modes    measure.ModeTable
	upgrader websocket.Upgrader
}

// NewHandler builds a websocket ingest handler with the given mode table.
func NewHandler(sink Sink, modes measure.ModeTable) *Handler {
	return &Handler{
		sink:  sink,
		modes: modes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("Adapter connected")

	for {
		var snapshot Snapshot
		if err := conn.ReadJSON(&snapshot); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("Adapter connection lost")
			}
			return
		}

		if err := h.sink.Update(h.sample(snapshot)); err != nil {
			logger.Error().
				Str("error_code", string(errors.CodeOf(err))).
				Err(err).
				Msg("Sample update failed")
		}
	}
}

func (h *Handler) sample(s Snapshot) measure.Sample {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return measure.Sample{
		Timestamp:         ts,
		WaterFlowM3h:      s.WaterFlowM3h,
		WaterInletC:       s.WaterInletC,
		WaterOutletC:      s.WaterOutletC,
		ElectricalPowerKW: s.ElectricalPowerKW,
		CompressorRunning: s.CompressorRunning,
		DefrostActive:     s.DefrostActive,
		Mode:              h.modes.ModeForState(s.OperationState),
	}
}
