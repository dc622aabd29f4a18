package exporter_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/kvernes/heatpumpmon/internal/cop"
	"codeberg.org/kvernes/heatpumpmon/internal/engine"
	"codeberg.org/kvernes/heatpumpmon/internal/exporter"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
	"codeberg.org/kvernes/heatpumpmon/internal/thermal"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func kw(f float64) *float64 { return &f }

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()

	copServices := make([]*cop.Service, 0, len(measure.ProductionModes))
	for _, mode := range measure.ProductionModes {
		svc, err := cop.NewService(cop.DefaultConfig(mode),
			measure.NewWaterCalculator(),
			measure.NewElectricalNormalizer(measure.UnitKilowatt))
		require.NoError(t, err)
		copServices = append(copServices, svc)
	}

	cfg := thermal.DefaultConfig("test")
	cfg.Location = time.UTC
	thermalSvc, err := thermal.NewService(cfg, measure.NewWaterCalculator(), nil)
	require.NoError(t, err)

	eng, err := engine.New(copServices, thermalSvc)
	require.NoError(t, err)
	return eng
}

func TestCOPValueOmittedWithoutData(t *testing.T) {
	collector := exporter.NewCollector(newEngine(t), "test")

	// Quality and thermal gauges are always present, the COP value is not.
	assert.Zero(t, testutil.CollectAndCount(collector, "heatpumpmon_cop"))
	assert.Equal(t, 4, testutil.CollectAndCount(collector, "heatpumpmon_cop_quality"))
	assert.Equal(t, 2, testutil.CollectAndCount(collector, "heatpumpmon_total_energy_kwh"))
}

func TestCOPValueEmittedOncePreliminary(t *testing.T) {
	eng := newEngine(t)
	collector := exporter.NewCollector(eng, "test")

	for i := 0; i < 8; i++ {
		err := eng.Update(measure.Sample{
			Timestamp:         testStart.Add(time.Duration(i) * 30 * time.Second),
			WaterFlowM3h:      1.2,
			WaterInletC:       35,
			WaterOutletC:      40,
			ElectricalPowerKW: kw(1.75),
			CompressorRunning: true,
			Mode:              measure.ModeHeating,
		})
		require.NoError(t, err)
	}

	// Only the heating instance has usable data.
	assert.Equal(t, 1, testutil.CollectAndCount(collector, "heatpumpmon_cop"))
}

func TestThermalStateExported(t *testing.T) {
	eng := newEngine(t)
	collector := exporter.NewCollector(eng, "test")

	for i := 0; i < 4; i++ {
		err := eng.Update(measure.Sample{
			Timestamp:         testStart.Add(time.Duration(i) * 30 * time.Second),
			WaterFlowM3h:      1.2,
			WaterInletC:       35,
			WaterOutletC:      40,
			CompressorRunning: true,
			Mode:              measure.ModeHeating,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, testutil.CollectAndCount(collector, "heatpumpmon_thermal_power_kw"))
	assert.Equal(t, 2, testutil.CollectAndCount(collector, "heatpumpmon_daily_energy_kwh"))
}
