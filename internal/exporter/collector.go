// Package exporter implements the Prometheus collector over the engine's
// read-only snapshots.
package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"codeberg.org/kvernes/heatpumpmon/internal/cop"
	"codeberg.org/kvernes/heatpumpmon/internal/engine"
	"codeberg.org/kvernes/heatpumpmon/internal/thermal"
)

// Collector implements prometheus.Collector for the monitoring engine.
// Collect only reads snapshots; scrapes never mutate engine state.
type Collector struct {
	engine   *engine.Engine
	deviceID string
	metrics  *MetricSet
}

// NewCollector creates a collector for one device's engine.
func NewCollector(eng *engine.Engine, deviceID string) *Collector {
	return &Collector{
		engine:   eng,
		deviceID: deviceID,
		metrics:  newMetricSet(),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.metrics.copValue
	ch <- c.metrics.copQuality
	ch <- c.metrics.copSamples
	ch <- c.metrics.copWindowMinutes
	ch <- c.metrics.thermalPower
	ch <- c.metrics.deltaT
	ch <- c.metrics.waterFlow
	ch <- c.metrics.dailyEnergy
	ch <- c.metrics.totalEnergy
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, mode := range c.engine.Modes() {
		result, ok := c.engine.COP(mode)
		if !ok {
			continue
		}

		labels := []string{c.deviceID, string(mode)}

		ch <- prometheus.MustNewConstMetric(c.metrics.copQuality,
			prometheus.GaugeValue, qualityValue(result.Quality), labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.copSamples,
			prometheus.GaugeValue, float64(result.MeasurementCount), labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.copWindowMinutes,
			prometheus.GaugeValue, result.TimeSpanMinutes, labels...)

		// A COP below preliminary confidence is unavailable, not zero.
		if result.Value != nil && usable(result.Quality) {
			ch <- prometheus.MustNewConstMetric(c.metrics.copValue,
				prometheus.GaugeValue, *result.Value, labels...)
		}
	}

	for _, class := range thermal.Classifications {
		state := c.engine.Thermal(class)
		labels := []string{c.deviceID, string(class)}

		ch <- prometheus.MustNewConstMetric(c.metrics.thermalPower,
			prometheus.GaugeValue, state.InstantPowerKW, labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.deltaT,
			prometheus.GaugeValue, state.DeltaT, labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.waterFlow,
			prometheus.GaugeValue, state.WaterFlowM3h, labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.dailyEnergy,
			prometheus.GaugeValue, state.DailyEnergyKWh, labels...)
		ch <- prometheus.MustNewConstMetric(c.metrics.totalEnergy,
			prometheus.GaugeValue, state.TotalEnergyKWh, labels...)
	}
}

func usable(q cop.Quality) bool {
	return q == cop.QualityPreliminary || q == cop.QualityOptimal
}

func qualityValue(q cop.Quality) float64 {
	switch q {
	case cop.QualityInsufficient:
		return 1
	case cop.QualityPreliminary:
		return 2
	case cop.QualityOptimal:
		return 3
	default:
		return 0
	}
}
