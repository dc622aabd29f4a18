package exporter

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metric label names
const (
	LabelDeviceID       = "device_id"
	LabelMode           = "mode"
	LabelClassification = "classification"
)

// MetricSet holds all Prometheus metric descriptors for the engine.
type MetricSet struct {
	// COP metrics
	copValue         *prometheus.Desc
	copQuality       *prometheus.Desc
	copSamples       *prometheus.Desc
	copWindowMinutes *prometheus.Desc

	// Thermal energy metrics
	thermalPower *prometheus.Desc
	deltaT       *prometheus.Desc
	waterFlow    *prometheus.Desc
	dailyEnergy  *prometheus.Desc
	totalEnergy  *prometheus.Desc
}

// newMetricSet creates all metric descriptors.
func newMetricSet() *MetricSet {
	modeLabels := []string{LabelDeviceID, LabelMode}
	classLabels := []string{LabelDeviceID, LabelClassification}

	return &MetricSet{
		copValue: prometheus.NewDesc(
			"heatpumpmon_cop",
			"Coefficient of performance over the current window; absent below preliminary quality",
			modeLabels, nil,
		),
		copQuality: prometheus.NewDesc(
			"heatpumpmon_cop_quality",
			"COP confidence tier (0=no_data, 1=insufficient_data, 2=preliminary, 3=optimal)",
			modeLabels, nil,
		),
		copSamples: prometheus.NewDesc(
			"heatpumpmon_cop_window_samples",
			"Accepted samples in the COP window",
			modeLabels, nil,
		),
		copWindowMinutes: prometheus.NewDesc(
			"heatpumpmon_cop_window_minutes",
			"Span of the COP window in minutes",
			modeLabels, nil,
		),
		thermalPower: prometheus.NewDesc(
			"heatpumpmon_thermal_power_kw",
			"Instantaneous thermal power (kW)",
			classLabels, nil,
		),
		deltaT: prometheus.NewDesc(
			"heatpumpmon_delta_t_celsius",
			"Water outlet minus inlet temperature (°C)",
			classLabels, nil,
		),
		waterFlow: prometheus.NewDesc(
			"heatpumpmon_water_flow_m3h",
			"Water flow through the condenser (m³/h)",
			classLabels, nil,
		),
		dailyEnergy: prometheus.NewDesc(
			"heatpumpmon_daily_energy_kwh",
			"Thermal energy produced since local midnight (kWh)",
			classLabels, nil,
		),
		totalEnergy: prometheus.NewDesc(
			"heatpumpmon_total_energy_kwh",
			"Lifetime thermal energy production (kWh)",
			classLabels, nil,
		),
	}
}
