package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/kvernes/heatpumpmon/internal/config"
	"codeberg.org/kvernes/heatpumpmon/internal/cop"
	"codeberg.org/kvernes/heatpumpmon/internal/engine"
	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/exporter"
	"codeberg.org/kvernes/heatpumpmon/internal/history"
	"codeberg.org/kvernes/heatpumpmon/internal/ingest"
	"codeberg.org/kvernes/heatpumpmon/internal/logger"
	"codeberg.org/kvernes/heatpumpmon/internal/measure"
	"codeberg.org/kvernes/heatpumpmon/internal/thermal"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
			logger.SetLogLevel(level)
		}
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	repo, err := history.NewRepository(history.Config{DBPath: cfg.HistoryDB})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open history repository")
	}
	defer repo.Close()

	eng, err := buildEngine(repo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}

	prometheus.MustRegister(exporter.NewCollector(eng, cfg.DeviceID))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/ingest", ingest.NewHandler(eng, measure.DefaultModeTable()))
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithCode(errors.New().Wrap(errors.ErrServeFailed, err)).
				Msg("HTTP server failed")
		}
	}()

	persistTotals(ctx, eng, repo)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}

	logger.Info().Msg("Exiting...")
}

func buildEngine(repo history.Repository) (*engine.Engine, error) {
	thermalCalc := measure.NewWaterCalculator()
	electricalCalc := measure.NewElectricalNormalizer(measure.ElectricalUnit(cfg.ElectricalUnit))
	maxGap := time.Duration(cfg.Interval*cfg.MaxGapFactor) * time.Second

	copServices := make([]*cop.Service, 0, len(measure.ProductionModes))
	for _, mode := range measure.ProductionModes {
		copCfg := cop.DefaultConfig(mode)
		copCfg.WindowSpan = time.Duration(cfg.WindowMinutes) * time.Minute
		copCfg.WindowSamples = cfg.WindowSamples
		copCfg.MaxGap = maxGap

		svc, err := cop.NewService(copCfg, thermalCalc, electricalCalc)
		if err != nil {
			return nil, err
		}
		copServices = append(copServices, svc)
	}

	thermalCfg := thermal.DefaultConfig(cfg.DeviceID)
	thermalCfg.MaxGap = maxGap
	thermalCfg.InertiaLock = time.Duration(cfg.InertiaSeconds) * time.Second

	thermalSvc, err := thermal.NewService(thermalCfg, thermalCalc, repo)
	if err != nil {
		return nil, err
	}

	return engine.New(copServices, thermalSvc)
}

// persistTotals periodically writes lifetime totals to the history
// repository so the next start can rehydrate them. Runs until ctx is
// cancelled, then writes once more on the way out.
func persistTotals(ctx context.Context, eng *engine.Engine, repo history.Repository) {
	interval := time.Duration(cfg.PersistMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	record := func(ctx context.Context) {
		now := time.Now()
		for _, class := range thermal.Classifications {
			state := eng.Thermal(class)
			if err := repo.RecordTotal(ctx, eng.ThermalSeries(class), now, state.TotalEnergyKWh); err != nil {
				logger.ErrorWithCode(errors.New().Wrap(errors.ErrPersistFailed, err)).
					Str("classification", string(class)).
					Msg("failed to persist lifetime total")
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Last write happens after cancellation; use a fresh context.
			record(context.Background())
			return
		case <-ticker.C:
			record(ctx)
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}
