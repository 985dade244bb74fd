// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/timeline-sync/internal/config"
	"github.com/MKhiriev/timeline-sync/internal/events"
	httphandler "github.com/MKhiriev/timeline-sync/internal/handler/http"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/metrics"
	"github.com/MKhiriev/timeline-sync/internal/server"
	"github.com/MKhiriev/timeline-sync/internal/service"
	"github.com/MKhiriev/timeline-sync/internal/store"
	"github.com/MKhiriev/timeline-sync/internal/workers"
)

// App owns every long-lived component of the engine.
type App struct {
	services  *service.Services
	storages  *store.Storages
	bus       *events.Bus
	collector *metrics.Collector
	workers   *workers.Workers
	logger    *logger.Logger

	interrupted  interrupted
	unsubscribes []func()
}

// NewApp builds the engine described by cfg. Storage is opened when
// cfg.Storage.DB.DSN is set; a nil transport syncs against
// service.LoopbackTransport.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, transport service.Transport, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, service.ErrNoConfig
	}
	if log == nil {
		log = logger.Nop()
	}

	bus := events.NewBus(log.WithComponent("events"))
	services, err := service.NewServices(cfg, transport, bus, log)
	if err != nil {
		return nil, fmt.Errorf("create services: %w", err)
	}

	var storages *store.Storages
	if cfg.Storage.DB.DSN != "" {
		storages, err = store.NewStorages(ctx, cfg.Storage.DB, log)
		if err != nil {
			return nil, fmt.Errorf("create storages: %w", err)
		}
	} else {
		log.Warn().Msg("no database configured, state is kept in memory only")
	}

	a, err := newApp(ctx, cfg, services, storages, bus, log)
	if err != nil {
		closeStorages(storages, log)
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *config.StructuredConfig, services *service.Services, storages *store.Storages, bus *events.Bus, log *logger.Logger) (*App, error) {
	a := &App{
		services:  services,
		storages:  storages,
		bus:       bus,
		collector: metrics.NewCollector(),
		logger:    log,
	}
	a.unsubscribes = append(a.unsubscribes, bus.Subscribe(a.collector.Observe))

	list := []workers.Worker{
		workers.NewRetryWorker(services.Records, cfg.Sync.MaxRetries, cfg.Sync.RetryInterval, log),
		workers.NewSyncJobWorker(services.Job, cfg.Sync.Interval),
	}

	if storages != nil {
		if err := restore(ctx, services, storages, log); err != nil {
			return nil, fmt.Errorf("restore state: %w", err)
		}

		persist := workers.NewPersistWorker(storages, workers.DefaultPersistBuffer, log)
		a.unsubscribes = append(a.unsubscribes, bus.Subscribe(persist.Enqueue))
		list = append(list, persist)
	}
	a.interrupted = findInterrupted(ctx, services)

	if cfg.Metrics.Address != "" {
		handler := httphandler.NewHandler(services, a.collector, log)
		srv, err := server.NewServer(cfg.Metrics.Address, handler.Init(), log)
		if err != nil {
			return nil, fmt.Errorf("create http server: %w", err)
		}
		list = append(list, srv)
	}

	a.workers = workers.NewWorkers(list...)
	return a, nil
}

// Services exposes the engine's services to embedding code.
func (a *App) Services() *service.Services {
	return a.services
}

// Run blocks until SIGTERM, SIGINT or SIGQUIT, then stops every worker and
// closes the database.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.close()

	a.logger.Info().Int("workers", a.workers.Len()).Msg("starting timeline sync engine")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.workers.Run(gctx)
	})
	g.Go(func() error {
		a.settle(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run workers: %w", err)
	}

	a.logger.Info().Msg("engine stopped gracefully")
	return nil
}

func (a *App) close() {
	for _, unsubscribe := range a.unsubscribes {
		unsubscribe()
	}
	closeStorages(a.storages, a.logger)
}

func closeStorages(storages *store.Storages, log *logger.Logger) {
	if err := storages.Close(); err != nil {
		log.Err(err).Msg("error closing storages")
	}
}
