// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/common"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/config"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/gateway"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/jobs"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/match"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/mission"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/moderator"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/random"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/report"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/resolution"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/telemetry"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/victory"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("unable to read .env file")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		logrus.WithError(err).Fatal("unable to parse environment configuration")
	}

	if err := common.ConfigureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("unable to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
	logrus.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := telemetry.Setup(cfg.ServiceName, cfg.ZipkinURL)
	if err != nil {
		return err
	}
	defer shutdownWith(shutdownTracing, "tracer provider")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gameMetrics := metrics.NewMetrics(registry)

	seed := cfg.RandomSeed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	logrus.WithField("seed", seed).Info("random source seeded")
	src := random.NewSource(seed)
	dice := random.NewDice(src)

	sink, closers, err := openSinks(ctx, cfg)
	if err != nil {
		return err
	}
	for _, closer := range closers {
		defer closer.Close()
	}

	dispatcher := report.NewDispatcher(sink, gameMetrics, constants.ReportQueueSize)
	defer shutdownWith(dispatcher.Close, "report dispatcher")

	directory, err := matchmaker.NewDirectory(cfg.Settings(), src, match.Deps{
		Catalog:   mission.NewDefaultCatalog(src),
		Engine:    resolution.NewEngine(dice),
		Evaluator: victory.NewEvaluator(dice),
		Publisher: dispatcher,
		Metrics:   gameMetrics,
	})
	if err != nil {
		return err
	}

	scheduler, err := jobs.Schedule(
		jobs.NewStatsJob(directory, gameMetrics),
		time.Duration(cfg.StatsIntervalSecond)*time.Second,
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logrus.WithError(err).Warn("unable to stop scheduler")
		}
	}()

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Handle("/ws", gateway.NewHandler(directory))
	router.Mount("/api/moderator", moderator.NewHandler(directory).Routes())
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("address", cfg.ListenAddress).Info("listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// openSinks builds the report fan-out from whichever sinks are configured.
func openSinks(ctx context.Context, cfg *config.Config) (report.Sink, []io.Closer, error) {
	var sinks report.MultiSink
	var closers []io.Closer

	if cfg.ReportDir != "" {
		fileSink, err := report.NewFileSink(cfg.ReportDir)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, fileSink)
	}

	if cfg.ReportSQLitePath != "" {
		sqliteSink, err := report.OpenSQLiteSink(ctx, cfg.ReportSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, sqliteSink)
		closers = append(closers, sqliteSink)
	}

	if cfg.ReportS3Bucket != "" {
		client, err := report.NewS3Client(ctx, report.S3Options{
			Bucket:          cfg.ReportS3Bucket,
			Prefix:          cfg.ReportS3Prefix,
			Region:          cfg.ReportS3Region,
			Endpoint:        cfg.ReportS3Endpoint,
			AccessKeyID:     cfg.ReportS3AccessKeyID,
			SecretAccessKey: cfg.ReportS3SecretAccessKey,
		})
		if err != nil {
			for _, closer := range closers {
				_ = closer.Close()
			}
			return nil, nil, err
		}
		sinks = append(sinks, report.NewS3Sink(client, cfg.ReportS3Bucket, cfg.ReportS3Prefix))
	}

	if len(sinks) == 0 {
		logrus.Warn("no report sink configured, match reports are discarded")
	}

	return sinks, closers, nil
}

func shutdownWith(shutdown func(context.Context) error, what string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		logrus.WithError(err).Warnf("unable to stop %s", what)
	}
}
