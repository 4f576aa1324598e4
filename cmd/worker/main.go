package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planforge/planforge/internal/bootstrap"
	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/observability/logging"
	"github.com/planforge/planforge/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	logging.Setup(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:         ":" + cfg.WorkerMetricsPort,
		Handler:      workerMetrics.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", slog.String("port", cfg.WorkerMetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()

	slog.Info("worker_subscribed", slog.String("subject", cfg.NATSSubject))
	err = app.Queue.SubscribePlanRequested(ctx, func(handlerCtx context.Context, documentID string) error {
		buildCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		observeQueueLag(buildCtx, app, workerMetrics, documentID)

		workerMetrics.StartBuild()
		start := time.Now()
		buildErr := app.BuildUC.BuildByID(buildCtx, documentID)
		workerMetrics.FinishBuild(serviceName, time.Since(start), buildErr)

		if buildErr == nil {
			observePlanShape(buildCtx, app, workerMetrics, documentID)
		}
		return buildErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("worker_metrics_shutdown", slog.String("error", err.Error()))
	}
}

func observeQueueLag(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, documentID string) {
	doc, err := app.Docs.GetByID(ctx, documentID)
	if err != nil {
		return
	}
	m.ObserveQueueLag(serviceName, time.Since(doc.CreatedAt))
}

func observePlanShape(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, documentID string) {
	plan, err := app.Plans.GetByDocumentID(ctx, documentID)
	if err != nil {
		return
	}
	m.ObservePlanShape(serviceName, len(plan.Phases), plan.TaskCount(), plan.Fallback)
}
