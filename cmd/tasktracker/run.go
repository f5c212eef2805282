package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/konveyor/tasktracker/config"
	"github.com/konveyor/tasktracker/tracing"
	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/subscriber"
)

// workFunc drives the tracker from start to finish or abort.
type workFunc func(ctx context.Context, t *tracker.Tracker) error

type runFunc func(name string, total int, work workFunc)

const shutdownTimeout = 5 * time.Second

func runTask(ctx context.Context, cfg config.Config, log logr.Logger, name string, total int, work workFunc) error {
	if cfg.Metrics.Task != "" {
		name = cfg.Metrics.Task
	}

	out, err := cfg.Output.Open()
	if err != nil {
		return err
	}
	defer out.Close()

	output, err := cfg.Output.Subscriber(out, cfg.Throttle)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := subscriber.NewPrometheus(reg, subscriber.WithTask(name))
	if err != nil {
		return err
	}
	latest := subscriber.NewLatest()

	tp, err := tracing.InitTracerProvider(log, tracing.Options{
		EnableJaeger:   cfg.Tracing.JaegerEnabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		return err
	}
	defer tracing.Shutdown(context.Background(), log, tp)

	ctx, span := tracing.StartNewSpan(ctx, "tasktracker", attribute.String("task", name))
	defer span.End()

	defaults := []tracker.Subscriber{latest, metrics, tracing.NewSubscriber(ctx, name)}
	if output != nil {
		defaults = append(defaults, output)
	}
	t := tracker.NewFactory(defaults, tracker.WithLogger(log)).NewTracker(total)
	log.V(3).Info("tracker created", "task", name, "tracker", t.ID(), "total", total)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(workCtx)

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           newRouter(reg, latest),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			log.Info("serving status endpoints", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return work(gctx, t)
	})

	err = g.Wait()

	if cfg.Summary.File != "" {
		if n, ok := latest.Get(); ok {
			if serr := writeSummary(cfg.Summary.File, name, n); serr != nil {
				err = errors.Join(err, serr)
			} else {
				log.Info("wrote summary", "file", cfg.Summary.File)
			}
		}
	}
	return err
}
