package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitchlogic/tactical-board/internal/dispatcher"
	"github.com/pitchlogic/tactical-board/internal/influx"
)

func (a *app) registerLifecycleHandlers(d *dispatcher.Dispatcher) {
	d.Register(":VERSION:", func(dispatcher.Command) (any, error) {
		return []string{Version, BuildDate}, nil
	})

	d.Register(":COMMANDS:", func(dispatcher.Command) (any, error) {
		return d.Commands(), nil
	})

	d.Register(":GETDIR:LOG:", func(dispatcher.Command) (any, error) {
		return a.logPath, nil
	})

	d.Register(":HEALTH:", func(dispatcher.Command) (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.api.Healthcheck(ctx); err != nil {
			return nil, err
		}
		return "online", nil
	})

	// persist pending nodes and flush telemetry without ending the session
	d.Register(":SAVE:", func(dispatcher.Command) (any, error) {
		var errs []error
		if err := a.worker.Flush(); err != nil {
			errs = append(errs, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otel.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := a.slog.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		return a.worker.Stats(), nil
	}, dispatcher.Logged())

	// host supplied metrics, e.g. video clock drift
	d.Register(":METRIC:", func(c dispatcher.Command) (any, error) {
		if a.influx == nil {
			return nil, fmt.Errorf("influx is not connected")
		}
		bucket, point, err := influx.ParseMetric(c.Args, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to parse metric: %w", err)
		}
		if err := a.influx.WritePoint(bucket, point); err != nil {
			return nil, err
		}
		return "ok", nil
	}, dispatcher.Buffered(1000))
}
