package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pitchlogic/tactical-board/internal/api"
	"github.com/pitchlogic/tactical-board/internal/cache"
	"github.com/pitchlogic/tactical-board/internal/channel"
	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/internal/dispatcher"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/handlers"
	"github.com/pitchlogic/tactical-board/internal/influx"
	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/internal/logging"
	"github.com/pitchlogic/tactical-board/internal/monitor"
	intOtel "github.com/pitchlogic/tactical-board/internal/otel"
	"github.com/pitchlogic/tactical-board/internal/parser"
	"github.com/pitchlogic/tactical-board/internal/session"
	"github.com/pitchlogic/tactical-board/internal/storage"
	"github.com/pitchlogic/tactical-board/internal/storage/memory"
	"github.com/pitchlogic/tactical-board/internal/worker"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// app wires one board session to its storage, telemetry and host protocol
type app struct {
	sessionName string
	tag         string
	startedAt   time.Time
	logPath     string

	slog   *logging.SlogManager
	otel   *intOtel.Provider
	dbLog  zerolog.Logger
	logger *slog.Logger

	in  io.Reader
	out io.Writer

	boardAttrs atomic.Pointer[[]slog.Attr]

	session    *session.Session
	notify     channel.Channel[session.Notification]
	backend    storage.Backend
	worker     *worker.Manager
	dispatcher *dispatcher.Dispatcher
	monitor    *monitor.Service
	influx     *influx.Manager
	api        *api.Client
	writer     *responseWriter

	stopWorker context.CancelFunc
	background sync.WaitGroup
}

func (a *app) meta() core.UploadMetadata {
	return core.UploadMetadata{SessionName: a.sessionName, Tag: a.tag}
}

func (a *app) start(ctx context.Context) error {
	a.writer = newResponseWriter(a.out)
	a.api = api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))

	a.backend = a.openBackend(config.GetStorageConfig())
	a.worker = worker.NewManager(worker.Dependencies{Logger: a.logger}, a.backend)

	bc := config.GetBoardConfig()
	a.notify = channel.New[session.Notification](256)
	a.session = session.New(session.Options{
		Interaction: interaction.Config{
			DragThresholdPx: bc.DragThresholdPx,
			MinStrokePoints: bc.MinStrokePoints,
		},
		Style:          core.DrawingStyle{Color: bc.DrawColor, Dashed: bc.DrawDashed},
		FeedSize:       bc.FeedSize,
		HitTolerancePx: bc.HitTolerancePx,
		Logger:         a.logger.With("component", "session"),
		Notify:         a.notify,
		Sink:           a.worker,
	})
	a.resumeTimeline()
	a.refreshBoardContext()

	workerCtx, cancel := context.WithCancel(context.Background())
	a.stopWorker = cancel
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		a.worker.Run(workerCtx)
	}()

	a.connectInflux(ctx)

	d, err := dispatcher.New(logging.NewDispatcherLogger(a.logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	a.dispatcher = d

	p := parser.NewParser(a.logger)
	gc := config.GetGeoConfig()
	handlers.NewService(handlers.Dependencies{
		Session:    a.session,
		Parser:     p,
		LogManager: a.slog,
		GeoRef: geo.GeoReference{
			Longitude:    gc.Longitude,
			Latitude:     gc.Latitude,
			LengthMeters: gc.LengthMeters,
			WidthMeters:  gc.WidthMeters,
		},
	}).Register(d)
	a.worker.RegisterHandlers(d, p)
	a.registerLifecycleHandlers(d)

	a.monitor = monitor.NewService(monitor.Dependencies{
		Session:     a.session,
		Pipeline:    a.worker,
		Influx:      a.pointWriter(),
		Logger:      a.logger,
		SessionName: a.sessionName,
		StatusFile:  filepath.Join(viper.GetString("logsDir"), "status.json"),
	})
	a.monitor.Start()

	a.background.Add(1)
	go func() {
		defer a.background.Done()
		channel.Drain[session.Notification](a.notify, a.forwardNotification)
	}()

	go a.checkServerStatus(ctx)
	return nil
}

// openBackend falls back to the in-memory store when the configured backend cannot start
func (a *app) openBackend(cfg config.StorageConfig) storage.Backend {
	deps := storage.Dependencies{
		Meta:      a.meta(),
		NodeCache: cache.NewNodeCache(),
		Logger:    a.logger,
		DBLogger:  a.dbLog,
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		Now:       func() time.Time { return a.startedAt },
	}

	backend, err := storage.NewBackend(cfg, deps)
	if err == nil {
		err = backend.Init()
	}
	if err == nil {
		a.logger.Info("Storage backend initialized", "type", cfg.Type)
		return backend
	}

	a.logger.Error("Failed to initialize storage backend, using memory", "type", cfg.Type, "error", err)
	fallback := memory.New(cfg.Memory, deps.Meta)
	if err := fallback.Init(); err != nil {
		a.logger.Error("Failed to initialize memory fallback", "error", err)
	}
	return fallback
}

// resumeTimeline loads nodes persisted by an earlier run of the same backend
func (a *app) resumeTimeline() {
	nodes, err := a.backend.ListNodes()
	if err != nil {
		a.logger.Warn("Failed to read persisted timeline", "error", err)
		return
	}
	if n := a.session.LoadNodes(nodes); n > 0 {
		a.session.Log(fmt.Sprintf("TIMELINE RESTORED: %d NODES", n))
		a.logger.Info("Resumed timeline", "nodes", n)
	}
}

func (a *app) connectInflux(ctx context.Context) {
	a.influx = influx.NewManager(config.GetInfluxConfig(), a.dbLog.With().Str("component", "influx").Logger())
	err := a.influx.Connect(ctx, a.startedAt)
	switch {
	case errors.Is(err, influx.ErrDisabled):
		a.influx = nil
	case err != nil:
		a.logger.Warn("InfluxDB unavailable", "error", err)
		a.influx = nil
	}
}

func (a *app) pointWriter() monitor.PointWriter {
	if a.influx == nil {
		return nil
	}
	return a.influx
}

func (a *app) forwardNotification(n session.Notification) {
	if a.influx != nil {
		if err := a.influx.WritePoint(influx.BucketActivity, influx.ActivityPoint(a.sessionName, string(n.Type), time.Now())); err != nil {
			a.logger.Debug("Failed to write activity point", "error", err)
		}
	}
	if err := a.writer.notification(n); err != nil {
		a.logger.Warn("Failed to write notification", "type", n.Type, "error", err)
	}
}

func (a *app) checkServerStatus(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.api.Healthcheck(ctx); err != nil {
		a.logger.Info("Web frontend is offline", "error", err)
		return
	}
	a.logger.Info("Web frontend is online")
}

// shutdown stops intake, persists the timeline and uploads the export when possible
func (a *app) shutdown() {
	a.logger.Info("Shutting down")
	a.monitor.Stop()
	a.dispatcher.Close()

	a.stopWorker()
	a.notify.Close()
	a.background.Wait()

	if err := a.backend.Close(); err != nil {
		a.logger.Error("Failed to close storage backend", "error", err)
	}
	a.upload()

	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.logger.Warn("Failed to close InfluxDB", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.otel.Shutdown(ctx); err != nil {
		a.logger.Warn("Failed to shut down OTel", "error", err)
	}
}

func (a *app) upload() {
	up, ok := a.backend.(storage.Uploadable)
	if !ok || up.GetExportedFilePath() == "" {
		return
	}
	path := up.GetExportedFilePath()
	if viper.GetString("api.apiKey") == "" {
		a.logger.Info("Timeline exported, upload skipped without api.apiKey", "path", path)
		return
	}
	if err := a.api.Upload(path, up.GetExportMetadata()); err != nil {
		a.logger.Error("Failed to upload timeline", "path", path, "error", err)
		return
	}
	a.logger.Info("Timeline uploaded", "path", path)
}
