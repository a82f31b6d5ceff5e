// Command pitchboard hosts a tactical board session behind a line-oriented
// command protocol on stdin/stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/internal/logging"
	intOtel "github.com/pitchlogic/tactical-board/internal/otel"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// BuildDate and Version can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

const appName = "pitchboard"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory containing "+config.FileName)
	sessionName := fs.String("session", "", "session name used for exports (default from config)")
	tag := fs.String("tag", "", "session tag (default from config)")
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	startedAt := time.Now()

	// console logging until the log file is known
	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, viper.GetString("logLevel"), nil)
	logger := slogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config", "dir", *configDir)
	}
	if *sessionName == "" {
		*sessionName = viper.GetString("sessionName")
	}
	if *tag == "" {
		*tag = viper.GetString("defaultTag")
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, appName, startedAt)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelProvider, err := intOtel.New(ctx, intOtel.FromConfig(config.GetOTelConfig(), Version, logFile))
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		otelProvider, _ = intOtel.New(ctx, intOtel.Config{})
	}
	var otelLogProvider *sdklog.LoggerProvider
	if otelProvider.Enabled() {
		otelLogProvider = otelProvider.LoggerProvider()
	}

	if gl := config.GetGraylogConfig(); gl.Enabled {
		if err := slogManager.AttachGraylog(gl.Address); err != nil {
			logger.Warn("Failed to attach Graylog", "error", err)
		}
	}

	a := &app{
		sessionName: *sessionName,
		tag:         *tag,
		startedAt:   startedAt,
		logPath:     logPath,
		slog:        slogManager,
		otel:        otelProvider,
		dbLog:       zerolog.New(logFile).With().Timestamp().Str("component", "db").Logger(),
		in:          os.Stdin,
		out:         os.Stdout,
	}

	slogManager.BoardContext = a.boardContext
	slogManager.Setup(logFile, viper.GetString("logLevel"), otelLogProvider)
	a.logger = slogManager.Logger()
	a.logger.Info("Starting up", "version", Version, "build", BuildDate, "session", a.sessionName, "log", filepath.Clean(logPath))

	if err := a.start(ctx); err != nil {
		return err
	}
	runErr := a.serve(ctx)
	a.shutdown()
	return runErr
}

// boardContext must not touch the session: records are emitted while its lock is held
func (a *app) boardContext() []slog.Attr {
	if attrs := a.boardAttrs.Load(); attrs != nil {
		return *attrs
	}
	return nil
}

func (a *app) refreshBoardContext() {
	st := a.session.Stats()
	attrs := logging.BoardAttrs(string(st.Mode), st.Players, st.Lines, st.Zones)
	a.boardAttrs.Store(&attrs)
}
