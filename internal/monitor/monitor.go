package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pitchlogic/tactical-board/internal/influx"
	"github.com/pitchlogic/tactical-board/internal/session"
	"github.com/pitchlogic/tactical-board/internal/worker"
)

// StatsSource provides board counters; implemented by *session.Session
type StatsSource interface {
	Stats() session.Stats
}

// PipelineSource provides persistence counters; implemented by *worker.Manager
type PipelineSource interface {
	Stats() worker.Stats
}

// PointWriter receives samples; implemented by *influx.Manager
type PointWriter interface {
	WritePoint(bucket string, point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Session     StatsSource
	Pipeline    PipelineSource // optional
	Influx      PointWriter    // optional
	Logger      *slog.Logger
	SessionName string
	StatusFile  string // rewritten on every sample when set
	Interval    time.Duration
	Now         func() time.Time
}

// Service periodically samples the board
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample reads the current counters
func (s *Service) Sample() influx.BoardSample {
	st := s.deps.Session.Stats()
	sample := influx.BoardSample{
		Session:      s.deps.SessionName,
		Mode:         string(st.Mode),
		Players:      st.Players,
		Tags:         st.Tags,
		Lines:        st.Lines,
		FreeLines:    st.FreeLines,
		Zones:        st.Zones,
		Nodes:        st.Nodes,
		OffsideLeft:  st.Offside.Left,
		OffsideRight: st.Offside.Right,
	}
	if s.deps.Pipeline != nil {
		ps := s.deps.Pipeline.Stats()
		sample.PendingNodes = ps.Pending
		sample.SavedNodes = ps.Saved
		sample.FailedSaves = ps.Failed
		sample.LastWrite = ps.LastWrite
	}
	return sample
}

// Tick takes one sample and publishes it
func (s *Service) Tick() error {
	sample := s.Sample()

	var errs []error
	if s.deps.StatusFile != "" {
		if err := writeStatus(s.deps.StatusFile, sample); err != nil {
			errs = append(errs, err)
		}
	}
	if s.deps.Influx != nil {
		if err := s.deps.Influx.WritePoint(influx.BucketPerformance, influx.PerformancePoint(sample, s.deps.Now())); err != nil {
			errs = append(errs, fmt.Errorf("writing performance point: %w", err))
		}
	}
	return errors.Join(errs...)
}

func writeStatus(path string, sample influx.BoardSample) error {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)

		logger := s.deps.Logger
		logger.Debug("Starting status monitor", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.Tick(); err != nil {
					logger.Warn("status sample failed", "error", err)
				}
			}
		}
	}()
}

// Stop stops the status monitor and waits for the goroutine to exit
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
