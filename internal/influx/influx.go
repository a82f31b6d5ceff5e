package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/internal/util"
	"github.com/rs/zerolog"
)

const (
	// BucketActivity receives gesture, annotation and timeline points
	BucketActivity = "board_activity"
	// BucketPerformance receives periodic board and storage samples
	BucketPerformance = "board_performance"
)

// DefaultBucketNames are the buckets created on connect.
var DefaultBucketNames = []string{BucketActivity, BucketPerformance}

// ErrDisabled is returned by Connect when influx.enabled is false
var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes. When the server cannot be
// reached, points are written as gzip line protocol to a backup file instead.
type Manager struct {
	cfg         config.InfluxConfig
	Client      influxdb2.Client
	Writers     map[string]influxdb2_api.WriteAPI
	BucketNames []string
	Logger      zerolog.Logger

	mu           sync.Mutex
	valid        bool
	backupFile   *os.File
	backupWriter *gzip.Writer
	backupPath   string
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
	}
}

// BackupPath returns the name of the backup file for a session starting at t
func BackupPath(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("influx_backup_%s.lp.gz", t.Format("20060102_150405")))
}

// URL returns the server address assembled from protocol, host and port
func (m *Manager) URL() string {
	return fmt.Sprintf("%s://%s:%s", m.cfg.Protocol, m.cfg.Host, m.cfg.Port)
}

// Connect establishes a connection to InfluxDB, falling back to the backup
// file when the server does not answer a ping.
func (m *Manager) Connect(ctx context.Context, now time.Time) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Logger.Warn().Err(err).Str("url", m.URL()).Msg("InfluxDB unreachable, writing to backup file")
		return m.openBackup(BackupPath(m.cfg.BackupDir, now))
	}

	if err := m.setupOrganizationAndBuckets(ctx); err != nil {
		return err
	}
	m.createWriters()

	m.mu.Lock()
	m.valid = true
	m.mu.Unlock()
	m.Logger.Info().Str("url", m.URL()).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backupWriter != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating backup dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.backupWriter = gzip.NewWriter(file)
	m.backupPath = path
	return nil
}

func (m *Manager) setupOrganizationAndBuckets(ctx context.Context) error {
	orgName := m.cfg.Org

	org, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		org, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return fmt.Errorf("creating organization %s: %w", orgName, err)
		}
	}

	// 90 day retention
	for _, bucket := range m.BucketNames {
		if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90,
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
			return fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
	}

	return nil
}

func (m *Manager) createWriters() {
	for _, bucket := range m.BucketNames {
		w := m.Client.WriteAPI(m.cfg.Org, bucket)
		m.Writers[bucket] = w

		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, w.Errors())
	}
	m.Logger.Debug().Int("buckets", len(m.BucketNames)).Msg("InfluxDB writers initialized")
}

// IsValid reports whether points go to a live server
func (m *Manager) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valid
}

// BackupFile returns the backup file path, empty when writing to a server
func (m *Manager) BackupFile() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backupPath
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(bucket string, point *influxdb2_write.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	if m.backupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.backupWriter.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and releases the client or backup file
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	m.valid = false

	if m.backupWriter == nil {
		return nil
	}
	err := errors.Join(m.backupWriter.Close(), m.backupFile.Close())
	m.backupWriter = nil
	m.backupFile = nil
	if err != nil {
		return fmt.Errorf("closing backup file: %w", err)
	}
	return nil
}

// ParseMetric turns a host-supplied metric command into a bucket and point.
//
//	0 = bucket name
//	1 = measurement name
//	tag::<name>::<value>
//	field::<string|int|float|bool>::<name>::<value>
func ParseMetric(data []string, at time.Time) (string, *influxdb2_write.Point, error) {
	data = util.CleanArgs(append([]string(nil), data...))
	if len(data) < 3 {
		return "", nil, fmt.Errorf("metric needs bucket, measurement and at least one field, got %d args", len(data))
	}

	bucket := data[0]
	point := influxdb2_write.NewPointWithMeasurement(data[1]).SetTime(at)

	fields := 0
	for _, arg := range data[2:] {
		parts := strings.Split(arg, "::")
		switch {
		case parts[0] == "tag" && len(parts) >= 3:
			point.AddTag(parts[1], parts[2])
		case parts[0] == "field" && len(parts) >= 4:
			if err := addField(point, parts[1], parts[2], parts[3]); err != nil {
				return "", nil, err
			}
			fields++
		default:
			return "", nil, fmt.Errorf("malformed metric argument %q", arg)
		}
	}
	if fields == 0 {
		return "", nil, fmt.Errorf("metric %s has no fields", data[1])
	}
	return bucket, point, nil
}

func addField(point *influxdb2_write.Point, kind, name, value string) error {
	switch kind {
	case "string":
		point.AddField(name, value)
	case "int":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting field value '%s' to int: %w", value, err)
		}
		point.AddField(name, v)
	case "float":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("error converting field value '%s' to float: %w", value, err)
		}
		point.AddField(name, v)
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("error converting field value '%s' to bool: %w", value, err)
		}
		point.AddField(name, v)
	default:
		return fmt.Errorf("unknown field type %q", kind)
	}
	return nil
}
