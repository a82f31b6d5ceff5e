package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory
const FileName = "pitchboard.cfg.json"

// BoardConfig holds gesture and feed tuning
type BoardConfig struct {
	DragThresholdPx float64
	MinStrokePoints int
	HitTolerancePx  float64
	FeedSize        int
	DrawColor       string
	DrawDashed      bool
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the in-memory SQLite backend
type SQLiteConfig struct {
	DumpInterval time.Duration
	DumpDir      string
}

// WebSocketConfig holds settings for the streaming backend
type WebSocketConfig struct {
	Path string // appended to api.serverUrl
}

// StorageConfig selects and configures the timeline storage backend
type StorageConfig struct {
	Type      string
	Memory    MemoryConfig
	SQLite    SQLiteConfig
	WebSocket WebSocketConfig
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds InfluxDB settings for activity metrics
type InfluxConfig struct {
	Enabled   bool
	Host      string
	Port      string
	Protocol  string
	Token     string
	Org       string
	BackupDir string
}

// GeoConfig anchors the board to a real-world pitch
type GeoConfig struct {
	Longitude    float64
	Latitude     float64
	LengthMeters float64
	WidthMeters  float64
}

// GraylogConfig holds GELF output settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./pitchlogs")
	viper.SetDefault("sessionName", "Session")
	viper.SetDefault("defaultTag", "Tactics")

	viper.SetDefault("board.dragThresholdPx", 5.0)
	viper.SetDefault("board.minStrokePoints", 3)
	viper.SetDefault("board.hitTolerancePx", 2.5)
	viper.SetDefault("board.feedSize", 50)
	viper.SetDefault("drawing.color", "#facc15")
	viper.SetDefault("drawing.dashed", false)

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "pitchboard")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "pitchboard")
	viper.SetDefault("influx.backupDir", "./pitchlogs")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./timelines")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpDir", "./timelines")
	viper.SetDefault("storage.websocket.path", "/api/board")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "pitchboard")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("pitch.longitude", 0.0)
	viper.SetDefault("pitch.latitude", 0.0)
	viper.SetDefault("pitch.lengthMeters", 105.0)
	viper.SetDefault("pitch.widthMeters", 68.0)
}

// BindFlags registers command line overrides and binds them into viper
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("storage", "", "storage backend (memory, sqlite, postgres, database, websocket)")
	fs.String("server-url", "", "web frontend base URL")

	binds := map[string]string{
		"logLevel":      "log-level",
		"storage.type":  "storage",
		"api.serverUrl": "server-url",
	}
	for key, flag := range binds {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetBoardConfig returns the gesture and feed settings
func GetBoardConfig() BoardConfig {
	return BoardConfig{
		DragThresholdPx: viper.GetFloat64("board.dragThresholdPx"),
		MinStrokePoints: viper.GetInt("board.minStrokePoints"),
		HitTolerancePx:  viper.GetFloat64("board.hitTolerancePx"),
		FeedSize:        viper.GetInt("board.feedSize"),
		DrawColor:       viper.GetString("drawing.color"),
		DrawDashed:      viper.GetBool("drawing.dashed"),
	}
}

// GetStorageConfig returns the storage backend settings
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpDir:      viper.GetString("storage.sqlite.dumpDir"),
		},
		WebSocket: WebSocketConfig{
			Path: viper.GetString("storage.websocket.path"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		Host:      viper.GetString("influx.host"),
		Port:      viper.GetString("influx.port"),
		Protocol:  viper.GetString("influx.protocol"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		BackupDir: viper.GetString("influx.backupDir"),
	}
}

// GetGeoConfig returns the pitch geo anchor
func GetGeoConfig() GeoConfig {
	return GeoConfig{
		Longitude:    viper.GetFloat64("pitch.longitude"),
		Latitude:     viper.GetFloat64("pitch.latitude"),
		LengthMeters: viper.GetFloat64("pitch.lengthMeters"),
		WidthMeters:  viper.GetFloat64("pitch.widthMeters"),
	}
}

// GetGraylogConfig returns the GELF output settings
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
