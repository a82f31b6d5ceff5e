package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 7, 9, 5, 1, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{"relative", "pitchlogs", filepath.Join("pitchlogs", "pitchboard.20260307_090501.log")},
		{"dot prefix", "./pitchlogs", filepath.Join("pitchlogs", "pitchboard.20260307_090501.log")},
		{"absolute", filepath.Join("/var", "log", "pitch"), filepath.Join("/var", "log", "pitch", "pitchboard.20260307_090501.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "pitchboard", start))
		})
	}
}

func TestBoardAttrs(t *testing.T) {
	attrs := BoardAttrs("erase", 22, 0, 2)
	assert.Len(t, attrs, 4)
	assert.Equal(t, "erase", attrs[0].Value.String())
	assert.Equal(t, int64(2), attrs[3].Value.Int64())
}
