package memory

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		suffix   string
	}{
		{"plain", false, ".json"},
		{"gzip", true, ".json.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: tt.compress},
				core.UploadMetadata{SessionName: "Derby: 2nd half", Tag: "match"})
			b.now = func() time.Time { return time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC) }

			n := node("a", 754.5)
			n.LineState = []core.TacticalLine{
				{ID: "l1", Points: core.Polyline{{X: 60, Y: 15}, {X: 75, Y: 15}}, Color: "#ef4444"},
			}
			require.NoError(t, b.SaveNode(n))
			require.NoError(t, b.SaveNode(node("b", 120)))
			require.NoError(t, b.Close())

			path := b.GetExportedFilePath()
			assert.Equal(t, filepath.Join(dir, "Derby__2nd_half_20260501_210000"+tt.suffix), path)
			assert.True(t, strings.HasSuffix(path, tt.suffix))

			meta := b.GetExportMetadata()
			assert.Equal(t, core.UploadMetadata{SessionName: "Derby: 2nd half", NodeCount: 2, Duration: 754.5, Tag: "match"}, meta)

			export, err := ReadExport(path)
			require.NoError(t, err)
			assert.Equal(t, 1, export.Version)
			require.Len(t, export.Nodes, 2)
			assert.Equal(t, "a", export.Nodes[0].ID)
			require.Len(t, export.Nodes[0].Lines, 1)
			assert.Equal(t, "M 60 15 L 75 15", export.Nodes[0].Lines[0].Path)
			assert.Equal(t, "r7", export.Nodes[1].Players[0].ID)
		})
	}
}

func TestReadExport_Missing(t *testing.T) {
	_, err := ReadExport(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
