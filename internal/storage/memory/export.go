package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/pitchlogic/tactical-board/internal/storage/memory/export/v1"
)

var fileNameReplacer = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

// exportJSON writes the timeline to a (optionally gzipped) JSON file; callers hold the lock
func (b *Backend) exportJSON() error {
	now := b.now()
	export := v1.Build(&v1.TimelineData{
		Meta:       b.meta,
		Nodes:      b.list(),
		ExportedAt: now,
	})

	name := fileNameReplacer.Replace(b.meta.SessionName)
	if name == "" {
		name = "timeline"
	}
	filename := fmt.Sprintf("%s_%s.json", name, now.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	b.lastExportMeta = v1.Metadata(export)
	return nil
}

func writeExport(path string, data v1.Export, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if compress {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode timeline: %w", err)
	}
	return nil
}

// ReadExport loads an export written by this backend, gzipped or not
func ReadExport(path string) (v1.Export, error) {
	var export v1.Export

	f, err := os.Open(path)
	if err != nil {
		return export, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return export, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return export, fmt.Errorf("failed to decode timeline: %w", err)
	}
	return export, nil
}
