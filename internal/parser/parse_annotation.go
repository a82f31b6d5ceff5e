package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// ParseTag parses [tag] or [tag, category]
func (p *Parser) ParseTag(data []string) (TagInput, error) {
	var in TagInput
	if err := argCount("tag", data, 1, 2); err != nil {
		return in, err
	}
	data = clean(data)

	in.Tag = strings.TrimSpace(data[0])
	if in.Tag == "" {
		return in, errors.New("empty tag")
	}

	if len(data) == 2 && data[1] != "" {
		in.Category = annotation.Category(data[1])
		if !in.Category.Valid() {
			return in, fmt.Errorf("unknown tag category %q", data[1])
		}
	}
	return in, nil
}

// ParseLine parses [points, color, dashed?] where points is "[[x1,y1],[x2,y2],...]" in
// board coordinates. The returned line has no id yet.
func (p *Parser) ParseLine(data []string) (core.TacticalLine, error) {
	var line core.TacticalLine
	if err := argCount("line", data, 2, 3); err != nil {
		return line, err
	}
	data = clean(data)

	points, err := geo.ParsePolyline(data[0])
	if err != nil {
		return line, fmt.Errorf("error parsing line points: %w", err)
	}
	line.Points = points

	if data[1] == "" {
		return line, errors.New("empty color")
	}
	line.Color = data[1]

	if len(data) == 3 {
		if line.Dashed, err = parseBool("dashed", data[2]); err != nil {
			return line, err
		}
	}
	return line, nil
}

// ParseCommit parses [] , [timestamp] or [timestamp, label]
func (p *Parser) ParseCommit(data []string) (CommitInput, error) {
	var in CommitInput
	if err := argCount("commit", data, 0, 2); err != nil {
		return in, err
	}
	if len(data) == 0 {
		return in, nil
	}
	data = clean(data)

	if data[0] != "" {
		ts, err := parseFloat("timestamp", data[0])
		if err != nil {
			return in, err
		}
		if ts < 0 {
			return in, fmt.Errorf("negative timestamp %g", ts)
		}
		in.Timestamp = ts
	}
	if len(data) == 2 {
		in.Label = data[1]
	}
	return in, nil
}
