// Package parser converts host command arguments into typed board input.
// It performs no state changes; handlers feed the parsed values to the session.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pitchlogic/tactical-board/internal/util"
)

// ErrArgCount is returned when a command carries too few or too many arguments
var ErrArgCount = errors.New("wrong number of arguments")

// parseIntFromFloat parses a string that may be an integer ("3") or float ("3.00") into int64.
// Browser hosts serialise every number as a JS double.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", name, err)
	}
	return v, nil
}

func parseBool(name, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("error parsing %s: %w", name, err)
	}
	return v, nil
}

// argCount validates len(data) is within [lo, hi]
func argCount(command string, data []string, lo, hi int) error {
	if len(data) < lo || len(data) > hi {
		if lo == hi {
			return fmt.Errorf("%w: %s expects %d, got %d", ErrArgCount, command, lo, len(data))
		}
		return fmt.Errorf("%w: %s expects %d to %d, got %d", ErrArgCount, command, lo, hi, len(data))
	}
	return nil
}

// Parser provides pure []string -> typed value conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

func clean(data []string) []string {
	return util.CleanArgs(append([]string(nil), data...))
}
