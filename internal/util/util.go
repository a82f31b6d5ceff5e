// Package util provides small string helpers shared by the command layer.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArgs unquotes every argument of a host command in place and returns the slice.
func CleanArgs(args []string) []string {
	for i, v := range args {
		args[i] = FixEscapeQuotes(TrimQuotes(strings.TrimSpace(v)))
	}
	return args
}

// ShortID returns the first n characters of an id for activity messages.
func ShortID(id string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// SplitModifiers splits a "ctrl+shift" style modifier list into lower-cased names.
// Empty parts are dropped.
func SplitModifiers(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		out = append(out, strings.ToLower(part))
	}
	return out
}
