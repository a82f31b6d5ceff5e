package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pitchlogic/tactical-board/internal/dispatcher"
	"github.com/pitchlogic/tactical-board/internal/session"
)

// ErrUnknownCommand is reported for command names without a handler
var ErrUnknownCommand = errors.New("unknown command")

// response is one JSON line answering a command
type response struct {
	Command string `json:"command"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// notificationLine is one JSON line carrying a host callback
type notificationLine struct {
	Notify session.NotificationType `json:"notify"`
	Data   any                      `json:"data,omitempty"`
}

// responseWriter serialises command responses and notifications onto one stream
type responseWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newResponseWriter(w io.Writer) *responseWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &responseWriter{enc: enc}
}

func (w *responseWriter) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

func (w *responseWriter) response(name string, result any, err error) error {
	r := response{Command: name, Result: result}
	if err != nil {
		r.Error = err.Error()
	}
	return w.write(r)
}

func (w *responseWriter) notification(n session.Notification) error {
	return w.write(notificationLine{Notify: n.Type, Data: n.Data})
}

// splitCommand tokenizes a protocol line. Arguments are separated by whitespace;
// double quotes group an argument and "" inside quotes is a literal quote.
func splitCommand(line string) (string, []string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	runes := []rune(strings.TrimSpace(line))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuote && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			i++
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return "", nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	if len(tokens) == 0 {
		return "", nil, nil
	}
	return tokens[0], tokens[1:], nil
}

// serve reads commands until EOF, a :QUIT: command or ctx is cancelled
func (a *app) serve(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(a.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Interrupted")
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := a.handleLine(line); quit {
				return nil
			}
		}
	}
}

// handleLine dispatches one line and reports whether the host asked to quit
func (a *app) handleLine(line string) bool {
	name, args, err := splitCommand(line)
	if err != nil {
		_ = a.writer.response("", nil, err)
		return false
	}
	if name == "" || strings.HasPrefix(name, "#") {
		return false
	}
	if name == ":QUIT:" {
		_ = a.writer.response(name, "bye", nil)
		return true
	}

	if !a.dispatcher.HasHandler(name) {
		_ = a.writer.response(name, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		return false
	}
	result, err := a.dispatcher.Dispatch(dispatcher.Command{Name: name, Args: args, Timestamp: time.Now()})
	a.refreshBoardContext()
	if werr := a.writer.response(name, result, err); werr != nil {
		a.logger.Warn("Failed to write response", "command", name, "error", werr)
	}
	return false
}
