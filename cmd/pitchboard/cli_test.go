package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/internal/logging"
	intOtel "github.com/pitchlogic/tactical-board/internal/otel"
	"github.com/pitchlogic/tactical-board/internal/session"
	"github.com/pitchlogic/tactical-board/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line    string
		name    string
		args    []string
		wantErr bool
	}{
		{line: "", name: ""},
		{line: "   ", name: ""},
		{line: ":STATE:", name: ":STATE:"},
		{line: ":POINTER:DOWN: 1 600 75 player r7", name: ":POINTER:DOWN:", args: []string{"1", "600", "75", "player", "r7"}},
		{line: "  :RECT:\t0  0 1000 500 ", name: ":RECT:", args: []string{"0", "0", "1000", "500"}},
		{line: `:FORMATION: red "4-4-2 (Flat)"`, name: ":FORMATION:", args: []string{"red", "4-4-2 (Flat)"}},
		{line: `:TAG: "前插跑动" action`, name: ":TAG:", args: []string{"前插跑动", "action"}},
		{line: `:NODE:COMMIT: 12.5 ""`, name: ":NODE:COMMIT:", args: []string{"12.5", ""}},
		{line: `:NODE:COMMIT: 3 "say ""press"""`, name: ":NODE:COMMIT:", args: []string{"3", `say "press"`}},
		{line: `:TAG: "unterminated`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, args, err := splitCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestResponseWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newResponseWriter(&buf)

	require.NoError(t, w.response(":UNDO:", map[string]bool{"undone": false}, nil))
	require.NoError(t, w.response(":TAG:", nil, assert.AnError))
	require.NoError(t, w.notification(session.Notification{Type: session.NotifyLog, Data: "> SYSTEM <b>"}))

	assert.Equal(t,
		`{"command":":UNDO:","result":{"undone":false}}`+"\n"+
			`{"command":":TAG:","error":"`+assert.AnError.Error()+`"}`+"\n"+
			`{"notify":"log","data":"> SYSTEM <b>"}`+"\n",
		buf.String())
}

// syncBuffer guards the output shared by the serve loop and the notification drain
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{}
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, script string) (*app, *syncBuffer, string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	_ = config.Load(dir) // no config file, defaults only

	offline := httptest.NewServer(http.NotFoundHandler())
	offline.Close()

	viper.Set("logsDir", dir)
	viper.Set("storage.type", "memory")
	viper.Set("storage.memory.outputDir", filepath.Join(dir, "timelines"))
	viper.Set("storage.memory.compressOutput", false)
	viper.Set("api.serverUrl", offline.URL)

	provider, err := intOtel.New(context.Background(), intOtel.Config{})
	require.NoError(t, err)

	out := newSyncBuffer()
	a := &app{
		sessionName: "Derby",
		tag:         "Tactics",
		startedAt:   time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC),
		logPath:     filepath.Join(dir, "pitchboard.log"),
		slog:        logging.NewSlogManager(),
		otel:        provider,
		dbLog:       zerolog.Nop(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		in:          strings.NewReader(script),
		out:         out,
	}
	return a, out, dir
}

type outputLine struct {
	Command string          `json:"command"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
	Notify  string          `json:"notify"`
}

func parseOutput(t *testing.T, s string) (responses map[string][]outputLine, notifications []string) {
	t.Helper()
	responses = map[string][]outputLine{}
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		var l outputLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		if l.Notify != "" {
			notifications = append(notifications, l.Notify)
			continue
		}
		responses[l.Command] = append(responses[l.Command], l)
	}
	return responses, notifications
}

func TestApp_Session(t *testing.T) {
	script := strings.Join([]string{
		"# drag r7 ten board units to the right",
		":RECT: 0 0 1000 500",
		":POINTER:DOWN: 1 600 75 player r7",
		":POINTER:MOVE: 1 700 75",
		":POINTER:UP: 1 700 75",
		`:NODE:COMMIT: 12.5 ""`,
		":STORAGE:FLUSH:",
		":NOPE:",
		":VERSION:",
		":QUIT:",
		":STATE:",
	}, "\n")

	a, out, dir := newTestApp(t, script)
	require.NoError(t, a.start(context.Background()))
	require.NoError(t, a.serve(context.Background()))
	a.shutdown()

	responses, notifications := parseOutput(t, out.String())

	require.Len(t, responses[":NODE:COMMIT:"], 1)
	assert.Empty(t, responses[":NODE:COMMIT:"][0].Error)
	assert.Contains(t, string(responses[":NODE:COMMIT:"][0].Result), "LOGIC_NODE_1")

	require.Len(t, responses[":STORAGE:FLUSH:"], 1)
	assert.Empty(t, responses[":STORAGE:FLUSH:"][0].Error)

	require.Len(t, responses[":NOPE:"], 1)
	assert.Contains(t, responses[":NOPE:"][0].Error, "unknown command")

	assert.JSONEq(t, `["`+Version+`","`+BuildDate+`"]`, string(responses[":VERSION:"][0].Result))
	assert.Len(t, responses[":QUIT:"], 1)
	assert.Empty(t, responses[":STATE:"], "commands after :QUIT: are not read")

	assert.Contains(t, notifications, string(session.NotifyPlayerMoved))
	assert.Contains(t, notifications, string(session.NotifyNodeCommitted))

	// the memory backend exported the committed node on shutdown
	files, err := filepath.Glob(filepath.Join(dir, "timelines", "Derby_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	export, err := memory.ReadExport(files[0])
	require.NoError(t, err)
	require.Len(t, export.Nodes, 1)
	assert.Equal(t, "LOGIC_NODE_1", export.Nodes[0].Label)
}

func TestApp_ResumesTimeline(t *testing.T) {
	a, _, dir := newTestApp(t, "")

	earlier := memory.New(config.MemoryConfig{OutputDir: dir}, a.meta())
	require.NoError(t, earlier.Init())
	first := session.New(session.Options{Logger: a.logger})
	node := first.Commit(4, "kick off")
	require.NoError(t, earlier.SaveNode(&node))

	a.backend = earlier
	a.session = session.New(session.Options{Logger: a.logger})
	a.resumeTimeline()

	nodes := a.session.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "kick off", nodes[0].Label)
	assert.Contains(t, a.session.Feed()[0].Message, "TIMELINE RESTORED: 1 NODES")

	// the label counter continues after the resumed nodes
	assert.Equal(t, "LOGIC_NODE_2", a.session.Commit(8, "").Label)
}

func TestApp_OpenBackendFallsBackToMemory(t *testing.T) {
	a, _, dir := newTestApp(t, "")
	var logs bytes.Buffer
	a.logger = slog.New(slog.NewTextHandler(&logs, nil))

	backend := a.openBackend(config.StorageConfig{
		Type:   "floppy",
		Memory: config.MemoryConfig{OutputDir: dir},
	})

	require.IsType(t, &memory.Backend{}, backend)
	assert.Contains(t, logs.String(), "using memory")
	assert.Contains(t, logs.String(), "unknown storage type: floppy")
	assert.NotContains(t, logs.String(), "Failed to initialize memory fallback")
	require.NoError(t, backend.Close())
}
