// Package session holds the live board together with everything the host UI configures
// around it: tool mode, pen style, board rectangle, selection, offside toggles, the
// activity feed and the logic node timeline.
//
// A Session is safe for concurrent use. Every operation runs under one lock, including the
// interaction controller, so a gesture always sees the board it mutates.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/board"
	"github.com/pitchlogic/tactical-board/internal/channel"
	"github.com/pitchlogic/tactical-board/internal/formation"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/internal/offside"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

var (
	ErrNoSelection   = errors.New("no player selected")
	ErrUnknownNode   = errors.New("unknown logic node")
	ErrUnknownPlayer = errors.New("unknown player")
)

// DefaultFeedSize bounds the activity feed
const DefaultFeedSize = 50

// NodeSink receives committed logic nodes for persistence
type NodeSink interface {
	Enqueue(node core.LogicNode)
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Interaction interaction.Config
	Style       core.DrawingStyle
	FeedSize    int
	// HitTolerancePx widens line hit testing in erase mode; zero keeps the default
	HitTolerancePx float64

	Logger *slog.Logger
	Notify channel.Sender[Notification] // host callback stream, may be nil
	Sink   NodeSink                     // may be nil

	Now   func() time.Time
	NewID func() string
}

// Session is the live tactical board of one analyst
type Session struct {
	mu sync.Mutex

	board    board.Board
	mode     core.ToolMode
	style    core.DrawingStyle
	rect     core.Rect
	selected string
	offside  offside.Visibility

	feed     []FeedEntry
	feedSize int
	hitTol   float64

	nodes   []core.LogicNode
	nodeSeq int

	ctrl   *interaction.Controller
	logger *slog.Logger
	notify channel.Sender[Notification]
	sink   NodeSink
	now    func() time.Time
	newID  func() string
}

// New creates a session holding the initial roster in move mode
func New(opts Options) *Session {
	s := &Session{
		board:    board.Initial(),
		mode:     core.ModeMove,
		style:    opts.Style,
		feedSize: opts.FeedSize,
		hitTol:   opts.HitTolerancePx,
		offside:  offside.All(true),
		logger:   opts.Logger,
		notify:   opts.Notify,
		sink:     opts.Sink,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.style.Color == "" {
		s.style.Color = "#facc15"
	}
	if s.feedSize <= 0 {
		s.feedSize = DefaultFeedSize
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	cfg := opts.Interaction
	if cfg.NewID == nil {
		cfg.NewID = s.newID
	}
	s.ctrl = interaction.New(liveHost{s}, s.callbacks(), cfg)

	s.addLog("SYSTEM INITIALIZED")
	return s
}

// Board returns the current board. The value is immutable and safe to keep.
func (s *Session) Board() board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Mode returns the active tool
func (s *Session) Mode() core.ToolMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the active tool. A gesture in progress is dropped.
func (s *Session) SetMode(mode core.ToolMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown tool mode %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == mode {
		return nil
	}
	s.ctrl.Cancel()
	s.mode = mode
	s.addLog("TOOL MODE: " + strings.ToUpper(string(mode)))
	return nil
}

// Style returns the pen used for new free-hand lines
func (s *Session) Style() core.DrawingStyle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// SetStyle changes the pen
func (s *Session) SetStyle(style core.DrawingStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style
}

// Rect returns the last reported on-screen board rectangle
func (s *Session) Rect() core.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rect
}

// SetRect records the on-screen board rectangle. Coordinates are always mapped through the
// latest rectangle, so hosts report it on every resize.
func (s *Session) SetRect(rect core.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rect = rect
}

// PointerDown feeds a pointer press to the controller. A target with an empty kind is
// resolved by hit testing the current board.
func (s *Session) PointerDown(ev interaction.PointerEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Target.Kind == "" {
		ev.Target = s.hitTest(ev.X, ev.Y)
	}
	return s.ctrl.PointerDown(ev)
}

// PointerMove feeds a pointer move to the controller
func (s *Session) PointerMove(ev interaction.PointerEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerMove(ev)
}

// PointerUp feeds a pointer release to the controller
func (s *Session) PointerUp(ev interaction.PointerEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerUp(ev)
}

// PointerLeave aborts the gesture owned by the pointer
func (s *Session) PointerLeave(ev interaction.PointerEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerLeave(ev)
}

// Key feeds a key press to the controller
func (s *Session) Key(ev interaction.KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Key(ev)
}

// Gesture reports the controller phase and the stroke being drawn, if any
func (s *Session) Gesture() (interaction.Phase, core.Polyline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Phase(), s.ctrl.Preview()
}

// HitTest resolves what lies under a viewport position
func (s *Session) HitTest(x, y float64) core.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hitTest(x, y)
}

func (s *Session) hitTest(x, y float64) core.Target {
	scene := geo.Scene{
		Players:    s.board.Players,
		Lines:      s.board.Lines,
		Ball:       s.board.Ball,
		SelectedID: s.selected,

		LineTolerancePx: s.hitTol,
	}
	return geo.HitTest(scene, x, y, s.rect, s.mode)
}

// Select opens tag selection for a player. An empty id clears the selection.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selected = ""
		return nil
	}
	p, ok := s.board.Player(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	s.selectPlayer(p)
	return nil
}

// Selected returns the player awaiting a tag
func (s *Session) Selected() (core.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return core.Player{}, false
	}
	return s.board.Player(s.selected)
}

func (s *Session) selectPlayer(p core.Player) {
	s.selected = p.ID
	s.addLog(fmt.Sprintf("ENTITY SELECTED: %s #%d", strings.ToUpper(string(p.Team)), p.Number))
	s.emit(NotifyPlayerSelected, p)
}

// SelectTag attaches tag to the selected player, generating its annotation, and closes the
// selection. The category is informational. A tag the player already carries changes
// nothing and returns an empty Result.
func (s *Session) SelectTag(tag string, category annotation.Category) (annotation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return annotation.Result{}, ErrNoSelection
	}
	p, ok := s.board.Player(s.selected)
	if !ok {
		id := s.selected
		s.selected = ""
		return annotation.Result{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	tag = strings.TrimSpace(tag)
	s.selected = ""
	if p.HasTag(tag) {
		// board unchanged, nothing new to draw
		s.logger.Debug("Tag already attached", "player", p.ID, "tag", tag)
		s.addLog(fmt.Sprintf("TAG ALREADY ATTACHED: %s -> %s", tag, p.ID))
		return annotation.Result{}, nil
	}
	res := annotation.ApplyTag(p, tag)
	s.apply(board.AddTag{PlayerID: p.ID, Tag: tag})

	s.logger.Debug("Tag applied",
		"player", p.ID,
		"tag", tag,
		"category", string(category),
		"line", res.Line != nil,
		"zone", res.Zone != nil)
	s.addLog(fmt.Sprintf("TAG ATTACHED: %s -> %s", tag, p.ID))
	return res, nil
}

// ResetTags clears a player's tags together with the annotations they generated
func (s *Session) ResetTags(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.board.Player(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	s.apply(board.ResetTags{PlayerID: id})
	s.addLog("TAGS CLEARED: " + id)
	return nil
}

// ApplyFormation moves a team's outfield players onto a preset. It reports false for an
// unknown preset, leaving the board unchanged.
func (s *Session) ApplyFormation(team core.Team, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := formation.Lookup(name); !ok {
		s.logger.Debug("Unknown formation preset", "team", team, "name", name)
		return false
	}
	s.apply(board.ApplyFormation{Team: team, Name: name})
	s.addLog(fmt.Sprintf("FORMATION APPLIED: %s %s", strings.ToUpper(string(team)), name))
	return true
}

// CreateLine adds a free line supplied by the host. An empty id gets a fresh one.
func (s *Session) CreateLine(line core.TacticalLine) (core.TacticalLine, error) {
	if len(line.Points) < 2 {
		return line, fmt.Errorf("line needs at least 2 points, got %d", len(line.Points))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.ID == "" {
		line.ID = s.newID()
	}
	line.OwnerID = ""
	s.apply(board.CreateLine{Line: line})
	created, _ := s.board.Line(line.ID)
	s.emit(NotifyLineCreated, created)
	return created, nil
}

// RemoveLine deletes a line by id. It reports whether the line existed.
func (s *Session) RemoveLine(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.board.Line(id); !ok {
		return false
	}
	s.apply(board.RemoveLine{ID: id})
	s.emit(NotifyLineRemoved, id)
	return true
}

// MovePlayer repositions a player directly, with the same cascade as a drag
func (s *Session) MovePlayer(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.board.Player(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	s.playerMoved(id, x, y)
	return nil
}

// MoveBall repositions the ball directly
func (s *Session) MoveBall(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ballMoved(x, y)
}

// Undo removes the most recent free line. It reports whether a line was removed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo()
}

// Clear wipes every line and zone. Tags stay on the players.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(board.ClearAnnotations{})
	s.addLog("CANVAS WIPED")
}

// Reset restores the initial roster, removes every annotation and re-centres the ball.
// The timeline and feed are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Cancel()
	s.apply(board.Reset{})
	s.selected = ""
	s.addLog("BOARD RESET")
}

// apply runs the reducer on the live board; callers hold the lock
func (s *Session) apply(e board.Event) {
	s.board = board.Reduce(s.board, e)
}

func (s *Session) emit(kind NotificationType, data any) {
	if s.notify == nil {
		return
	}
	if !s.notify.TrySend(Notification{Type: kind, Data: data}) {
		s.logger.Warn("Notification dropped, host is not reading", "type", kind)
	}
}
