package session

import (
	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/board"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/offside"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// OffsideState is the derived offside view of the current board
type OffsideState struct {
	Lines      offside.Lines      `json:"lines"`
	Visibility offside.Visibility `json:"visibility"`
	Segments   []offside.Segment  `json:"segments"`
}

// State is everything a host needs to render the board
type State struct {
	Board     board.Board       `json:"board"`
	Mode      core.ToolMode     `json:"mode"`
	Style     core.DrawingStyle `json:"style"`
	Selected  string            `json:"selected,omitempty"`
	Status    map[string]string `json:"status"` // player id -> status colour
	Arrows    map[string]string `json:"arrows"` // line id -> arrowhead class
	Paths     map[string]string `json:"paths"`  // line id -> path descriptor
	Offside   OffsideState      `json:"offside"`
	Preview   string            `json:"preview,omitempty"`
	Gesture   string            `json:"gesture"`
	NodeCount int               `json:"nodeCount"`
}

// Stats summarises the board for telemetry
type Stats struct {
	Players   int
	Tags      int
	Lines     int
	FreeLines int
	Zones     int
	Nodes     int
	Mode      core.ToolMode
	Offside   offside.Lines
}

// State renders the current board. Derived values are recomputed on every call.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Board:     s.board,
		Mode:      s.mode,
		Style:     s.style,
		Selected:  s.selected,
		Status:    make(map[string]string, len(s.board.Players)),
		Arrows:    make(map[string]string, len(s.board.Lines)),
		Paths:     make(map[string]string, len(s.board.Lines)),
		Offside:   s.offsideState(),
		Gesture:   s.ctrl.Phase().String(),
		NodeCount: len(s.nodes),
	}
	for _, p := range s.board.Players {
		st.Status[p.ID] = annotation.StatusColor(p.Tags)
	}
	for _, l := range s.board.Lines {
		st.Arrows[l.ID] = annotation.ArrowClass(l.Color)
		st.Paths[l.ID] = geo.PathString(l.Points)
	}
	if preview := s.ctrl.Preview(); len(preview) > 0 {
		st.Preview = geo.PathString(preview)
	}
	return st
}

// Offside computes the offside lines of the current board
func (s *Session) Offside() OffsideState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsideState()
}

func (s *Session) offsideState() OffsideState {
	lines := offside.Calculate(s.board.Players, s.board.Ball)
	return OffsideState{
		Lines:      lines,
		Visibility: s.offside,
		Segments:   lines.Segments(s.offside),
	}
}

// SetOffside sets the visibility of both offside lines
func (s *Session) SetOffside(v offside.Visibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offside = v
}

// ToggleOffside flips the visibility of the selected lines and returns the new state
func (s *Session) ToggleOffside(left, right bool) offside.Visibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	if left {
		s.offside.Left = !s.offside.Left
	}
	if right {
		s.offside.Right = !s.offside.Right
	}
	return s.offside
}

// Stats samples counters for the monitor
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Players:   len(s.board.Players),
		Lines:     len(s.board.Lines),
		FreeLines: s.board.FreeLines(),
		Zones:     len(s.board.Zones),
		Nodes:     len(s.nodes),
		Mode:      s.mode,
		Offside:   offside.Calculate(s.board.Players, s.board.Ball),
	}
	for _, p := range s.board.Players {
		st.Tags += len(p.Tags)
	}
	return st
}

// ExportGeoJSON renders the current board as a geo-referenced FeatureCollection
func (s *Session) ExportGeoJSON(ref geo.GeoReference) ([]byte, error) {
	s.mu.Lock()
	b := s.board
	s.mu.Unlock()

	scene := geo.Scene{Players: b.Players, Lines: b.Lines, Ball: b.Ball}
	return ref.FeatureCollection(scene, b.Zones)
}
