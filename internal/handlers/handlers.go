// Package handlers binds the host command protocol to a board session.
package handlers

import (
	"fmt"

	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/dispatcher"
	"github.com/pitchlogic/tactical-board/internal/formation"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/logging"
	"github.com/pitchlogic/tactical-board/internal/offside"
	"github.com/pitchlogic/tactical-board/internal/parser"
	"github.com/pitchlogic/tactical-board/internal/session"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Session    *session.Session
	Parser     *parser.Parser
	LogManager *logging.SlogManager
	GeoRef     geo.GeoReference
}

// Service provides handler methods for host commands
type Service struct {
	deps         Dependencies
	writeLogFunc func(functionName, data, level string)
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	s := &Service{deps: deps}
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	return s
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

// PointerResult reports whether the controller claimed a pointer event
type PointerResult struct {
	Claimed bool   `json:"claimed"`
	Phase   string `json:"phase"`
}

// Catalog lists what a host can offer in its pickers
type Catalog struct {
	Tags       []annotation.Section `json:"tags"`
	Formations []string             `json:"formations"`
}

// Register binds every board command. Input and view commands are synchronous; nothing
// here is buffered because each command must see the effects of the previous one.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	// pointer input
	d.Register(":POINTER:DOWN:", s.pointer(s.deps.Session.PointerDown))
	d.Register(":POINTER:MOVE:", s.pointer(s.deps.Session.PointerMove))
	d.Register(":POINTER:UP:", s.pointer(s.deps.Session.PointerUp), dispatcher.Logged())
	d.Register(":POINTER:LEAVE:", s.pointer(s.deps.Session.PointerLeave), dispatcher.Logged())
	d.Register(":KEY:", s.handleKey, dispatcher.Logged())

	// host configuration
	d.Register(":MODE:", s.handleMode, dispatcher.Logged())
	d.Register(":STYLE:", s.handleStyle, dispatcher.Logged())
	d.Register(":RECT:", s.handleRect)

	// annotation
	d.Register(":SELECT:", s.handleSelect, dispatcher.Logged())
	d.Register(":TAG:", s.handleTag, dispatcher.Logged())
	d.Register(":TAGS:RESET:", s.handleResetTags, dispatcher.Logged())
	d.Register(":LINE:CREATE:", s.handleCreateLine, dispatcher.Logged())
	d.Register(":LINE:REMOVE:", s.handleRemoveLine, dispatcher.Logged())
	d.Register(":FORMATION:", s.handleFormation, dispatcher.Logged())
	d.Register(":OFFSIDE:TOGGLE:", s.handleOffside, dispatcher.Logged())
	d.Register(":UNDO:", s.handleUndo, dispatcher.Logged())
	d.Register(":CLEAR:", s.handleClear, dispatcher.Logged())
	d.Register(":RESET:", s.handleReset, dispatcher.Logged())

	// timeline
	d.Register(":NODE:COMMIT:", s.handleCommit, dispatcher.Logged())
	d.Register(":NODE:RESTORE:", s.handleRestore, dispatcher.Logged())
	d.Register(":NODES:", s.handleNodes)

	// views
	d.Register(":STATE:", s.handleState)
	d.Register(":FEED:", s.handleFeed)
	d.Register(":EXPORT:GEOJSON:", s.handleExportGeoJSON, dispatcher.Logged())
	d.Register(":LIBRARY:", s.handleLibrary)
}

func (s *Service) pointer(feed func(ev interactionEvent) bool) dispatcher.HandlerFunc {
	return func(c dispatcher.Command) (any, error) {
		in, err := s.deps.Parser.ParsePointer(c.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pointer: %w", err)
		}
		claimed := feed(in.Event)
		phase, _ := s.deps.Session.Gesture()
		return PointerResult{Claimed: claimed, Phase: phase.String()}, nil
	}
}

func (s *Service) handleKey(c dispatcher.Command) (any, error) {
	ev, err := s.deps.Parser.ParseKey(c.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key: %w", err)
	}
	return map[string]bool{"consumed": s.deps.Session.Key(ev)}, nil
}

func (s *Service) handleMode(c dispatcher.Command) (any, error) {
	mode, err := s.deps.Parser.ParseMode(c.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.SetMode(mode); err != nil {
		return nil, err
	}
	return mode, nil
}

func (s *Service) handleStyle(c dispatcher.Command) (any, error) {
	style, err := s.deps.Parser.ParseStyle(c.Args)
	if err != nil {
		return nil, err
	}
	s.deps.Session.SetStyle(style)
	return style, nil
}

func (s *Service) handleRect(c dispatcher.Command) (any, error) {
	rect, err := s.deps.Parser.ParseRect(c.Args)
	if err != nil {
		return nil, err
	}
	s.deps.Session.SetRect(rect)
	return rect, nil
}

func (s *Service) handleSelect(c dispatcher.Command) (any, error) {
	id, err := s.deps.Parser.ParseOptionalID("player", c.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.Select(id); err != nil {
		return nil, err
	}
	p, _ := s.deps.Session.Selected()
	return p, nil
}

func (s *Service) handleTag(c dispatcher.Command) (any, error) {
	in, err := s.deps.Parser.ParseTag(c.Args)
	if err != nil {
		return nil, err
	}
	res, err := s.deps.Session.SelectTag(in.Tag, in.Category)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		s.writeLog(":TAG:", fmt.Sprintf("tag %q produced no new annotation", in.Tag), "DEBUG")
	}
	return res, nil
}

func (s *Service) handleResetTags(c dispatcher.Command) (any, error) {
	id, err := s.deps.Parser.ParseID("player", c.Args)
	if err != nil {
		return nil, err
	}
	return nil, s.deps.Session.ResetTags(id)
}

func (s *Service) handleCreateLine(c dispatcher.Command) (any, error) {
	line, err := s.deps.Parser.ParseLine(c.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Session.CreateLine(line)
}

func (s *Service) handleRemoveLine(c dispatcher.Command) (any, error) {
	id, err := s.deps.Parser.ParseID("line", c.Args)
	if err != nil {
		return nil, err
	}
	if !s.deps.Session.RemoveLine(id) {
		return nil, fmt.Errorf("unknown line %s", id)
	}
	return id, nil
}

func (s *Service) handleFormation(c dispatcher.Command) (any, error) {
	in, err := s.deps.Parser.ParseFormation(c.Args)
	if err != nil {
		return nil, err
	}
	applied := s.deps.Session.ApplyFormation(in.Team, in.Name)
	if !applied {
		s.writeLog(":FORMATION:", fmt.Sprintf("unknown formation %q, board unchanged", in.Name), "WARN")
	}
	return map[string]bool{"applied": applied}, nil
}

func (s *Service) handleOffside(c dispatcher.Command) (any, error) {
	in, err := s.deps.Parser.ParseOffside(c.Args)
	if err != nil {
		return nil, err
	}
	left := in.Side == parser.OffsideBoth || in.Side == parser.OffsideLeft
	right := in.Side == parser.OffsideBoth || in.Side == parser.OffsideRight

	if in.Show == nil {
		s.deps.Session.ToggleOffside(left, right)
		return s.deps.Session.Offside(), nil
	}

	v := s.deps.Session.Offside().Visibility
	if left {
		v.Left = *in.Show
	}
	if right {
		v.Right = *in.Show
	}
	s.deps.Session.SetOffside(offside.Visibility{Left: v.Left, Right: v.Right})
	return s.deps.Session.Offside(), nil
}

func (s *Service) handleUndo(dispatcher.Command) (any, error) {
	return map[string]bool{"undone": s.deps.Session.Undo()}, nil
}

func (s *Service) handleClear(dispatcher.Command) (any, error) {
	s.deps.Session.Clear()
	return nil, nil
}

func (s *Service) handleReset(dispatcher.Command) (any, error) {
	s.deps.Session.Reset()
	return nil, nil
}

func (s *Service) handleCommit(c dispatcher.Command) (any, error) {
	in, err := s.deps.Parser.ParseCommit(c.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Session.Commit(in.Timestamp, in.Label), nil
}

func (s *Service) handleRestore(c dispatcher.Command) (any, error) {
	id, err := s.deps.Parser.ParseID("node", c.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Session.Restore(id)
}

func (s *Service) handleNodes(dispatcher.Command) (any, error) {
	return s.deps.Session.Nodes(), nil
}

func (s *Service) handleState(dispatcher.Command) (any, error) {
	return s.deps.Session.State(), nil
}

func (s *Service) handleFeed(dispatcher.Command) (any, error) {
	feed := s.deps.Session.Feed()
	out := make([]string, len(feed))
	for i, e := range feed {
		out[i] = e.String()
	}
	return out, nil
}

func (s *Service) handleExportGeoJSON(dispatcher.Command) (any, error) {
	raw, err := s.deps.Session.ExportGeoJSON(s.deps.GeoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to export board: %w", err)
	}
	return jsonRaw(raw), nil
}

func (s *Service) handleLibrary(dispatcher.Command) (any, error) {
	return Catalog{Tags: annotation.Library(), Formations: formation.Names()}, nil
}
