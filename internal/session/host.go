package session

import (
	"github.com/pitchlogic/tactical-board/internal/board"
	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// liveHost exposes session state to the controller. The controller only runs while the
// session lock is held, so reads here take no lock.
type liveHost struct {
	s *Session
}

func (h liveHost) Board() board.Board       { return h.s.board }
func (h liveHost) Mode() core.ToolMode      { return h.s.mode }
func (h liveHost) Style() core.DrawingStyle { return h.s.style }
func (h liveHost) Rect() core.Rect          { return h.s.rect }

func (s *Session) callbacks() interaction.Callbacks {
	return interaction.Callbacks{
		PlayerMoved:    s.playerMoved,
		BallMoved:      s.ballMoved,
		PlayerSelected: s.selectPlayer,
		LineCreated: func(line core.TacticalLine) {
			s.apply(board.CreateLine{Line: line})
			s.emit(NotifyLineCreated, line)
		},
		LineRemoved: func(id string) {
			s.apply(board.RemoveLine{ID: id})
			s.emit(NotifyLineRemoved, id)
		},
		Undo: func() { s.undo() },
		Log:  s.addLog,
	}
}

func (s *Session) playerMoved(id string, x, y float64) {
	s.apply(board.MovePlayer{ID: id, X: x, Y: y})
	if p, ok := s.board.Player(id); ok {
		s.emit(NotifyPlayerMoved, PlayerMove{ID: id, X: p.X, Y: p.Y})
	}
}

func (s *Session) ballMoved(x, y float64) {
	s.apply(board.MoveBall{X: x, Y: y})
	s.emit(NotifyBallMoved, *s.board.Ball)
}

func (s *Session) undo() bool {
	before := s.board.FreeLines()
	s.apply(board.UndoLine{})
	if s.board.FreeLines() == before {
		return false
	}
	s.emit(NotifyUndo, nil)
	return true
}
