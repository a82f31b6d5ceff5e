package parser

import (
	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// PointerInput is a parsed pointer sample. When HasTarget is false the host only sent raw
// coordinates and the session resolves the target by hit testing.
type PointerInput struct {
	Event     interaction.PointerEvent
	HasTarget bool
}

// TagInput is a tag picked in the tag selection surface
type TagInput struct {
	Tag      string
	Category annotation.Category // empty when the host did not say
}

// FormationInput selects a preset for one team
type FormationInput struct {
	Team core.Team
	Name string
}

// OffsideSide names which offside line a toggle targets
type OffsideSide string

const (
	OffsideBoth  OffsideSide = "both"
	OffsideLeft  OffsideSide = "left"
	OffsideRight OffsideSide = "right"
)

// OffsideInput toggles or sets the visibility of offside lines. Show is nil for a toggle.
type OffsideInput struct {
	Side OffsideSide
	Show *bool
}

// CommitInput captures the board at a point of the video timeline
type CommitInput struct {
	Timestamp float64
	Label     string // empty picks the next LOGIC_NODE_<n>
}
