package parser

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/internal/util"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// ParsePointer parses [pointerId, x, y] or [pointerId, x, y, targetKind, targetId?].
// Coordinates are viewport pixels.
func (p *Parser) ParsePointer(data []string) (PointerInput, error) {
	var in PointerInput
	if err := argCount("pointer", data, 3, 5); err != nil {
		return in, err
	}
	data = clean(data)

	id, err := parseIntFromFloat(data[0])
	if err != nil {
		return in, fmt.Errorf("error parsing pointer id: %w", err)
	}
	in.Event.PointerID = int(id)

	if in.Event.X, err = parseFloat("x", data[1]); err != nil {
		return in, err
	}
	if in.Event.Y, err = parseFloat("y", data[2]); err != nil {
		return in, err
	}

	if len(data) == 3 || data[3] == "" {
		return in, nil
	}

	kind := core.TargetKind(data[3])
	switch kind {
	case core.TargetBoard, core.TargetBall:
	case core.TargetPlayer, core.TargetLine:
		if len(data) < 5 || data[4] == "" {
			return in, fmt.Errorf("%s target needs an id", kind)
		}
	default:
		return in, fmt.Errorf("unknown target kind %q", data[3])
	}

	in.Event.Target = core.Target{Kind: kind}
	if kind == core.TargetPlayer || kind == core.TargetLine {
		in.Event.Target.ID = data[4]
	}
	in.HasTarget = true
	return in, nil
}

// ParseKey parses [key] or [key, modifiers] where modifiers is e.g. "ctrl+shift".
func (p *Parser) ParseKey(data []string) (interaction.KeyEvent, error) {
	var ev interaction.KeyEvent
	if err := argCount("key", data, 1, 2); err != nil {
		return ev, err
	}
	data = clean(data)
	if data[0] == "" {
		return ev, errors.New("empty key")
	}
	ev.Key = data[0]

	if len(data) == 2 {
		for _, mod := range util.SplitModifiers(data[1]) {
			switch mod {
			case "ctrl", "control":
				ev.Ctrl = true
			case "meta", "cmd", "command":
				ev.Meta = true
			case "shift":
				ev.Shift = true
			case "alt", "option":
				ev.Alt = true
			default:
				p.logger.Warn("Ignoring unknown key modifier", "modifier", mod)
			}
		}
	}
	return ev, nil
}

// ParseMode parses [mode]
func (p *Parser) ParseMode(data []string) (core.ToolMode, error) {
	if err := argCount("mode", data, 1, 1); err != nil {
		return "", err
	}
	mode := core.ToolMode(clean(data)[0])
	if !mode.Valid() {
		return "", fmt.Errorf("unknown tool mode %q", mode)
	}
	return mode, nil
}

// ParseStyle parses [color] or [color, dashed]
func (p *Parser) ParseStyle(data []string) (core.DrawingStyle, error) {
	var style core.DrawingStyle
	if err := argCount("style", data, 1, 2); err != nil {
		return style, err
	}
	data = clean(data)
	if data[0] == "" {
		return style, errors.New("empty color")
	}
	style.Color = data[0]

	if len(data) == 2 {
		dashed, err := parseBool("dashed", data[1])
		if err != nil {
			return style, err
		}
		style.Dashed = dashed
	}
	return style, nil
}

// ParseRect parses [left, top, width, height] in viewport pixels
func (p *Parser) ParseRect(data []string) (core.Rect, error) {
	var rect core.Rect
	if err := argCount("rect", data, 4, 4); err != nil {
		return rect, err
	}
	data = clean(data)

	fields := []struct {
		name string
		dst  *float64
	}{
		{"left", &rect.Left},
		{"top", &rect.Top},
		{"width", &rect.Width},
		{"height", &rect.Height},
	}
	for i, f := range fields {
		v, err := parseFloat(f.name, data[i])
		if err != nil {
			return rect, err
		}
		*f.dst = v
	}

	if rect.Width < 0 || rect.Height < 0 {
		return rect, fmt.Errorf("negative board size %gx%g", rect.Width, rect.Height)
	}
	return rect, nil
}

// ParseID parses a single non-empty id argument
func (p *Parser) ParseID(what string, data []string) (string, error) {
	if err := argCount(what, data, 1, 1); err != nil {
		return "", err
	}
	id := clean(data)[0]
	if id == "" {
		return "", fmt.Errorf("empty %s", what)
	}
	return id, nil
}

// ParseOptionalID parses zero or one id argument; an absent or empty id yields ""
func (p *Parser) ParseOptionalID(what string, data []string) (string, error) {
	if err := argCount(what, data, 0, 1); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	return clean(data)[0], nil
}

// ParseTeam parses a team name
func ParseTeam(s string) (core.Team, error) {
	team := core.Team(s)
	if !team.Valid() {
		return "", fmt.Errorf("unknown team %q, want one of %v", s, []core.Team{core.TeamRed, core.TeamBlue})
	}
	return team, nil
}

// ParseFormation parses [team, presetName]. Unknown preset names are not an error here;
// applying one is a no-op.
func (p *Parser) ParseFormation(data []string) (FormationInput, error) {
	var in FormationInput
	if err := argCount("formation", data, 2, 2); err != nil {
		return in, err
	}
	data = clean(data)

	team, err := ParseTeam(data[0])
	if err != nil {
		return in, err
	}
	in.Team = team
	in.Name = data[1]
	return in, nil
}

// ParseOffside parses [] (toggle both), [side] (toggle one) or [side, show].
func (p *Parser) ParseOffside(data []string) (OffsideInput, error) {
	in := OffsideInput{Side: OffsideBoth}
	if err := argCount("offside", data, 0, 2); err != nil {
		return in, err
	}
	if len(data) == 0 {
		return in, nil
	}
	data = clean(data)

	side := OffsideSide(data[0])
	if !slices.Contains([]OffsideSide{OffsideBoth, OffsideLeft, OffsideRight}, side) {
		return in, fmt.Errorf("unknown offside side %q", data[0])
	}
	in.Side = side

	if len(data) == 2 {
		show, err := parseBool("show", data[1])
		if err != nil {
			return in, err
		}
		in.Show = &show
	}
	return in, nil
}
