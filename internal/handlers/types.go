package handlers

import (
	"encoding/json"

	"github.com/pitchlogic/tactical-board/internal/interaction"
)

type interactionEvent = interaction.PointerEvent

// jsonRaw passes pre-encoded JSON through the response encoder untouched
type jsonRaw = json.RawMessage
