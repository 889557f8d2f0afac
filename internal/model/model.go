package model

import (
	"github.com/farmtech-solutions/irrigation-core/internal/model/messages"
)

// Aliases exposing the wire payloads next to the in-process types.

type (
	StatusRecord     = messages.StatusRecord
	StateChangeEvent = messages.StateChangeEvent
)
