package game

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/science-santa/pkg/dialogue"
)

// OutcomeKind tags how a turn ended.
type OutcomeKind int

const (
	OutcomeReply OutcomeKind = iota
	OutcomeExtractionFailed
	OutcomeTransportFailed
	OutcomeConfigurationFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeReply:
		return "reply"
	case OutcomeExtractionFailed:
		return "extraction_failed"
	case OutcomeTransportFailed:
		return "transport_failed"
	case OutcomeConfigurationFailed:
		return "configuration_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of Turn.Run. Reply is set for OutcomeReply, Err
// for every other kind.
type Outcome struct {
	Kind     OutcomeKind
	TurnID   uuid.UUID
	Reply    *dialogue.Reply
	Strategy dialogue.Strategy
	Raw      string
	Err      error

	generation int
}
