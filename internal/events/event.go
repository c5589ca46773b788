// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"kitportal/internal/kit/domain"
	"kitportal/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Kit Domain Events
// =============================================================================

// DefaultKitsPublished is published every time a session's default kits are
// recomputed. Generation increases per session; consumers drop older ones.
type DefaultKitsPublished struct {
	BaseEvent
	SessionID   uuid.UUID              `json:"sessionId"`
	Generation  uint64                 `json:"generation"`
	ProfileID   string                 `json:"profileId"`
	Token       string                 `json:"-"`
	DNA         *domain.DNAKit         `json:"dna,omitempty"`
	Antibody    *domain.AntibodyKit    `json:"antibody,omitempty"`
	HeartHealth *domain.HeartHealthKit `json:"heartHealth,omitempty"`
}

func (e DefaultKitsPublished) EventName() string { return "kits.defaults.published" }

// KitsReset is published when a session logs out or its token changes, and
// everything loaded for it is cleared.
type KitsReset struct {
	BaseEvent
	SessionID  uuid.UUID `json:"sessionId"`
	Generation uint64    `json:"generation"`
}

func (e KitsReset) EventName() string { return "kits.reset" }

// KitActivated is published after a barcode was linked to a profile. The
// report service drops the profile's held DNA report on it.
type KitActivated struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	KitID     string    `json:"kitId"`
	Barcode   string    `json:"barcode"`
	ProfileID string    `json:"profileId"`
}

func (e KitActivated) EventName() string { return "kits.kit.activated" }

// KitReplacementRequested is published after a replacement was ordered for a
// rejected kit. Reports still held for the rejected kit are dropped.
type KitReplacementRequested struct {
	BaseEvent
	SessionID      uuid.UUID `json:"sessionId"`
	RejectedKitID  string    `json:"rejectedKitId"`
	ReplacementKit string    `json:"replacementKitId"`
}

func (e KitReplacementRequested) EventName() string { return "kits.replacement.requested" }
