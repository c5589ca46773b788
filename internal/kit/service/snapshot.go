package service

import "kitportal/internal/kit/domain"

// State is the lifecycle state of a controller.
type State string

const (
	// StateUninitialized means auth is not ready or no token was seen yet.
	StateUninitialized State = "uninitialized"
	// StateLoading means the first kit list fetch is in flight.
	StateLoading State = "loading"
	// StateReadyEmpty means there are no kits to show, either because the
	// account has none, the fetch failed, or the session logged out.
	StateReadyEmpty State = "ready_empty"
	// StateReadyPopulated means the kit list is loaded and default kits computed.
	StateReadyPopulated State = "ready_populated"
)

// DefaultKits holds the most recently active kit per product line for the
// current profile. The three slots are always replaced together.
type DefaultKits struct {
	DNA         *domain.DNAKit         `json:"dna,omitempty"`
	Antibody    *domain.AntibodyKit    `json:"antibody,omitempty"`
	HeartHealth *domain.HeartHealthKit `json:"heartHealth,omitempty"`
}

// IsEmpty reports whether no slot is set.
func (d DefaultKits) IsEmpty() bool {
	return d.DNA == nil && d.Antibody == nil && d.HeartHealth == nil
}

// Snapshot is a consistent read of a controller.
type Snapshot struct {
	State      State        `json:"state"`
	Ready      bool         `json:"ready"`
	Refreshing bool         `json:"refreshing"`
	ProfileID  string       `json:"profileId,omitempty"`
	Generation uint64       `json:"generation"`
	Kits       []domain.Kit `json:"kits"`
	Defaults   DefaultKits  `json:"defaults"`
}

func (s State) ready() bool {
	return s == StateReadyEmpty || s == StateReadyPopulated
}
