package handler

import (
	"github.com/google/uuid"

	"kitportal/internal/kit/service"
	"kitportal/internal/kit/transport"
)

// DefaultsView holds the derived view of each default kit.
type DefaultsView struct {
	DNA         *transport.KitView `json:"dna,omitempty"`
	Antibody    *transport.KitView `json:"antibody,omitempty"`
	HeartHealth *transport.KitView `json:"heartHealth,omitempty"`
}

// SnapshotResponse is the kit state of a session as served over HTTP.
type SnapshotResponse struct {
	SessionID  uuid.UUID           `json:"sessionId"`
	State      service.State       `json:"state"`
	Ready      bool                `json:"ready"`
	Refreshing bool                `json:"refreshing"`
	ProfileID  string              `json:"profileId,omitempty"`
	Generation uint64              `json:"generation"`
	Kits       []transport.KitView `json:"kits"`
	Defaults   DefaultsView        `json:"defaults"`
}

func newSnapshotResponse(id uuid.UUID, snap service.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		SessionID:  id,
		State:      snap.State,
		Ready:      snap.Ready,
		Refreshing: snap.Refreshing,
		ProfileID:  snap.ProfileID,
		Generation: snap.Generation,
		Kits:       make([]transport.KitView, 0, len(snap.Kits)),
	}
	for _, k := range snap.Kits {
		resp.Kits = append(resp.Kits, transport.ViewOf(k))
	}

	if d := snap.Defaults.DNA; d != nil {
		v := transport.NewKitView(d)
		resp.Defaults.DNA = &v
	}
	if d := snap.Defaults.Antibody; d != nil {
		v := transport.NewKitView(d)
		resp.Defaults.Antibody = &v
	}
	if d := snap.Defaults.HeartHealth; d != nil {
		v := transport.NewKitView(d)
		resp.Defaults.HeartHealth = &v
	}
	return resp
}
