// Package transport holds the wire shapes of the kit service and their
// conversion into the domain model.
package transport

import (
	"time"

	"kitportal/internal/kit/domain"
)

// Pointer fields mark keys that must be present. A payload missing any of
// them fails validation as a whole.

type HistoryDTO struct {
	HistoryID *string    `json:"historyId" validate:"required"`
	Datetime  *time.Time `json:"datetime" validate:"required"`
	Status    *string    `json:"status" validate:"required"`
}

type KitHistoryDTO struct {
	Status   *string    `json:"status" validate:"required"`
	Datetime *time.Time `json:"datetime" validate:"required"`
}

type ProviderDTO struct {
	Name string `json:"name"`
}

type TestDTO struct {
	TestID   *string      `json:"testId" validate:"required"`
	Name     *string      `json:"name" validate:"required"`
	Status   *string      `json:"status" validate:"required"`
	History  []HistoryDTO `json:"history" validate:"required,dive"`
	Provider *ProviderDTO `json:"provider,omitempty"`
}

type ExtractionDTO struct {
	ExtractionID *string      `json:"extractionId" validate:"required"`
	Status       *string      `json:"status" validate:"required"`
	History      []HistoryDTO `json:"history" validate:"required,dive"`
}

type SegmentDTO struct {
	SegmentID string `json:"segmentId"`
	Segment   string `json:"segment"`
}

type KitDTO struct {
	KitID                   *string         `json:"kitId" validate:"required"`
	Barcode                 *string         `json:"barcode" validate:"required"`
	Profile                 *string         `json:"profile" validate:"required"`
	HasAnalysed             *bool           `json:"hasAnalysed" validate:"required"`
	Test                    []TestDTO       `json:"test" validate:"required,dive"`
	Extraction              []ExtractionDTO `json:"extraction" validate:"required,dive"`
	Status                  *string         `json:"status" validate:"required"`
	History                 []KitHistoryDTO `json:"history" validate:"required,dive"`
	ExpectedReportReadyDate string          `json:"expectedReportReadyDate,omitempty"`
	Segment                 []SegmentDTO    `json:"segment,omitempty"`
}

// KitList wraps the status endpoint payload so the whole list validates at once.
type KitList struct {
	Kits []KitDTO `validate:"dive"`
}

type ScopeDTO struct {
	ScopeID *string `json:"scopeId" validate:"required"`
	Scope   *string `json:"scope" validate:"required"`
}

type ActivateKitRequest struct {
	ProfileID string `json:"profileId"`
}

type ActivatedKitDTO struct {
	KitID   *string    `json:"kitId" validate:"required"`
	Barcode *string    `json:"barcode" validate:"required"`
	Scope   []ScopeDTO `json:"scope" validate:"required,dive"`
}

type MetadataResponse struct {
	Metadata []domain.Metadata `json:"metadata"`
}

type AddMetadataRequest struct {
	Metadata MetadataPayload `json:"metadata"`
}

type MetadataPayload struct {
	Type    domain.MetadataType `json:"type"`
	Content string              `json:"content"`
}

// ToDomain converts a validated kit payload.
func (d KitDTO) ToDomain() domain.Kit {
	k := domain.Kit{
		KitID:                   *d.KitID,
		Barcode:                 *d.Barcode,
		Profile:                 *d.Profile,
		HasAnalysed:             *d.HasAnalysed,
		Status:                  domain.KitStatus(*d.Status),
		ExpectedReportReadyDate: d.ExpectedReportReadyDate,
		Tests:                   make([]domain.Test, 0, len(d.Test)),
		Extractions:             make([]domain.Extraction, 0, len(d.Extraction)),
		History:                 make([]domain.HistoryEntry, 0, len(d.History)),
	}

	for _, t := range d.Test {
		test := domain.Test{
			TestID:  *t.TestID,
			Name:    *t.Name,
			Status:  *t.Status,
			History: historyToDomain(t.History),
		}
		if t.Provider != nil && t.Provider.Name != "" {
			test.Provider = &domain.Provider{Name: t.Provider.Name}
		}
		k.Tests = append(k.Tests, test)
	}
	for _, e := range d.Extraction {
		k.Extractions = append(k.Extractions, domain.Extraction{
			ExtractionID: *e.ExtractionID,
			Status:       *e.Status,
			History:      historyToDomain(e.History),
		})
	}
	for _, h := range d.History {
		k.History = append(k.History, domain.HistoryEntry{Status: *h.Status, Datetime: *h.Datetime})
	}
	for _, s := range d.Segment {
		k.Segments = append(k.Segments, domain.Segment{SegmentID: s.SegmentID, Segment: s.Segment})
	}
	return k
}

// ToDomain converts a validated activation payload.
func (d ActivatedKitDTO) ToDomain() domain.ActivatedKit {
	out := domain.ActivatedKit{
		KitID:   *d.KitID,
		Barcode: *d.Barcode,
		Scope:   make([]domain.KitScope, 0, len(d.Scope)),
	}
	for _, s := range d.Scope {
		out.Scope = append(out.Scope, domain.KitScope{ScopeID: *s.ScopeID, Scope: *s.Scope})
	}
	return out
}

func historyToDomain(history []HistoryDTO) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(history))
	for _, h := range history {
		out = append(out, domain.HistoryEntry{ID: *h.HistoryID, Status: *h.Status, Datetime: *h.Datetime})
	}
	return out
}
