// Package domain holds the kit lifecycle rules: the product taxonomy, main-test
// selection, stage derivation per product line and default-kit selection.
// Everything here is a pure function of the kit record passed in.
package domain

import "time"

// KitStatus is the overall lifecycle status reported by the kit service.
type KitStatus string

// Kit statuses. They stay untyped because test and history entries record the
// same vocabulary as plain strings.
const (
	KitStatusOpen      = "open"
	KitStatusOrdered   = "ordered"
	KitStatusLab       = "lab"
	KitStatusActivated = "activated"
	KitStatusReady     = "ready"
	KitStatusRejected  = "rejected"
	KitStatusReplaced  = "replaced"
)

// Test-specific statuses. Test records reuse the kit vocabulary as well.
const (
	TestStatusSourceReady            = "lab-result-source-ready"
	TestStatusInterpretationReady    = "lab-result-interpretation-ready"
	TestStatusInterpretationApproved = "lab-result-interpretation-approved"
	TestStatusCnvReady               = "lab-result-cnv-ready"
	TestStatusLabResultReady         = "lab-result-ready"
	TestStatusScoreResultReady       = "score-result-ready"
	TestStatusReportResultReady      = "report-result-ready"
	TestStatusReportReady            = "report-ready"
	TestStatusTerminated             = "test-terminated"
	TestStatusCreated                = "test-created"
)

// HistoryEntry is one status change. Kit history entries carry no id.
type HistoryEntry struct {
	ID       string    `json:"historyId,omitempty" yaml:"historyId,omitempty"`
	Status   string    `json:"status" yaml:"status"`
	Datetime time.Time `json:"datetime" yaml:"datetime"`
}

// Provider identifies who handles a test, e.g. the HK courier for antibody kits.
type Provider struct {
	Name string `json:"name" yaml:"name"`
}

// Test is one test attempt against a kit.
type Test struct {
	TestID   string         `json:"testId" yaml:"testId"`
	Name     string         `json:"name" yaml:"name"`
	Status   string         `json:"status" yaml:"status"`
	History  []HistoryEntry `json:"history" yaml:"history"`
	Provider *Provider      `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// Extraction is a lab extraction record for a kit.
type Extraction struct {
	ExtractionID string         `json:"extractionId" yaml:"extractionId"`
	Status       string         `json:"status" yaml:"status"`
	History      []HistoryEntry `json:"history" yaml:"history"`
}

// Segment tags a kit with a customer segment.
type Segment struct {
	SegmentID string `json:"segmentId" yaml:"segmentId"`
	Segment   string `json:"segment" yaml:"segment"`
}

// Kit is one physical test kit as returned by the kit service.
// History is not guaranteed to be sorted.
type Kit struct {
	KitID                   string         `json:"kitId" yaml:"kitId"`
	Barcode                 string         `json:"barcode" yaml:"barcode"`
	Profile                 string         `json:"profile" yaml:"profile"`
	HasAnalysed             bool           `json:"hasAnalysed" yaml:"hasAnalysed"`
	Tests                   []Test         `json:"test" yaml:"test"`
	Extractions             []Extraction   `json:"extraction" yaml:"extraction"`
	Status                  KitStatus      `json:"status" yaml:"status"`
	History                 []HistoryEntry `json:"history" yaml:"history"`
	ExpectedReportReadyDate string         `json:"expectedReportReadyDate,omitempty" yaml:"expectedReportReadyDate,omitempty"`
	Segments                []Segment      `json:"segment,omitempty" yaml:"segment,omitempty"`
}

// Record returns the underlying kit. Promoted to every kit variant.
func (k *Kit) Record() *Kit {
	return k
}

// primaryExtraction returns the first extraction record, if any.
func (k *Kit) primaryExtraction() (Extraction, bool) {
	if len(k.Extractions) == 0 {
		return Extraction{}, false
	}
	return k.Extractions[0], true
}

// ActivatedKit is returned by the kit service after barcode activation.
type ActivatedKit struct {
	KitID   string     `json:"kitId"`
	Barcode string     `json:"barcode"`
	Scope   []KitScope `json:"scope"`
}

// KitScope is an access scope granted by activation.
type KitScope struct {
	ScopeID string `json:"scopeId"`
	Scope   string `json:"scope"`
}

// MetadataType enumerates kit metadata kinds.
type MetadataType string

const (
	MetadataComment          MetadataType = "comment"
	MetadataProcessingStatus MetadataType = "processingStatus"
	MetadataExternalKitID    MetadataType = "externalKitId"
	MetadataObservedStatus   MetadataType = "observedStatus"
	MetadataCollectionTime   MetadataType = "collectionTime"
)

// IsValid reports whether t is a known metadata type.
func (t MetadataType) IsValid() bool {
	switch t {
	case MetadataComment, MetadataProcessingStatus, MetadataExternalKitID, MetadataObservedStatus, MetadataCollectionTime:
		return true
	}
	return false
}

// Metadata is a free-form annotation attached to a kit.
type Metadata struct {
	MetadataID string       `json:"metadataId" yaml:"metadataId"`
	Datetime   string       `json:"datetime" yaml:"datetime"`
	Content    string       `json:"content" yaml:"content"`
	Type       MetadataType `json:"type" yaml:"type"`
	Actor      string       `json:"actor" yaml:"actor"`
}

// Questionnaire is the heart health intake attached to a profile.
type Questionnaire struct {
	QuestionnaireID string            `json:"questionnaireId" yaml:"questionnaireId"`
	Answers         map[string]string `json:"answers,omitempty" yaml:"answers,omitempty"`
}
