package domain

import "time"

// Stage is a user-facing lifecycle phase.
type Stage string

const (
	StageReceived  Stage = "received"
	StageExtracted Stage = "extracted"
	StageAnalysed  Stage = "analysed"
	StageReport    Stage = "report"
)

// StageStatus is the state of one stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCompleted StageStatus = "completed"
	StageRejected  StageStatus = "rejected"
	StageNone      StageStatus = "none"
)

// StageInfo is one stage with its status and, when known, when it was reached.
type StageInfo struct {
	Stage  Stage       `json:"stage" yaml:"stage"`
	Status StageStatus `json:"status" yaml:"status"`
	Date   *time.Time  `json:"date,omitempty" yaml:"date,omitempty"`
}

// Stages is a stage map in canonical order.
type Stages []StageInfo

// Get returns the entry for stage.
func (s Stages) Get(stage Stage) (StageInfo, bool) {
	for _, info := range s {
		if info.Stage == stage {
			return info, true
		}
	}
	return StageInfo{}, false
}

// Current returns the first stage that is pending or rejected. False means
// nothing is actionable.
func (s Stages) Current() (StageInfo, bool) {
	for _, info := range s {
		if info.Status == StagePending || info.Status == StageRejected {
			return info, true
		}
	}
	return StageInfo{}, false
}

var (
	dnaStageOrder      = []Stage{StageReceived, StageExtracted, StageAnalysed, StageReport}
	snapshotStageOrder = []Stage{StageReceived, StageAnalysed, StageReport}
)

// stageBuilder fills a stage map in canonical order. Stages not set stay None.
type stageBuilder struct {
	stages Stages
}

func newStageBuilder(order []Stage) *stageBuilder {
	stages := make(Stages, len(order))
	for i, stage := range order {
		stages[i] = StageInfo{Stage: stage, Status: StageNone}
	}
	return &stageBuilder{stages: stages}
}

func (b *stageBuilder) set(stage Stage, status StageStatus, date *time.Time) *stageBuilder {
	for i := range b.stages {
		if b.stages[i].Stage == stage {
			b.stages[i].Status = status
			b.stages[i].Date = date
		}
	}
	return b
}

func (b *stageBuilder) completed(stage Stage, date *time.Time) *stageBuilder {
	return b.set(stage, StageCompleted, date)
}

func (b *stageBuilder) pending(stage Stage) *stageBuilder {
	return b.set(stage, StagePending, nil)
}

func (b *stageBuilder) rejected(stage Stage) *stageBuilder {
	return b.set(stage, StageRejected, nil)
}

func (b *stageBuilder) build() Stages {
	return b.stages
}
