package domain

import "time"

// View is the capability surface every kit variant presents.
type View interface {
	Record() *Kit
	Line() ProductLine
	MainTest() (Test, bool)
	MainTestDefinition() (TestDefinition, bool)
	Stages() Stages
	CurrentStage() (StageInfo, bool)
	ProductType() ProductType
	IsActivated() bool
	IsReportReady() bool
}

// Upgrader is implemented by variants that can be upgraded to a higher tier.
type Upgrader interface {
	UpgradeOptions() []string
	IsUpgrading() bool
	Upgrading() (TestDefinition, bool)
	IsPremiumUpgradeReady() bool
	IsVitalUpgradeReady() bool
}

// NewView wraps k in the variant for line. Auxiliary data (booking, metadata,
// questionnaire) is attached by the caller on the concrete type.
func NewView(k Kit, line ProductLine) (View, bool) {
	switch line {
	case LineDNA:
		return NewDNAKit(k), true
	case LineAntibody:
		return NewAntibodyKit(k), true
	case LineHeartHealth:
		return NewHeartHealthKit(k), true
	default:
		return nil, false
	}
}

// DetectLine infers the product line from the kit's main test.
func DetectLine(k Kit) (ProductLine, bool) {
	def, ok := mainTestDefinition(k.Tests, true)
	if !ok {
		return "", false
	}
	return LineForDefinition(def)
}

// rejectedStages derives stages for a rejected kit. A Ready event in the kit
// history means the lab received it; hasAnalysed then tells whether it failed
// during interpretation or before.
func rejectedStages(k *Kit, order []Stage, analysedStatus string) Stages {
	b := newStageBuilder(order)
	received, ok := FindStatusDate(k.History, KitStatusReady)
	if !ok {
		return b.rejected(StageReceived).build()
	}

	b.completed(StageReceived, &received)
	if ext, ok := k.primaryExtraction(); ok {
		b.completed(StageExtracted, statusDate(ext.History, KitStatusReady))
	} else {
		b.completed(StageExtracted, nil)
	}

	if !k.HasAnalysed {
		return b.rejected(StageAnalysed).build()
	}
	return b.completed(StageAnalysed, latestTestDate(k.Tests, analysedStatus)).rejected(StageReport).build()
}

// latestTestDate looks status up in the history of the newest live attempt.
func latestTestDate(tests []Test, status string) *time.Time {
	t, ok := latestActiveTest(tests)
	if !ok {
		return nil
	}
	return statusDate(t.History, status)
}
