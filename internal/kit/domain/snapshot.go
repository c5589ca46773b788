package domain

import "kitportal/internal/booking"

// CourierProvider is the provider name of tests collected by the HK courier.
const CourierProvider = "snapshot-hk-courier"

// AntibodyKit is a snapshot antibody kit. Booking and Metadata are fetched
// separately and may be absent.
type AntibodyKit struct {
	Kit
	Booking  *booking.Booking `json:"booking,omitempty"`
	Metadata []Metadata       `json:"metadata,omitempty"`
}

var _ View = (*AntibodyKit)(nil)

// NewAntibodyKit wraps k as an antibody kit without booking or metadata.
func NewAntibodyKit(k Kit) *AntibodyKit {
	return &AntibodyKit{Kit: k}
}

// Line returns LineAntibody.
func (k *AntibodyKit) Line() ProductLine { return LineAntibody }

// ProductType returns ProductTypeSnapshot.
func (k *AntibodyKit) ProductType() ProductType { return ProductTypeSnapshot }

// MainTest selects the representative attempt.
func (k *AntibodyKit) MainTest() (Test, bool) {
	return SelectMainTest(k.Tests, false)
}

// MainTestDefinition classifies the main test.
func (k *AntibodyKit) MainTestDefinition() (TestDefinition, bool) {
	return mainTestDefinition(k.Tests, false)
}

// IsReportReady reports whether the main test has its report.
func (k *AntibodyKit) IsReportReady() bool {
	main, ok := k.MainTest()
	return ok && main.Status == TestStatusReportReady
}

// Stages derives Received, Analysed and Report.
func (k *AntibodyKit) Stages() Stages {
	switch k.Status {
	case KitStatusReady:
		return snapshotReadyStages(&k.Kit, false)
	case KitStatusRejected:
		return rejectedStages(&k.Kit, snapshotStageOrder, TestStatusScoreResultReady)
	default:
		return newStageBuilder(snapshotStageOrder).pending(StageReceived).build()
	}
}

// CurrentStage is Stages().Current().
func (k *AntibodyKit) CurrentStage() (StageInfo, bool) {
	return k.Stages().Current()
}

// NeedsPickup reports whether a courier-collected test is still waiting for a booking.
func (k *AntibodyKit) NeedsPickup() bool {
	return NeedsPickup(k.Tests, k.Booking)
}

// IsActivated holds once a collection time was recorded and no pickup is outstanding.
func (k *AntibodyKit) IsActivated() bool {
	return HasCollectionTime(k.Metadata) && !k.NeedsPickup()
}

// CollectionType is the booking's collection type, or none without a booking.
func (k *AntibodyKit) CollectionType() booking.CollectionType {
	if k.Booking == nil {
		return booking.CollectionNone
	}
	return k.Booking.Type()
}

// NeedsPickup is true when any test is handled by the courier and b is nil.
func NeedsPickup(tests []Test, b *booking.Booking) bool {
	if b != nil {
		return false
	}
	for _, t := range tests {
		if t.Provider != nil && t.Provider.Name == CourierProvider {
			return true
		}
	}
	return false
}

// HasCollectionTime reports whether metadata records when the sample was taken.
func HasCollectionTime(metadata []Metadata) bool {
	for _, m := range metadata {
		if m.Type == MetadataCollectionTime {
			return true
		}
	}
	return false
}

// HeartHealthKit is a snapshot heart health kit. It counts as received once
// activated, and the questionnaire completes activation.
type HeartHealthKit struct {
	Kit
	Questionnaire *Questionnaire `json:"questionnaire,omitempty"`
}

var _ View = (*HeartHealthKit)(nil)

// NewHeartHealthKit wraps k as a heart health kit without a questionnaire.
func NewHeartHealthKit(k Kit) *HeartHealthKit {
	return &HeartHealthKit{Kit: k}
}

// Line returns LineHeartHealth.
func (k *HeartHealthKit) Line() ProductLine { return LineHeartHealth }

// ProductType returns ProductTypeSnapshot.
func (k *HeartHealthKit) ProductType() ProductType { return ProductTypeSnapshot }

// IsActivated holds once the profile's questionnaire is attached.
func (k *HeartHealthKit) IsActivated() bool { return k.Questionnaire != nil }

// MainTest selects the representative attempt.
func (k *HeartHealthKit) MainTest() (Test, bool) {
	return SelectMainTest(k.Tests, false)
}

// MainTestDefinition classifies the main test.
func (k *HeartHealthKit) MainTestDefinition() (TestDefinition, bool) {
	return mainTestDefinition(k.Tests, false)
}

// IsReportReady reports whether the main test has its report.
func (k *HeartHealthKit) IsReportReady() bool {
	main, ok := k.MainTest()
	return ok && main.Status == TestStatusReportReady
}

// Stages derives Received, Analysed and Report. An activated kit already
// counts as received.
func (k *HeartHealthKit) Stages() Stages {
	switch k.Status {
	case KitStatusReady, KitStatusActivated:
		return snapshotReadyStages(&k.Kit, true)
	case KitStatusRejected:
		return rejectedStages(&k.Kit, snapshotStageOrder, TestStatusScoreResultReady)
	default:
		return newStageBuilder(snapshotStageOrder).pending(StageReceived).build()
	}
}

// CurrentStage is Stages().Current().
func (k *HeartHealthKit) CurrentStage() (StageInfo, bool) {
	return k.Stages().Current()
}

// snapshotReadyStages is shared by the antibody and heart health kits. When
// awaitCreated is set, a main test still in test-created keeps Received pending.
func snapshotReadyStages(k *Kit, awaitCreated bool) Stages {
	b := newStageBuilder(snapshotStageOrder)
	main, _ := SelectMainTest(k.Tests, false)
	received := statusDate(k.History, KitStatusReady)

	switch {
	case main.Status == TestStatusReportReady:
		return b.completed(StageReceived, received).
			completed(StageAnalysed, latestTestDate(k.Tests, TestStatusSourceReady)).
			completed(StageReport, latestTestDate(k.Tests, TestStatusReportReady)).
			build()
	case main.Status == TestStatusScoreResultReady || main.Status == TestStatusReportResultReady:
		return b.completed(StageReceived, received).
			completed(StageAnalysed, latestTestDate(k.Tests, TestStatusScoreResultReady)).
			pending(StageReport).
			build()
	case awaitCreated && main.Status == TestStatusCreated:
		return b.pending(StageReceived).build()
	default:
		return b.completed(StageReceived, received).pending(StageAnalysed).build()
	}
}
