package domain

import (
	"reflect"
	"testing"

	"kitportal/internal/booking"
)

type stageWant map[Stage]StageStatus

func assertStages(t *testing.T, got Stages, want stageWant) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d: %+v", len(want), len(got), got)
	}
	for _, info := range got {
		status, ok := want[info.Stage]
		if !ok {
			t.Fatalf("unexpected stage %s", info.Stage)
		}
		if info.Status != status {
			t.Errorf("stage %s: expected %s, got %s", info.Stage, status, info.Status)
		}
	}
}

func dnaKit(status KitStatus, tests ...Test) Kit {
	return Kit{KitID: "dna-1", Profile: "p1", Status: status, Tests: tests}
}

func TestEarlyStatusesLeaveReceivedPending(t *testing.T) {
	for _, status := range []KitStatus{KitStatusOpen, KitStatusOrdered, KitStatusLab} {
		views := []View{
			NewDNAKit(dnaKit(status, mkTest(GlobalVital, KitStatusLab))),
			NewAntibodyKit(Kit{Status: status, Tests: []Test{mkTest(HKSnapshotAntibody, KitStatusLab)}}),
			NewHeartHealthKit(Kit{Status: status, Tests: []Test{mkTest(UKSnapshotHeartHealth, KitStatusLab)}}),
		}
		for _, v := range views {
			stages := v.Stages()
			received, _ := stages.Get(StageReceived)
			if received.Status != StagePending {
				t.Fatalf("%s/%s: expected received pending, got %s", v.Line(), status, received.Status)
			}
			for _, info := range stages[1:] {
				if info.Status != StageNone {
					t.Fatalf("%s/%s: expected %s none, got %s", v.Line(), status, info.Stage, info.Status)
				}
			}
			current, ok := v.CurrentStage()
			if !ok || current.Stage != StageReceived {
				t.Fatalf("%s/%s: expected current stage received, got %+v", v.Line(), status, current)
			}
		}
	}
}

func TestReportReadyCompletesEveryStage(t *testing.T) {
	kitHistory := []HistoryEntry{entry(KitStatusLab, 1), entry(KitStatusReady, 2)}

	dna := NewDNAKit(Kit{
		Status:  KitStatusReady,
		History: kitHistory,
		Extractions: []Extraction{{
			ExtractionID: "e1",
			Status:       KitStatusReady,
			History:      []HistoryEntry{entry(KitStatusReady, 3)},
		}},
		Tests: []Test{mkTest(GlobalPremium, TestStatusReportReady,
			entry(TestStatusSourceReady, 4), entry(TestStatusReportReady, 5))},
	})
	antibody := NewAntibodyKit(Kit{
		Status:  KitStatusReady,
		History: kitHistory,
		Tests: []Test{mkTest(HKSnapshotAntibody, TestStatusReportReady,
			entry(TestStatusSourceReady, 4), entry(TestStatusReportReady, 5))},
	})
	heart := NewHeartHealthKit(Kit{
		Status:  KitStatusActivated,
		History: kitHistory,
		Tests:   []Test{mkTest(UKSnapshotHeartHealth, TestStatusReportReady, entry(TestStatusReportReady, 5))},
	})

	for _, v := range []View{dna, antibody, heart} {
		for _, info := range v.Stages() {
			if info.Status != StageCompleted {
				t.Fatalf("%s: expected %s completed, got %s", v.Line(), info.Stage, info.Status)
			}
		}
		if current, ok := v.CurrentStage(); ok {
			t.Fatalf("%s: expected no current stage, got %+v", v.Line(), current)
		}
		if !v.IsReportReady() {
			t.Fatalf("%s: expected report ready", v.Line())
		}
	}

	stages := dna.Stages()
	if len(stages) != 4 {
		t.Fatalf("expected four DNA stages, got %d", len(stages))
	}
	wantDates := map[Stage]int{StageReceived: 2, StageExtracted: 3, StageAnalysed: 4, StageReport: 5}
	for stage, hours := range wantDates {
		info, _ := stages.Get(stage)
		if info.Date == nil || !info.Date.Equal(at(hours)) {
			t.Errorf("stage %s: expected date %v, got %v", stage, at(hours), info.Date)
		}
	}
}

func TestDNAReadyIntermediateStages(t *testing.T) {
	readyHistory := []HistoryEntry{entry(KitStatusReady, 2)}
	readyExtraction := []Extraction{{Status: KitStatusReady, History: []HistoryEntry{entry(KitStatusReady, 3)}}}
	pendingExtraction := []Extraction{{Status: KitStatusLab}}

	tests := []struct {
		name        string
		kit         Kit
		want        stageWant
		wantCurrent Stage
	}{
		{
			name: "analysed awaiting report",
			kit: Kit{Status: KitStatusReady, History: readyHistory, Extractions: readyExtraction,
				Tests: []Test{mkTest(GlobalVital, TestStatusInterpretationReady, entry(TestStatusSourceReady, 4))}},
			want:        stageWant{StageReceived: StageCompleted, StageExtracted: StageCompleted, StageAnalysed: StageCompleted, StageReport: StagePending},
			wantCurrent: StageReport,
		},
		{
			name: "extracted awaiting analysis",
			kit: Kit{Status: KitStatusReady, History: readyHistory, Extractions: readyExtraction,
				Tests: []Test{mkTest(GlobalVital, KitStatusLab)}},
			want:        stageWant{StageReceived: StageCompleted, StageExtracted: StageCompleted, StageAnalysed: StagePending, StageReport: StageNone},
			wantCurrent: StageAnalysed,
		},
		{
			name: "received awaiting extraction",
			kit: Kit{Status: KitStatusReady, History: readyHistory, Extractions: pendingExtraction,
				Tests: []Test{mkTest(GlobalVital, KitStatusLab)}},
			want:        stageWant{StageReceived: StageCompleted, StageExtracted: StagePending, StageAnalysed: StageNone, StageReport: StageNone},
			wantCurrent: StageExtracted,
		},
		{
			name:        "no extraction records",
			kit:         Kit{Status: KitStatusReady, History: readyHistory, Tests: []Test{mkTest(GlobalVital, KitStatusLab)}},
			want:        stageWant{StageReceived: StageCompleted, StageExtracted: StagePending, StageAnalysed: StageNone, StageReport: StageNone},
			wantCurrent: StageExtracted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewDNAKit(tt.kit)
			assertStages(t, k.Stages(), tt.want)
			current, ok := k.CurrentStage()
			if !ok || current.Stage != tt.wantCurrent {
				t.Fatalf("expected current %s, got %+v", tt.wantCurrent, current)
			}
		})
	}
}

func TestRejectedStages(t *testing.T) {
	withReady := []HistoryEntry{entry(KitStatusReady, 2), entry(KitStatusRejected, 6)}
	withoutReady := []HistoryEntry{entry(KitStatusLab, 1), entry(KitStatusRejected, 3)}
	scored := mkTest(HKSnapshotAntibody, KitStatusRejected, entry(TestStatusScoreResultReady, 4))

	tests := []struct {
		name string
		view View
		want stageWant
	}{
		{
			name: "dna never reached lab",
			view: NewDNAKit(Kit{Status: KitStatusRejected, History: withoutReady, HasAnalysed: true}),
			want: stageWant{StageReceived: StageRejected, StageExtracted: StageNone, StageAnalysed: StageNone, StageReport: StageNone},
		},
		{
			name: "dna failed during interpretation",
			view: NewDNAKit(Kit{Status: KitStatusRejected, History: withReady, HasAnalysed: true}),
			want: stageWant{StageReceived: StageCompleted, StageExtracted: StageCompleted, StageAnalysed: StageCompleted, StageReport: StageRejected},
		},
		{
			name: "dna failed before analysis",
			view: NewDNAKit(Kit{Status: KitStatusRejected, History: withReady}),
			want: stageWant{StageReceived: StageCompleted, StageExtracted: StageCompleted, StageAnalysed: StageRejected, StageReport: StageNone},
		},
		{
			name: "antibody never reached lab",
			view: NewAntibodyKit(Kit{Status: KitStatusRejected, History: withoutReady}),
			want: stageWant{StageReceived: StageRejected, StageAnalysed: StageNone, StageReport: StageNone},
		},
		{
			name: "antibody failed during interpretation",
			view: NewAntibodyKit(Kit{Status: KitStatusRejected, History: withReady, HasAnalysed: true, Tests: []Test{scored}}),
			want: stageWant{StageReceived: StageCompleted, StageAnalysed: StageCompleted, StageReport: StageRejected},
		},
		{
			name: "heart health failed before analysis",
			view: NewHeartHealthKit(Kit{Status: KitStatusRejected, History: withReady}),
			want: stageWant{StageReceived: StageCompleted, StageAnalysed: StageRejected, StageReport: StageNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertStages(t, tt.view.Stages(), tt.want)
			if _, ok := tt.view.CurrentStage(); !ok {
				t.Fatalf("expected a rejected stage to be current")
			}
		})
	}

	antibody := NewAntibodyKit(Kit{Status: KitStatusRejected, History: withReady, HasAnalysed: true, Tests: []Test{scored}})
	analysed, _ := antibody.Stages().Get(StageAnalysed)
	if analysed.Date == nil || !analysed.Date.Equal(at(4)) {
		t.Fatalf("expected analysed date from score result, got %v", analysed.Date)
	}
}

func TestSnapshotReadyStages(t *testing.T) {
	readyHistory := []HistoryEntry{entry(KitStatusReady, 2)}

	tests := []struct {
		name string
		view View
		want stageWant
	}{
		{
			name: "antibody scored",
			view: NewAntibodyKit(Kit{Status: KitStatusReady, History: readyHistory,
				Tests: []Test{mkTest(HKSnapshotAntibody, TestStatusScoreResultReady)}}),
			want: stageWant{StageReceived: StageCompleted, StageAnalysed: StageCompleted, StageReport: StagePending},
		},
		{
			name: "heart health report result ready",
			view: NewHeartHealthKit(Kit{Status: KitStatusReady, History: readyHistory,
				Tests: []Test{mkTest(UKSnapshotHeartHealth, TestStatusReportResultReady)}}),
			want: stageWant{StageReceived: StageCompleted, StageAnalysed: StageCompleted, StageReport: StagePending},
		},
		{
			name: "heart health test created",
			view: NewHeartHealthKit(Kit{Status: KitStatusActivated,
				Tests: []Test{mkTest(UKSnapshotHeartHealth, TestStatusCreated)}}),
			want: stageWant{StageReceived: StagePending, StageAnalysed: StageNone, StageReport: StageNone},
		},
		{
			name: "antibody test created is received",
			view: NewAntibodyKit(Kit{Status: KitStatusReady, History: readyHistory,
				Tests: []Test{mkTest(HKSnapshotAntibody, TestStatusCreated)}}),
			want: stageWant{StageReceived: StageCompleted, StageAnalysed: StagePending, StageReport: StageNone},
		},
		{
			name: "antibody activated is not ready",
			view: NewAntibodyKit(Kit{Status: KitStatusActivated,
				Tests: []Test{mkTest(HKSnapshotAntibody, TestStatusCreated)}}),
			want: stageWant{StageReceived: StagePending, StageAnalysed: StageNone, StageReport: StageNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertStages(t, tt.view.Stages(), tt.want)
		})
	}
}

func TestStagesAreRecomputedIdentically(t *testing.T) {
	k := NewDNAKit(Kit{
		Status:      KitStatusReady,
		History:     []HistoryEntry{entry(KitStatusReady, 2)},
		Extractions: []Extraction{{Status: KitStatusReady, History: []HistoryEntry{entry(KitStatusReady, 3)}}},
		Tests:       []Test{mkTest(GlobalVital, KitStatusLab, entry(TestStatusSourceReady, 4))},
	})

	first := k.Stages()
	second := k.Stages()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical stages, got %+v and %+v", first, second)
	}
}

func TestNeedsPickup(t *testing.T) {
	courier := mkTest(HKSnapshotAntibody, KitStatusActivated)
	courier.Provider = &Provider{Name: CourierProvider}
	plain := mkTest(HKSnapshotAntibody, KitStatusActivated)
	b := &booking.Booking{BookingID: "b1", LocationID: booking.SnapshotHKCourierLocation}

	tests := []struct {
		name    string
		tests   []Test
		booking *booking.Booking
		want    bool
	}{
		{"courier without booking", []Test{courier}, nil, true},
		{"courier with booking", []Test{courier}, b, false},
		{"no provider without booking", []Test{plain}, nil, false},
		{"no provider with booking", []Test{plain}, b, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewAntibodyKit(Kit{Tests: tt.tests})
			k.Booking = tt.booking
			if got := k.NeedsPickup(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAntibodyIsActivated(t *testing.T) {
	courier := mkTest(HKSnapshotAntibody, KitStatusActivated)
	courier.Provider = &Provider{Name: CourierProvider}
	collected := []Metadata{{Type: MetadataComment}, {Type: MetadataCollectionTime, Content: "2024-03-01T08:00:00Z"}}

	k := NewAntibodyKit(Kit{Tests: []Test{courier}})
	if k.IsActivated() {
		t.Fatalf("expected kit without collection time to be inactive")
	}
	k.Metadata = collected
	if k.IsActivated() {
		t.Fatalf("expected kit awaiting pickup to be inactive")
	}
	k.Booking = &booking.Booking{LocationID: booking.SnapshotHKDropoffLocation}
	if !k.IsActivated() {
		t.Fatalf("expected booked kit with collection time to be active")
	}
	if k.CollectionType() != booking.CollectionDropoff {
		t.Fatalf("expected dropoff collection, got %s", k.CollectionType())
	}
}

func TestVariantActivation(t *testing.T) {
	if !NewDNAKit(Kit{}).IsActivated() {
		t.Fatalf("expected DNA kits to always be activated")
	}
	heart := NewHeartHealthKit(Kit{})
	if heart.IsActivated() {
		t.Fatalf("expected heart health kit without questionnaire to be inactive")
	}
	heart.Questionnaire = &Questionnaire{QuestionnaireID: "q1"}
	if !heart.IsActivated() {
		t.Fatalf("expected heart health kit with questionnaire to be active")
	}
	if heart.ProductType() != ProductTypeSnapshot || NewDNAKit(Kit{}).ProductType() != ProductTypeDNA {
		t.Fatalf("unexpected product types")
	}
}

func TestNewViewAndDetectLine(t *testing.T) {
	k := Kit{Tests: []Test{mkTest(UKSnapshotHeartHealth, KitStatusLab)}}
	line, ok := DetectLine(k)
	if !ok || line != LineHeartHealth {
		t.Fatalf("expected heart health line, got %q (ok=%v)", line, ok)
	}
	v, ok := NewView(k, line)
	if !ok {
		t.Fatalf("expected a view for %s", line)
	}
	if _, isHeart := v.(*HeartHealthKit); !isHeart {
		t.Fatalf("expected *HeartHealthKit, got %T", v)
	}
	if _, ok := DetectLine(Kit{Tests: []Test{mkTest("unknown-sku", KitStatusLab)}}); ok {
		t.Fatalf("expected unknown product to have no line")
	}
	if _, ok := NewView(k, ProductLine("other")); ok {
		t.Fatalf("expected unknown line to have no view")
	}
}
