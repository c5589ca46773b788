package domain

import (
	"reflect"
	"testing"
)

func TestUpgradeOptions(t *testing.T) {
	tests := []struct {
		name  string
		tests []Test
		want  []string
	}{
		{"no tests", nil, nil},
		{"global vital lite", []Test{mkTest(GlobalVitalLite, KitStatusLab)}, []string{GlobalPremium, GlobalVital}},
		{"global health", []Test{mkTest(GlobalHealth, KitStatusLab)}, []string{GlobalPremium}},
		{"global premium", []Test{mkTest(GlobalPremium, KitStatusLab)}, nil},
		{"uk vital lite has no category", []Test{mkTest(UkVitalLite, KitStatusLab)}, nil},
		{"uk vital", []Test{mkTest(UkVital, KitStatusLab)}, []string{UkPremium}},
		{"artmed vital", []Test{mkTest(ArtmedVital, KitStatusLab)}, []string{ArtmedPremium}},
		{"ogath health", []Test{mkTest(OgathHealth, KitStatusLab)}, []string{OgathPremium}},
		{"bdmsth family planning", []Test{mkTest(BdmsthFamilyPlanning, KitStatusLab)}, []string{BdmsthPremium}},
		{"tasscare vital", []Test{mkTest(TasscareVital, KitStatusLab)}, nil},
		{"premium main test after upgrade", []Test{
			mkTest(GlobalVitalLite, TestStatusTerminated),
			mkTest(GlobalPremium, TestStatusReportReady),
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDNAKit(Kit{Tests: tt.tests}).UpgradeOptions()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUpgrading(t *testing.T) {
	tests := []struct {
		name          string
		tests         []Test
		wantUpgrading bool
		wantTarget    TestDefinition
	}{
		{
			name:  "single attempt",
			tests: []Test{mkTest(GlobalPremium, KitStatusLab)},
		},
		{
			name: "premium in flight over ready base",
			tests: []Test{
				mkTest(GlobalVitalLite, TestStatusReportReady),
				mkTest(GlobalPremium, KitStatusLab),
			},
			wantUpgrading: true,
			wantTarget:    DefinitionPremium,
		},
		{
			name: "vital in flight",
			tests: []Test{
				mkTest(GlobalVitalLite, TestStatusReportReady),
				mkTest(GlobalVital, TestStatusSourceReady),
			},
			wantUpgrading: true,
			wantTarget:    DefinitionVital,
		},
		{
			name: "premium preferred when both in flight",
			tests: []Test{
				mkTest(GlobalVitalLite, TestStatusReportReady),
				mkTest(GlobalVital, KitStatusLab),
				mkTest(GlobalPremium, KitStatusLab),
			},
			wantUpgrading: true,
			wantTarget:    DefinitionPremium,
		},
		{
			name: "another tier already delivered",
			tests: []Test{
				mkTest(GlobalVital, TestStatusReportReady),
				mkTest(GlobalPremium, TestStatusReportReady),
				mkTest(GlobalVital, KitStatusLab),
			},
		},
		{
			name: "upgrade terminated",
			tests: []Test{
				mkTest(GlobalVitalLite, TestStatusReportReady),
				mkTest(GlobalPremium, TestStatusTerminated),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewDNAKit(Kit{Tests: tt.tests})
			if got := k.IsUpgrading(); got != tt.wantUpgrading {
				t.Fatalf("expected upgrading=%v, got %v", tt.wantUpgrading, got)
			}
			target, ok := k.Upgrading()
			if ok != tt.wantUpgrading || target != tt.wantTarget {
				t.Fatalf("expected target %q (ok=%v), got %q (ok=%v)", tt.wantTarget, tt.wantUpgrading, target, ok)
			}
		})
	}
}

func TestUpgradeReady(t *testing.T) {
	premiumDone := NewDNAKit(Kit{Tests: []Test{
		mkTest(GlobalVitalLite, TestStatusTerminated),
		mkTest(GlobalPremium, TestStatusReportReady),
	}})
	if !premiumDone.IsPremiumUpgradeReady() {
		t.Fatalf("expected premium upgrade to be ready")
	}
	if premiumDone.IsVitalUpgradeReady() {
		t.Fatalf("expected vital upgrade not to be ready")
	}

	vitalDone := NewDNAKit(Kit{Tests: []Test{
		mkTest(GlobalHealth, TestStatusTerminated),
		mkTest(GlobalVital, TestStatusReportReady),
	}})
	if !vitalDone.IsVitalUpgradeReady() {
		t.Fatalf("expected vital upgrade to be ready")
	}

	baseLive := NewDNAKit(Kit{Tests: []Test{
		mkTest(GlobalVitalLite, TestStatusReportReady),
		mkTest(GlobalPremium, TestStatusReportReady),
	}})
	if baseLive.IsPremiumUpgradeReady() {
		t.Fatalf("expected upgrade readiness to require a terminated base attempt")
	}

	single := NewDNAKit(Kit{Tests: []Test{mkTest(GlobalPremium, TestStatusReportReady)}})
	if single.IsPremiumUpgradeReady() {
		t.Fatalf("expected a single attempt never to be an upgrade")
	}
}

func TestFindLatestKit(t *testing.T) {
	vital := []Test{mkTest(GlobalVital, KitStatusLab)}
	antibody := []Test{mkTest(HKSnapshotAntibody, KitStatusLab)}

	k1 := Kit{KitID: "k1", Profile: "p1", Tests: vital, History: []HistoryEntry{entry(KitStatusOrdered, 5)}}
	k2 := Kit{KitID: "k2", Profile: "p1", Tests: vital, History: []HistoryEntry{entry(KitStatusOrdered, 1), entry(KitStatusLab, 10)}}
	k3 := Kit{KitID: "k3", Profile: "p1", Tests: vital, History: []HistoryEntry{entry(KitStatusLab, 10)}}
	k4 := Kit{KitID: "k4", Profile: "p2", Tests: vital, History: []HistoryEntry{entry(KitStatusLab, 20)}}
	k5 := Kit{KitID: "k5", Profile: "p1", Tests: antibody, History: []HistoryEntry{entry(KitStatusLab, 30)}}
	k6 := Kit{KitID: "k6", Profile: "p1", Tests: vital}

	tests := []struct {
		name        string
		kits        []Kit
		profileID   string
		definitions []TestDefinition
		wantID      string
	}{
		{name: "later timestamp wins", kits: []Kit{k1, k2}, profileID: "p1", wantID: "k2"},
		{name: "tie keeps first listed", kits: []Kit{k3, k2}, profileID: "p1", wantID: "k3"},
		{name: "profile filter", kits: []Kit{k1, k4}, profileID: "p1", wantID: "k1"},
		{name: "no profile filter", kits: []Kit{k1, k4}, wantID: "k4"},
		{name: "definition filter", kits: []Kit{k1, k5}, profileID: "p1", definitions: DNADefinitions, wantID: "k1"},
		{name: "antibody only", kits: []Kit{k1, k5}, profileID: "p1", definitions: DefinitionsFor(LineAntibody), wantID: "k5"},
		{name: "empty history still selectable", kits: []Kit{k6}, profileID: "p1", wantID: "k6"},
		{name: "no match", kits: []Kit{k1, k2}, profileID: "p1", definitions: DefinitionsFor(LineHeartHealth)},
		{name: "empty input", kits: nil, profileID: "p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindLatestKit(tt.kits, tt.profileID, tt.definitions)
			if tt.wantID == "" {
				if ok {
					t.Fatalf("expected no kit, got %s", got.KitID)
				}
				return
			}
			if !ok || got.KitID != tt.wantID {
				t.Fatalf("expected %s, got %s (found=%v)", tt.wantID, got.KitID, ok)
			}
		})
	}
}
