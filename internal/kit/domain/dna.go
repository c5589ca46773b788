package domain

// DNAKit is a genetic test kit. It has an extraction stage and can be upgraded.
type DNAKit struct {
	Kit
}

var (
	_ View     = (*DNAKit)(nil)
	_ Upgrader = (*DNAKit)(nil)
)

// NewDNAKit wraps k as a DNA kit.
func NewDNAKit(k Kit) *DNAKit {
	return &DNAKit{Kit: k}
}

// Line returns LineDNA.
func (k *DNAKit) Line() ProductLine { return LineDNA }

// ProductType returns ProductTypeDNA.
func (k *DNAKit) ProductType() ProductType { return ProductTypeDNA }

// IsActivated is always true: a DNA kit is activated by being linked to a profile.
func (k *DNAKit) IsActivated() bool { return true }

// MainTest selects the representative attempt, preferring a reported Premium
// attempt over other reported ones.
func (k *DNAKit) MainTest() (Test, bool) {
	return SelectMainTest(k.Tests, true)
}

// MainTestDefinition classifies the main test.
func (k *DNAKit) MainTestDefinition() (TestDefinition, bool) {
	return mainTestDefinition(k.Tests, true)
}

// IsReportReady reports whether the main test has its report.
func (k *DNAKit) IsReportReady() bool {
	main, ok := k.MainTest()
	return ok && main.Status == TestStatusReportReady
}

// Stages derives Received, Extracted, Analysed and Report from the kit
// status, its extraction and the main test.
func (k *DNAKit) Stages() Stages {
	switch k.Status {
	case KitStatusReady:
		return k.readyStages()
	case KitStatusRejected:
		return rejectedStages(&k.Kit, dnaStageOrder, TestStatusSourceReady)
	default:
		return newStageBuilder(dnaStageOrder).pending(StageReceived).build()
	}
}

// CurrentStage is Stages().Current().
func (k *DNAKit) CurrentStage() (StageInfo, bool) {
	return k.Stages().Current()
}

func (k *DNAKit) readyStages() Stages {
	b := newStageBuilder(dnaStageOrder)
	main, _ := k.MainTest()
	ext, hasExt := k.primaryExtraction()

	b.completed(StageReceived, statusDate(k.History, KitStatusReady))

	switch {
	case main.Status == TestStatusReportReady:
		return b.completed(StageExtracted, statusDate(ext.History, KitStatusReady)).
			completed(StageAnalysed, latestTestDate(k.Tests, TestStatusSourceReady)).
			completed(StageReport, latestTestDate(k.Tests, TestStatusReportReady)).
			build()
	case hasHistory(main.History, TestStatusSourceReady):
		return b.completed(StageExtracted, statusDate(ext.History, KitStatusReady)).
			completed(StageAnalysed, latestTestDate(k.Tests, TestStatusSourceReady)).
			pending(StageReport).
			build()
	case hasExt && ext.Status == KitStatusReady:
		return b.completed(StageExtracted, statusDate(ext.History, KitStatusReady)).
			pending(StageAnalysed).
			build()
	default:
		return b.pending(StageExtracted).build()
	}
}

// UpgradeOptions lists the product names the kit can be upgraded to. Premium
// kits and kits without a main test have none.
func (k *DNAKit) UpgradeOptions() []string {
	main, ok := k.MainTest()
	if !ok || IsMaximalTier(main.Name) {
		return nil
	}
	category, _ := ClassifyCategory(main.Name)
	switch category {
	case CategoryGlobal:
		if main.Name == GlobalVitalLite {
			return []string{GlobalPremium, GlobalVital}
		}
		return []string{GlobalPremium}
	case CategoryUk:
		return []string{UkPremium}
	case CategoryArtmed:
		return []string{ArtmedPremium}
	case CategoryOgath:
		return []string{OgathPremium}
	case CategoryBdmsth:
		return []string{BdmsthPremium}
	default:
		// Tasscare, and uk-vital-lite which belongs to no category.
		return nil
	}
}

// IsUpgrading reports whether a Premium or Vital attempt is still in the lab
// and no other Premium or Vital attempt has already delivered its report.
func (k *DNAKit) IsUpgrading() bool {
	if len(k.Tests) <= 1 {
		return false
	}
	main, _ := k.MainTest()

	inFlight := false
	for _, t := range k.Tests {
		if !testHasDefinition(t, DefinitionPremium, DefinitionVital) {
			continue
		}
		if t.Status == TestStatusReportReady && t.Name != main.Name {
			return false
		}
		if t.Status != TestStatusReportReady && t.Status != TestStatusTerminated {
			inFlight = true
		}
	}
	return inFlight
}

// Upgrading returns the tier being upgraded to. Premium wins when both a
// Premium and a Vital attempt are in flight.
func (k *DNAKit) Upgrading() (TestDefinition, bool) {
	if !k.IsUpgrading() {
		return "", false
	}
	for _, t := range k.Tests {
		if testHasDefinition(t, DefinitionPremium) &&
			t.Status != TestStatusReportReady && t.Status != TestStatusTerminated {
			return DefinitionPremium, true
		}
	}
	return DefinitionVital, true
}

// IsPremiumUpgradeReady reports whether a Premium upgrade delivered its report.
func (k *DNAKit) IsPremiumUpgradeReady() bool {
	return k.upgradeReady(DefinitionPremium)
}

// IsVitalUpgradeReady reports whether a Vital upgrade delivered its report.
func (k *DNAKit) IsVitalUpgradeReady() bool {
	return k.upgradeReady(DefinitionVital)
}

// upgradeReady holds once the upgraded attempt has its report and the base
// attempt it replaced was terminated.
func (k *DNAKit) upgradeReady(target TestDefinition) bool {
	if len(k.Tests) <= 1 {
		return false
	}
	targetReady, baseTerminated := false, false
	for _, t := range k.Tests {
		if testHasDefinition(t, target) && t.Status == TestStatusReportReady {
			targetReady = true
		}
		if testHasDefinition(t, DefinitionVital, DefinitionVitalLite, DefinitionHealth, DefinitionFamilyPlanning) &&
			t.Status == TestStatusTerminated {
			baseTerminated = true
		}
	}
	return targetReady && baseTerminated
}

func hasHistory(history []HistoryEntry, status string) bool {
	_, ok := FindStatusDate(history, status)
	return ok
}
