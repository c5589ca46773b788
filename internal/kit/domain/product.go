package domain

// Product names as sold. Test.Name carries one of these.
const (
	GlobalFamilyPlanning = "global-family-planning"
	GlobalHealth         = "global-health"
	GlobalHealthPlus     = "global-health-plus"
	GlobalPremium        = "global-premium"
	GlobalVital          = "global-vital"
	GlobalVitalLite      = "global-vital-lite"

	UkFamilyPlanning = "uk-family-planning"
	UkHealth         = "uk-health"
	UkPremium        = "uk-premium"
	UkVital          = "uk-vital"
	UkVitalLite      = "uk-vital-lite"

	TasscareFamilyPlanning = "tasscare-family-planning"
	TasscareHealth         = "tasscare-health"
	TasscarePremium        = "tasscare-premium"
	TasscareVital          = "tasscare-vital"

	ArtmedVital          = "artmed-vital"
	ArtmedHealth         = "artmed-health"
	ArtmedFamilyPlanning = "artmed-family-planning"
	ArtmedPremium        = "artmed-premium"

	OgathVital          = "ogath-vital"
	OgathHealth         = "ogath-health"
	OgathFamilyPlanning = "ogath-family-planning"
	OgathPremium        = "ogath-premium"

	BdmsthVital          = "bdmsth-vital"
	BdmsthHealth         = "bdmsth-health"
	BdmsthFamilyPlanning = "bdmsth-family-planning"
	BdmsthPremium        = "bdmsth-premium"

	HKSnapshotAntibody    = "hk-snapshot-antibody"
	UKSnapshotHeartHealth = "uk-snapshot-heart-health"
)

// TestDefinition is the semantic tier of a product.
type TestDefinition string

const (
	DefinitionFamilyPlanning TestDefinition = "family-planning"
	DefinitionHealth         TestDefinition = "health"
	DefinitionHealthPlus     TestDefinition = "health-plus"
	DefinitionPremium        TestDefinition = "premium"
	DefinitionVital          TestDefinition = "vital"
	DefinitionVitalLite      TestDefinition = "vital-lite"
	DefinitionAntibody       TestDefinition = "antibody"
	DefinitionHeartHealth    TestDefinition = "heart-health"
)

// DNADefinitions are the definitions a DNA kit can carry.
var DNADefinitions = []TestDefinition{
	DefinitionFamilyPlanning,
	DefinitionHealth,
	DefinitionHealthPlus,
	DefinitionPremium,
	DefinitionVital,
	DefinitionVitalLite,
}

// ProductCategory is the region or partner a product is sold under.
type ProductCategory string

const (
	CategoryGlobal   ProductCategory = "global"
	CategoryUk       ProductCategory = "uk"
	CategoryTasscare ProductCategory = "tasscare"
	CategoryArtmed   ProductCategory = "artmed"
	CategoryOgath    ProductCategory = "ogath"
	CategoryBdmsth   ProductCategory = "bdmsth"
	CategoryAntibody ProductCategory = "antibody"
)

// ProductType separates genetic kits from snapshot blood kits.
type ProductType string

const (
	ProductTypeDNA      ProductType = "dna"
	ProductTypeSnapshot ProductType = "snapshot"
)

// ProductLine selects which kit variant wraps a raw kit.
type ProductLine string

const (
	LineDNA         ProductLine = "dna"
	LineAntibody    ProductLine = "antibody"
	LineHeartHealth ProductLine = "heart-health"
)

// ClassifyDefinition maps a product name to its definition. Unknown names
// yield false.
func ClassifyDefinition(name string) (TestDefinition, bool) {
	switch name {
	case GlobalFamilyPlanning, UkFamilyPlanning, TasscareFamilyPlanning,
		ArtmedFamilyPlanning, OgathFamilyPlanning, BdmsthFamilyPlanning:
		return DefinitionFamilyPlanning, true
	case GlobalHealth, UkHealth, TasscareHealth, ArtmedHealth, OgathHealth, BdmsthHealth:
		return DefinitionHealth, true
	case GlobalHealthPlus:
		return DefinitionHealthPlus, true
	case GlobalVital, UkVital, TasscareVital, ArtmedVital, OgathVital, BdmsthVital:
		return DefinitionVital, true
	case GlobalVitalLite, UkVitalLite:
		return DefinitionVitalLite, true
	case GlobalPremium, UkPremium, TasscarePremium, ArtmedPremium, OgathPremium, BdmsthPremium:
		return DefinitionPremium, true
	case HKSnapshotAntibody:
		return DefinitionAntibody, true
	case UKSnapshotHeartHealth:
		return DefinitionHeartHealth, true
	default:
		return "", false
	}
}

// ClassifyCategory maps a product name to the category driving its upgrade
// path. uk-vital-lite and the heart health product have no category.
func ClassifyCategory(name string) (ProductCategory, bool) {
	switch name {
	case GlobalFamilyPlanning, GlobalHealth, GlobalHealthPlus, GlobalVital,
		GlobalVitalLite, GlobalPremium, HKSnapshotAntibody:
		return CategoryGlobal, true
	case ArtmedFamilyPlanning, ArtmedHealth, ArtmedPremium, ArtmedVital:
		return CategoryArtmed, true
	case OgathFamilyPlanning, OgathHealth, OgathPremium, OgathVital:
		return CategoryOgath, true
	case UkFamilyPlanning, UkHealth, UkPremium, UkVital:
		return CategoryUk, true
	case TasscareFamilyPlanning, TasscareHealth, TasscarePremium, TasscareVital:
		return CategoryTasscare, true
	case BdmsthFamilyPlanning, BdmsthHealth, BdmsthPremium, BdmsthVital:
		return CategoryBdmsth, true
	default:
		return "", false
	}
}

// IsMaximalTier reports whether name is a Premium product.
func IsMaximalTier(name string) bool {
	def, ok := ClassifyDefinition(name)
	return ok && def == DefinitionPremium
}

// LineForDefinition returns the product line that handles def.
func LineForDefinition(def TestDefinition) (ProductLine, bool) {
	switch def {
	case DefinitionAntibody:
		return LineAntibody, true
	case DefinitionHeartHealth:
		return LineHeartHealth, true
	default:
		for _, d := range DNADefinitions {
			if d == def {
				return LineDNA, true
			}
		}
		return "", false
	}
}

// DefinitionsFor returns the definitions the default-kit selector accepts for line.
func DefinitionsFor(line ProductLine) []TestDefinition {
	switch line {
	case LineDNA:
		return DNADefinitions
	case LineAntibody:
		return []TestDefinition{DefinitionAntibody}
	case LineHeartHealth:
		return []TestDefinition{DefinitionHeartHealth}
	default:
		return nil
	}
}

func definitionIn(def TestDefinition, set ...TestDefinition) bool {
	for _, d := range set {
		if d == def {
			return true
		}
	}
	return false
}

func testHasDefinition(t Test, set ...TestDefinition) bool {
	def, ok := ClassifyDefinition(t.Name)
	return ok && definitionIn(def, set...)
}
