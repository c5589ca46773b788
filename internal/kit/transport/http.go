package transport

import (
	"kitportal/internal/booking"
	"kitportal/internal/checkout"
	"kitportal/internal/kit/domain"
)

// Request DTOs served by the kit HTTP module.

type ActivateBarcodeRequest struct {
	Barcode   string `json:"barcode" validate:"required"`
	ProfileID string `json:"profileId" validate:"required"`
}

type ReplacementBody struct {
	Customer checkout.Customer `json:"customer"`
	Language string            `json:"language"`
}

type ReplacementResponse struct {
	KitID string `json:"kitId"`
}

type AddMetadataBody struct {
	Type    domain.MetadataType `json:"type" validate:"required"`
	Content string              `json:"content" validate:"required"`
}

type SetProfileRequest struct {
	Profile domain.Profile `json:"profile"`
}

type PDFRequest struct {
	ProfileID string `json:"profileId" validate:"required"`
}

// UpgradeView summarises the upgrade state of a DNA kit.
type UpgradeView struct {
	Options      []string              `json:"options"`
	Upgrading    bool                  `json:"upgrading"`
	Target       domain.TestDefinition `json:"target,omitempty"`
	PremiumReady bool                  `json:"premiumReady"`
	VitalReady   bool                  `json:"vitalReady"`
}

// KitView is a kit with everything derived from it.
type KitView struct {
	KitID          string                 `json:"kitId" yaml:"kitId"`
	Barcode        string                 `json:"barcode" yaml:"barcode"`
	Profile        string                 `json:"profile" yaml:"profile"`
	Status         string                 `json:"status" yaml:"status"`
	Line           domain.ProductLine     `json:"line,omitempty" yaml:"line,omitempty"`
	ProductType    domain.ProductType     `json:"productType,omitempty" yaml:"productType,omitempty"`
	MainTest       string                 `json:"mainTest,omitempty" yaml:"mainTest,omitempty"`
	Definition     domain.TestDefinition  `json:"definition,omitempty" yaml:"definition,omitempty"`
	Activated      bool                   `json:"activated" yaml:"activated"`
	ReportReady    bool                   `json:"reportReady" yaml:"reportReady"`
	Stages         domain.Stages          `json:"stages,omitempty" yaml:"stages,omitempty"`
	CurrentStage   *domain.StageInfo      `json:"currentStage,omitempty" yaml:"currentStage,omitempty"`
	Upgrade        *UpgradeView           `json:"upgrade,omitempty" yaml:"upgrade,omitempty"`
	CollectionType booking.CollectionType `json:"collectionType,omitempty" yaml:"collectionType,omitempty"`
	NeedsPickup    bool                   `json:"needsPickup,omitempty" yaml:"needsPickup,omitempty"`
}

// NewKitView derives the view of a kit variant.
func NewKitView(v domain.View) KitView {
	k := v.Record()
	out := KitView{
		KitID:       k.KitID,
		Barcode:     k.Barcode,
		Profile:     k.Profile,
		Status:      string(k.Status),
		Line:        v.Line(),
		ProductType: v.ProductType(),
		Activated:   v.IsActivated(),
		ReportReady: v.IsReportReady(),
		Stages:      v.Stages(),
	}
	if main, ok := v.MainTest(); ok {
		out.MainTest = main.Name
	}
	if def, ok := v.MainTestDefinition(); ok {
		out.Definition = def
	}
	if cur, ok := out.Stages.Current(); ok {
		out.CurrentStage = &cur
	}

	switch variant := v.(type) {
	case domain.Upgrader:
		target, _ := variant.Upgrading()
		out.Upgrade = &UpgradeView{
			Options:      variant.UpgradeOptions(),
			Upgrading:    variant.IsUpgrading(),
			Target:       target,
			PremiumReady: variant.IsPremiumUpgradeReady(),
			VitalReady:   variant.IsVitalUpgradeReady(),
		}
	case *domain.AntibodyKit:
		out.CollectionType = variant.CollectionType()
		out.NeedsPickup = variant.NeedsPickup()
	}
	return out
}

// ViewOf wraps a raw kit in the variant of its detected line. Kits of an
// unknown product only carry their identity and status.
func ViewOf(k domain.Kit) KitView {
	line, ok := domain.DetectLine(k)
	if ok {
		if v, ok := domain.NewView(k, line); ok {
			return NewKitView(v)
		}
	}
	return KitView{KitID: k.KitID, Barcode: k.Barcode, Profile: k.Profile, Status: string(k.Status)}
}
