// Package service implements the kit orchestration controller: it owns a
// session's kit list, derives the default kit per product line and runs the
// kit commands (activation, replacement, metadata).
package service

import (
	"context"

	"kitportal/internal/booking"
	"kitportal/internal/checkout"
	"kitportal/internal/kit/domain"
)

// KitSource is the kit service as seen by the controller.
type KitSource interface {
	GetKits(ctx context.Context, productLine, token string) ([]domain.Kit, error)
	ActivateBarcode(ctx context.Context, profileID, barcode, token string) (domain.ActivatedKit, error)
	GetMetadata(ctx context.Context, kitID, token string) ([]domain.Metadata, error)
	AddMetadata(ctx context.Context, kitID string, metadataType domain.MetadataType, content, token string) (domain.Metadata, error)
}

// BookingSource looks up the bookings of a kit.
type BookingSource interface {
	GetBookings(ctx context.Context, kitID, token string) ([]booking.Booking, error)
}

// ReplacementOrderer orders replacement kits.
type ReplacementOrderer interface {
	PostKitReplacementRequest(ctx context.Context, req checkout.ReplacementRequest, token string) (string, error)
}

// PricingSource serves upgrade pricing.
type PricingSource interface {
	UpgradePricing(ctx context.Context, token string, option *checkout.UpgradeOption) ([]checkout.UpgradePricing, error)
}
