// Package checkout talks to the checkout service: kit replacement requests and
// upgrade pricing.
package checkout

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Customer is the shipping contact a replacement kit is sent to.
type Customer struct {
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,phone=CountryCode"`
	CountryCode  string `json:"countryCode" validate:"required,iso3166_1_alpha2"`
	Email        string `json:"email" validate:"required,email"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	District     string `json:"district,omitempty"`
	City         string `json:"city" validate:"required"`
	Province     string `json:"province,omitempty"`
	Country      string `json:"country" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
}

// Normalized trims every field and title-cases the customer name.
func (c Customer) Normalized() Customer {
	title := cases.Title(language.Und)
	out := Customer{
		FirstName:    title.String(strings.TrimSpace(c.FirstName)),
		LastName:     title.String(strings.TrimSpace(c.LastName)),
		Phone:        strings.TrimSpace(c.Phone),
		CountryCode:  strings.ToUpper(strings.TrimSpace(c.CountryCode)),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		AddressLine1: strings.TrimSpace(c.AddressLine1),
		AddressLine2: strings.TrimSpace(c.AddressLine2),
		District:     strings.TrimSpace(c.District),
		City:         strings.TrimSpace(c.City),
		Province:     strings.TrimSpace(c.Province),
		Country:      strings.TrimSpace(c.Country),
		PostalCode:   strings.TrimSpace(c.PostalCode),
	}
	return out
}

// ReplacementRequest is the body of a replacement request.
type ReplacementRequest struct {
	Customer
	Language string `json:"language" validate:"required"`
	KitID    string `json:"kitId" validate:"required"`
}

type replacementResponse struct {
	KitID string `json:"kitId"`
}

// ProductPricing is a price point of a product.
type ProductPricing struct {
	ProductPricingID string  `json:"productPricingId"`
	CurrencyCode     string  `json:"currencyCode"`
	Amount           float64 `json:"amount"`
	ValidFrom        string  `json:"validFrom,omitempty"`
	ValidTo          string  `json:"validTo,omitempty"`
	Active           bool    `json:"active"`
}

// Product is a purchasable product.
type Product struct {
	ProductID      string           `json:"productId"`
	ProductCode    string           `json:"productCode"`
	Active         bool             `json:"active"`
	ProductPricing []ProductPricing `json:"productPricing"`
}

// UpgradePricing is the price of moving a kit from one product to another.
type UpgradePricing struct {
	UpgradePricingID string  `json:"upgradePricingId"`
	CurrencyCode     string  `json:"currencyCode"`
	Amount           float64 `json:"amount"`
	ValidFrom        string  `json:"validFrom,omitempty"`
	ValidTo          string  `json:"validTo,omitempty"`
	Active           bool    `json:"active"`
	FromProduct      Product `json:"fromProduct"`
	ToProduct        Product `json:"toProduct"`
}

// UpgradeOption selects a from/to product pair.
type UpgradeOption struct {
	From string `json:"from" form:"from"`
	To   string `json:"to" form:"to"`
}

// FilterPricing keeps the entries matching option. A nil option keeps all.
func FilterPricing(pricing []UpgradePricing, option *UpgradeOption) []UpgradePricing {
	if option == nil {
		return pricing
	}
	out := make([]UpgradePricing, 0, len(pricing))
	for _, p := range pricing {
		if p.FromProduct.ProductCode == option.From && p.ToProduct.ProductCode == option.To {
			out = append(out, p)
		}
	}
	return out
}

type cachedPricing struct {
	Pricing  []UpgradePricing `json:"pricing"`
	CachedAt time.Time        `json:"cachedAt"`
}
