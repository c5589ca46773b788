package checkout

import (
	"context"
	"time"

	"kitportal/platform/logger"
)

type pricingSource interface {
	GetUpgradePricing(ctx context.Context, token string) ([]UpgradePricing, error)
}

// PricingService serves upgrade pricing through a cache.
type PricingService struct {
	source pricingSource
	cache  PricingCache
	ttl    time.Duration
	log    *logger.Logger
}

// NewPricingService creates a pricing service. A nil cache disables caching.
func NewPricingService(source pricingSource, cache PricingCache, ttl time.Duration, log *logger.Logger) *PricingService {
	return &PricingService{source: source, cache: cache, ttl: ttl, log: log}
}

// UpgradePricing returns the pricing visible to token, filtered by option when
// one is given. Cache failures fall through to the checkout service.
func (s *PricingService) UpgradePricing(ctx context.Context, token string, option *UpgradeOption) ([]UpgradePricing, error) {
	key := cacheKey(token)

	if s.cache != nil {
		pricing, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("pricing cache read failed", "error", err)
		} else if ok {
			return FilterPricing(pricing, option), nil
		}
	}

	pricing, err := s.source.GetUpgradePricing(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, pricing, s.ttl); err != nil {
			s.log.Warn("pricing cache write failed", "error", err)
		}
	}
	return FilterPricing(pricing, option), nil
}
