package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jordanlanch/regbilling/pkg/cache"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/pricing"
	"github.com/stripe/stripe-go/v76"
)

const (
	metadataLowerLimit = "lowerlimit"
	metadataUpperLimit = "upperlimit"
	cacheType          = "redis"
)

// CacheObserver is told about catalog cache hits and misses.
type CacheObserver interface {
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
}

// Catalog loads the product's one-time price tiers, optionally through Redis.
type Catalog struct {
	gateway   Gateway
	productID string
	cache     *cache.Client
	ttl       time.Duration
	observer  CacheObserver
	log       logger.Logger
}

// NewCatalog creates a price catalog for productID. cacheClient may be nil.
func NewCatalog(gateway Gateway, productID string, cacheClient *cache.Client, ttl time.Duration, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.Default()
	}
	return &Catalog{
		gateway:   gateway,
		productID: productID,
		cache:     cacheClient,
		ttl:       ttl,
		log:       log.With("component", "catalog"),
	}
}

// SetCacheObserver sets the cache metrics sink.
func (c *Catalog) SetCacheObserver(o CacheObserver) {
	c.observer = o
}

func (c *Catalog) cacheKey() string {
	return "prices:" + c.productID
}

// Tiers returns the current one-time price tiers.
func (c *Catalog) Tiers(ctx context.Context) ([]pricing.Tier, error) {
	if c.cache != nil {
		var tiers []pricing.Tier
		err := c.cache.GetJSON(ctx, c.cacheKey(), &tiers)
		switch {
		case err == nil:
			c.recordCache(true)
			return tiers, nil
		case errors.Is(err, cache.ErrMiss):
			c.recordCache(false)
		default:
			c.recordCache(false)
			c.log.Warn("price cache read failed, falling back to Stripe", "error", err)
		}
	}

	return c.Refresh(ctx)
}

// Refresh reloads tiers from Stripe and rewrites the cache.
func (c *Catalog) Refresh(ctx context.Context) ([]pricing.Tier, error) {
	prices, err := c.gateway.ListPrices(ctx, c.productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	tiers := TiersFromPrices(prices)

	if c.cache != nil && c.ttl > 0 {
		if err := c.cache.SetJSON(ctx, c.cacheKey(), tiers, c.ttl); err != nil {
			c.log.Warn("price cache write failed", "error", err)
		}
	}

	return tiers, nil
}

// Quote resolves the price for a company size and computes its VAT breakdown.
func (c *Catalog) Quote(ctx context.Context, employees int) (*pricing.Quote, error) {
	tiers, err := c.Tiers(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewQuote(tiers, employees)
}

// ResolvePrice returns the tier price for a company size.
func (c *Catalog) ResolvePrice(ctx context.Context, employees int) (pricing.SelectedPrice, error) {
	tiers, err := c.Tiers(ctx)
	if err != nil {
		return pricing.SelectedPrice{}, err
	}
	return pricing.ResolveTier(tiers, employees)
}

func (c *Catalog) recordCache(hit bool) {
	if c.observer == nil {
		return
	}
	if hit {
		c.observer.RecordCacheHit(cacheType)
	} else {
		c.observer.RecordCacheMiss(cacheType)
	}
}

// TiersFromPrices keeps one-time prices and reads their employee band from metadata.
func TiersFromPrices(prices []*stripe.Price) []pricing.Tier {
	tiers := make([]pricing.Tier, 0, len(prices))
	for _, p := range prices {
		if p == nil || p.Type != stripe.PriceTypeOneTime {
			continue
		}

		tier := pricing.Tier{ID: p.ID}

		lower, lowerErr := parseLimit(p.Metadata[metadataLowerLimit])
		upper, upperErr := parseLimit(p.Metadata[metadataUpperLimit])
		if lowerErr == nil && upperErr == nil {
			tier.LowerLimit = lower
			tier.UpperLimit = upper
			tier.Ranged = true
		}

		if hasFixedAmount(p) {
			amount := p.UnitAmount
			tier.UnitAmount = &amount
		}

		tiers = append(tiers, tier)
	}
	return tiers
}

func parseLimit(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// Tiered and pay-what-you-want prices carry no unit amount.
func hasFixedAmount(p *stripe.Price) bool {
	if p.BillingScheme == stripe.PriceBillingSchemeTiered || p.CustomUnitAmount != nil {
		return false
	}
	return true
}
