package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jordanlanch/regbilling/pkg/cache"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/pricing"
	"github.com/jordanlanch/regbilling/pkg/registration"
)

// ErrRefreshInProgress is returned when another instance holds the refresh lock.
var ErrRefreshInProgress = errors.New("catalog refresh already in progress")

// CatalogRefresher reloads the price tiers from the billing provider.
type CatalogRefresher interface {
	Refresh(ctx context.Context) ([]pricing.Tier, error)
}

// OutcomeCounter counts recorded flow outcomes.
type OutcomeCounter interface {
	CountByOutcome(ctx context.Context, flow, outcome string, since time.Time) (int, error)
}

// FailureReporter publishes a failure summary.
type FailureReporter interface {
	NotifyFailureSummary(ctx context.Context, failures map[string]int, since time.Time) error
}

// BillingMonitor runs the background billing jobs.
type BillingMonitor struct {
	catalog  CatalogRefresher
	cache    *cache.Client
	counter  OutcomeCounter
	reporter FailureReporter
	log      logger.Logger

	productID string
	lockTTL   time.Duration
}

// NewBillingMonitor creates a new billing monitor. cache, counter and reporter
// may be nil; the matching features are then skipped.
func NewBillingMonitor(catalog CatalogRefresher, productID string, cacheClient *cache.Client, counter OutcomeCounter, reporter FailureReporter, log logger.Logger) *BillingMonitor {
	if log == nil {
		log = logger.Default()
	}

	return &BillingMonitor{
		catalog:   catalog,
		cache:     cacheClient,
		counter:   counter,
		reporter:  reporter,
		log:       log.With("component", "jobs"),
		productID: productID,
		lockTTL:   5 * time.Minute,
	}
}

// LockKey generates the cache key guarding a catalog refresh
func (m *BillingMonitor) LockKey() string {
	return fmt.Sprintf("catalog_refresh:%s", m.productID)
}

// RefreshCatalog reloads the price tiers unless another instance is already doing it.
func (m *BillingMonitor) RefreshCatalog(ctx context.Context) (int, error) {
	acquired, err := m.acquireLock(ctx)
	if err != nil {
		m.log.Warn("failed to take catalog refresh lock", "error", err)
	} else if !acquired {
		m.log.Info("catalog refresh already in progress, skipping", "product_id", m.productID)
		return 0, ErrRefreshInProgress
	}
	defer m.releaseLock(acquired)

	started := time.Now()
	tiers, err := m.catalog.Refresh(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh catalog: %w", err)
	}

	m.log.Info("catalog refreshed", "product_id", m.productID, "tiers", len(tiers),
		"duration_ms", time.Since(started).Milliseconds())
	return len(tiers), nil
}

func (m *BillingMonitor) acquireLock(ctx context.Context) (bool, error) {
	if m.cache == nil {
		return true, nil
	}
	return m.cache.Redis.SetNX(ctx, m.LockKey(), time.Now().Unix(), m.lockTTL).Result()
}

func (m *BillingMonitor) releaseLock(acquired bool) {
	if m.cache == nil || !acquired {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.cache.Delete(ctx, m.LockKey()); err != nil {
		m.log.Warn("failed to release catalog refresh lock", "error", err)
	}
}

// FailureCounts returns the failed flows since the given time. Flows without
// failures are left out.
func (m *BillingMonitor) FailureCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	if m.counter == nil {
		return counts, nil
	}

	for _, flow := range registration.Flows {
		n, err := m.counter.CountByOutcome(ctx, flow, registration.OutcomeFailure, since)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s failures: %w", flow, err)
		}
		if n > 0 {
			counts[flow] = n
		}
	}
	return counts, nil
}

// ReportFailures posts the failure summary for the window ending now.
func (m *BillingMonitor) ReportFailures(ctx context.Context, window time.Duration) (map[string]int, error) {
	since := time.Now().Add(-window)
	counts, err := m.FailureCounts(ctx, since)
	if err != nil {
		return nil, err
	}

	if len(counts) == 0 {
		m.log.Info("no failed registration flows", "window", window.String())
		return counts, nil
	}

	m.log.Warn("failed registration flows", "window", window.String(), "counts", counts)
	if m.reporter != nil {
		if err := m.reporter.NotifyFailureSummary(ctx, counts, since); err != nil {
			return counts, fmt.Errorf("failed to send failure summary: %w", err)
		}
	}
	return counts, nil
}
