package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedules for the billing jobs.
const (
	CatalogRefreshSchedule = "0 * * * *"
	FailureReportSchedule  = "0 7 * * *"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron    *cron.Cron
	monitor *BillingMonitor
	logger  *log.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(monitor *BillingMonitor, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(logger)))),
		monitor: monitor,
		logger:  logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	// Hourly: reload the price catalog so tier changes reach the cache
	_, err := cm.cron.AddFunc(CatalogRefreshSchedule, cm.refreshCatalog)
	if err != nil {
		return err
	}

	// Daily at 7 AM: report yesterday's failed flows
	_, err = cm.cron.AddFunc(FailureReportSchedule, cm.reportFailures)
	if err != nil {
		return err
	}

	cm.logger.Println("✅ Cron jobs configured successfully")
	cm.logger.Println("  - Hourly: Refresh price catalog")
	cm.logger.Println("  - Daily at 7 AM: Report failed registrations")

	return nil
}

func (cm *CronManager) refreshCatalog() {
	cm.logger.Println("🕐 Running catalog refresh job...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := cm.monitor.RefreshCatalog(ctx)
	if errors.Is(err, ErrRefreshInProgress) {
		return
	}
	if err != nil {
		cm.logger.Printf("❌ Catalog refresh failed: %v", err)
		return
	}
	cm.logger.Printf("✅ Catalog refresh completed (%d tiers)", n)
}

func (cm *CronManager) reportFailures() {
	cm.logger.Println("🕐 Running failure report job...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	counts, err := cm.monitor.ReportFailures(ctx, 24*time.Hour)
	if err != nil {
		cm.logger.Printf("❌ Failure report failed: %v", err)
		return
	}
	cm.logger.Printf("✅ Failure report completed (%d flows with failures)", len(counts))
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("🚀 Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the cron scheduler and waits for running jobs
func (cm *CronManager) Stop() context.Context {
	cm.logger.Println("🛑 Stopping cron scheduler...")
	return cm.cron.Stop()
}

// Entries returns the number of scheduled jobs.
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// GetMonitor returns the billing monitor (for manual triggers)
func (cm *CronManager) GetMonitor() *BillingMonitor {
	return cm.monitor
}
