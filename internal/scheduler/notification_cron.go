package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/jobs"
)

// StartScanCronJobs schedules the periodic inventory and purchasing
// scans and returns the running scheduler so callers can stop it.
func StartScanCronJobs(notifier *jobs.StockNotifier) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := notifier.RunLowStockScan(context.Background()); err != nil {
			logrus.WithError(err).Error("RunLowStockScan failed")
		}
	})

	c.AddFunc("@every 6h", func() {
		if err := notifier.RunStalePurchaseScan(context.Background()); err != nil {
			logrus.WithError(err).Error("RunStalePurchaseScan failed")
		}
	})

	c.Start()
	return c
}
