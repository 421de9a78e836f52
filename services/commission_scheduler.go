package services

import (
	"context"
	"log"

	"salonbook-backend/utils"

	cron "github.com/robfig/cron/v3"
)

// StartCommissionBackfill schedules the all-salon backfill. An empty spec
// disables it and returns a nil cron.
func StartCommissionBackfill(commissions *CommissionService, spec string) (*cron.Cron, error) {
	if spec == "" {
		log.Println("[commission] backfill disabled")
		return nil, nil
	}
	return utils.StartDailyJob("commission backfill", spec, func() {
		summary, err := commissions.Backfill(context.Background(), nil)
		if err != nil {
			log.Printf("[commission] backfill failed: %v", err)
			return
		}
		log.Printf("[commission] backfill scanned=%d accrued=%d skipped=%d failed=%d",
			summary.Scanned, summary.Accrued, summary.Skipped, summary.Failed)
	})
}
