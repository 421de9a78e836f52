package utils

import (
	"log"

	cron "github.com/robfig/cron/v3"
)

// StartDailyJob runs job on the given cron spec until the returned cron is stopped.
func StartDailyJob(name, spec string, job func()) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		log.Printf("[cron] %s started", name)
		job()
		log.Printf("[cron] %s finished", name)
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[cron] %s scheduled (%s)", name, spec)
	return c, nil
}
