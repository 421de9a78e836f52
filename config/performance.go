package config

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// SlowRequestThreshold marks requests worth a second log line.
const SlowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency and tenant.
func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		salon := c.GetString("salonId")
		if salon == "" {
			salon = "-"
		}

		log.Printf("[PERF] %s %s | Status: %d | Salon: %s | Time: %v",
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			salon,
			latency)

		if latency > SlowRequestThreshold {
			log.Printf("[PERF] SLOW REQUEST: %s %s took %v",
				c.Request.Method, c.Request.URL.Path, latency)
		}
	}
}
