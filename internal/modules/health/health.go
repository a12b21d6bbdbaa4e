package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// RegisterRoutes mounts the liveness endpoint. It reports database
// reachability so load balancers can pull a wedged instance.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	rg.GET("/healthz", func(c *gin.Context) {
		dbOK := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbOK = false
		}

		status := http.StatusOK
		if !dbOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":        dbOK,
			"database":  dbOK,
			"uptime_ms": time.Since(startedAt).Milliseconds(),
		})
	})
}
