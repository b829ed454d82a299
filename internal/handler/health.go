package handler

import (
	"context"
	"net/http"
	"time"

	"gastroplan/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports the depth of the
// notification queue and its dead-letter list. A growing DLQ with a
// "connected" redis means the SMTP relay is the thing that is down.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var cola, dlq int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			cola = rdb.LLen(ctx, worker.QueueNotificaciones).Val()
			dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueNotificaciones)
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":                  status == http.StatusOK,
			"db":                  dbStatus,
			"redis":               redisStatus,
			"cola_notificaciones": cola,
			"dlq_notificaciones":  dlq,
		})
	}
}
