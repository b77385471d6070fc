package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the caja backend and its two dependencies.
// Only an up/down flag per dependency, never connection details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}
		redisEstado := "ok"
		if rdb.Ping(ctx).Err() != nil {
			redisEstado = "down"
		}

		status := http.StatusOK
		if postgres != "ok" || redisEstado != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"servicio": "ferreteria-caja",
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"redis":    redisEstado,
		})
	}
}
