package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStatus is a snapshot of the connection pool exposed by the health
// endpoint.
type PoolStatus struct {
	Total       int32  `json:"total"`
	Idle        int32  `json:"idle"`
	InUse       int32  `json:"in_use"`
	Max         int32  `json:"max"`
	Acquires    int64  `json:"acquires"`
	AcquireWait string `json:"acquire_wait"`
	Reachable   bool   `json:"reachable"`
}

// PoolStatusOf samples the pool counters.
func PoolStatusOf(pool *pgxpool.Pool) *PoolStatus {
	stat := pool.Stat()
	return &PoolStatus{
		Total:       stat.TotalConns(),
		Idle:        stat.IdleConns(),
		InUse:       stat.AcquiredConns(),
		Max:         stat.MaxConns(),
		Acquires:    stat.AcquireCount(),
		AcquireWait: stat.AcquireDuration().String(),
		Reachable:   stat.TotalConns() > 0,
	}
}

// HealthHandler answers the database health endpoint with a ping result and
// the pool snapshot.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		status := PoolStatusOf(pool)
		if err := pool.Ping(ctx); err != nil {
			status.Reachable = false
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "degraded",
				"error":    err.Error(),
				"database": status,
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": status,
		})
	}
}
