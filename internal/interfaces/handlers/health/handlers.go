package health

import (
	"context"
	"strconv"
	"time"

	"cosmed-backend/internal/middleware"
	"cosmed-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger abstracts the database liveness check.
type DBPinger interface {
	Ping() error
}

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
}

// JSON GET /health/json — service status, traffic counters, dependency pings.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()

	deps := fiber.Map{}
	status := "ok"

	if h.Rdb != nil {
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = "down"
			status = "degraded"
		} else {
			deps["redis"] = "ok"
		}
	}
	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			deps["database"] = "down"
			status = "degraded"
		} else {
			deps["database"] = "ok"
		}
	}

	traffic := fiber.Map{}
	if h.Rdb != nil {
		total, _ := h.Rdb.Get(ctx, middleware.KeyReqTotal).Int64()
		errs, _ := h.Rdb.Get(ctx, middleware.KeyReqErrors).Int64()
		resCount, _ := h.Rdb.Get(ctx, middleware.KeyResCount).Int64()
		resTime, _ := h.Rdb.Get(ctx, middleware.KeyResTime).Float64()
		traffic["requests"] = total
		traffic["errors"] = errs
		if resCount > 0 {
			traffic["avg_response_ms"] = resTime / float64(resCount)
		}
	}

	return c.JSON(fiber.Map{
		"service":      "cosmed-api",
		"status":       status,
		"time":         time.Now().UTC(),
		"traffic":      traffic,
		"dependencies": deps,
	})
}

// Reset GET /reset — clears health stats. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	ctx := context.Background()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}
