package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// Pinger is the part of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// SystemHandler serves the health endpoint.
type SystemHandler struct {
	*BaseHandler
	db Pinger
}

// NewSystemHandler reports on db; a nil db is reported as not initialized.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{BaseHandler: NewBaseHandler(), db: db}
}

// HandleHealth answers 200 when the database answers a ping, 503 otherwise.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if h.db == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return h.unavailable(c, healthData)
	}
	if err := h.db.Ping(ctx, nil); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return h.unavailable(c, healthData)
	}
	services["database"] = "ok"

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}

func (h *SystemHandler) unavailable(c fiber.Ctx, data fiber.Map) error {
	return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
		"code":    common.StatusServiceUnavailable,
		"message": "Service unavailable",
		"data":    data,
		"status":  "error",
	})
}
