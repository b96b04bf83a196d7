package monitoring

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"gorm.io/gorm"
)

const (
	statusUp            = "up"
	statusDown          = "down"
	statusNotConfigured = "not_configured"

	readinessTimeout = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the liveness body. It never touches a dependency.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ReadinessStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Uptime   int    `json:"uptime"` // seconds
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache, startedAt time.Time) *router.RESTController {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		startTime: startedAt,
	}

	return router.NewVersionedRESTController(
		"MonitoringController",
		"v1",
		"/health",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "", ctrl.health)
			routerService.AddGetHandler(controller, "ready", ctrl.readiness)
		},
	)
}

func (ctrl *MonitoringController) health(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult(HealthResponse{Status: "ok", Message: "API is running."}, "API is running.")
}

func (ctrl *MonitoringController) readiness(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := ctrl.performReadinessChecks(ctx, logger)
	if status.Database != statusUp {
		return router.ServiceUnavailableResult(status, "Service not ready")
	}

	return router.OKResult(status, "Service ready")
}

func (ctrl *MonitoringController) performReadinessChecks(ctx context.Context, logger *log.Logger) ReadinessStatus {
	status := ReadinessStatus{
		Status: "ok",
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)
	checkCacheConnectivity(ctx, ctrl, &status, logger)

	if status.Database != statusUp {
		status.Status = "unavailable"
	} else if status.Cache == statusDown {
		status.Status = "degraded"
	}

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *ReadinessStatus, logger *log.Logger) {
	if ctrl.cache == nil {
		status.Cache = statusNotConfigured
		return
	}

	if err := ctrl.cache.Ping(ctx); err != nil {
		status.Cache = statusDown
		logger.Error("Cache health check failed", "error", err)
		return
	}
	status.Cache = statusUp
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *ReadinessStatus, logger *log.Logger) {
	if err := config.PingDatabase(ctx, ctrl.db); err != nil {
		status.Database = statusDown
		logger.Error("Database health check failed", "error", err)
		return
	}
	status.Database = statusUp
}
