package domain

import (
	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/admin"
	"github.com/akeren/waitlist-api/domain/monitoring"
	"github.com/akeren/waitlist-api/domain/waitlist"
)

// SetupCoreDomain mounts every controller on the application router.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService

	rs.MountController(monitoring.NewMonitoringControllerFactory(
		appConfig.DB,
		appConfig.Logger,
		appConfig.Cache,
		appConfig.StartedAt,
	).CreateController())

	waitlistFactory := waitlist.NewWaitlistServiceFactory(
		appConfig.DB,
		appConfig.Logger,
		appConfig.Notifier,
		appConfig.Cache,
		appConfig.Admin,
		rs.MetricsRegisterer(),
	)
	rs.MountController(waitlistFactory.CreateController())

	adminService := admin.NewAdminService(appConfig.Logger, waitlistFactory.CreateRepository(), appConfig.Cache, appConfig.Config.StatsCacheTTL)
	rs.MountController(admin.NewAdminController(adminService, appConfig.Admin))
}
