package waitlist

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/auth"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateRepository() WaitlistRepository
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db          *gorm.DB
	logger      *log.Logger
	notifier    Notifier
	invalidator StatsInvalidator
	checker     *auth.CredentialChecker
	signups     *prometheus.CounterVec
}

// NewWaitlistServiceFactory registers the signup counter on reg once, so
// CreateService may be called repeatedly.
func NewWaitlistServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	notifier Notifier,
	invalidator StatsInvalidator,
	checker *auth.CredentialChecker,
	reg prometheus.Registerer,
) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:          db,
		logger:      logger,
		notifier:    notifier,
		invalidator: invalidator,
		checker:     checker,
		signups:     NewSignupCounter(reg),
	}
}

func (f *DefaultWaitlistServiceFactory) CreateRepository() WaitlistRepository {
	return NewWaitlistRepository(f.db)
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.CreateRepository(), f.notifier, f.invalidator, f.signups)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService(), f.checker)
}
