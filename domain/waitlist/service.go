package waitlist

import (
	"context"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

type WaitlistService interface {
	// Signup stores the email and sends the welcome email. Only validation,
	// duplicate and storage failures are returned.
	Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error)

	// ListEntries returns every entry, newest first. The slice is never nil.
	ListEntries(ctx context.Context) ([]WaitlistEntryResponse, error)
}

const (
	signupOutcomeCreated   = "created"
	signupOutcomeDuplicate = "duplicate"
	signupOutcomeInvalid   = "invalid"
	signupOutcomeError     = "error"
)

type waitlistService struct {
	logger      *log.Logger
	repository  WaitlistRepository
	notifier    Notifier
	invalidator StatsInvalidator
	signups     *prometheus.CounterVec
	validate    *validator.Validate
}

// NewWaitlistService accepts a nil invalidator (no cache) and a nil counter.
func NewWaitlistService(
	logger *log.Logger,
	repository WaitlistRepository,
	notifier Notifier,
	invalidator StatsInvalidator,
	signups *prometheus.CounterVec,
) WaitlistService {
	return &waitlistService{
		logger:      logger,
		repository:  repository,
		notifier:    notifier,
		invalidator: invalidator,
		signups:     signups,
		validate:    validator.New(),
	}
}

// NewSignupCounter builds waitlist_signups_total and registers it when reg is set.
func NewSignupCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist signup attempts by outcome.",
		},
		[]string{"outcome"},
	)
	if reg != nil {
		reg.MustRegister(counter)
	}
	return counter
}

func (s *waitlistService) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		s.count(signupOutcomeInvalid)
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if err := s.validate.Var(req.Email, emailRules); err != nil {
		s.count(signupOutcomeInvalid)
		return nil, apperrors.NewValidationError(InvalidEmailMessage, err)
	}

	redacted := log.RedactEmail(req.Email)

	entry, err := s.repository.CreateEntry(ctx, &models.WaitlistEntry{Email: req.Email})
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
			logger.Info("Duplicate waitlist signup", "email", redacted)
			s.count(signupOutcomeDuplicate)
			return nil, err
		}
		logger.Error("Failed to create waitlist entry", "email", redacted, "error", err)
		s.count(signupOutcomeError)
		return nil, err
	}

	logger.Info("Waitlist signup stored", "id", entry.ID, "email", redacted)
	s.count(signupOutcomeCreated)

	if s.invalidator != nil {
		if err := s.invalidator.Delete(ctx, constants.StatsCacheKey); err != nil {
			logger.Warn("Failed to invalidate cached stats", "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifySignup(ctx, entry.Email)
	}

	return &SignupResponse{Message: SignupSuccessMessage}, nil
}

func (s *waitlistService) ListEntries(ctx context.Context) ([]WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListEntries(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	return responses, nil
}

func (s *waitlistService) count(outcome string) {
	if s.signups != nil {
		s.signups.WithLabelValues(outcome).Inc()
	}
}
