package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	repo        *MockWaitlistRepository
	notifier    *MockNotifier
	invalidator *MockStatsInvalidator
	signups     *prometheus.CounterVec
	service     WaitlistService
}

func newServiceDeps(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	d := &serviceDeps{
		repo:        NewMockWaitlistRepository(ctrl),
		notifier:    NewMockNotifier(ctrl),
		invalidator: NewMockStatsInvalidator(ctrl),
		signups:     NewSignupCounter(nil),
	}
	d.service = NewWaitlistService(log.NewLoggerWithJSONOutput(), d.repo, d.notifier, d.invalidator, d.signups)
	return d
}

func TestWaitlistService_Signup(t *testing.T) {
	t.Run("stores entry then notifies", func(t *testing.T) {
		d := newServiceDeps(t)

		stored := &models.WaitlistEntry{ID: 1, Email: "a@x.com", SignupDate: time.Now().UTC()}
		gomock.InOrder(
			d.repo.EXPECT().
				CreateEntry(gomock.Any(), gomock.Cond(func(e *models.WaitlistEntry) bool { return e.Email == "a@x.com" })).
				Return(stored, nil),
			d.invalidator.EXPECT().Delete(gomock.Any(), constants.StatsCacheKey).Return(nil),
			d.notifier.EXPECT().NotifySignup(gomock.Any(), "a@x.com").Times(1),
		)

		resp, err := d.service.Signup(context.Background(), &SignupRequest{Email: "a@x.com"})

		require.NoError(t, err)
		assert.Equal(t, SignupSuccessMessage, resp.Message)
		assert.Equal(t, 1.0, testutil.ToFloat64(d.signups.WithLabelValues(signupOutcomeCreated)))
	})

	t.Run("cache invalidation failure does not fail signup", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&models.WaitlistEntry{ID: 2, Email: "b@x.com"}, nil)
		d.invalidator.EXPECT().Delete(gomock.Any(), constants.StatsCacheKey).Return(errors.New("redis down"))
		d.notifier.EXPECT().NotifySignup(gomock.Any(), "b@x.com")

		_, err := d.service.Signup(context.Background(), &SignupRequest{Email: "b@x.com"})
		assert.NoError(t, err)
	})

	t.Run("duplicate email sends nothing", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError(DuplicateEmailMessage, nil))
		d.notifier.EXPECT().NotifySignup(gomock.Any(), gomock.Any()).Times(0)

		resp, err := d.service.Signup(context.Background(), &SignupRequest{Email: "a@x.com"})

		assert.Nil(t, resp)
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
		assert.Equal(t, DuplicateEmailMessage, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(d.signups.WithLabelValues(signupOutcomeDuplicate)))
	})

	t.Run("invalid email never reaches the store", func(t *testing.T) {
		d := newServiceDeps(t)

		for _, email := range []string{"", "not-an-email", "a@"} {
			_, err := d.service.Signup(context.Background(), &SignupRequest{Email: email})
			assert.Equal(t, apperrors.StatusUnprocessableEntity, apperrors.HTTPStatusCode(err), "email %q", email)
		}
		assert.Equal(t, 3.0, testutil.ToFloat64(d.signups.WithLabelValues(signupOutcomeInvalid)))
	})

	t.Run("nil request", func(t *testing.T) {
		d := newServiceDeps(t)

		_, err := d.service.Signup(context.Background(), nil)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to create waitlist entry", errors.New("disk full")))

		_, err := d.service.Signup(context.Background(), &SignupRequest{Email: "a@x.com"})
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(d.signups.WithLabelValues(signupOutcomeError)))
	})
}

func TestWaitlistService_Signup_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockWaitlistRepository(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), repo, notifier, nil, nil)

	repo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&models.WaitlistEntry{ID: 1, Email: "a@x.com"}, nil)
	notifier.EXPECT().NotifySignup(gomock.Any(), "a@x.com")

	_, err := service.Signup(context.Background(), &SignupRequest{Email: "a@x.com"})
	assert.NoError(t, err)
}

func TestWaitlistService_ListEntries(t *testing.T) {
	t.Run("formats signup dates", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().ListEntries(gomock.Any()).Return([]*models.WaitlistEntry{
			{ID: 2, Email: "b@x.com", SignupDate: time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)},
			{ID: 1, Email: "a@x.com", SignupDate: time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)},
		}, nil)

		entries, err := d.service.ListEntries(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []WaitlistEntryResponse{
			{ID: 2, Email: "b@x.com", SignupDate: "2026-03-02 08:30:00"},
			{ID: 1, Email: "a@x.com", SignupDate: "2026-03-01 23:59:59"},
		}, entries)
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().ListEntries(gomock.Any()).Return(nil, nil)

		entries, err := d.service.ListEntries(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("storage failure", func(t *testing.T) {
		d := newServiceDeps(t)

		d.repo.EXPECT().ListEntries(gomock.Any()).Return(nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", nil))

		entries, err := d.service.ListEntries(context.Background())

		assert.Nil(t, entries)
		assert.Error(t, err)
	})
}
