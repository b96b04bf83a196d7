package waitlist

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// CreateEntry inserts entry in a single statement. A duplicate email
	// surfaces as a conflict error.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// ListEntries returns every entry, newest signup first.
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// ListEntriesSince returns entries with signup_date >= since, newest first.
	ListEntriesSince(ctx context.Context, since time.Time) ([]*models.WaitlistEntry, error)
	CountEntries(ctx context.Context) (int64, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError(DuplicateEmailMessage, err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	if err := wr.newestFirst(ctx).Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, nil
}

func (wr *waitlistRepository) ListEntriesSince(ctx context.Context, since time.Time) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	if err := wr.newestFirst(ctx).Where("signup_date >= ?", since.UTC()).Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch recent waitlist entries", err)
	}

	return entries, nil
}

func (wr *waitlistRepository) CountEntries(ctx context.Context) (int64, error) {
	var count int64

	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}

	return count, nil
}

// newestFirst breaks signup_date ties by id so the order is total.
func (wr *waitlistRepository) newestFirst(ctx context.Context) *gorm.DB {
	return wr.db.WithContext(ctx).Order("signup_date DESC").Order("id DESC")
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
