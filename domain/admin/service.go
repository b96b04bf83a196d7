package admin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
)

// SignupReader is the read side of the waitlist store used for statistics.
type SignupReader interface {
	CountEntries(ctx context.Context) (int64, error)
	ListEntriesSince(ctx context.Context, since time.Time) ([]*models.WaitlistEntry, error)
}

type StatsCache interface {
	// Get returns ("", nil) on a miss.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type AdminService interface {
	Login(ctx context.Context, username string) *LoginResponse
	Stats(ctx context.Context) (*StatsResponse, error)
}

type adminService struct {
	logger   *log.Logger
	reader   SignupReader
	cache    StatsCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAdminService caches stats for ttl when cache is non-nil.
func NewAdminService(logger *log.Logger, reader SignupReader, cache StatsCache, ttl time.Duration) AdminService {
	return newAdminService(logger, reader, cache, ttl, time.Now)
}

func newAdminService(logger *log.Logger, reader SignupReader, cache StatsCache, ttl time.Duration, now func() time.Time) *adminService {
	if ttl <= 0 {
		ttl = constants.DefaultStatsCacheTTL
	}
	return &adminService{
		logger:   logger,
		reader:   reader,
		cache:    cache,
		cacheTTL: ttl,
		now:      now,
	}
}

func (s *adminService) Login(ctx context.Context, username string) *LoginResponse {
	log.GetLoggerInstanceFromContext(ctx, s.logger).Info("Admin logged in", "username", username)
	return NewLoginResponse(username)
}

func (s *adminService) Stats(ctx context.Context) (*StatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if cached := s.cachedStats(ctx, logger); cached != nil {
		return cached, nil
	}

	total, err := s.reader.CountEntries(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		return nil, err
	}

	now := s.now()
	recent, err := s.reader.ListEntriesSince(ctx, now.Add(-statsWindow))
	if err != nil {
		logger.Error("Failed to load recent waitlist entries", "error", err)
		return nil, err
	}

	signups := make([]time.Time, 0, len(recent))
	for _, entry := range recent {
		signups = append(signups, entry.SignupDate)
	}

	stats := ComputeStats(total, signups, now)
	s.storeStats(ctx, logger, stats)

	return stats, nil
}

func (s *adminService) cachedStats(ctx context.Context, logger *log.Logger) *StatsResponse {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, constants.StatsCacheKey)
	if err != nil {
		logger.Warn("Stats cache read failed; recomputing", "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var stats StatsResponse
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		logger.Warn("Discarding undecodable cached stats", "error", err)
		return nil
	}

	return &stats
}

func (s *adminService) storeStats(ctx context.Context, logger *log.Logger, stats *StatsResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		logger.Warn("Failed to encode stats for cache", "error", err)
		return
	}

	if err := s.cache.Set(ctx, constants.StatsCacheKey, string(payload), s.cacheTTL); err != nil {
		logger.Warn("Stats cache write failed", "error", err)
	}
}
