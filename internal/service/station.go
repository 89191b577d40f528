package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kle310/EV-ChargeMate/internal/analytics"
	"github.com/kle310/EV-ChargeMate/internal/cache"
	"github.com/kle310/EV-ChargeMate/internal/config"
	"github.com/kle310/EV-ChargeMate/internal/models"
	"github.com/kle310/EV-ChargeMate/internal/repository"
)

// StationService answers station queries by pulling a sample window from the
// repository and running the pure analytics over it. Every result is
// recomputed on demand; the only state here is the optional redis cache for
// live statuses.
type StationService struct {
	cfg         *config.Config
	logger      *zap.Logger
	stationRepo *repository.StationRepository
	statusRepo  *repository.StatusRepository
	liveCache   *cache.LiveStatusStore // nil disables caching
}

// NewStationService creates the station service.
func NewStationService(
	cfg *config.Config,
	logger *zap.Logger,
	stationRepo *repository.StationRepository,
	statusRepo *repository.StatusRepository,
	liveCache *cache.LiveStatusStore,
) *StationService {
	return &StationService{
		cfg:         cfg,
		logger:      logger,
		stationRepo: stationRepo,
		statusRepo:  statusRepo,
		liveCache:   liveCache,
	}
}

// GetLiveStatus computes how long the station's current status has persisted.
// Cache hits skip the sample query; misses recompute and repopulate.
func (s *StationService) GetLiveStatus(ctx context.Context, stationID string) (models.LiveStatus, error) {
	if s.liveCache != nil {
		if live, err := s.liveCache.Get(ctx, stationID); err == nil {
			return *live, nil
		}
	}

	samples, err := s.statusRepo.ListDescending(ctx, stationID, s.cfg.LiveLookback)
	if err != nil {
		return models.LiveStatus{}, fmt.Errorf("load live window: %w", err)
	}

	live := analytics.LiveStreak(samples)

	if s.liveCache != nil {
		if err := s.liveCache.Save(ctx, stationID, live); err != nil {
			s.logger.Warn("Failed to cache live status", zap.Error(err), zap.String("station_id", stationID))
		}
	}
	return live, nil
}

// GetHistory compresses the station's sample stream into status sessions,
// newest first. minDuration filters short sessions (the most recent one is
// always kept); pass -1 to use the configured default, 0 to disable. days
// bounds the lookback; 0 uses the configured window.
func (s *StationService) GetHistory(ctx context.Context, stationID string, days, minDuration int) ([]models.Session, error) {
	lookback := s.cfg.HistoryLookback
	if days > 0 {
		lookback = time.Duration(days) * 24 * time.Hour
	}
	if minDuration < 0 {
		minDuration = s.cfg.MinSessionMinutes
	}

	samples, err := s.statusRepo.ListAscending(ctx, stationID, lookback)
	if err != nil {
		return nil, fmt.Errorf("load history window: %w", err)
	}

	sessions, err := analytics.CompressSessions(samples, analytics.SessionFilter{MinDuration: minDuration})
	if err != nil {
		return nil, fmt.Errorf("compress sessions for %s: %w", stationID, err)
	}
	return sessions, nil
}

// GetHeatmap builds the denoised weekly availability grid.
func (s *StationService) GetHeatmap(ctx context.Context, stationID string) (analytics.WeeklyGrid, error) {
	samples, err := s.statusRepo.ListAvailable(ctx, stationID, s.cfg.HistoryLookback)
	if err != nil {
		return analytics.WeeklyGrid{}, fmt.Errorf("load heatmap window: %w", err)
	}
	return analytics.BuildHeatmap(samples, s.cfg.HeatmapMinRun), nil
}

// GetInsights rolls the trailing week's Busy sessions up into usage
// statistics. Sessions are unfiltered here: dropping short sessions would
// skew the counts the activity thresholds were calibrated against.
func (s *StationService) GetInsights(ctx context.Context, stationID string) (models.UsageInsight, error) {
	samples, err := s.statusRepo.ListAscending(ctx, stationID, s.cfg.HistoryLookback)
	if err != nil {
		return models.UsageInsight{}, fmt.Errorf("load insight window: %w", err)
	}

	sessions, err := analytics.CompressSessions(samples, analytics.SessionFilter{})
	if err != nil {
		return models.UsageInsight{}, fmt.Errorf("compress sessions for %s: %w", stationID, err)
	}

	var busy []models.Session
	for _, sess := range sessions {
		if sess.Status == models.StatusBusy {
			busy = append(busy, sess)
		}
	}

	cfg := analytics.InsightConfig{
		LowMax:     s.cfg.ActivityLowMax,
		BusyMin:    s.cfg.ActivityBusyMin,
		WindowDays: int(s.cfg.HistoryLookback.Hours() / 24),
	}
	return analytics.AggregateInsights(busy, cfg), nil
}

// GetCityStatus returns the newest sample per station for a city.
func (s *StationService) GetCityStatus(ctx context.Context, city string) ([]models.StatusRecord, error) {
	records, err := s.statusRepo.LatestByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("city status for %s: %w", city, err)
	}
	return records, nil
}
