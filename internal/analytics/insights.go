package analytics

import (
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// InsightConfig activity-classification policy. The default thresholds are
// calibrated against roughly one sample per minute over a 7-day window; they
// are configuration, not constants of nature.
type InsightConfig struct {
	LowMax     int // session counts below this classify as low
	BusyMin    int // session counts above this classify as busy
	WindowDays int // trailing window the sessions were drawn from
}

// DefaultInsightConfig returns the production thresholds.
func DefaultInsightConfig() InsightConfig {
	return InsightConfig{LowMax: 70, BusyMin: 150, WindowDays: 7}
}

// AggregateInsights rolls Busy sessions for one station up into usage
// statistics: activity classification, daily and per-session averages, the
// peak and off-peak hours, and per-weekday totals. Total over its input;
// empty input yields low activity with zeroed averages.
func AggregateInsights(sessions []models.Session, cfg InsightConfig) models.UsageInsight {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}

	insight := models.UsageInsight{
		SessionCount:     len(sessions),
		ActivityLevel:    classifyActivity(len(sessions), cfg),
		AvgDailySessions: float64(len(sessions)) / float64(cfg.WindowDays),
		MinutesByWeekday: make(map[time.Weekday]int, 7),
		PercentByWeekday: make(map[time.Weekday]float64, 7),
	}

	var hourCounts [24]int
	totalMinutes := 0
	for _, s := range sessions {
		hourCounts[s.StartTime.Hour()] += s.DurationMin
		insight.MinutesByWeekday[s.StartTime.Weekday()] += s.DurationMin
		totalMinutes += s.DurationMin
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := insight.MinutesByWeekday[d]; !ok {
			insight.MinutesByWeekday[d] = 0
		}
		// fixed 1440-minute denominator so chart bars are comparable across days
		insight.PercentByWeekday[d] = float64(insight.MinutesByWeekday[d]) / float64(MinutesPerDay) * 100
	}

	if len(sessions) > 0 {
		insight.AvgSessionDurationMin = float64(totalMinutes) / float64(len(sessions))
	}

	insight.PeakHour = peakHour(hourCounts)
	insight.OffPeakHour = offPeakHour(hourCounts)
	return insight
}

func classifyActivity(count int, cfg InsightConfig) models.ActivityLevel {
	switch {
	case count < cfg.LowMax:
		return models.ActivityLow
	case count <= cfg.BusyMin:
		return models.ActivityModerate
	default:
		return models.ActivityBusy
	}
}

func peakHour(counts [24]int) int {
	peak := 0
	for h, c := range counts {
		if c > counts[peak] {
			peak = h
		}
	}
	return peak
}

// offPeakHour is the lowest non-zero bucket. Hours with no activity at all are
// skipped: a genuinely idle hour is no usage, not off-peak usage. All-zero
// histograms fall back to hour 0.
func offPeakHour(counts [24]int) int {
	offPeak := -1
	for h, c := range counts {
		if c == 0 {
			continue
		}
		if offPeak < 0 || c < counts[offPeak] {
			offPeak = h
		}
	}
	if offPeak < 0 {
		return 0
	}
	return offPeak
}
