package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

func busySession(start time.Time, durationMin int) models.Session {
	return models.Session{
		StationID:   "153420",
		Status:      models.StatusBusy,
		StartTime:   start,
		DurationMin: durationMin,
	}
}

func TestAggregateInsightsEmpty(t *testing.T) {
	insight := AggregateInsights(nil, DefaultInsightConfig())
	if insight.ActivityLevel != models.ActivityLow {
		t.Errorf("activity = %s, want low", insight.ActivityLevel)
	}
	if insight.AvgDailySessions != 0 || insight.AvgSessionDurationMin != 0 {
		t.Errorf("averages = %f/%f, want 0/0", insight.AvgDailySessions, insight.AvgSessionDurationMin)
	}
	if insight.PeakHour != 0 || insight.OffPeakHour != 0 {
		t.Errorf("hours = %d/%d, want 0/0", insight.PeakHour, insight.OffPeakHour)
	}
	if len(insight.MinutesByWeekday) != 7 {
		t.Errorf("expected all 7 weekdays present, got %d", len(insight.MinutesByWeekday))
	}
}

func TestAggregateInsightsActivityClassification(t *testing.T) {
	cfg := DefaultInsightConfig()
	tests := []struct {
		count int
		want  models.ActivityLevel
	}{
		{0, models.ActivityLow},
		{69, models.ActivityLow},
		{70, models.ActivityModerate},
		{150, models.ActivityModerate},
		{151, models.ActivityBusy},
		{200, models.ActivityBusy},
	}
	for _, tt := range tests {
		sessions := make([]models.Session, tt.count)
		for i := range sessions {
			sessions[i] = busySession(testBase.Add(time.Duration(i)*time.Hour), 10)
		}
		insight := AggregateInsights(sessions, cfg)
		if insight.ActivityLevel != tt.want {
			t.Errorf("%d sessions: activity = %s, want %s", tt.count, insight.ActivityLevel, tt.want)
		}
	}
}

func TestAggregateInsightsBusyWeek(t *testing.T) {
	// 200 busy sessions over 7 days
	sessions := make([]models.Session, 200)
	for i := range sessions {
		sessions[i] = busySession(testBase.Add(time.Duration(i)*30*time.Minute), 20)
	}
	insight := AggregateInsights(sessions, DefaultInsightConfig())

	if insight.ActivityLevel != models.ActivityBusy {
		t.Errorf("activity = %s, want busy", insight.ActivityLevel)
	}
	if math.Abs(insight.AvgDailySessions-200.0/7.0) > 0.01 {
		t.Errorf("avg daily sessions = %f, want 28.6", insight.AvgDailySessions)
	}
	if insight.AvgSessionDurationMin != 20 {
		t.Errorf("avg duration = %f, want 20", insight.AvgSessionDurationMin)
	}
}

func TestAggregateInsightsPeakAndOffPeak(t *testing.T) {
	sessions := []models.Session{
		busySession(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 60),
		busySession(time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC), 45),
		busySession(time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC), 5),
		busySession(time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC), 30),
	}
	insight := AggregateInsights(sessions, DefaultInsightConfig())
	if insight.PeakHour != 8 {
		t.Errorf("peak hour = %d, want 8", insight.PeakHour)
	}
	if insight.OffPeakHour != 22 {
		t.Errorf("off-peak hour = %d, want 22", insight.OffPeakHour)
	}
}

func TestAggregateInsightsOffPeakIgnoresIdleHours(t *testing.T) {
	// A single non-zero bucket is trivially both peak and off-peak.
	sessions := []models.Session{
		busySession(time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC), 5),
	}
	insight := AggregateInsights(sessions, DefaultInsightConfig())
	if insight.PeakHour != 2 {
		t.Errorf("peak hour = %d, want 2", insight.PeakHour)
	}
	if insight.OffPeakHour != 2 {
		t.Errorf("off-peak hour = %d, want 2 (idle hours are not off-peak)", insight.OffPeakHour)
	}
}

func TestAggregateInsightsWeekdayTotals(t *testing.T) {
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		busySession(monday, 40),
		busySession(monday.Add(2*time.Hour), 20),
		busySession(monday.AddDate(0, 0, 1), 30), // Tuesday
	}
	insight := AggregateInsights(sessions, DefaultInsightConfig())

	if insight.MinutesByWeekday[time.Monday] != 60 {
		t.Errorf("Monday minutes = %d, want 60", insight.MinutesByWeekday[time.Monday])
	}
	if insight.MinutesByWeekday[time.Tuesday] != 30 {
		t.Errorf("Tuesday minutes = %d, want 30", insight.MinutesByWeekday[time.Tuesday])
	}
	if insight.MinutesByWeekday[time.Sunday] != 0 {
		t.Errorf("Sunday minutes = %d, want 0", insight.MinutesByWeekday[time.Sunday])
	}

	wantPct := 60.0 / 1440.0 * 100
	if math.Abs(insight.PercentByWeekday[time.Monday]-wantPct) > 0.001 {
		t.Errorf("Monday percent = %f, want %f", insight.PercentByWeekday[time.Monday], wantPct)
	}
}

func TestAggregateInsightsCustomThresholds(t *testing.T) {
	cfg := InsightConfig{LowMax: 2, BusyMin: 3, WindowDays: 7}
	sessions := []models.Session{
		busySession(testBase, 10),
		busySession(testBase.Add(time.Hour), 10),
		busySession(testBase.Add(2*time.Hour), 10),
	}
	insight := AggregateInsights(sessions, cfg)
	if insight.ActivityLevel != models.ActivityModerate {
		t.Errorf("activity = %s, want moderate with custom thresholds", insight.ActivityLevel)
	}
}
