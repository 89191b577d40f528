package analytics

import "github.com/kle310/EV-ChargeMate/internal/models"

// LiveStreak computes how long the current status has persisted, from samples
// ordered descending by timestamp (newest first). Transitional statuses never
// accrue a streak.
//
// The streak is measured in elapsed time, not sample count: when the run ends
// inside the window the streak spans from the newest sample back to the first
// differing sample, and when the run covers the whole window it spans to the
// oldest sample. A raw row count would drift whenever polling cadence differs
// from one sample per minute.
func LiveStreak(samples []models.StatusRecord) models.LiveStatus {
	if len(samples) == 0 {
		return models.LiveStatus{Status: models.StatusUnknown, StreakMinutes: 0}
	}

	current := samples[0].Status
	if current.IsTransitional() {
		return models.LiveStatus{Status: current, StreakMinutes: 0}
	}

	newest := samples[0].RecordedAt
	runEnd := newest // oldest timestamp still inside the run
	for _, s := range samples[1:] {
		if s.Status != current {
			// status flipped here; the streak reaches back to this sample
			runEnd = s.RecordedAt
			break
		}
		runEnd = s.RecordedAt
	}

	minutes := roundMinutes(newest.Sub(runEnd))
	if minutes < 0 {
		minutes = 0
	}
	return models.LiveStatus{Status: current, StreakMinutes: minutes}
}
