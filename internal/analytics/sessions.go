package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// SessionFilter controls session compression output.
type SessionFilter struct {
	// MinDuration drops closed sessions shorter than this many minutes.
	// 0 keeps everything. The most recent session is exempt: it represents
	// the in-progress state and must never silently disappear.
	MinDuration int
}

// CompressSessions run-length encodes a chronological sample stream into
// discrete status sessions. Input must be ordered ascending by timestamp;
// an inversion is a broken input contract and returns an error rather than
// nonsensical durations. Output is most-recent-first.
//
// A session's duration is the rounded span between the first and last sample
// of its run, so a single-sample run has duration 0.
func CompressSessions(samples []models.StatusRecord, filter SessionFilter) ([]models.Session, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	var sessions []models.Session
	start := samples[0]
	lastSeen := samples[0].RecordedAt

	for _, s := range samples[1:] {
		if s.RecordedAt.Before(lastSeen) {
			return nil, fmt.Errorf("samples out of order for station %s: %s before %s",
				s.StationID, s.RecordedAt.Format("2006-01-02T15:04:05"), lastSeen.Format("2006-01-02T15:04:05"))
		}
		if s.Status == start.Status {
			lastSeen = s.RecordedAt
			continue
		}
		sessions = append(sessions, closeRun(start, lastSeen))
		start = s
		lastSeen = s.RecordedAt
	}
	sessions = append(sessions, closeRun(start, lastSeen))

	// most-recent-first, matching how history is queried and rendered
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	if filter.MinDuration > 0 {
		kept := sessions[:1]
		for _, s := range sessions[1:] {
			if s.DurationMin >= filter.MinDuration {
				kept = append(kept, s)
			}
		}
		sessions = kept
	}

	return sessions, nil
}

func closeRun(start models.StatusRecord, lastSeen time.Time) models.Session {
	return models.Session{
		StationID:   start.StationID,
		PlugType:    start.PlugType,
		Status:      start.Status,
		StartTime:   start.RecordedAt,
		DurationMin: roundMinutes(lastSeen.Sub(start.RecordedAt)),
	}
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}
