package analytics

import (
	"testing"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

var testBase = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

// rec builds a sample n minutes after testBase.
func rec(status models.StatusCode, minutes int) models.StatusRecord {
	return models.StatusRecord{
		StationID:  "153420",
		Status:     status,
		RecordedAt: testBase.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestCompressSessionsEmpty(t *testing.T) {
	sessions, err := CompressSessions(nil, SessionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestCompressSessionsSingleSample(t *testing.T) {
	sessions, err := CompressSessions([]models.StatusRecord{rec(models.StatusAvailable, 0)}, SessionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].DurationMin != 0 {
		t.Errorf("single sample should produce duration 0, got %d", sessions[0].DurationMin)
	}
	if sessions[0].Status != models.StatusAvailable {
		t.Errorf("expected Available, got %s", sessions[0].Status)
	}
}

func TestCompressSessionsMergesRuns(t *testing.T) {
	samples := []models.StatusRecord{
		rec(models.StatusAvailable, 0),
		rec(models.StatusAvailable, 1),
		rec(models.StatusAvailable, 2),
		rec(models.StatusBusy, 3),
		rec(models.StatusBusy, 4),
		rec(models.StatusBusy, 10),
		rec(models.StatusAvailable, 11),
	}

	sessions, err := CompressSessions(samples, SessionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}

	// most-recent-first ordering
	if sessions[0].Status != models.StatusAvailable || sessions[0].DurationMin != 0 {
		t.Errorf("newest session = {%s, %d}, want {Available, 0}", sessions[0].Status, sessions[0].DurationMin)
	}
	if sessions[1].Status != models.StatusBusy || sessions[1].DurationMin != 7 {
		t.Errorf("middle session = {%s, %d}, want {Busy, 7}", sessions[1].Status, sessions[1].DurationMin)
	}
	if sessions[2].Status != models.StatusAvailable || sessions[2].DurationMin != 2 {
		t.Errorf("oldest session = {%s, %d}, want {Available, 2}", sessions[2].Status, sessions[2].DurationMin)
	}
	if !sessions[2].StartTime.Equal(testBase) {
		t.Errorf("oldest session start = %v, want %v", sessions[2].StartTime, testBase)
	}
}

func TestCompressSessionsMinDurationKeepsMostRecent(t *testing.T) {
	// Available 10:00-10:02 (2 min, below threshold) then Busy at 10:03
	// (0 min, below threshold but most recent). Only the Busy session
	// survives: the in-progress state must never silently disappear.
	samples := []models.StatusRecord{
		rec(models.StatusAvailable, 0),
		rec(models.StatusAvailable, 1),
		rec(models.StatusAvailable, 2),
		rec(models.StatusBusy, 3),
	}

	sessions, err := CompressSessions(samples, SessionFilter{MinDuration: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Status != models.StatusBusy {
		t.Errorf("kept session = %s, want Busy", sessions[0].Status)
	}
	if sessions[0].DurationMin != 0 {
		t.Errorf("kept session duration = %d, want 0", sessions[0].DurationMin)
	}
	if !sessions[0].StartTime.Equal(testBase.Add(3 * time.Minute)) {
		t.Errorf("kept session start = %v, want 10:03", sessions[0].StartTime)
	}
}

func TestCompressSessionsZeroThresholdKeepsAll(t *testing.T) {
	samples := []models.StatusRecord{
		rec(models.StatusAvailable, 0),
		rec(models.StatusBusy, 1),
		rec(models.StatusAvailable, 2),
	}
	sessions, err := CompressSessions(samples, SessionFilter{MinDuration: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected all 3 sessions with threshold 0, got %d", len(sessions))
	}
}

func TestCompressSessionsCoverage(t *testing.T) {
	// Concatenated unfiltered durations reconstruct the sampled window
	// (up to one minute of rounding per session boundary).
	samples := []models.StatusRecord{
		rec(models.StatusAvailable, 0),
		rec(models.StatusAvailable, 30),
		rec(models.StatusBusy, 31),
		rec(models.StatusBusy, 95),
		rec(models.StatusOffline, 96),
		rec(models.StatusOffline, 120),
	}

	sessions, err := CompressSessions(samples, SessionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, s := range sessions {
		total += s.DurationMin
	}
	elapsed := 120
	slack := len(sessions) // ±1 min rounding per session
	if total < elapsed-slack || total > elapsed {
		t.Errorf("summed durations %d outside [%d, %d]", total, elapsed-slack, elapsed)
	}
}

func TestCompressSessionsRejectsUnsortedInput(t *testing.T) {
	samples := []models.StatusRecord{
		rec(models.StatusAvailable, 5),
		rec(models.StatusAvailable, 2),
	}
	if _, err := CompressSessions(samples, SessionFilter{}); err == nil {
		t.Error("expected error for out-of-order samples")
	}
}
