package analytics

import (
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// MinutesPerDay cells per weekday row in the availability grid.
const MinutesPerDay = 24 * 60

// DefaultMinRunMinutes is the denoise threshold: availability runs shorter
// than this are treated as single-sample noise and removed.
const DefaultMinRunMinutes = 5

// WeeklyGrid is a 7x1440 boolean availability matrix indexed by
// time.Weekday x minute-of-day. Owned by a single report; rebuilt from raw
// samples each time, never mutated incrementally.
type WeeklyGrid [7][MinutesPerDay]bool

// BuildHeatmap rasters Available samples into a weekly grid and denoises each
// day with a run-length opening filter. Samples with any other status are
// ignored, so callers may pass an unfiltered window. Rasterization is
// idempotent: the grid is boolean, not a counter.
func BuildHeatmap(samples []models.StatusRecord, minRun int) WeeklyGrid {
	var grid WeeklyGrid
	for _, s := range samples {
		if s.Status != models.StatusAvailable {
			continue
		}
		t := s.RecordedAt
		grid[int(t.Weekday())][t.Hour()*60+t.Minute()] = true
	}
	for d := range grid {
		denoiseDay(&grid[d], minRun)
	}
	return grid
}

// denoiseDay flips every 1-run shorter than minRun back to 0. Runs of length
// >= minRun are left untouched, so no run ever grows.
func denoiseDay(day *[MinutesPerDay]bool, minRun int) {
	if minRun <= 1 {
		return
	}
	runStart := -1
	for i := 0; i <= MinutesPerDay; i++ {
		if i < MinutesPerDay && day[i] {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart < minRun {
			for j := runStart; j < i; j++ {
				day[j] = false
			}
		}
		runStart = -1
	}
}

// ByDayName returns the grid keyed by weekday name with 0/1 cells, the shape
// the availability chart consumes.
func (g WeeklyGrid) ByDayName() map[string][]int {
	out := make(map[string][]int, 7)
	for d := range g {
		row := make([]int, MinutesPerDay)
		for m, on := range g[d] {
			if on {
				row[m] = 1
			}
		}
		out[time.Weekday(d).String()] = row
	}
	return out
}
