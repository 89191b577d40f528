package models

import "time"

// Station charger site metadata
type Station struct {
	ID                     int64     `json:"id" db:"id"`
	StationID              string    `json:"station_id" db:"station_id"`
	Name                   string    `json:"name" db:"name"`
	Address                string    `json:"address" db:"address"`
	City                   string    `json:"city" db:"city"`
	Region                 string    `json:"region" db:"region"`
	MaxElectricPower       float64   `json:"max_electric_power" db:"max_electric_power"`
	PricePerKwh            float64   `json:"price_per_kwh" db:"price_per_kwh"`
	PriceUnit              string    `json:"price_unit" db:"price_unit"`
	MultiPortChargingAllowed bool    `json:"multi_port_charging_allowed" db:"multi_port_charging_allowed"`
	IsActive               bool      `json:"is_active" db:"is_active"`
	Latitude               *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude              *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// StatusRecord one polled plug-status sample. Immutable once stored; every
// derived view (sessions, live status, heatmap, insights) is recomputed from
// a window of these on demand.
type StatusRecord struct {
	ID         int64      `json:"id,omitempty" db:"id"`
	StationID  string     `json:"station_id" db:"station_id"`
	PlugType   *string    `json:"plug_type,omitempty" db:"plug_type"`
	Status     StatusCode `json:"plug_status" db:"plug_status"`
	RecordedAt time.Time  `json:"timestamp" db:"timestamp"`
}

// Session a maximal run of consecutive samples sharing one status
type Session struct {
	StationID   string     `json:"station_id"`
	PlugType    *string    `json:"plug_type,omitempty"`
	Status      StatusCode `json:"plug_status"`
	StartTime   time.Time  `json:"start_time"`
	DurationMin int        `json:"duration_min"`
}

// LiveStatus how long the current status has persisted. Valid only for the
// newest sample of a window; a view, never stored.
type LiveStatus struct {
	Status        StatusCode `json:"status"`
	StreakMinutes int        `json:"streak_minutes"`
}

// Signed returns the legacy scalar encoding: positive streak when the plug is
// free, negative while in use, 0 for everything else. Kept only for the old
// /status JSON consumers.
func (l LiveStatus) Signed() int {
	switch {
	case l.Status.IsAvailableLike():
		return l.StreakMinutes
	case l.Status.IsBusyLike():
		return -l.StreakMinutes
	}
	return 0
}

// ActivityLevel coarse trailing-week usage classification
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityBusy     ActivityLevel = "busy"
)

// UsageInsight rolled-up usage statistics for a trailing window
type UsageInsight struct {
	SessionCount          int                  `json:"session_count"`
	ActivityLevel         ActivityLevel        `json:"activity_level"`
	AvgDailySessions      float64              `json:"avg_daily_sessions"`
	AvgSessionDurationMin float64              `json:"avg_session_duration_min"`
	PeakHour              int                  `json:"peak_hour"`
	OffPeakHour           int                  `json:"off_peak_hour"`
	MinutesByWeekday      map[time.Weekday]int `json:"minutes_by_weekday"`
	PercentByWeekday      map[time.Weekday]float64 `json:"percent_by_weekday"`
}

// PortReading a single physical plug reading from the vendor feed, before
// arbitration collapses a multi-port station into one logical status.
type PortReading struct {
	PlugType   string     `json:"plug_type"`
	PortStatus string     `json:"port_status"`      // physical state, e.g. "OFFLINE"
	OcppStatus StatusCode `json:"port_ocpp_status"` // normalized logical state
}
