package models

import "testing"

func TestParseStatusNormalizesVendorStrings(t *testing.T) {
	tests := []struct {
		raw  string
		want StatusCode
	}{
		{"Available", StatusAvailable},
		{"available", StatusAvailable},
		{" AVAILABLE ", StatusAvailable},
		{"Charging", StatusBusy},
		{"BUSY", StatusBusy},
		{"Busy", StatusBusy},
		{"InUse", StatusBusy},
		{"occupied", StatusBusy},
		{"Preparing", StatusPreparing},
		{"Finishing", StatusFinishing},
		{"Unavailable", StatusUnavailable},
		{"Offline", StatusOffline},
		{"Faulted", StatusFaulted},
		{"", StatusUnknown},
		{"SomethingNew", StatusUnknown},
	}
	for _, tt := range tests {
		if got := ParseStatus(tt.raw); got != tt.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestTransitionalStatuses(t *testing.T) {
	transitional := []StatusCode{StatusPreparing, StatusFinishing, StatusUnavailable, StatusUnknown}
	for _, s := range transitional {
		if !s.IsTransitional() {
			t.Errorf("%s should be transitional", s)
		}
	}
	settled := []StatusCode{StatusAvailable, StatusBusy, StatusOffline, StatusFaulted}
	for _, s := range settled {
		if s.IsTransitional() {
			t.Errorf("%s should not be transitional", s)
		}
	}
}

func TestSignedViewDirection(t *testing.T) {
	if got := (LiveStatus{Status: StatusAvailable, StreakMinutes: 12}).Signed(); got != 12 {
		t.Errorf("available signed = %d, want 12", got)
	}
	if got := (LiveStatus{Status: StatusBusy, StreakMinutes: 12}).Signed(); got != -12 {
		t.Errorf("busy signed = %d, want -12", got)
	}
	if got := (LiveStatus{Status: StatusFaulted, StreakMinutes: 12}).Signed(); got != 0 {
		t.Errorf("faulted signed = %d, want 0", got)
	}
}
