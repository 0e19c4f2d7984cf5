package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/tserv/shift-control/pkg/models"
)

func msk(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, MSK)
}

func dayShift(id int, date string) models.Shift {
	return models.Shift{ID: id, Date: date, StartTime: "09:00", EndTime: "21:00", ShiftType: models.ShiftTypeDay, UserName: "Alice"}
}

func nightShift(id int, date string) models.Shift {
	return models.Shift{ID: id, Date: date, StartTime: "21:00", EndTime: "09:00", ShiftType: models.ShiftTypeNight, UserName: "Bob"}
}

func TestStatusAt_SameHourShiftDoesNotWrap(t *testing.T) {
	sh := models.Shift{ID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "09:30", ShiftType: models.ShiftTypeDay}

	tests := []struct {
		name string
		now  time.Time
		want models.ShiftStatus
	}{
		{"before start", msk(2024, 1, 1, 8, 59), models.ShiftPending},
		{"inside", msk(2024, 1, 1, 9, 15), models.ShiftActive},
		{"exactly at end", msk(2024, 1, 1, 9, 30), models.ShiftActive},
		{"after end", msk(2024, 1, 1, 10, 0), models.ShiftEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StatusAt(sh, tt.now)
			if err != nil {
				t.Fatalf("StatusAt: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatusAt_OvernightShift(t *testing.T) {
	sh := nightShift(1, "2024-01-01")

	tests := []struct {
		name string
		now  time.Time
		want models.ShiftStatus
	}{
		{"evening before start", msk(2024, 1, 1, 20, 0), models.ShiftPending},
		{"at start", msk(2024, 1, 1, 21, 0), models.ShiftActive},
		{"after midnight", msk(2024, 1, 2, 3, 0), models.ShiftActive},
		{"next morning end", msk(2024, 1, 2, 9, 0), models.ShiftActive},
		{"after end", msk(2024, 1, 2, 10, 0), models.ShiftEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StatusAt(sh, tt.now)
			if err != nil {
				t.Fatalf("StatusAt: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatusAt_HostZoneIndependent(t *testing.T) {
	sh := nightShift(1, "2024-01-01")
	// 2024-01-02 00:00 UTC is 03:00 MSK
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err := StatusAt(sh, now)
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	if got != models.ShiftActive {
		t.Errorf("Expected active, got %s", got)
	}
}

func TestSpan_MinuteLevelWrapAndZeroLength(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantHours float64
	}{
		{"minute wrap", "09:30", "09:15", 23.75},
		{"zero length is a full day", "09:00", "09:00", 24},
		{"plain day", "09:00", "21:00", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Span(models.Shift{Date: "2024-03-10", StartTime: tt.start, EndTime: tt.end})
			if err != nil {
				t.Fatalf("Span: %v", err)
			}
			if got := end.Sub(start).Hours(); got != tt.wantHours {
				t.Errorf("Expected %.2f hours, got %.2f", tt.wantHours, got)
			}
		})
	}
}

func TestStatusAt_MalformedTime(t *testing.T) {
	sh := models.Shift{ID: 7, Date: "2024-01-01", StartTime: "9h", EndTime: "21:00"}
	if _, err := StatusAt(sh, msk(2024, 1, 1, 10, 0)); err == nil {
		t.Error("Expected error for malformed start time")
	}
}

func TestSuccessor(t *testing.T) {
	day := dayShift(1, "2024-01-01")
	night := nightShift(2, "2024-01-01")
	roster := []models.Shift{day, night}

	got, ok, err := Successor(day, roster)
	if err != nil {
		t.Fatalf("Successor: %v", err)
	}
	if !ok || got.ID != night.ID {
		t.Errorf("Expected night shift %d, got %d (found=%v)", night.ID, got.ID, ok)
	}

	_, ok, err = Successor(night, roster)
	if err != nil {
		t.Fatalf("Successor: %v", err)
	}
	if ok {
		t.Error("Expected no successor for night shift without next-day day shift")
	}

	nextDay := dayShift(3, "2024-01-02")
	got, ok, _ = Successor(night, append(roster, nextDay))
	if !ok || got.ID != nextDay.ID {
		t.Errorf("Expected next-day shift %d, got %d (found=%v)", nextDay.ID, got.ID, ok)
	}
}

func TestSuccessor_FirstInRosterOrderWins(t *testing.T) {
	day := dayShift(1, "2024-01-31")
	roster := []models.Shift{day, nightShift(5, "2024-01-31"), nightShift(4, "2024-01-31")}
	got, ok, err := Successor(day, roster)
	if err != nil || !ok {
		t.Fatalf("Successor: ok=%v err=%v", ok, err)
	}
	if got.ID != 5 {
		t.Errorf("Expected first candidate 5, got %d", got.ID)
	}
}

func TestSuccessor_NightCrossesMonth(t *testing.T) {
	night := nightShift(1, "2024-02-29")
	next := dayShift(2, "2024-03-01")
	got, ok, err := Successor(night, []models.Shift{next, night})
	if err != nil || !ok {
		t.Fatalf("Successor: ok=%v err=%v", ok, err)
	}
	if got.ID != 2 {
		t.Errorf("Expected 2, got %d", got.ID)
	}
}

func TestSuccessor_UnknownType(t *testing.T) {
	sh := models.Shift{ID: 1, Date: "2024-01-01", ShiftType: "evening"}
	if _, _, err := Successor(sh, nil); err == nil {
		t.Error("Expected error for unknown shift type")
	}
}

func TestScheduler_ActiveShift(t *testing.T) {
	roster := []models.Shift{
		dayShift(1, "2024-01-01"),
		nightShift(2, "2024-01-01"),
		dayShift(3, "2024-01-02"),
	}
	s := NewScheduler(roster, FixedClock(msk(2024, 1, 2, 2, 0)))

	got, ok, err := s.ActiveShift()
	if err != nil {
		t.Fatalf("ActiveShift: %v", err)
	}
	if !ok || got.ID != 2 {
		t.Errorf("Expected active night shift 2, got %d (found=%v)", got.ID, ok)
	}

	s = NewScheduler(roster, FixedClock(msk(2024, 1, 5, 12, 0)))
	if _, ok, _ := s.ActiveShift(); ok {
		t.Error("Expected no active shift")
	}
}

func TestScheduler_SetsMalformedAside(t *testing.T) {
	bad := models.Shift{ID: 9, Date: "2023-06-01", StartTime: "9h", EndTime: "21:00", ShiftType: models.ShiftTypeDay}
	roster := []models.Shift{dayShift(1, "2024-01-01"), bad, nightShift(2, "2024-01-01")}
	s := NewScheduler(roster, FixedClock(msk(2024, 1, 1, 22, 0)))

	if len(s.Shifts) != 2 || s.Shifts[0].ID != 1 || s.Shifts[1].ID != 2 {
		t.Errorf("Expected shifts 1 and 2 in order, got %v", s.Shifts)
	}
	if err, ok := s.Malformed[9]; !ok || !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Expected shift 9 set aside with ErrInvalidTime, got %v", s.Malformed)
	}
	if _, err := s.Views(); err != nil {
		t.Errorf("Expected views over the screened roster, got %v", err)
	}
	if _, err := s.OnToday(); err != nil {
		t.Errorf("Expected day window over the screened roster, got %v", err)
	}
}

func TestScheduler_Upcoming(t *testing.T) {
	roster := []models.Shift{
		nightShift(1, "2024-01-02"),
		dayShift(2, "2024-01-01"),
		dayShift(3, "2024-01-02"),
		nightShift(4, "2024-01-01"),
		dayShift(5, "2024-01-03"),
	}
	s := NewScheduler(roster, FixedClock(msk(2024, 1, 1, 10, 0)))

	got, err := s.Upcoming(5)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	want := []int{4, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("Expected %d upcoming shifts, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Expected shift %d at %d, got %d", id, i, got[i].ID)
		}
	}

	got, _ = s.Upcoming(1)
	if len(got) != 1 || got[0].ID != 4 {
		t.Errorf("Expected only shift 4 with limit 1, got %v", got)
	}
}

func TestCanonicalTimes(t *testing.T) {
	start, end, err := CanonicalTimes(models.ShiftTypeNight)
	if err != nil || start != "21:00" || end != "09:00" {
		t.Errorf("Expected 21:00-09:00, got %s-%s (%v)", start, end, err)
	}
	if _, _, err := CanonicalTimes("weekend"); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestShiftLabel(t *testing.T) {
	got := ShiftLabel(dayShift(1, "2024-01-01"))
	if got != "Alice (2024-01-01 09:00-21:00)" {
		t.Errorf("unexpected label %q", got)
	}
}
