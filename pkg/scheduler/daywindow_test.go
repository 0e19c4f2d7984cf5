package scheduler

import (
	"testing"

	"github.com/tserv/shift-control/pkg/models"
)

func ids(shifts []models.Shift) []int {
	out := make([]int, len(shifts))
	for i, sh := range shifts {
		out[i] = sh.ID
	}
	return out
}

func TestOnDay_OvernightCoversBothDays(t *testing.T) {
	night := nightShift(1, "2024-01-01")
	roster := []models.Shift{night}

	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		got, err := OnDay(date, roster)
		if err != nil {
			t.Fatalf("OnDay(%s): %v", date, err)
		}
		if len(got) != 1 || got[0].ID != 1 {
			t.Errorf("Expected night shift on %s, got %v", date, ids(got))
		}
	}

	got, _ := OnDay("2024-01-03", roster)
	if len(got) != 0 {
		t.Errorf("Expected nothing on 2024-01-03, got %v", ids(got))
	}
}

func TestOnDay_SubsetAndPredicate(t *testing.T) {
	roster := []models.Shift{
		dayShift(1, "2023-12-31"),
		nightShift(2, "2023-12-31"),
		dayShift(3, "2024-01-01"),
		nightShift(4, "2024-01-01"),
		dayShift(5, "2024-01-02"),
	}
	got, err := OnDay("2024-01-01", roster)
	if err != nil {
		t.Fatalf("OnDay: %v", err)
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids(got))
	}
	winStart, winEnd, _ := DayBounds("2024-01-01")
	for i, sh := range got {
		if sh.ID != want[i] {
			t.Errorf("Expected %d at %d, got %d", want[i], i, sh.ID)
		}
		start, end, _ := Span(sh)
		if !Intersects(start, end, winStart, winEnd) {
			t.Errorf("shift %d does not intersect the day", sh.ID)
		}
		if _, ok := FindByID(roster, sh.ID); !ok {
			t.Errorf("shift %d not from roster", sh.ID)
		}
	}
}

func TestOnDay_EndingAtMidnightBoundary(t *testing.T) {
	// 18:00-00:00 ends exactly at the next day's first instant
	sh := models.Shift{ID: 1, Date: "2024-01-01", StartTime: "18:00", EndTime: "00:00", ShiftType: models.ShiftTypeNight}
	got, err := OnDay("2024-01-02", []models.Shift{sh})
	if err != nil {
		t.Fatalf("OnDay: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected closed interval to touch 2024-01-02, got %v", ids(got))
	}
}

func TestOnDay_InvalidDate(t *testing.T) {
	if _, err := OnDay("01.01.2024", nil); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestSortDayFirst(t *testing.T) {
	shifts := []models.Shift{nightShift(1, "2024-01-01"), dayShift(2, "2024-01-01"), nightShift(3, "2024-01-01"), dayShift(4, "2024-01-01")}
	SortDayFirst(shifts)
	want := []int{2, 4, 1, 3}
	for i, id := range want {
		if shifts[i].ID != id {
			t.Errorf("Expected %v, got %v", want, ids(shifts))
			break
		}
	}
}

func TestScheduledOn(t *testing.T) {
	roster := []models.Shift{nightShift(1, "2024-01-01"), dayShift(2, "2024-01-02")}
	got := ScheduledOn("2024-01-02", roster)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Expected [2], got %v", ids(got))
	}
}
