package scheduler

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildMonthGrid_LeapFebruary(t *testing.T) {
	g := BuildMonthGrid(2024, time.February)

	for i := 0; i < 3; i++ {
		if g[i] != 0 {
			t.Errorf("Expected blank at %d, got %d", i, g[i])
		}
	}
	for day := 1; day <= 29; day++ {
		if g[2+day] != day {
			t.Errorf("Expected day %d at %d, got %d", day, 2+day, g[2+day])
		}
	}
	trailing := 0
	for i := 3 + 29; i < GridCells; i++ {
		if g[i] != 0 {
			t.Errorf("Expected trailing blank at %d, got %d", i, g[i])
		}
		trailing++
	}
	if trailing != 10 {
		t.Errorf("Expected 10 trailing blanks, got %d", trailing)
	}
}

func TestBuildMonthGrid_AlwaysFortyTwoCells(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			g := BuildMonthGrid(year, m)
			first := (int(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Weekday()) + 6) % 7
			count := 0
			for _, d := range g {
				if d != 0 {
					count++
				}
			}
			if count != DaysInMonth(year, m) {
				t.Errorf("%d-%02d: expected %d days, got %d", year, m, DaysInMonth(year, m), count)
			}
			if g[first] != 1 {
				t.Errorf("%d-%02d: expected day 1 at %d", year, m, first)
			}
		}
	}
}

func TestBuildMonthGrid_MondayStart(t *testing.T) {
	// 2024-04-01 is a Monday
	g := BuildMonthGrid(2024, time.April)
	if g[0] != 1 {
		t.Errorf("Expected day 1 in first cell, got %d", g[0])
	}
	// 2024-09-01 is a Sunday
	g = BuildMonthGrid(2024, time.September)
	if g[6] != 1 || g[5] != 0 {
		t.Errorf("Expected day 1 in seventh cell, got %v", g[:7])
	}
}

func TestBuildMonthGrid_Idempotent(t *testing.T) {
	if BuildMonthGrid(2025, time.March) != BuildMonthGrid(2025, time.March) {
		t.Error("Expected identical grids for identical input")
	}
}

func TestGrid_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(BuildMonthGrid(2024, time.February))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), "[null,null,null,1,2,") {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestShiftMonth(t *testing.T) {
	y, m := ShiftMonth(2024, time.January, -1)
	if y != 2023 || m != time.December {
		t.Errorf("Expected 2023-12, got %d-%d", y, m)
	}
	y, m = ShiftMonth(2024, time.December, 1)
	if MonthKey(y, m) != "2025-01" {
		t.Errorf("Expected 2025-01, got %s", MonthKey(y, m))
	}
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2024-02")
	if err != nil || y != 2024 || m != time.February {
		t.Errorf("ParseMonth = %d %v %v", y, m, err)
	}
	if _, _, err := ParseMonth("2024/02"); err == nil {
		t.Error("Expected error for bad month")
	}
}
