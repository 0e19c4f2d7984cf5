package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestWriteGrid_February2024(t *testing.T) {
	var buf bytes.Buffer
	if err := writeGrid(&buf, "2024-02", scheduler.BuildMonthGrid(2024, time.February)); err != nil {
		t.Fatalf("writeGrid: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("Expected header plus 5 weeks, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[2] != "          1  2  3  4" {
		t.Errorf("unexpected first week %q", lines[2])
	}
	if lines[6] != "26 27 28 29" {
		t.Errorf("unexpected last week %q", lines[6])
	}
}

func TestRender_YAML(t *testing.T) {
	v.Set("output", "yaml")
	defer v.Set("output", "text")

	lines := []shiftLine{{ID: 2, Label: "Bob (2024-01-01 21:00-09:00)", Type: models.ShiftTypeNight, Status: models.ShiftActive}}
	var buf bytes.Buffer
	if err := render(&buf, lines, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	var got []shiftLine
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if len(got) != 1 || got[0].Status != models.ShiftActive || got[0].Type != models.ShiftTypeNight {
		t.Errorf("unexpected round trip %+v", got)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	v.Set("output", "xml")
	defer v.Set("output", "text")
	if err := render(&bytes.Buffer{}, nil, nil); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestShiftLines(t *testing.T) {
	shifts := []models.Shift{
		{ID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "21:00", ShiftType: models.ShiftTypeDay, UserName: "Alice"},
		{ID: 2, Date: "2024-01-01", StartTime: "21:00", EndTime: "09:00", ShiftType: models.ShiftTypeNight, UserName: "Bob"},
	}
	lines, err := shiftLines(shifts, time.Date(2024, 1, 2, 3, 0, 0, 0, scheduler.MSK))
	if err != nil {
		t.Fatalf("shiftLines: %v", err)
	}
	if lines[0].Status != models.ShiftEnded || lines[1].Status != models.ShiftActive {
		t.Errorf("unexpected statuses %+v", lines)
	}

	var buf bytes.Buffer
	writeLines(&buf, lines)
	if !strings.Contains(buf.String(), "#2  Ночь") {
		t.Errorf("unexpected text output %q", buf.String())
	}
}

func TestFetchRoster_SetsMalformedAside(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cli-token" {
			t.Errorf("Expected CLI token upstream, got %q", got)
		}
		json.NewEncoder(w).Encode([]models.Shift{
			{ID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "21:00", ShiftType: models.ShiftTypeDay},
			{ID: 99, Date: "2023-06-01", StartTime: "9h", EndTime: "21:00", ShiftType: models.ShiftTypeDay},
		})
	}))
	defer srv.Close()

	logger = zap.NewNop()
	v.Set("upstream-url", srv.URL)
	v.Set("token", "cli-token")
	defer v.Set("upstream-url", "")
	defer v.Set("token", "")

	roster, malformed, err := fetchRoster(context.Background())
	if err != nil {
		t.Fatalf("fetchRoster: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != 1 {
		t.Errorf("Expected only shift 1, got %+v", roster)
	}
	if _, ok := malformed[99]; !ok {
		t.Errorf("Expected shift 99 set aside, got %v", malformed)
	}
}
