package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/tserv/shift-control/pkg/models"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return NewClient(url, zap.NewNop(), WithRetries(3, 0))
}

func TestListShifts_ForwardsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shifts/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer op-token" {
			t.Errorf("Expected forwarded token, got %q", got)
		}
		json.NewEncoder(w).Encode([]models.Shift{{ID: 1, Date: "2024-01-01", ShiftType: models.ShiftTypeDay}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")
	shifts, err := c.ListShifts(WithToken(context.Background(), "op-token"))
	if err != nil {
		t.Fatalf("ListShifts: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ShiftType != models.ShiftTypeDay {
		t.Errorf("unexpected shifts %+v", shifts)
	}
}

func TestDoRequest_RetriesIdempotentServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var in models.CreateShift
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("body not resent on retry: %v", err)
		}
		json.NewEncoder(w).Encode(models.Shift{ID: 9, Date: in.Date})
	}))
	defer srv.Close()

	shift, err := newTestClient(srv.URL).UpdateShift(context.Background(), 9, models.CreateShift{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("UpdateShift: %v", err)
	}
	if shift.ID != 9 || shift.Date != "2024-01-01" {
		t.Errorf("unexpected shift %+v", shift)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestDoRequest_PostNotRetriedAfterServerError(t *testing.T) {
	var rows int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the row is stored, then the gateway in front fails
		atomic.AddInt32(&rows, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateShift(context.Background(), models.CreateShift{Date: "2024-01-01"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("Expected 502 APIError, got %v", err)
	}
	if got := atomic.LoadInt32(&rows); got != 1 {
		t.Errorf("Expected a single create upstream, got %d", got)
	}
}

type failingTransport struct {
	calls int32
	op    string
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, &net.OpError{Op: f.op, Net: "tcp", Err: errors.New("connection refused")}
}

func TestDoRequest_PostRetriedOnlyWhenNotSent(t *testing.T) {
	tests := []struct {
		op    string
		calls int32
	}{
		{"dial", 3},
		{"read", 1},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			tr := &failingTransport{op: tt.op}
			c := NewClient("http://roster.invalid", zap.NewNop(),
				WithRetries(3, 0), WithHTTPClient(&http.Client{Transport: tr}))

			if _, err := c.CreateHandover(context.Background(), models.CreateHandover{}); err == nil {
				t.Fatal("Expected error")
			}
			if got := atomic.LoadInt32(&tr.calls); got != tt.calls {
				t.Errorf("Expected %d attempts, got %d", tt.calls, got)
			}
		})
	}
}

func TestDoRequest_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Not enough permissions"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeleteShift(context.Background(), 4)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Detail != "Not enough permissions" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}

func TestDeleteAsset_NotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodDelete || r.URL.Path != "/assets/12" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeleteAsset(context.Background(), 12)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Expected not found, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"bad"}`, "bad"},
		{"structured detail", `{"detail":[{"loc":["body"]}]}`, `[{"loc":["body"]}]`},
		{"plain text", "oops\n", "oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("errorDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
