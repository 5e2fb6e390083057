package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecksWithin_SendsWindowAndDecodes(t *testing.T) {
	var gotPath, gotStart, gotStats string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("start")
		gotStats = r.URL.Query().Get("stats_start")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","timeline":[{"Result":{"endpoint":"https://a","timestamp":5,"healthy":true},"Timestamp":5}],"timestamp":"7"}`))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.ChecksWithin(context.Background(), time.Unix(100, 0), time.Unix(50, 0))
	if err != nil {
		t.Fatalf("ChecksWithin: %v", err)
	}
	if gotPath != "/api/v1/checkup" || gotStart != "100" || gotStats != "50" {
		t.Fatalf("request wrong: path=%s start=%s stats=%s", gotPath, gotStart, gotStats)
	}
	if out.Status != "OK" || len(out.Timeline) != 1 || out.Timestamp != 7 {
		t.Fatalf("decoded wrong: %+v", out)
	}
}

func TestChecksWithin_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(424)
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL, time.Second)
	_, err := c.ChecksWithin(context.Background(), time.Unix(1, 0), time.Unix(1, 0))
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("want ErrUnexpectedStatus, got %v", err)
	}
}

func TestChecksWithin_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timeline": "nope"`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL, time.Second)
	if _, err := c.ChecksWithin(context.Background(), time.Unix(1, 0), time.Unix(1, 0)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewChecks_StartsAfterLastCheck(t *testing.T) {
	var gotStart, gotStats string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		gotStats = r.URL.Query().Get("stats_start")
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL, time.Second)
	c.now = func() time.Time { return time.Unix(10_000, 0) }

	if _, err := c.NewChecks(context.Background(), 1_500_999_999_999, time.Hour); err != nil {
		t.Fatalf("NewChecks: %v", err)
	}
	if gotStart != "1501" {
		t.Fatalf("start: want 1501, got %s", gotStart)
	}
	if gotStats != "6400" {
		t.Fatalf("stats_start: want 6400, got %s", gotStats)
	}
}

func TestNextStart_FallsBackWithoutChecks(t *testing.T) {
	fb := time.Unix(42, 0)
	if got := NextStart(0, fb); !got.Equal(fb) {
		t.Fatalf("want fallback, got %v", got)
	}
}

func TestNewClient_RejectsNonHTTP(t *testing.T) {
	if _, err := NewClient("ftp://x", time.Second); err == nil {
		t.Fatalf("expected error for ftp base")
	}
}
