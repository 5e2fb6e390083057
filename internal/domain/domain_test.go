package domain

import (
	"encoding/json"
	"testing"
)

func TestResult_StatusPrecedence(t *testing.T) {
	cases := []struct {
		name string
		in   Result
		want Status
	}{
		{"healthy", Result{Healthy: true}, StatusHealthy},
		{"degraded", Result{Degraded: true}, StatusDegraded},
		{"down", Result{Down: true}, StatusDown},
		{"degraded_beats_down", Result{Degraded: true, Down: true}, StatusDegraded},
		{"no_flags", Result{}, StatusHealthy},
	}
	for _, c := range cases {
		if got := c.in.Status(); got != c.want {
			t.Fatalf("%s: Status()=%q want %q", c.name, got, c.want)
		}
	}
}

func TestResult_DisplayStatus(t *testing.T) {
	cases := []struct {
		in   Result
		want string
	}{
		{Result{Healthy: true}, "UP"},
		{Result{Down: true}, "DOWN"},
		{Result{Degraded: true}, "DEGRADED"},
		{Result{}, "Unknown"},
	}
	for _, c := range cases {
		if got := c.in.DisplayStatus(); got != c.want {
			t.Fatalf("DisplayStatus(%+v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestCheckup_DecodesAPIPayload(t *testing.T) {
	raw := `{
		"status": "DEGRADED",
		"last_results": [{"title":"Site","endpoint":"https://a","timestamp":1500000000000000000,"down":true}],
		"stats": {"ItemsCount": 4, "HealthyPC": 75.5},
		"timeline": [
			{"Result":{"title":"Site","endpoint":"https://a","timestamp":1500000000000000000,"healthy":true},"StateChange":true,"Timestamp":1500000000000000000}
		],
		"timestamp": "1500000000000000001"
	}`
	var c Checkup
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Status != BackendDegraded || c.Stats.ItemsCount != 4 || c.Stats.HealthyPC != 75.5 {
		t.Fatalf("header fields wrong: %+v", c)
	}
	if len(c.Timeline) != 1 || c.Timeline[0].Result == nil || !c.Timeline[0].Result.Healthy {
		t.Fatalf("timeline wrong: %+v", c.Timeline)
	}
	if c.Timestamp != 1500000000000000001 {
		t.Fatalf("timestamp=%d", c.Timestamp)
	}
	if len(c.LastResults) != 1 || c.LastResults[0].DisplayStatus() != "DOWN" {
		t.Fatalf("last results wrong: %+v", c.LastResults)
	}
}

func TestNanoTime_AcceptsNumberAndNull(t *testing.T) {
	var n NanoTime
	if err := json.Unmarshal([]byte(`42`), &n); err != nil || n != 42 {
		t.Fatalf("bare number: n=%d err=%v", n, err)
	}
	if err := json.Unmarshal([]byte(`null`), &n); err != nil || n != 0 {
		t.Fatalf("null: n=%d err=%v", n, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &n); err == nil {
		t.Fatalf("expected error on garbage timestamp")
	}
}
