package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthCheck_AllPass(t *testing.T) {
	hc := NewChecker("1.0.0")
	hc.AddCheck("content", func(ctx context.Context) error { return nil }, time.Second)
	hc.AddCriticalCheck("drain", DrainCheck(func() bool { return false }), time.Second)

	report := hc.Check(context.Background())

	if report.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Errorf("Expected 2 checks, got %d", len(report.Checks))
	}
	for name, result := range report.Checks {
		if result.Status != StatusHealthy || result.Error != "" {
			t.Errorf("Check %s should be healthy, got %+v", name, result)
		}
	}
	if report.Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", report.Version)
	}
}

func TestHealthCheck_NonCriticalFails(t *testing.T) {
	hc := NewChecker("")
	hc.AddCheck("passing", func(ctx context.Context) error { return nil }, time.Second)
	hc.AddCheck("failing", func(ctx context.Context) error { return errors.New("boom") }, time.Second)

	report := hc.Check(context.Background())

	if report.Status != StatusDegraded {
		t.Errorf("Expected degraded, got %s", report.Status)
	}
	if report.Checks["failing"].Error != "boom" {
		t.Errorf("Expected error message, got %q", report.Checks["failing"].Error)
	}
}

func TestHealthCheck_CriticalFails(t *testing.T) {
	hc := NewChecker("")
	hc.AddCheck("degraded", func(ctx context.Context) error { return errors.New("x") }, time.Second)
	hc.AddCriticalCheck("drain", DrainCheck(func() bool { return true }), time.Second)

	report := hc.Check(context.Background())

	if report.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", report.Status)
	}
	if report.Checks["drain"].Error != ErrDraining.Error() {
		t.Errorf("Expected drain error, got %q", report.Checks["drain"].Error)
	}
}

func TestHealthCheck_Timeout(t *testing.T) {
	hc := NewChecker("")
	block := make(chan struct{})
	defer close(block)
	hc.AddCriticalCheck("slow", func(ctx context.Context) error {
		<-block
		return nil
	}, 20*time.Millisecond)

	start := time.Now()
	report := hc.Check(context.Background())

	if time.Since(start) > time.Second {
		t.Error("Check did not honour its timeout")
	}
	if report.Checks["slow"].Status != StatusUnhealthy {
		t.Errorf("Expected slow check to fail, got %+v", report.Checks["slow"])
	}
}

func TestHealthCheck_LivenessHandler(t *testing.T) {
	hc := NewChecker("")
	rec := httptest.NewRecorder()
	hc.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("Expected status alive, got %v", body["status"])
	}
}

func TestHealthCheck_ReadinessHandler(t *testing.T) {
	draining := false
	hc := NewChecker("")
	hc.AddCriticalCheck("drain", DrainCheck(func() bool { return draining }), time.Second)

	rec := httptest.NewRecorder()
	hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	draining = true
	rec = httptest.NewRecorder()
	hc.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}

	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if report.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", report.Status)
	}
}

func TestCapacityCheck(t *testing.T) {
	count := 5
	check := CapacityCheck(func() int { return count }, 10)
	if err := check(context.Background()); err != nil {
		t.Errorf("Expected no error under capacity, got %v", err)
	}
	count = 10
	if err := check(context.Background()); err == nil {
		t.Error("Expected error at capacity")
	}
	if err := CapacityCheck(func() int { return 1 << 20 }, 0)(context.Background()); err != nil {
		t.Errorf("Expected unlimited capacity to pass, got %v", err)
	}
}

func TestContentCheck(t *testing.T) {
	want := errors.New("not loaded")
	if err := ContentCheck(func() error { return want })(context.Background()); !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
}
