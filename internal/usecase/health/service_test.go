package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockSourceChecker struct {
	err error
}

func (m *mockSourceChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCachePinger{}, map[string]SourceChecker{
		"directory": &mockSourceChecker{},
		"places":    &mockSourceChecker{},
	})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for name, c := range r.Checks {
		if c != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, c)
		}
	}
}

func TestCheck_CacheDown(t *testing.T) {
	svc := New(&mockCachePinger{err: errors.New("refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_SourceDown(t *testing.T) {
	svc := New(nil, map[string]SourceChecker{
		"places": &mockSourceChecker{err: errors.New("no api key")},
	})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["places"] != CheckError {
		t.Errorf("expected places %q, got %q", CheckError, r.Checks["places"])
	}
}

func TestCheck_NilCacheOmitted(t *testing.T) {
	svc := New(nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q with nothing to check, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("nil cache should not produce a check entry")
	}
}
