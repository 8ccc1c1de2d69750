package reporters

import (
	"context"
	"errors"
	"testing"
)

type stubReporter struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubReporter) ID() string   { return s.id }
func (s *stubReporter) Type() string { return s.typ }
func (s *stubReporter) Send(context.Context, Report) error {
	s.calls++
	return s.err
}

func TestFanoutSendAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Reporter{
		&stubReporter{id: "ok", typ: "http"},
		&stubReporter{id: "bad", typ: "http", err: errors.New("failed")},
	})

	count, err := fanout.Send(context.Background(), sampleReport())
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutSkipsNilReporters(t *testing.T) {
	fanout := NewFanout([]Reporter{nil, &stubReporter{id: "ok", typ: "log"}})
	if fanout.Size() != 1 {
		t.Fatalf("expected nil reporters dropped, size=%d", fanout.Size())
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	reps, err := BuildAll(context.Background(), reg, []ReporterConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPReporterConfig{URL: "https://example.com"}},
		{ID: "console", Type: TypeLog},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(reps) != 2 {
		t.Fatalf("expected 2 reporters, got %d", len(reps))
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.ReporterFor(context.Background(), ReporterConfig{ID: "x", Type: "carrier-pigeon"}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown reporter type")
	}
}
