package history

import (
	"testing"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/domain"
)

func TestBoltStoreRecordsAndExpiresOutcomes(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		OutcomeTTL:      1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/history.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	_, known, err := store.LastOutcome("health")
	if err != nil || known {
		t.Fatalf("expected unknown check, known=%v err=%v", known, err)
	}

	if err := store.RecordOutcome("health", domain.OutcomeFailed); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	out, known, err := store.LastOutcome("health")
	if err != nil || !known {
		t.Fatalf("expected recorded outcome, known=%v err=%v", known, err)
	}
	if out != domain.OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", out)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	_, known, err = store.LastOutcome("health")
	if err != nil {
		t.Fatalf("LastOutcome after expiry: %v", err)
	}
	if known {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordOutcome("x", domain.OutcomePassed); err != nil {
		t.Fatalf("noop store RecordOutcome: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported history type")
	}
}

func TestTransitionClassification(t *testing.T) {
	cases := []struct {
		name    string
		prev    domain.Outcome
		known   bool
		current domain.Outcome
		want    domain.Transition
	}{
		{"first run", "", false, domain.OutcomePassed, domain.TransitionNew},
		{"still passing", domain.OutcomePassed, true, domain.OutcomePassed, domain.TransitionSteady},
		{"still failing", domain.OutcomeFailed, true, domain.OutcomeFailed, domain.TransitionStillFailing},
		{"regressed", domain.OutcomePassed, true, domain.OutcomeFailed, domain.TransitionRegressed},
		{"recovered", domain.OutcomeFailed, true, domain.OutcomePassed, domain.TransitionRecovered},
	}
	for _, tc := range cases {
		if got := Transition(tc.prev, tc.known, tc.current); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
