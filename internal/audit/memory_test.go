package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	first, err := store.Record(ctx, Params{Action: ActionGenerate, Records: 50})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first.ID == "" {
		t.Error("Record() returned entry without ID")
	}
	if first.Outcome != OutcomeOK {
		t.Errorf("Outcome = %q, want %q", first.Outcome, OutcomeOK)
	}

	if _, err := store.Record(ctx, Params{Action: ActionLoad, Source: "results.csv", Records: 12}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Action != ActionLoad {
		t.Errorf("entries[0].Action = %q, want newest first", entries[0].Action)
	}
	if entries[1].ID != first.ID {
		t.Errorf("entries[1].ID = %q, want %q", entries[1].ID, first.ID)
	}
}

func TestMemory_RecordFailure(t *testing.T) {
	store := NewMemory()

	e, err := store.Record(context.Background(), Params{
		Action: ActionLoad,
		Source: "broken.csv",
		Err:    errors.New("missing required columns: grade"),
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e.Outcome != OutcomeFailed {
		t.Errorf("Outcome = %q, want %q", e.Outcome, OutcomeFailed)
	}
	if e.Detail != "missing required columns: grade" {
		t.Errorf("Detail = %q, want the error text", e.Detail)
	}
}

func TestMemory_RecentLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, Params{Action: ActionExport}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Recent(3) returned %d entries, want 3", len(entries))
	}

	// Non-positive limit falls back to the default.
	entries, err = store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("Recent(0) returned %d entries, want all 5", len(entries))
	}
}

func TestMemory_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for i := 0; i < 3; i++ {
		if _, err := store.Record(ctx, Params{Action: ActionGenerate}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	// Nothing is older than an hour yet.
	purged, err := store.PurgeOlderThan(ctx, time.Hour)
	if err != nil {
		t.Fatalf("PurgeOlderThan() error = %v", err)
	}
	if purged != 0 {
		t.Errorf("purged %d entries, want 0", purged)
	}

	// Age zero makes every existing entry stale.
	purged, err = store.PurgeOlderThan(ctx, 0)
	if err != nil {
		t.Fatalf("PurgeOlderThan() error = %v", err)
	}
	if purged != 3 {
		t.Errorf("purged %d entries, want 3", purged)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Recent() after purge returned %d entries, want 0", len(entries))
	}
}

func TestMemory_CapsEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for i := 0; i < memoryCap+25; i++ {
		if _, err := store.Record(ctx, Params{Action: ActionGenerate, Records: i}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := store.Recent(ctx, memoryCap*2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != memoryCap {
		t.Errorf("store holds %d entries, want cap %d", len(entries), memoryCap)
	}
	// The newest entry survives the cap.
	if entries[0].Records != memoryCap+24 {
		t.Errorf("newest entry Records = %d, want %d", entries[0].Records, memoryCap+24)
	}
}
