//go:build !integration

package experiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type fakeCounterStore struct {
	counts map[string]*Counts
	err    error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: make(map[string]*Counts)}
}

func (f *fakeCounterStore) Increment(_ context.Context, variant, eventType string, _ uint64) error {
	if f.err != nil {
		return f.err
	}
	c, ok := f.counts[variant]
	if !ok {
		c = &Counts{}
		f.counts[variant] = c
	}
	switch eventType {
	case EventImpression:
		c.Impressions++
	case EventClick:
		c.Clicks++
	case EventConversion:
		c.Conversions++
	}
	return nil
}

func (f *fakeCounterStore) Counts(_ context.Context, variant string) (Counts, error) {
	if f.err != nil {
		return Counts{}, f.err
	}
	if c, ok := f.counts[variant]; ok {
		return *c, nil
	}
	return Counts{}, nil
}

type fakeEventRepo struct {
	saved []domain.ExperimentEvent
	err   error
}

func (f *fakeEventRepo) SaveEvent(_ context.Context, event domain.ExperimentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, event)
	return nil
}

func TestLogEvent_CountsAndPersists(t *testing.T) {
	counters := newFakeCounterStore()
	events := &fakeEventRepo{}
	tracker := NewTracker(events, counters)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := tracker.RecordImpression(ctx, 1, "hybrid", 42); err != nil {
			t.Fatalf("impression %d: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := tracker.RecordClick(ctx, 1, "hybrid", 42); err != nil {
			t.Fatalf("click %d: %v", i, err)
		}
	}
	if err := tracker.RecordConversion(ctx, 1, "hybrid", 42); err != nil {
		t.Fatalf("conversion: %v", err)
	}

	if len(events.saved) != 14 {
		t.Errorf("saved %d events, want 14", len(events.saved))
	}

	ctr, err := tracker.ClickThroughRate(ctx, "hybrid")
	if err != nil {
		t.Fatalf("ctr: %v", err)
	}
	if ctr != 0.3 {
		t.Errorf("ctr = %v, want 0.3", ctr)
	}

	cvr, err := tracker.ConversionRate(ctx, "hybrid")
	if err != nil {
		t.Fatalf("cvr: %v", err)
	}
	if cvr != 0.1 {
		t.Errorf("cvr = %v, want 0.1", cvr)
	}
}

func TestLogEvent_RejectsBadInput(t *testing.T) {
	tracker := NewTracker(&fakeEventRepo{}, newFakeCounterStore())
	ctx := context.Background()

	if err := tracker.LogEvent(ctx, domain.ExperimentEvent{Variant: "", EventType: EventClick}); err == nil {
		t.Error("expected error for missing variant")
	}

	err := tracker.LogEvent(ctx, domain.ExperimentEvent{Variant: "hybrid", EventType: "purchase"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if !strings.Contains(err.Error(), "unknown event type") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLogEvent_EnrichesContext(t *testing.T) {
	events := &fakeEventRepo{}
	tracker := NewTracker(events, newFakeCounterStore())

	event := domain.ExperimentEvent{
		UserID:    9,
		Variant:   "nmf",
		BookID:    7,
		EventType: EventImpression,
		Context:   datatypes.JSONMap{"position": 3},
	}
	if err := tracker.LogEvent(context.Background(), event); err != nil {
		t.Fatalf("log event: %v", err)
	}

	if len(events.saved) != 1 {
		t.Fatalf("saved %d events, want 1", len(events.saved))
	}
	saved := events.saved[0]
	if saved.Context["variant"] != "nmf" {
		t.Errorf("variant not merged into context: %v", saved.Context)
	}
	if _, ok := saved.Context["event_time"]; !ok {
		t.Error("event_time missing from context")
	}
	if saved.Context["position"] != 3 {
		t.Errorf("client context lost: %v", saved.Context)
	}
}

func TestLogEvent_CounterFailureSkipsPersist(t *testing.T) {
	counters := newFakeCounterStore()
	counters.err = errors.New("redis down")
	events := &fakeEventRepo{}
	tracker := NewTracker(events, counters)

	err := tracker.RecordClick(context.Background(), 1, "hybrid", 5)
	if err == nil {
		t.Fatal("expected error when the counter store is down")
	}
	if len(events.saved) != 0 {
		t.Errorf("saved %d events after a counter failure, want 0", len(events.saved))
	}
}

func TestRates_ZeroImpressionsMeansZero(t *testing.T) {
	counters := newFakeCounterStore()
	// clicks with no impressions, e.g. from a replayed event log
	_ = counters.Increment(context.Background(), "content_based", EventClick, 1)

	tracker := NewTracker(&fakeEventRepo{}, counters)
	ctr, err := tracker.ClickThroughRate(context.Background(), "content_based")
	if err != nil {
		t.Fatalf("ctr: %v", err)
	}
	if ctr != 0 {
		t.Errorf("ctr = %v, want 0 when there are no impressions", ctr)
	}
}

func TestAllMetrics_PreservesVariantOrder(t *testing.T) {
	counters := newFakeCounterStore()
	tracker := NewTracker(&fakeEventRepo{}, counters)
	ctx := context.Background()

	if err := tracker.RecordImpression(ctx, 1, "collaborative", 1); err != nil {
		t.Fatalf("impression: %v", err)
	}
	if err := tracker.RecordImpression(ctx, 1, "hybrid", 1); err != nil {
		t.Fatalf("impression: %v", err)
	}
	if err := tracker.RecordClick(ctx, 1, "hybrid", 1); err != nil {
		t.Fatalf("click: %v", err)
	}

	variants := []string{"collaborative", "nmf", "content_based", "hybrid"}
	got, err := tracker.AllMetrics(ctx, variants)
	if err != nil {
		t.Fatalf("all metrics: %v", err)
	}

	if len(got) != len(variants) {
		t.Fatalf("got %d rows, want %d", len(got), len(variants))
	}
	for i, variant := range variants {
		if got[i].Variant != variant {
			t.Errorf("row %d: variant %q, want %q", i, got[i].Variant, variant)
		}
	}
	if got[3].CTR != 1.0 {
		t.Errorf("hybrid ctr = %v, want 1", got[3].CTR)
	}
	if got[1].Impressions != 0 {
		t.Errorf("nmf impressions = %d, want 0", got[1].Impressions)
	}
}
