package experiment

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

const (
	EventImpression = "impression"
	EventClick      = "click"
	EventConversion = "conversion"
)

// Counts holds the live per-variant counters.
type Counts struct {
	Impressions uint64
	Clicks      uint64
	Conversions uint64
}

// CounterStore keeps the hot per-variant counters (redis in production,
// in-memory in tests).
type CounterStore interface {
	Increment(ctx context.Context, variant, eventType string, bookID uint64) error
	Counts(ctx context.Context, variant string) (Counts, error)
}

// EventRepository persists the durable event log for offline analysis.
type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.ExperimentEvent) error
}

// VariantMetrics is the aggregated view served to the experiment dashboard.
type VariantMetrics struct {
	Variant     string  `json:"variant"`
	Impressions uint64  `json:"impressions"`
	Clicks      uint64  `json:"clicks"`
	Conversions uint64  `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CVR         float64 `json:"cvr"`
}

// ---- Usecase / Service ----

type Tracker struct {
	events   EventRepository
	counters CounterStore
}

func NewTracker(events EventRepository, counters CounterStore) *Tracker {
	return &Tracker{
		events:   events,
		counters: counters,
	}
}

// LogEvent records one experiment event: live counters first, then the
// durable row. The prometheus counter only moves after both succeed.
func (t *Tracker) LogEvent(ctx context.Context, event domain.ExperimentEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if event.Variant == "" {
		return fmt.Errorf("variant is required")
	}
	if !validEventType(event.EventType) {
		return fmt.Errorf("unknown event type %q", event.EventType)
	}

	now := time.Now()

	// convert event.Context (JSONMap) into plain map[string]any for merging
	eventCtxMap := map[string]any{}
	if event.Context != nil {
		for k, v := range event.Context {
			eventCtxMap[k] = v
		}
	}

	baseCtx := map[string]any{
		"event_time": now.Format(time.RFC3339),
		"variant":    event.Variant,
	}

	// merged context = base + client-provided context
	event.Context = datatypes.JSONMap(mergeContext(baseCtx, eventCtxMap))

	if err := t.counters.Increment(ctx, event.Variant, event.EventType, event.BookID); err != nil {
		return fmt.Errorf("failed to increment experiment counters: %w", err)
	}

	if err := t.events.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to save experiment event: %w", err)
	}

	logger.Debug("experiment_event",
		"user_id", event.UserID,
		"variant", event.Variant,
		"book_id", event.BookID,
		"event_type", event.EventType,
	)

	// increment Prometheus counter AFTER we successfully process the event
	ExperimentEventsTotal.
		WithLabelValues(event.Variant, event.EventType).
		Inc()

	return nil
}

func (t *Tracker) RecordImpression(ctx context.Context, userID uint, variant string, bookID uint64) error {
	return t.LogEvent(ctx, domain.ExperimentEvent{
		UserID:    userID,
		Variant:   variant,
		BookID:    bookID,
		EventType: EventImpression,
	})
}

func (t *Tracker) RecordClick(ctx context.Context, userID uint, variant string, bookID uint64) error {
	return t.LogEvent(ctx, domain.ExperimentEvent{
		UserID:    userID,
		Variant:   variant,
		BookID:    bookID,
		EventType: EventClick,
	})
}

func (t *Tracker) RecordConversion(ctx context.Context, userID uint, variant string, bookID uint64) error {
	return t.LogEvent(ctx, domain.ExperimentEvent{
		UserID:    userID,
		Variant:   variant,
		BookID:    bookID,
		EventType: EventConversion,
	})
}

//  Aggregation / reporting

// ClickThroughRate is clicks / impressions, 0 when there are no impressions.
func (t *Tracker) ClickThroughRate(ctx context.Context, variant string) (float64, error) {
	counts, err := t.counters.Counts(ctx, variant)
	if err != nil {
		return 0, fmt.Errorf("load experiment counters: %w", err)
	}
	return rate(counts.Clicks, counts.Impressions), nil
}

// ConversionRate is conversions / impressions, 0 when there are no impressions.
func (t *Tracker) ConversionRate(ctx context.Context, variant string) (float64, error) {
	counts, err := t.counters.Counts(ctx, variant)
	if err != nil {
		return 0, fmt.Errorf("load experiment counters: %w", err)
	}
	return rate(counts.Conversions, counts.Impressions), nil
}

// Metrics aggregates the counters for one variant.
func (t *Tracker) Metrics(ctx context.Context, variant string) (VariantMetrics, error) {
	counts, err := t.counters.Counts(ctx, variant)
	if err != nil {
		return VariantMetrics{}, fmt.Errorf("load experiment counters: %w", err)
	}

	return VariantMetrics{
		Variant:     variant,
		Impressions: counts.Impressions,
		Clicks:      counts.Clicks,
		Conversions: counts.Conversions,
		CTR:         rate(counts.Clicks, counts.Impressions),
		CVR:         rate(counts.Conversions, counts.Impressions),
	}, nil
}

// AllMetrics aggregates every requested variant in order.
func (t *Tracker) AllMetrics(ctx context.Context, variants []string) ([]VariantMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make([]VariantMetrics, 0, len(variants))
	for _, variant := range variants {
		m, err := t.Metrics(ctx, variant)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func validEventType(eventType string) bool {
	switch eventType {
	case EventImpression, EventClick, EventConversion:
		return true
	}
	return false
}

func rate(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// mergeContext merges multiple maps into a new one.
func mergeContext(maps ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
