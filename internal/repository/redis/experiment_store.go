package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pythonvista/intelligent-libary-sub000/business/experiment"
)

type ExperimentStore struct {
	client *redis.Client
}

func NewExperimentStore(client *redis.Client) *ExperimentStore {
	return &ExperimentStore{
		client: client,
	}
}

// Increment bumps the variant-level counter and the per-book breakdown.
func (r *ExperimentStore) Increment(ctx context.Context, variant, eventType string, bookID uint64) error {
	// key format: "experiment:variant:{variant}"
	key := fmt.Sprintf("experiment:variant:%s", variant)

	err := r.client.HIncrBy(ctx, key, eventType, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment variant counter: %w", err)
	}

	bookKey := fmt.Sprintf("experiment:variant:%s:books", variant)
	field := fmt.Sprintf("%d:%s", bookID, eventType)
	err = r.client.HIncrBy(ctx, bookKey, field, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment book counter: %w", err)
	}

	return nil
}

func (r *ExperimentStore) Counts(ctx context.Context, variant string) (experiment.Counts, error) {
	key := fmt.Sprintf("experiment:variant:%s", variant)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return experiment.Counts{}, fmt.Errorf("failed to read variant counters: %w", err)
	}

	counts := experiment.Counts{}
	counts.Impressions, err = parseCount(fields, experiment.EventImpression)
	if err != nil {
		return experiment.Counts{}, err
	}
	counts.Clicks, err = parseCount(fields, experiment.EventClick)
	if err != nil {
		return experiment.Counts{}, err
	}
	counts.Conversions, err = parseCount(fields, experiment.EventConversion)
	if err != nil {
		return experiment.Counts{}, err
	}

	return counts, nil
}

func parseCount(fields map[string]string, name string) (uint64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, nil
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter %s: %w", name, err)
	}

	return n, nil
}
