package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

const (
	trendingKey = "trending:books"
	trendingTTL = 5 * time.Minute
)

type TrendingCache struct {
	client *redis.Client
}

func NewTrendingCache(client *redis.Client) *TrendingCache {
	return &TrendingCache{
		client: client,
	}
}

// Get returns up to limit entries, best first. An expired or empty key comes
// back as an empty slice, not an error.
func (r *TrendingCache) Get(ctx context.Context, limit int) ([]domain.ScoredBook, error) {
	if limit <= 0 {
		return nil, nil
	}

	entries, err := r.client.ZRevRangeWithScores(ctx, trendingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trending cache: %w", err)
	}

	items := make([]domain.ScoredBook, 0, len(entries))
	for _, entry := range entries {
		member, ok := entry.Member.(string)
		if !ok {
			continue
		}
		bookID, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, domain.ScoredBook{BookID: bookID, Score: entry.Score})
	}

	return items, nil
}

// Set replaces the whole ranking so entries from the previous refresh never
// linger with stale scores.
func (r *TrendingCache) Set(ctx context.Context, items []domain.ScoredBook) error {
	if err := r.client.Del(ctx, trendingKey).Err(); err != nil {
		return fmt.Errorf("failed to reset trending cache: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		members = append(members, redis.Z{
			Score:  item.Score,
			Member: strconv.FormatUint(item.BookID, 10),
		})
	}

	if err := r.client.ZAdd(ctx, trendingKey, members...).Err(); err != nil {
		return fmt.Errorf("failed to write trending cache: %w", err)
	}

	if err := r.client.Expire(ctx, trendingKey, trendingTTL).Err(); err != nil {
		return fmt.Errorf("failed to set trending cache TTL: %w", err)
	}

	return nil
}
