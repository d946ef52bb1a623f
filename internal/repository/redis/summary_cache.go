package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"denimatch/business/taste"

	"github.com/redis/go-redis/v9"
)

const summaryTTL = 10 * time.Minute

// SummaryCache is the short-lived per-profile taste summary cache consulted
// by the recommendation path and invalidated on every feedback write.
type SummaryCache struct {
	client *redis.Client
}

func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

func summaryKey(profileID uint) string {
	return fmt.Sprintf("taste:summary:%d", profileID)
}

func (c *SummaryCache) GetSummary(ctx context.Context, profileID uint) (taste.Summary, bool, error) {
	val, err := c.client.Get(ctx, summaryKey(profileID)).Result()
	if errors.Is(err, redis.Nil) {
		return taste.Summary{}, false, nil
	}
	if err != nil {
		return taste.Summary{}, false, fmt.Errorf("failed to get summary from Redis: %w", err)
	}

	var summary taste.Summary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return taste.Summary{}, false, fmt.Errorf("failed to unmarshal cached summary: %w", err)
	}

	return summary, true, nil
}

func (c *SummaryCache) SetSummary(ctx context.Context, profileID uint, summary taste.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(profileID), raw, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to store summary in Redis: %w", err)
	}

	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, profileID uint) error {
	if err := c.client.Del(ctx, summaryKey(profileID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}

	return nil
}
