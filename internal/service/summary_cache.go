package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/timetable-api/internal/dto"
)

// ErrNoCachedSummary is returned when no run summary exists for a semester.
var ErrNoCachedSummary = fmt.Errorf("no cached run summary")

// SummaryCache keeps the latest run summary per semester in Redis so clients
// can poll the outcome without re-running the scheduler.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(semesterID int64) string {
	return fmt.Sprintf("timetable:run_summary:%d", semesterID)
}

func (c *SummaryCache) StoreSummary(ctx context.Context, semesterID int64, summary *dto.ScheduleRunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(semesterID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache run summary: %w", err)
	}
	return nil
}

// LastSummary returns the most recent cached summary for the semester.
func (c *SummaryCache) LastSummary(ctx context.Context, semesterID int64) (*dto.ScheduleRunSummary, error) {
	payload, err := c.client.Get(ctx, summaryKey(semesterID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoCachedSummary
	}
	if err != nil {
		return nil, fmt.Errorf("read cached run summary: %w", err)
	}
	var summary dto.ScheduleRunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("decode cached run summary: %w", err)
	}
	return &summary, nil
}
