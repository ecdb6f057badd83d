package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

type SanctionCache struct {
	redis *redis.Client
}

func NewSanctionCache(redis *redis.Client) *SanctionCache {
	return &SanctionCache{redis: redis}
}

func sanctionsKey(kind models.SanctionKind) string {
	return fmt.Sprintf("sanctions:%s", kind)
}

func (c *SanctionCache) GetSanctions(ctx context.Context, kind models.SanctionKind) ([]models.Sanction, error) {
	data, err := c.redis.Get(ctx, sanctionsKey(kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, derr.ErrNotFound
		}
		return nil, fmt.Errorf("redis get sanctions: %w", err)
	}

	var sanctions []models.Sanction
	if err := json.Unmarshal([]byte(data), &sanctions); err != nil {
		return nil, fmt.Errorf("unmarshal cached sanctions: %w", err)
	}

	return sanctions, nil
}

func (c *SanctionCache) SetSanctions(ctx context.Context, kind models.SanctionKind, sanctions []models.Sanction, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(sanctions)
	if err != nil {
		return fmt.Errorf("marshal sanctions for cache: %w", err)
	}

	if err := c.redis.Set(ctx, sanctionsKey(kind), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set sanctions: %w", err)
	}

	return nil
}
