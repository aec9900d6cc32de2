package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// Cache TTLs. Creator status is short-lived because warnings can change
// it at any moment; diversity scores are invalidated on engagement.
const (
	CreatorStatusTTL = time.Minute
	DiversityTTL     = 5 * time.Minute
)

// CacheService provides a Redis cache-aside layer for creator status and
// post diversity lookups.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetCreatorStatus retrieves a cached status. Returns nil when not cached
// or the cache is disabled.
func (c *CacheService) GetCreatorStatus(ctx context.Context, creatorID string) (*model.CreatorStatusResponse, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, statusKey(creatorID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.CreatorStatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil
	}
	return &resp, nil
}

// SetCreatorStatus stores a creator status response.
func (c *CacheService) SetCreatorStatus(ctx context.Context, creatorID string, resp *model.CreatorStatusResponse) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statusKey(creatorID), b, CreatorStatusTTL).Err()
}

// InvalidateCreatorStatus removes a creator status from cache (called
// after a warning, probation, or suspension).
func (c *CacheService) InvalidateCreatorStatus(ctx context.Context, creatorID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, statusKey(creatorID)).Err()
}

// GetDiversity retrieves a cached diversity result for a post.
func (c *CacheService) GetDiversity(ctx context.Context, postID string, mode model.Mode) (*model.DiversityResult, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, diversityKey(postID, mode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.DiversityResult
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil
	}
	return &resp, nil
}

// SetDiversity stores a diversity result for a post.
func (c *CacheService) SetDiversity(ctx context.Context, postID string, mode model.Mode, resp *model.DiversityResult) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, diversityKey(postID, mode), b, DiversityTTL).Err()
}

// InvalidateDiversity removes a post's diversity results for both modes
// (called after recording an engagement).
func (c *CacheService) InvalidateDiversity(ctx context.Context, postID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx,
		diversityKey(postID, model.ModeBeta),
		diversityKey(postID, model.ModeNatural),
	).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func statusKey(creatorID string) string {
	return fmt.Sprintf("creator-status:%s", creatorID)
}

func diversityKey(postID string, mode model.Mode) string {
	return fmt.Sprintf("diversity:%s:%s", mode, postID)
}
