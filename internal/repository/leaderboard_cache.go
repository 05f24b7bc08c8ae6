package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/Marmoset/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// LeaderboardCache keeps frozen leaderboards in Redis in front of postgres.
// Frozen boards never change, so a cache hit is always correct. A nil client
// disables the cache; every method then reports a miss.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: 12 * time.Hour}
}

func (c *LeaderboardCache) key(contestID uint) string {
	return fmt.Sprintf("leaderboard:%d", contestID)
}

// Get returns the cached entries and whether the key was present.
func (c *LeaderboardCache) Get(ctx context.Context, contestID uint) ([]model.LeaderboardEntry, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(contestID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Uint("contestID", contestID).Msg("Leaderboard cache read failed")
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn().Err(err).Uint("contestID", contestID).Msg("Leaderboard cache entry corrupt, ignoring")
		return nil, false
	}
	return entries, true
}

// Set stores the frozen entries. Failures only cost a future cache miss.
func (c *LeaderboardCache) Set(ctx context.Context, contestID uint, entries []model.LeaderboardEntry) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Warn().Err(err).Uint("contestID", contestID).Msg("Leaderboard cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(contestID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Uint("contestID", contestID).Msg("Leaderboard cache write failed")
	}
}
