package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"wavecrate/logger"
	"wavecrate/model"
)

// PlaylistCache is a TTL-bound Redis cache for playlist song listings.
// A nil client disables it: every method degrades to a miss / no-op,
// so callers never branch on whether caching is configured.
type PlaylistCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlaylistCache wraps the given client. Pass nil to disable caching.
func NewPlaylistCache(client *redis.Client, ttl time.Duration) *PlaylistCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PlaylistCache{client: client, ttl: ttl}
}

// songsKey builds the Redis key for a playlist's song listing.
func songsKey(name string) string {
	return fmt.Sprintf("playlist:songs:%s", name)
}

// GetSongs returns the cached listing and whether it was present.
func (c *PlaylistCache) GetSongs(ctx context.Context, name string) ([]*model.Song, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, songsKey(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Playlist cache read failed",
				logger.String("playlist", name),
				logger.ErrorField(err))
		}
		return nil, false
	}

	var songs []*model.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		logger.Warn("Playlist cache entry corrupt, dropping",
			logger.String("playlist", name),
			logger.ErrorField(err))
		c.Invalidate(ctx, name)
		return nil, false
	}
	return songs, true
}

// SetSongs stores the listing under the playlist's key.
func (c *PlaylistCache) SetSongs(ctx context.Context, name string, songs []*model.Song) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(songs)
	if err != nil {
		logger.Warn("Playlist cache marshal failed",
			logger.String("playlist", name),
			logger.ErrorField(err))
		return
	}

	if err := c.client.Set(ctx, songsKey(name), data, c.ttl).Err(); err != nil {
		logger.Warn("Playlist cache write failed",
			logger.String("playlist", name),
			logger.ErrorField(err))
	}
}

// Invalidate drops the cached listing after a membership change or
// playlist deletion.
func (c *PlaylistCache) Invalidate(ctx context.Context, name string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, songsKey(name)).Err(); err != nil {
		logger.Warn("Playlist cache invalidation failed",
			logger.String("playlist", name),
			logger.ErrorField(err))
	}
}
