package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/telehotels/internal/services/cache"
)

// CachedClient memoizes destination lookups and photo lists. Search
// results always go to the API.
type CachedClient struct {
	*Client
	cache          cache.Cache
	destinationTTL time.Duration
	photoTTL       time.Duration
}

// NewCachedClient wraps client with c
func NewCachedClient(client *Client, c cache.Cache, destinationTTL, photoTTL time.Duration) *CachedClient {
	return &CachedClient{
		Client:         client,
		cache:          c,
		destinationTTL: destinationTTL,
		photoTTL:       photoTTL,
	}
}

func destinationKey(city, locale string) string {
	return fmt.Sprintf("dest:%s:%s", locale, strings.ToLower(strings.TrimSpace(city)))
}

func photosKey(hotelID int64) string {
	return fmt.Sprintf("photos:%d", hotelID)
}

// ResolveDestination checks the cache before asking the API. Misses
// (ErrDestinationNotFound) are not cached.
func (c *CachedClient) ResolveDestination(ctx context.Context, city, locale string) (string, error) {
	key := destinationKey(city, locale)
	if data, ok := c.cache.Get(ctx, key); ok {
		return string(data), nil
	}

	id, err := c.Client.ResolveDestination(ctx, city, locale)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, []byte(id), c.destinationTTL); err != nil {
		c.logger.Warn("failed to cache destination", "key", key, "error", err)
	}
	return id, nil
}

// FetchPhotos checks the cache before asking the API
func (c *CachedClient) FetchPhotos(ctx context.Context, hotelID int64) ([]string, error) {
	key := photosKey(hotelID)
	if data, ok := c.cache.Get(ctx, key); ok {
		var urls []string
		if err := json.Unmarshal(data, &urls); err == nil {
			return urls, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	urls, err := c.Client.FetchPhotos(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(urls); err == nil {
		if err := c.cache.Set(ctx, key, data, c.photoTTL); err != nil {
			c.logger.Warn("failed to cache photos", "key", key, "error", err)
		}
	}
	return urls, nil
}
