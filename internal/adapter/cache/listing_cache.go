// Package cache is the Redis read-through cache for single listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const listingKeyPrefix = "listing:"

type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ListingCache{client: client, ttl: ttl}
}

// GetListing returns (nil, nil) on a cache miss.
func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKeyPrefix+listing.ID, data, c.ttl).Err()
}

func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	return c.client.Del(ctx, listingKeyPrefix+id).Err()
}
