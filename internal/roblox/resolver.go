package roblox

import (
	"context"
	"time"

	"trading_backend/internal/domain"
	"trading_backend/internal/logger"
)

// UserCache persists resolved Roblox profiles so repeated lookups stay local.
type UserCache interface {
	GetByUsername(ctx context.Context, username string) (*domain.RobloxUser, error)
	GetByID(ctx context.Context, userID int64) (*domain.RobloxUser, error)
	Upsert(ctx context.Context, u *domain.RobloxUser) error
	UpdateDescription(ctx context.Context, userID int64, description string) error
	UpdateThumbnail(ctx context.Context, userID int64, url string) error
}

// CachedResolver resolves usernames and profile bios, consulting the cache
// first. Description reads support an explicit cache bypass because stale
// bios would make verification unreliable.
type CachedResolver struct {
	client *Client
	cache  UserCache
}

// NewCachedResolver creates a resolver over the given client and cache.
func NewCachedResolver(client *Client, cache UserCache) *CachedResolver {
	return &CachedResolver{client: client, cache: cache}
}

// Resolve returns the Roblox user ID for a username, or (0, nil) when the
// username does not exist.
func (r *CachedResolver) Resolve(ctx context.Context, username string) (int64, error) {
	cached, err := r.cache.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if cached != nil {
		return cached.UserID, nil
	}

	user, err := r.client.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, nil
	}

	if err := r.cache.Upsert(ctx, &domain.RobloxUser{
		UserID:    user.ID,
		Username:  user.Name,
		UpdatedAt: time.Now(),
	}); err != nil {
		logger.Warn("failed to cache roblox user", "user_id", user.ID, "error", err)
	}
	return user.ID, nil
}

// Description returns the user's profile bio. With bypassCache set the
// Roblox API is always consulted and the cache refreshed.
func (r *CachedResolver) Description(ctx context.Context, userID int64, bypassCache bool) (string, error) {
	if !bypassCache {
		cached, err := r.cache.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if cached != nil && cached.Description != "" {
			return cached.Description, nil
		}
	}

	user, err := r.client.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	if err := r.cache.UpdateDescription(ctx, userID, user.Description); err != nil {
		logger.Warn("failed to cache roblox description", "user_id", userID, "error", err)
	}
	return user.Description, nil
}

// AvatarURL returns a cached avatar thumbnail, fetching and caching it on a
// miss.
func (r *CachedResolver) AvatarURL(ctx context.Context, userID int64) (string, error) {
	cached, err := r.cache.GetByID(ctx, userID)
	if err == nil && cached != nil && cached.ThumbnailURL != "" {
		return cached.ThumbnailURL, nil
	}

	url, err := r.client.GetAvatarThumbnail(ctx, userID)
	if err != nil {
		return "", err
	}
	if url != "" {
		if err := r.cache.UpdateThumbnail(ctx, userID, url); err != nil {
			logger.Warn("failed to cache roblox thumbnail", "user_id", userID, "error", err)
		}
	}
	return url, nil
}
