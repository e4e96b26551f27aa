package roblox

import "time"

// Roblox API endpoints
const (
	UsersAPIBase      = "https://users.roblox.com/v1"
	ThumbnailsAPIBase = "https://thumbnails.roblox.com/v1"
)

const (
	// ThumbnailSize is the avatar headshot size requested for linked accounts.
	ThumbnailSize = "420x420"

	// thumbnailRetryDelay is how long to wait before re-requesting a
	// thumbnail that is still rendering.
	thumbnailRetryDelay = 1 * time.Second

	requestTimeout = 10 * time.Second
)
