package domain

import "time"

// AccountLink binds a Discord account to a verified Roblox account. There is
// at most one link per Discord ID and at most one per Roblox user ID.
type AccountLink struct {
	DiscordID      int64     `db:"discord_id" json:"discord_id"`
	RobloxUserID   int64     `db:"roblox_user_id" json:"roblox_user_id"`
	RobloxUsername string    `db:"roblox_username" json:"roblox_username"`
	Gems           int64     `db:"gems" json:"gems"`
	LinkedAt       time.Time `db:"linked_at" json:"linked_at"`
}

// RobloxUser is a cached snapshot of a Roblox profile, kept so repeated
// lookups do not hit the Roblox API.
type RobloxUser struct {
	UserID       int64     `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	Description  string    `db:"description" json:"description,omitempty"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
