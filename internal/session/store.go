// Package session holds pending verification sessions. Sessions are
// ephemeral: losing them on restart only forces affected users to restart
// verification.
package session

import (
	"context"
	"time"
)

// Session is one pending account-linking challenge, keyed by Discord ID.
type Session struct {
	DiscordID      int64     `json:"discord_id"`
	Code           string    `json:"code"`
	RobloxUserID   int64     `json:"roblox_user_id"`
	RobloxUsername string    `json:"roblox_username"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the session's TTL has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store keeps at most one live session per Discord ID. Put overwrites any
// prior session. Get returns (nil, nil) when no session exists; expired
// sessions are still returned so callers can distinguish "expired" from
// "never started".
type Store interface {
	Get(ctx context.Context, discordID int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, discordID int64) error
}
