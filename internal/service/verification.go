package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"trading_backend/internal/domain"
	"trading_backend/internal/logger"
	"trading_backend/internal/security"
	"trading_backend/internal/session"
)

var (
	ErrInvalidUsername  = errors.New("invalid username")
	ErrIdentityNotFound = errors.New("roblox user not found")
	ErrNoPendingSession = errors.New("no pending verification session")
	ErrSessionExpired   = errors.New("verification session expired")
	ErrCodeNotFound     = errors.New("verification code not found in bio")
	ErrAlreadyLinked    = errors.New("account already linked")
	ErrNotLinked        = errors.New("account not linked")
)

// VerificationTTL is how long a user has to paste the code into their bio.
const VerificationTTL = 10 * time.Minute

// IdentityResolver resolves Roblox usernames and profile text. Resolve
// returns (0, nil) for unknown usernames; transport failures are errors.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (int64, error)
	Description(ctx context.Context, userID int64, bypassCache bool) (string, error)
	AvatarURL(ctx context.Context, userID int64) (string, error)
}

// LinkStore persists account links. Get methods return (nil, nil) on a miss.
type LinkStore interface {
	Get(ctx context.Context, discordID int64) (*domain.AccountLink, error)
	RobloxIDExists(ctx context.Context, robloxUserID int64) (bool, error)
	Create(ctx context.Context, link *domain.AccountLink) error
	Delete(ctx context.Context, discordID int64) error
}

// VerificationService runs the account-linking state machine: a session is
// created by Start, then either confirmed, expired, or overwritten by a new
// Start.
type VerificationService struct {
	resolver IdentityResolver
	links    LinkStore
	sessions session.Store
	ttl      time.Duration
}

// NewVerificationService wires the state machine over its collaborators.
func NewVerificationService(resolver IdentityResolver, links LinkStore, sessions session.Store) *VerificationService {
	return &VerificationService{
		resolver: resolver,
		links:    links,
		sessions: sessions,
		ttl:      VerificationTTL,
	}
}

// StartResult is returned by Start; the code is delivered to the user
// out-of-band for manual insertion into their Roblox bio.
type StartResult struct {
	Code           string
	RobloxUserID   int64
	RobloxUsername string
}

// Start begins verification for a Discord account. Any prior pending session
// is overwritten.
func (s *VerificationService) Start(ctx context.Context, discordID int64, username string) (*StartResult, error) {
	if !security.IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	link, err := s.links.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if link != nil {
		return nil, ErrAlreadyLinked
	}

	robloxID, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if robloxID == 0 {
		return nil, ErrIdentityNotFound
	}

	now := time.Now()
	sess := &session.Session{
		DiscordID:      discordID,
		Code:           security.GenerateVerificationCode(),
		RobloxUserID:   robloxID,
		RobloxUsername: username,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	logger.Info("verification started", "discord_id", discordID, "roblox_user_id", robloxID)
	return &StartResult{
		Code:           sess.Code,
		RobloxUserID:   robloxID,
		RobloxUsername: username,
	}, nil
}

// ConfirmResult is returned on a successful confirm. ThumbnailURL is
// best-effort and may be empty.
type ConfirmResult struct {
	RobloxUserID   int64
	RobloxUsername string
	ThumbnailURL   string
}

// Confirm checks the pending session's code against the live bio text. The
// bio is always fetched fresh; a cached copy could miss a just-edited bio.
// On a code miss the session stays intact so the user can retry within the
// TTL.
func (s *VerificationService) Confirm(ctx context.Context, discordID int64) (*ConfirmResult, error) {
	sess, err := s.sessions.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoPendingSession
	}

	if sess.Expired(time.Now()) {
		if err := s.sessions.Delete(ctx, discordID); err != nil {
			logger.Warn("failed to delete expired session", "discord_id", discordID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	link, err := s.links.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if link != nil {
		return nil, ErrAlreadyLinked
	}
	taken, err := s.links.RobloxIDExists(ctx, sess.RobloxUserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrAlreadyLinked
	}

	bio, err := s.resolver.Description(ctx, sess.RobloxUserID, true)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(bio, sess.Code) {
		return nil, ErrCodeNotFound
	}

	if err := s.links.Create(ctx, &domain.AccountLink{
		DiscordID:      discordID,
		RobloxUserID:   sess.RobloxUserID,
		RobloxUsername: sess.RobloxUsername,
	}); err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, discordID); err != nil {
		logger.Warn("failed to delete confirmed session", "discord_id", discordID, "error", err)
	}

	result := &ConfirmResult{
		RobloxUserID:   sess.RobloxUserID,
		RobloxUsername: sess.RobloxUsername,
	}
	if url, err := s.resolver.AvatarURL(ctx, sess.RobloxUserID); err == nil {
		result.ThumbnailURL = url
	}

	logger.Info("verification confirmed", "discord_id", discordID, "roblox_user_id", sess.RobloxUserID)
	return result, nil
}

// Unlink removes an existing account link.
func (s *VerificationService) Unlink(ctx context.Context, discordID int64) error {
	link, err := s.links.Get(ctx, discordID)
	if err != nil {
		return err
	}
	if link == nil {
		return ErrNotLinked
	}
	return s.links.Delete(ctx, discordID)
}
