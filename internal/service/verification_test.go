package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading_backend/internal/domain"
	"trading_backend/internal/session"
)

type fakeResolver struct {
	users map[string]int64
	bios  map[int64]string
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, username string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.users[username], nil
}

func (f *fakeResolver) Description(ctx context.Context, userID int64, bypassCache bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.bios[userID], nil
}

func (f *fakeResolver) AvatarURL(ctx context.Context, userID int64) (string, error) {
	return "https://cdn.example/avatar.png", nil
}

type fakeLinkStore struct {
	links map[int64]*domain.AccountLink
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[int64]*domain.AccountLink)}
}

func (f *fakeLinkStore) Get(ctx context.Context, discordID int64) (*domain.AccountLink, error) {
	return f.links[discordID], nil
}

func (f *fakeLinkStore) RobloxIDExists(ctx context.Context, robloxUserID int64) (bool, error) {
	for _, l := range f.links {
		if l.RobloxUserID == robloxUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLinkStore) Create(ctx context.Context, link *domain.AccountLink) error {
	f.links[link.DiscordID] = link
	return nil
}

func (f *fakeLinkStore) Delete(ctx context.Context, discordID int64) error {
	delete(f.links, discordID)
	return nil
}

func testVerification(resolver *fakeResolver, links *fakeLinkStore) (*VerificationService, session.Store) {
	sessions := session.NewMemoryStore()
	return NewVerificationService(resolver, links, sessions), sessions
}

func TestVerificationStart_IssuesCode(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"PetTrader": 42}}
	svc, _ := testVerification(resolver, newFakeLinkStore())

	res, err := svc.Start(context.Background(), 1, "PetTrader")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.RobloxUserID != 42 {
		t.Fatalf("expected resolved id 42, got %d", res.RobloxUserID)
	}
	if len(res.Code) != 16 {
		t.Fatalf("expected 16-char code, got %q", res.Code)
	}
}

func TestVerificationStart_InvalidUsername(t *testing.T) {
	svc, _ := testVerification(&fakeResolver{}, newFakeLinkStore())

	if _, err := svc.Start(context.Background(), 1, "no spaces!"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
}

func TestVerificationStart_UnknownUser(t *testing.T) {
	svc, _ := testVerification(&fakeResolver{users: map[string]int64{}}, newFakeLinkStore())

	if _, err := svc.Start(context.Background(), 1, "NoSuchUser"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestVerificationStart_AlreadyLinked(t *testing.T) {
	links := newFakeLinkStore()
	links.links[1] = &domain.AccountLink{DiscordID: 1, RobloxUserID: 7}
	svc, _ := testVerification(&fakeResolver{users: map[string]int64{"PetTrader": 42}}, links)

	if _, err := svc.Start(context.Background(), 1, "PetTrader"); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked, got %v", err)
	}
}

func TestVerificationStart_OverwritesPendingSession(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"First": 1, "Second": 2}}
	svc, sessions := testVerification(resolver, newFakeLinkStore())
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "First"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	res, err := svc.Start(ctx, 1, "Second")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	sess, _ := sessions.Get(ctx, 1)
	if sess == nil || sess.RobloxUserID != 2 || sess.Code != res.Code {
		t.Fatalf("expected newest session to win, got %+v", sess)
	}
}

func TestVerificationConfirm_Succeeds(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"PetTrader": 42}, bios: map[int64]string{}}
	links := newFakeLinkStore()
	svc, sessions := testVerification(resolver, links)
	ctx := context.Background()

	res, err := svc.Start(ctx, 1, "PetTrader")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	resolver.bios[42] = "my bio " + res.Code + " trailing"

	confirmed, err := svc.Confirm(ctx, 1)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.RobloxUserID != 42 || confirmed.RobloxUsername != "PetTrader" {
		t.Fatalf("unexpected confirm result: %+v", confirmed)
	}
	if links.links[1] == nil {
		t.Fatal("expected link to be created")
	}
	if sess, _ := sessions.Get(ctx, 1); sess != nil {
		t.Fatal("expected session removed after confirm")
	}
}

func TestVerificationConfirm_NoSession(t *testing.T) {
	svc, _ := testVerification(&fakeResolver{}, newFakeLinkStore())

	if _, err := svc.Confirm(context.Background(), 1); !errors.Is(err, ErrNoPendingSession) {
		t.Fatalf("expected ErrNoPendingSession, got %v", err)
	}
}

func TestVerificationConfirm_CodeMissKeepsSession(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"PetTrader": 42}, bios: map[int64]string{42: "nothing here"}}
	links := newFakeLinkStore()
	svc, sessions := testVerification(resolver, links)
	ctx := context.Background()

	res, err := svc.Start(ctx, 1, "PetTrader")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.Confirm(ctx, 1); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
	if sess, _ := sessions.Get(ctx, 1); sess == nil {
		t.Fatal("session must survive a code miss")
	}

	// user fixes their bio and retries within the TTL
	resolver.bios[42] = res.Code
	if _, err := svc.Confirm(ctx, 1); err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
}

func TestVerificationConfirm_Expired(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"PetTrader": 42}, bios: map[int64]string{}}
	svc, sessions := testVerification(resolver, newFakeLinkStore())
	ctx := context.Background()

	if _, err := svc.Start(ctx, 1, "PetTrader"); err != nil {
		t.Fatalf("start: %v", err)
	}
	sess, _ := sessions.Get(ctx, 1)
	sess.ExpiresAt = time.Now().Add(-time.Second)
	_ = sessions.Put(ctx, sess)

	if _, err := svc.Confirm(ctx, 1); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// the expired session is consumed; the next confirm sees nothing pending
	if _, err := svc.Confirm(ctx, 1); !errors.Is(err, ErrNoPendingSession) {
		t.Fatalf("expected ErrNoPendingSession after expiry, got %v", err)
	}
}

func TestVerificationConfirm_RobloxIDTakenByOtherAccount(t *testing.T) {
	resolver := &fakeResolver{users: map[string]int64{"PetTrader": 42}, bios: map[int64]string{}}
	links := newFakeLinkStore()
	links.links[2] = &domain.AccountLink{DiscordID: 2, RobloxUserID: 42}
	svc, _ := testVerification(resolver, links)
	ctx := context.Background()

	res, err := svc.Start(ctx, 1, "PetTrader")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	resolver.bios[42] = res.Code

	if _, err := svc.Confirm(ctx, 1); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked for taken roblox id, got %v", err)
	}
}

func TestUnlink(t *testing.T) {
	links := newFakeLinkStore()
	links.links[1] = &domain.AccountLink{DiscordID: 1, RobloxUserID: 42}
	svc, _ := testVerification(&fakeResolver{}, links)
	ctx := context.Background()

	if err := svc.Unlink(ctx, 1); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if links.links[1] != nil {
		t.Fatal("expected link removed")
	}
	if err := svc.Unlink(ctx, 1); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
}
