package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mcid/internal/auth"
)

func TestVerifyKeyHappyPath(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)
	ctx := context.Background()

	created, secret := mustCreateKey(t, db, "app1", map[string][]string{"codes": {"request", "verify"}})
	if !strings.HasPrefix(secret, "mcid_") {
		t.Errorf("secret %q lacks prefix", secret)
	}

	k, err := s.VerifyKey(ctx, secret, auth.Permissions{"codes": {"request"}})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if k.ID != created.ID {
		t.Errorf("verified key id %q, want %q", k.ID, created.ID)
	}
}

func TestVerifyKeyUnknownSecret(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)

	_, err := s.VerifyKey(context.Background(), "mcid_deadbeef", nil)
	if !errors.Is(err, auth.ErrInvalidKey) {
		t.Errorf("err = %v, want ErrInvalidKey", err)
	}
}

func TestVerifyKeyInsufficientScope(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)

	_, secret := mustCreateKey(t, db, "app1", map[string][]string{"codes": {"request"}})

	_, err := s.VerifyKey(context.Background(), secret, auth.Permissions{"plugin": {"read"}})
	if !errors.Is(err, auth.ErrKeyForbidden) {
		t.Errorf("err = %v, want ErrKeyForbidden", err)
	}
}

func TestVerifyKeyRevoked(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)
	ctx := context.Background()

	k, secret := mustCreateKey(t, db, "app1", map[string][]string{"codes": {"request"}})
	if err := s.Revoke(ctx, k.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	_, err := s.VerifyKey(ctx, secret, nil)
	if !errors.Is(err, auth.ErrKeyForbidden) {
		t.Errorf("err = %v, want ErrKeyForbidden", err)
	}
}

func TestVerifyKeyExpired(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	_, secret, err := s.Create(ctx, "app1", map[string][]string{"codes": {"request"}}, &past)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = s.VerifyKey(ctx, secret, nil)
	if !errors.Is(err, auth.ErrKeyForbidden) {
		t.Errorf("err = %v, want ErrKeyForbidden", err)
	}
}

func TestAPIKeyDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	s := NewAPIKeyStore(db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	if _, _, err := s.Create(ctx, "stale", nil, &past); err != nil {
		t.Fatalf("create stale: %v", err)
	}
	mustCreateKey(t, db, "alive", nil)

	n, err := s.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d keys, want 1", n)
	}
}
