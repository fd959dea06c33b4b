package repo

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepo_CreateAndLookups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "gopher", "gopher@example.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.Username != "gopher" || u.PasswordHash != "hash" {
		t.Fatalf("created user unexpected: %+v", u)
	}

	got, err := GetUser(ctx, db, u.ID)
	if err != nil || got.Email != "gopher@example.com" {
		t.Fatalf("get by id: %+v err=%v", got, err)
	}
	got, err = GetUserByUsername(ctx, db, "gopher")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by username: %+v err=%v", got, err)
	}

	if _, err := GetUser(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: expected ErrNotFound, got %v", err)
	}
	if _, err := GetUserByUsername(ctx, db, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing username: expected ErrNotFound, got %v", err)
	}

	// Username and email are unique.
	if _, err := CreateUser(ctx, db, "gopher", "other@example.com", "hash"); err == nil {
		t.Fatalf("duplicate username must violate the unique index")
	}
	if _, err := CreateUser(ctx, db, "other", "gopher@example.com", "hash"); err == nil {
		t.Fatalf("duplicate email must violate the unique index")
	}
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	if err := UpdateUserProfile(ctx, db, u.ID, "writes Go", "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := GetUser(ctx, db, u.ID)
	if err != nil || got.About != "writes Go" || got.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("profile not applied: %+v err=%v", got, err)
	}

	// Clearing fields writes empty strings rather than skipping them.
	if err := UpdateUserProfile(ctx, db, u.ID, "", ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = GetUser(ctx, db, u.ID)
	if got.About != "" || got.AvatarURL != "" {
		t.Fatalf("profile not cleared: %+v", got)
	}

	if err := UpdateUserProfile(ctx, db, "missing", "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
}
