// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers user uniqueness, note CRUD, ownership listing order, and tag persistence

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func mkUser(suffix string) *User {
	now := time.Now().UTC().Truncate(time.Second)
	return &User{
		ID:           "user-" + suffix,
		Name:         "Test User",
		Username:     "testuser" + suffix,
		Email:        fmt.Sprintf("user%s@example.com", suffix),
		PasswordHash: "$2a$10$hash" + suffix,
		Avatar:       DefaultAvatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func mkNote(suffix, ownerID string, createdAt time.Time) *Note {
	return &Note{
		ID:        "note-" + suffix,
		Title:     "Title " + suffix,
		Content:   "Content " + suffix,
		Tags:      []string{"go", "testing"},
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestCreateAndGetUser(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.ID != user.ID || got.Username != user.Username || got.Email != user.Email {
		t.Errorf("GetUser returned %+v, want %+v", got, user)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Error("password hash was not persisted")
	}
	if !got.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetUser(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail returned user %q, want %q", byEmail.ID, user.ID)
	}

	byUsername, err := store.GetUserByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byUsername.ID != user.ID {
		t.Errorf("GetUserByUsername returned user %q, want %q", byUsername.ID, user.ID)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateUser(ctx, mkUser("1")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := mkUser("2")
	dup.Email = "user1@example.com"
	err := store.CreateUser(ctx, dup)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("CreateUser error = %v, want ErrEmailTaken", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateUser(ctx, mkUser("1")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := mkUser("2")
	dup.Username = "testuser1"
	err := store.CreateUser(ctx, dup)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("CreateUser error = %v, want ErrUsernameTaken", err)
	}
}

func TestCreateAndGetNote(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	note := mkNote("1", user.ID, now)
	note.Pinned = true
	if err := store.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.Title != note.Title || got.Content != note.Content || got.OwnerID != user.ID {
		t.Errorf("GetNote returned %+v, want %+v", got, note)
	}
	if !got.Pinned {
		t.Error("Pinned flag was not persisted")
	}
	if !reflect.DeepEqual(got.Tags, note.Tags) {
		t.Errorf("Tags = %v, want %v", got.Tags, note.Tags)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetNote(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNote error = %v, want ErrNotFound", err)
	}
}

func TestListNotesByOwner(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	owner := mkUser("1")
	other := mkUser("2")
	for _, u := range []*User{owner, other} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	for i := 0; i < 3; i++ {
		note := mkNote(fmt.Sprintf("%d", i), owner.ID, base.Add(time.Duration(i)*time.Minute))
		if err := store.CreateNote(ctx, note); err != nil {
			t.Fatalf("CreateNote failed: %v", err)
		}
	}
	if err := store.CreateNote(ctx, mkNote("other", other.ID, base)); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	notes, err := store.ListNotesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListNotesByOwner failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}
	// Newest first
	for i := 0; i < len(notes)-1; i++ {
		if notes[i].CreatedAt.Before(notes[i+1].CreatedAt) {
			t.Errorf("notes out of order: %v before %v", notes[i].CreatedAt, notes[i+1].CreatedAt)
		}
	}
	for _, n := range notes {
		if n.OwnerID != owner.ID {
			t.Errorf("note %s belongs to %s, want %s", n.ID, n.OwnerID, owner.ID)
		}
	}
}

func TestListNotesByOwner_Empty(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	notes, err := store.ListNotesByOwner(context.Background(), "user-none")
	if err != nil {
		t.Fatalf("ListNotesByOwner failed: %v", err)
	}
	if notes == nil {
		t.Error("ListNotesByOwner returned nil, want empty slice")
	}
	if len(notes) != 0 {
		t.Errorf("got %d notes, want 0", len(notes))
	}
}

func TestUpdateNote(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	note := mkNote("1", user.ID, now)
	if err := store.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	note.Title = "Updated title"
	note.Content = "Updated content"
	note.Tags = []string{"updated"}
	note.Pinned = true
	note.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateNote(ctx, note); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.Title != "Updated title" || got.Content != "Updated content" || !got.Pinned {
		t.Errorf("update not persisted: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"updated"}) {
		t.Errorf("Tags = %v, want [updated]", got.Tags)
	}
	// CreatedAt and ownership survive the update untouched.
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt changed: %v, want %v", got.CreatedAt, now)
	}
	if got.OwnerID != user.ID {
		t.Errorf("OwnerID changed: %q, want %q", got.OwnerID, user.ID)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	note := mkNote("ghost", "user-1", time.Now().UTC())
	err := store.UpdateNote(context.Background(), note)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateNote error = %v, want ErrNotFound", err)
	}
}

func TestDeleteNote(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	note := mkNote("1", user.ID, time.Now().UTC().Truncate(time.Second))
	if err := store.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if _, err := store.GetNote(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNote after delete error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteNote(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteNote error = %v, want ErrNotFound", err)
	}
}

func TestNoteTags_EmptyAndNil(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	user := mkUser("1")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	note := mkNote("1", user.ID, time.Now().UTC().Truncate(time.Second))
	note.Tags = nil
	if err := store.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
}
