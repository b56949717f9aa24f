// ABOUTME: Store interfaces and data types for notesd persistence
// ABOUTME: Defines User, Note structs and the interfaces for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when registering with an email that is already in use
var ErrEmailTaken = errors.New("email already registered")

// ErrUsernameTaken is returned when registering with a username that is already in use
var ErrUsernameTaken = errors.New("username already taken")

// DefaultAvatar is assigned to users who register without an avatar URL.
const DefaultAvatar = "https://www.gravatar.com/avatar/?d=mp"

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never leave the store/server boundary.
type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Note represents a single note owned by a user. OwnerID is immutable
// after creation. Tags is an ordered, deduplicated list.
type Note struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	OwnerID   string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserStore defines the interface for user persistence
type UserStore interface {
	// CreateUser inserts a new user. Unique violations map to
	// ErrEmailTaken or ErrUsernameTaken.
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// NoteStore defines the interface for note persistence
type NoteStore interface {
	CreateNote(ctx context.Context, note *Note) error
	GetNote(ctx context.Context, id string) (*Note, error)
	// ListNotesByOwner returns the owner's notes sorted by creation time,
	// newest first.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]*Note, error)
	UpdateNote(ctx context.Context, note *Note) error
	DeleteNote(ctx context.Context, id string) error
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	NoteStore
	Close() error
}
