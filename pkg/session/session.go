// Package session persists server-side chart sessions.
//
// A session is a funnel document plus the container size it was last laid
// out for. The HTTP server keeps live charts in memory and uses a [Store] to
// survive restarts and to share charts between instances:
//   - [MemoryStore]: in-process storage for development and tests
//   - [FileStore]: one JSON file per session, for single-host deployments
//   - [MongoStore]: a MongoDB collection, for multi-instance deployments
//
// Sessions expire after a period without updates. Stores report expired
// sessions as missing and drop them on [Store.Cleanup].
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/funnel/pkg/io"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 24 * time.Hour

// Session is one persisted chart.
type Session struct {
	ID        string       `json:"id"`
	Document  *io.Document `json:"document"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// New creates a session with a random ID.
func New(doc *io.Document, width, height float64, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Document:  doc,
		Width:     width,
		Height:    height,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch extends the session's lifetime to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// ValidID reports whether id looks like a session ID. Stores that map IDs
// to file names rely on it.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns nil, nil when the session does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
	Close() error
}
