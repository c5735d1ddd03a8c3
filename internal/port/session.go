package port

import (
	"context"
	"time"

	"loandesk/internal/domain"
)

// SessionRegistry is the central session authority. Each role holds at most one
// active session; activating a new one replaces the previous.
type SessionRegistry interface {
	// Activate makes sessionID the active session for role and returns the session it
	// replaced, or "" if there was none.
	Activate(ctx context.Context, role domain.UserRole, sessionID string, ttl time.Duration) (string, error)
	IsActive(ctx context.Context, role domain.UserRole, sessionID string) (bool, error)
	// Revoke clears the role's session only if sessionID is still the active one.
	Revoke(ctx context.Context, role domain.UserRole, sessionID string) error
}

// StatsCache keeps the last good dashboard stats. Get returns ErrNotFound on a miss.
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, error)
	Set(ctx context.Context, stats *domain.Stats, ttl time.Duration) error
}
