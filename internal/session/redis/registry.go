package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

// revokeScript deletes the role key only when it still holds the given session.
var revokeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type sessionRegistry struct {
	client goredis.UniversalClient
	prefix string
}

// NewSessionRegistry creates a Redis-backed SessionRegistry. Keys are
// "<prefix>:session:<role>".
func NewSessionRegistry(client goredis.UniversalClient, prefix string) port.SessionRegistry {
	return &sessionRegistry{client: client, prefix: prefix}
}

func (r *sessionRegistry) key(role domain.UserRole) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, role)
}

func (r *sessionRegistry) Activate(ctx context.Context, role domain.UserRole, sessionID string, ttl time.Duration) (string, error) {
	prev, err := r.client.SetArgs(ctx, r.key(role), sessionID, goredis.SetArgs{TTL: ttl, Get: true}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("sessionRegistry.Activate: %w", err)
	}
	return prev, nil
}

func (r *sessionRegistry) IsActive(ctx context.Context, role domain.UserRole, sessionID string) (bool, error) {
	current, err := r.client.Get(ctx, r.key(role)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("sessionRegistry.IsActive: %w", err)
	}
	return current == sessionID, nil
}

func (r *sessionRegistry) Revoke(ctx context.Context, role domain.UserRole, sessionID string) error {
	if err := revokeScript.Run(ctx, r.client, []string{r.key(role)}, sessionID).Err(); err != nil {
		return fmt.Errorf("sessionRegistry.Revoke: %w", err)
	}
	return nil
}
