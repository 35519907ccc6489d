package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSession indicates the presented token is malformed, expired, or
// has been revoked.
var ErrInvalidSession = errors.New("invalid session")

const keyPrefix = "session:"

// Manager issues and verifies bearer session tokens. Tokens are HS256 JWTs
// whose jti is allow-listed in Redis for the session TTL, so revoking the
// jti invalidates the token before its expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
}

func NewManager(secret string, ttl time.Duration, client *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		redis:  client,
	}
}

// TTL returns the fixed session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for the given account and returns the bearer token.
func (m *Manager) Issue(ctx context.Context, accountID int64) (string, error) {
	now := time.Now()
	jti := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(accountID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := m.redis.Set(ctx, keyPrefix+jti, accountID, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Verify checks the token signature and expiry, confirms the session is
// still live, and returns the account id it belongs to.
func (m *Manager) Verify(ctx context.Context, token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, err
	}

	if err := m.redis.Get(ctx, keyPrefix+claims.ID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidSession
		}
		return 0, fmt.Errorf("load session: %w", err)
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}
	return accountID, nil
}

// Revoke removes the session behind the token. Verifying the same token
// afterwards fails even though the JWT itself has not expired.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.redis.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
