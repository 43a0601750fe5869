package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grocerlane/gateway/pkg/config"
	"github.com/grocerlane/gateway/pkg/enums"
	redisclient "github.com/grocerlane/gateway/pkg/redis"
)

// ErrSessionNotFound signals a missing or expired session record.
var ErrSessionNotFound = errors.New("session not found")

// Record is the sanitized account snapshot persisted per session. It never
// carries a credential.
type Record struct {
	UserID        int64               `json:"user_id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	ContactNumber string              `json:"contact_number"`
	Address       string              `json:"address"`
	Role          enums.UserRole      `json:"role"`
	Status        enums.AccountStatus `json:"status"`
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager owns the lifecycle of session records in Redis.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create stores a new session record and returns its identifier.
func (m *Manager) Create(ctx context.Context, rec Record) (string, error) {
	if rec.UserID <= 0 {
		return "", fmt.Errorf("session record requires a user id")
	}
	sessionID := uuid.NewString()
	if err := m.write(ctx, sessionID, rec); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Get loads the record stored for the session identifier.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Record, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	return &rec, nil
}

// Update replaces the stored record for an existing session, refreshing its TTL.
func (m *Manager) Update(ctx context.Context, sessionID string, rec Record) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionNotFound
	}
	return m.write(ctx, sessionID, rec)
}

// Revoke deletes the session record.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

func (m *Manager) write(ctx context.Context, sessionID string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(payload), m.ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
