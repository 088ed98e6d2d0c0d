// Package credential holds the single bearer token that marks a user as
// logged in. Presence is the only observable state: there is no expiry.
package credential

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// DefaultKey is the fixed storage key for the CLI's token.
const DefaultKey = "access_token"

// SessionKey is the storage key for one browser session's token.
func SessionKey(sessionID string) string {
	return DefaultKey + ":" + sessionID
}

// ErrNotFound is returned by KV.Get implementations for a missing key.
var ErrNotFound = errors.New("credential: key not found")

// Store is the credential abstraction every client and view depends on.
// Get returns "" when no token is held.
type Store interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, token string)
	Clear(ctx context.Context)
}

// HasValid reports whether a token is present. No expiry validation is done.
func HasValid(ctx context.Context, s Store) bool {
	return s != nil && s.Get(ctx) != ""
}

// KV is the persistence a Store sits on.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type kvStore struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// NewStore binds a Store to one key of kv. Storage failures are logged and
// reads that fail are treated as "no credential".
func NewStore(kv KV, key string, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &kvStore{kv: kv, key: key, logger: logger}
}

func (s *kvStore) Get(ctx context.Context) string {
	v, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("credential read failed", zap.String("key", s.key), zap.Error(err))
		}
		return ""
	}
	return v
}

func (s *kvStore) Set(ctx context.Context, token string) {
	if err := s.kv.Set(ctx, s.key, token); err != nil {
		s.logger.Error("credential write failed", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *kvStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Error("credential clear failed", zap.String("key", s.key), zap.Error(err))
	}
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Memory returns a standalone in-memory Store.
func Memory() Store {
	return NewStore(NewMemoryKV(), DefaultKey, nil)
}
