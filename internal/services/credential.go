package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"devninja-chat/internal/database"
)

const DefaultCredentialKey = "openai_api_key"

// CredentialStore holds the single upstream API key. Writes are last write
// wins; there is no versioning.
type CredentialStore struct {
	kv  database.KeyValue
	key string
	log zerolog.Logger
}

func NewCredentialStore(kv database.KeyValue, key string, log zerolog.Logger) *CredentialStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultCredentialKey
	}
	return &CredentialStore{kv: kv, key: key, log: log}
}

// Set stores the trimmed secret, replacing any previous one.
func (s *CredentialStore) Set(ctx context.Context, secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return &ValidationError{Fields: map[string]string{"api_key": "API key must not be empty"}}
	}

	if err := s.kv.Set(ctx, s.key, trimmed); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.log.Info().Str("key", s.key).Msg("chat credential configured")
	return nil
}

// Get returns the stored secret or ErrNotConfigured.
func (s *CredentialStore) Get(ctx context.Context) (string, error) {
	val, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, database.ErrKeyNotFound) || (err == nil && val == "") {
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return val, nil
}

// Remove deletes the secret. Removing an absent secret is not an error.
func (s *CredentialStore) Remove(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	s.log.Info().Str("key", s.key).Msg("chat credential removed")
	return nil
}

// IsConfigured never fails; backend errors count as not configured.
func (s *CredentialStore) IsConfigured(ctx context.Context) bool {
	_, err := s.Get(ctx)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		s.log.Warn().Err(err).Msg("credential lookup failed")
	}
	return err == nil
}
