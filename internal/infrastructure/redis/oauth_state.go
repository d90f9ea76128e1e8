package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/loginbase/auth-gateway/internal/application/auth"
)

// ErrStateNotFound is returned when the state token is not found or expired.
var ErrStateNotFound = errors.New("oauth state not found or expired")

// OAuthStateStore manages one-time OAuth state tokens in Redis.
type OAuthStateStore struct {
	client *Client
	ttl    time.Duration
}

func NewOAuthStateStore(client *Client, ttl time.Duration) *OAuthStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OAuthStateStore{
		client: client,
		ttl:    ttl,
	}
}

// Create generates a new state token and stores the state with a TTL.
func (s *OAuthStateStore) Create(ctx context.Context, state auth.OAuthStateData) (string, error) {
	stateBytes := make([]byte, 32)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	stateToken := base64.RawURLEncoding.EncodeToString(stateBytes)

	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	key := "oauth:state:" + stateToken
	if err := s.client.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return stateToken, nil
}

// Consume retrieves and deletes the state (one-time use, prevents replay).
func (s *OAuthStateStore) Consume(ctx context.Context, stateToken string) (auth.OAuthStateData, error) {
	key := "oauth:state:" + stateToken

	var state auth.OAuthStateData
	err := s.client.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return ErrStateNotFound
			}
			return err
		}

		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("failed to unmarshal state: %w", err)
		}

		// Delete the key to prevent replay
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	if err != nil {
		return auth.OAuthStateData{}, err
	}

	return state, nil
}
