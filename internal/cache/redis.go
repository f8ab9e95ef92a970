package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
)

type Client struct {
	Client *redis.Client
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Client.Set(ctx, key, value, expiration).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// SessionStore adapts the client to the session.TokenStore interface.
// One slot per user under session:user:<id>.
type SessionStore struct {
	client *Client
}

func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

func (s *SessionStore) Set(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(userID), token, ttl)
}

func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(userID))
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Delete(ctx, sessionKey(userID))
}
