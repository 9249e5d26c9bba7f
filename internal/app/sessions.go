package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/models"
)

const (
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "edsp-"
)

// ErrSessionNotFound is returned for unknown or expired tokens.
var ErrSessionNotFound = fmt.Errorf("session not found")

// Sessions issues and resolves server-side session tokens backed by
// Redis. When disabled (dev/tests) every lookup succeeds vacuously and
// no Redis connection is made.
type Sessions struct {
	enabled bool
	redis   *redis.Client
	ttl     time.Duration
}

func NewSessions(config *Config) (*Sessions, error) {
	if !config.Server.EnableAuth {
		return &Sessions{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Sessions{
		enabled: true,
		redis:   client,
		ttl:     time.Duration(config.Auth.SessionTTLHours) * time.Hour,
	}, nil
}

func (s *Sessions) Enabled() bool {
	return s.enabled
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// Create issues a fresh token for the account and stores the session
// hash with a TTL.
func (s *Sessions) Create(ctx context.Context, account *models.Account) (string, error) {
	if !s.enabled {
		return "", nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf(sessionKeyTpl, token)
	now := time.Now().UTC()

	pipe := s.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"account_id":       account.ID,
		"role":             string(account.Role),
		"name":             account.Name,
		"created_dttm_utc": now.Unix(),
	})
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Get resolves a token to the session stored for it.
func (s *Sessions) Get(ctx context.Context, token string) (*models.Session, error) {
	if !s.enabled {
		return nil, fmt.Errorf("sessions are disabled")
	}

	key := fmt.Sprintf(sessionKeyTpl, token)
	values, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(values) == 0 {
		logger.Debug.Printf("No session for key: %s", key)
		return nil, ErrSessionNotFound
	}

	createdAt, _ := strconv.ParseInt(values["created_dttm_utc"], 10, 64)

	return &models.Session{
		AccountID: values["account_id"],
		Role:      models.Role(values["role"]),
		Name:      values["name"],
		CreatedAt: createdAt,
	}, nil
}

// Delete removes the session, ending it server-side.
func (s *Sessions) Delete(ctx context.Context, token string) error {
	if !s.enabled {
		return nil
	}
	key := fmt.Sprintf(sessionKeyTpl, token)
	return s.redis.Del(ctx, key).Err()
}

func (s *Sessions) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
