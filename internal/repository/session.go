package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

// SessionRepository хранит сессии в Redis: session:<token> -> id пользователя с TTL,
// user_sessions:<id> - множество токенов пользователя для массового отзыва.
type SessionRepository struct {
	redisClient *redis.Client
}

func NewSessionRepository(redisClient *redis.Client) service.SessionRepository {
	return &SessionRepository{redisClient: redisClient}
}

func (r *SessionRepository) Create(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	userKey := userSessionsKey(userID)
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(token), userID.String(), ttl)
		pipe.SAdd(ctx, userKey, token)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get возвращает id пользователя по токену; неизвестный или истекший токен -> InvalidToken
func (r *SessionRepository) Get(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.redisClient.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, models.ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to get session: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupted session value: %w", err)
	}
	return userID, nil
}

// Delete отзывает один токен. Отсутствующий токен не считается ошибкой.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	key := sessionKey(token)
	val, err := r.redisClient.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if userID, err := uuid.Parse(val); err == nil {
		if err := r.redisClient.SRem(ctx, userSessionsKey(userID), token).Err(); err != nil {
			return fmt.Errorf("failed to unlink session: %w", err)
		}
	}
	return nil
}

// DeleteByUser отзывает все сессии пользователя
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionsKey(userID)
	tokens, err := r.redisClient.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userKey)
	if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID uuid.UUID) string {
	return "user_sessions:" + userID.String()
}
