package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	webhookQueueKey = "webhook_events"
)

type EventType string

const (
	EventDisasterCreated       EventType = "disaster.created"
	EventDisasterStatusChanged EventType = "disaster.status_changed"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	Event          EventType              `json:"event"`
	DisasterID     uuid.UUID              `json:"disaster_id"`
	PreviousStatus models.Status          `json:"previous_status,omitempty"`
	Disaster       *models.DisasterReport `json:"disaster"`
	Timestamp      time.Time              `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста (FIFO)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// LogWebhookPublisher только пишет событие в лог; используется без Redis (STORAGE_DRIVER=memory)
type LogWebhookPublisher struct {
	logger *logrus.Logger
}

func NewLogWebhookPublisher(logger *logrus.Logger) *LogWebhookPublisher {
	return &LogWebhookPublisher{logger: logger}
}

func (p *LogWebhookPublisher) Publish(_ context.Context, event WebhookEvent) error {
	p.logger.WithFields(logrus.Fields{
		"event":       event.Event,
		"disaster_id": event.DisasterID,
	}).Info("Webhook event (delivery disabled)")
	return nil
}
