package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	failedQueueKey   = "webhook_events:failed"
	failedQueueLimit = 1000
	maxRetryDelay    = 30 * time.Second
)

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	done        chan struct{}
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		done: make(chan struct{}),
	}
}

// Start запускает горутину для обработки очереди вебхуков
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		defer close(w.done)
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping webhook worker.")
				return
			}

			// BRPOP с таймаутом, чтобы периодически проверять отмену контекста
			result, err := w.redisClient.BRPop(ctx, time.Second, webhookQueueKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
				w.sleep(ctx, w.cfg.WebhookTimeout)
				continue
			}

			// result[0] - ключ, result[1] - значение
			payload := result[1]
			var event WebhookEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
				continue
			}

			w.processWebhookEvent(ctx, event, payload)
		}
	}()
}

// Done закрывается после остановки воркера
func (w *WebhookWorker) Done() <-chan struct{} {
	return w.done
}

// processWebhookEvent доставляет событие с экспоненциальной задержкой между попытками.
// Недоставленное событие переносится в очередь failedQueueKey для ручного разбора.
func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event WebhookEvent, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"event":       event.Event,
		"disaster_id": event.DisasterID,
	})

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured, skipping delivery")
		return
	}

	attempts := max(w.cfg.WebhookMaxRetries, 1)
	delay := w.cfg.WebhookBaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		err := w.deliver(ctx, event.Event, rawPayload)
		if err == nil {
			log.WithField("attempt", attempt).Info("Webhook delivered")
			return
		}
		if ctx.Err() != nil {
			log.Warn("Webhook delivery aborted by shutdown")
			return
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			log.WithError(err).Error("Webhook rejected by receiver, not retrying")
			break
		}
		if attempt == attempts {
			log.WithError(err).Errorf("Webhook delivery failed after %d attempts", attempts)
			break
		}

		log.WithError(err).WithField("attempt", attempt).Warnf("Webhook delivery failed, retrying in %v", delay)
		w.sleep(ctx, delay)
		delay = min(delay*2, maxRetryDelay)
	}

	w.deadLetter(log, rawPayload)
}

// permanentError - ответ получателя, который не изменится при повторе (4xx кроме 408 и 429)
type permanentError struct {
	status string
}

func (e *permanentError) Error() string {
	return "receiver rejected webhook: " + e.status
}

// deliver выполняет одну попытку отправки
func (w *WebhookWorker) deliver(ctx context.Context, eventType EventType, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, strings.NewReader(rawPayload))
	if err != nil {
		return &permanentError{status: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", string(eventType))
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", "sha256="+generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests:
		return &permanentError{status: resp.Status}
	}
	return errors.New(resp.Status)
}

// deadLetter сохраняет недоставленное событие; очередь ограничена failedQueueLimit записями
func (w *WebhookWorker) deadLetter(log *logrus.Entry, rawPayload string) {
	if w.redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WebhookTimeout)
	defer cancel()

	_, err := w.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, failedQueueKey, rawPayload)
		pipe.LTrim(ctx, failedQueueKey, 0, failedQueueLimit-1)
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to store undelivered webhook event")
	}
}

func (w *WebhookWorker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
