package service

//go:generate mockgen -source=media.go -destination=mocks/media.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/policy"
	"github.com/shenikar/emergency_aid_connect/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// sniffLen - сколько байт читаем для определения типа (лимит mimetype по умолчанию)
const sniffLen = 3072

// Контейнеры, которые mimetype распознает как видео/общий тип, хотя браузер
// записывает в них только звук. Принимаем их, если клиент заявил audio/*.
var audioContainers = map[string]bool{
	"video/webm":      true,
	"video/mp4":       true,
	"application/ogg": true,
}

// ObjectStorage - внешнее хранилище двоичных объектов
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaRepository хранит ссылки на загруженные файлы
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
}

// MediaService определяет контракт загрузки изображений и аудиозаписей
type MediaService interface {
	Upload(ctx context.Context, caller *models.User, filename, declaredType string, body io.Reader) (*models.Media, error)
}

type mediaService struct {
	storage  ObjectStorage
	repo     MediaRepository
	maxBytes int64
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	now      func() time.Time
}

func NewMediaService(storage ObjectStorage, repo MediaRepository, maxBytes int64, m *metrics.Metrics, logger *logrus.Logger) MediaService {
	return &mediaService{
		storage:  storage,
		repo:     repo,
		maxBytes: maxBytes,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Upload проверяет содержимое файла, сохраняет его в хранилище и записывает ссылку.
// Повторных попыток нет: при ошибке клиент отправляет файл заново.
func (s *mediaService) Upload(ctx context.Context, caller *models.User, filename, declaredType string, body io.Reader) (*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "Upload",
		"filename": filename,
	})

	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionMediaUpload) {
		return nil, models.ErrForbidden
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		log.WithError(err).Error("Failed to read upload")
		return nil, fmt.Errorf("service: could not read upload: %w", err)
	}
	if n == 0 {
		log.Warn("Rejected empty upload")
		return nil, models.NewError(models.KindUnsupportedMediaType, "file is empty")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	contentType := acceptedContentType(detected.String(), declaredType)
	if contentType == "" {
		log.WithField("detected", detected.String()).Warn("Rejected upload with unsupported type")
		return nil, models.NewError(models.KindUnsupportedMediaType, "unsupported media type %s", detected.String())
	}

	counter := &sizeLimitedReader{r: io.MultiReader(bytes.NewReader(head), body), remaining: s.maxBytes}
	key := uuid.New().String() + detected.Extension()

	url, err := s.storage.Put(ctx, key, contentType, counter)
	if err != nil {
		if errors.Is(err, models.ErrFileTooLarge) {
			log.WithField("max_bytes", s.maxBytes).Warn("Rejected upload exceeding size limit")
			return nil, models.NewError(models.KindFileTooLarge, "file exceeds %d bytes", s.maxBytes)
		}
		log.WithError(err).Error("Failed to store upload")
		return nil, fmt.Errorf("service: could not store upload: %w", err)
	}

	media := &models.Media{
		ID:           uuid.New(),
		URL:          url,
		ContentType:  contentType,
		Size:         counter.read,
		OriginalName: filepath.Base(filename),
		CreatedAt:    s.now().UTC(),
	}
	if caller != nil {
		uploader := caller.ID
		media.UploadedBy = &uploader
	}

	if err := s.repo.Create(ctx, media); err != nil {
		log.WithError(err).Error("Failed to record media reference")
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.WithError(delErr).Warn("Failed to remove orphaned object")
		}
		return nil, fmt.Errorf("service: could not record media: %w", err)
	}

	s.metrics.MediaUploaded(contentType)
	log.WithFields(logrus.Fields{"media_id": media.ID, "content_type": contentType, "size": media.Size}).Info("Media uploaded successfully")
	return media, nil
}

// acceptedContentType возвращает итоговый тип файла или "", если тип не принимается
func acceptedContentType(detected, declared string) string {
	base := strings.TrimSpace(strings.SplitN(detected, ";", 2)[0])
	declaredBase := strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))

	switch {
	case strings.HasPrefix(base, "image/"), strings.HasPrefix(base, "audio/"):
		return base
	case audioContainers[base] && strings.HasPrefix(declaredBase, "audio/"):
		return declaredBase
	}
	return ""
}

// sizeLimitedReader считает прочитанные байты и возвращает ErrFileTooLarge при превышении лимита
type sizeLimitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (l *sizeLimitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, models.ErrFileTooLarge
	}
	return n, err
}
