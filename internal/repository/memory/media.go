package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

type MediaRepository struct {
	mu    sync.Mutex
	media map[uuid.UUID]models.Media
}

func NewMediaRepository() service.MediaRepository {
	return &MediaRepository{media: make(map[uuid.UUID]models.Media)}
}

func (r *MediaRepository) Create(_ context.Context, media *models.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.media[media.ID] = *media
	return nil
}
