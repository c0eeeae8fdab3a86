package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) service.MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет ссылку на загруженный файл
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (id, url, content_type, size, original_name, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		media.ID,
		media.URL,
		media.ContentType,
		media.Size,
		media.OriginalName,
		media.UploadedBy,
		media.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}
