package models

import (
	"time"

	"github.com/google/uuid"
)

// Media - ссылка на загруженный файл (изображение или аудиозапись)
type Media struct {
	ID           uuid.UUID  `json:"id"`
	URL          string     `json:"url"`
	ContentType  string     `json:"content_type"`
	Size         int64      `json:"size"`
	OriginalName string     `json:"original_name,omitempty"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
