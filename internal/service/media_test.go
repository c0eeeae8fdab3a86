package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestMediaService(t *testing.T, maxBytes int64) (*mediaService, *mocks.MockObjectStorage, *mocks.MockMediaRepository) {
	ctrl := gomock.NewController(t)
	storageMock := mocks.NewMockObjectStorage(ctrl)
	repoMock := mocks.NewMockMediaRepository(ctrl)

	service := NewMediaService(storageMock, repoMock, maxBytes, nil, newQuietLogger()).(*mediaService)
	service.now = func() time.Time { return fixedNow }
	return service, storageMock, repoMock
}

// drainTo имитирует хранилище: читает тело целиком и возвращает URL
func drainTo(url string) func(context.Context, string, string, io.Reader) (string, error) {
	return func(_ context.Context, _ string, _ string, body io.Reader) (string, error) {
		if _, err := io.ReadAll(body); err != nil {
			return "", err
		}
		return url, nil
	}
}

func TestUpload_Image(t *testing.T) {
	service, storageMock, repoMock := newTestMediaService(t, 1<<20)
	ctx := context.Background()
	caller := &models.User{ID: uuid.New(), Role: models.RoleUser}
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)

	storageMock.EXPECT().
		Put(ctx, gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
			assert.True(t, strings.HasSuffix(key, ".png"))
			return drainTo("/media/files/" + key)(ctx, key, contentType, body)
		}).
		Times(1)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)

	media, err := service.Upload(ctx, caller, "../../photo.png", "image/png", bytes.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, "image/png", media.ContentType)
	assert.Equal(t, int64(len(content)), media.Size)
	assert.Equal(t, "photo.png", media.OriginalName)
	assert.True(t, strings.HasPrefix(media.URL, "/media/files/"))
	require.NotNil(t, media.UploadedBy)
	assert.Equal(t, caller.ID, *media.UploadedBy)
	assert.Equal(t, fixedNow, media.CreatedAt)
}

func TestUpload_AnonymousAudio(t *testing.T) {
	service, storageMock, repoMock := newTestMediaService(t, 1<<20)
	ctx := context.Background()
	content := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xFF}, 64)...)

	storageMock.EXPECT().Put(ctx, gomock.Any(), "audio/mpeg", gomock.Any()).DoAndReturn(drainTo("/media/files/a.mp3")).Times(1)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)

	media, err := service.Upload(ctx, nil, "voice.mp3", "", bytes.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", media.ContentType)
	assert.Nil(t, media.UploadedBy)
}

func TestUpload_Rejected(t *testing.T) {
	ctx := context.Background()

	t.Run("empty file", func(t *testing.T) {
		service, _, _ := newTestMediaService(t, 1<<20)
		_, err := service.Upload(ctx, nil, "empty.png", "image/png", bytes.NewReader(nil))
		assert.ErrorIs(t, err, models.ErrUnsupportedMediaType)
	})

	t.Run("text file", func(t *testing.T) {
		service, _, _ := newTestMediaService(t, 1<<20)
		_, err := service.Upload(ctx, nil, "notes.png", "image/png", strings.NewReader("just some plain text"))
		assert.ErrorIs(t, err, models.ErrUnsupportedMediaType)
	})

	t.Run("too large", func(t *testing.T) {
		service, storageMock, _ := newTestMediaService(t, 64)
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 200)...)
		storageMock.EXPECT().Put(ctx, gomock.Any(), "image/png", gomock.Any()).DoAndReturn(drainTo("unused")).Times(1)

		_, err := service.Upload(ctx, nil, "big.png", "image/png", bytes.NewReader(content))
		assert.ErrorIs(t, err, models.ErrFileTooLarge)
	})
}

func TestUpload_RepositoryFailureRemovesObject(t *testing.T) {
	service, storageMock, repoMock := newTestMediaService(t, 1<<20)
	ctx := context.Background()
	var storedKey string

	storageMock.EXPECT().
		Put(ctx, gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
			storedKey = key
			return drainTo("/media/files/" + key)(ctx, key, contentType, body)
		}).
		Times(1)
	dbErr := errors.New("insert failed")
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(dbErr).Times(1)
	storageMock.EXPECT().
		Delete(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			assert.Equal(t, storedKey, key)
			return nil
		}).
		Times(1)

	_, err := service.Upload(ctx, nil, "photo.png", "image/png", bytes.NewReader(pngHeader))

	assert.ErrorIs(t, err, dbErr)
}

func TestAcceptedContentType(t *testing.T) {
	tests := []struct {
		detected string
		declared string
		want     string
	}{
		{"image/jpeg", "", "image/jpeg"},
		{"image/png", "application/octet-stream", "image/png"},
		{"audio/mpeg", "audio/mpeg", "audio/mpeg"},
		{"video/webm", "audio/webm;codecs=opus", "audio/webm"},
		{"video/webm", "video/webm", ""},
		{"application/ogg", "audio/ogg", "audio/ogg"},
		{"text/plain; charset=utf-8", "image/png", ""},
		{"application/pdf", "audio/mpeg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.detected+"|"+tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptedContentType(tt.detected, tt.declared))
		})
	}
}
