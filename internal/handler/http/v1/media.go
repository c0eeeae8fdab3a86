package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_aid_connect/internal/models"
)

// multipartOverhead - запас на заголовки multipart сверх лимита файла
const multipartOverhead = 1 << 20

// @Summary Upload an image or audio file
// @Description Multipart upload under the "file" field. Accepts non-empty image/* and audio/* content.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or audio file"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Missing, empty, unsupported or too large file"
// @Failure 401 {object} ErrorResponse "Invalid token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /media/upload [post]
func (h *Handler) uploadMedia(c *gin.Context) {
	log := h.logger.WithField("method", "uploadMedia")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MediaMaxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, log, models.NewError(models.KindFileTooLarge, "file exceeds %d bytes", h.cfg.MediaMaxBytes))
			return
		}
		respondError(c, log, models.NewError(models.KindValidation, "multipart field 'file' is required"))
		return
	}
	log = log.WithField("filename", fileHeader.Filename)

	if fileHeader.Size > h.cfg.MediaMaxBytes {
		respondError(c, log, models.NewError(models.KindFileTooLarge, "file exceeds %d bytes", h.cfg.MediaMaxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, log, err)
		return
	}
	defer file.Close()

	media, err := h.mediaService.Upload(c.Request.Context(), currentUser(c), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, UploadResponse{
		FileURL:     media.URL,
		ContentType: media.ContentType,
		Size:        media.Size,
	})
}
