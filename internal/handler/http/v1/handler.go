package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	identityService service.IdentityService
	disasterService service.DisasterService
	mediaService    service.MediaService
	statsService    service.StatsService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(
	identityService service.IdentityService,
	disasterService service.DisasterService,
	mediaService service.MediaService,
	statsService service.StatsService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		identityService: identityService,
		disasterService: disasterService,
		mediaService:    mediaService,
		statsService:    statsService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// bindJSON разбирает и валидирует тело запроса. При ошибке ответ уже отправлен.
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		respondError(c, log, models.NewError(models.KindValidation, "invalid request body"))
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		respondError(c, log, bindError(err))
		return false
	}
	return true
}

// bindQuery разбирает параметры строки запроса
func bindQuery(c *gin.Context, log *logrus.Entry, query any) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		respondError(c, log, bindError(err))
		return false
	}
	return true
}

func parseID(c *gin.Context, log *logrus.Entry) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, log, models.NewError(models.KindValidation, "invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
