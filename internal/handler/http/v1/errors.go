package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

// statusForKind возвращает HTTP статус для категории доменной ошибки
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidCredentials, models.KindInvalidToken:
		return http.StatusUnauthorized
	case models.KindAccountDisabled, models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindDuplicateEmail,
		models.KindInvalidRole,
		models.KindInvalidTransition,
		models.KindInvalidAssignee,
		models.KindUnsupportedMediaType,
		models.KindFileTooLarge,
		models.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError отвечает единым телом ошибки. Детали внутренних ошибок клиенту не отдаются.
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	domainErr, ok := models.AsError(err)
	if !ok {
		log.WithError(err).Error("Request failed with internal error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorBody{Kind: string(models.KindInternal), Message: internalErrorMessage},
		})
		return
	}

	status := statusForKind(domainErr.Kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed with internal error")
		c.AbortWithStatusJSON(status, ErrorResponse{
			Error: ErrorBody{Kind: string(models.KindInternal), Message: internalErrorMessage},
		})
		return
	}

	log.WithError(err).WithField("kind", domainErr.Kind).Warn("Request rejected")
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Kind: string(domainErr.Kind), Message: domainErr.Message},
	})
}

// Recovery перехватывает панику обработчика и отвечает единым телом ошибки 500
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"method": "Recovery",
			"route":  c.FullPath(),
			"panic":  fmt.Sprint(recovered),
		}).Error("Request handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorBody{Kind: string(models.KindInternal), Message: internalErrorMessage},
		})
	})
}

// bindError превращает ошибку разбора или валидации запроса в ValidationError
func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return models.NewError(models.KindValidation, "field %s failed on the '%s' rule", fe.Namespace(), fe.Tag())
	}
	return models.NewError(models.KindValidation, "invalid request: %v", err)
}
