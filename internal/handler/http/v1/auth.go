package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	currentUserKey  = "currentUser"
	sessionTokenKey = "sessionToken"
)

// AuthMiddleware - middleware для аутентификации по сессионному токену.
// Без заголовка Authorization запрос считается анонимным; неверный токен -> 401.
func AuthMiddleware(identity service.IdentityService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		log := logger.WithField("method", "AuthMiddleware")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			respondError(c, log, models.NewError(models.KindInvalidToken, "authorization header must be 'Bearer <token>'"))
			return
		}

		user, err := identity.GetByToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// RequireAuth отклоняет анонимные запросы к защищенным маршрутам
func RequireAuth(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, logger.WithField("method", "RequireAuth"),
				models.NewError(models.KindInvalidToken, "authentication required"))
			return
		}
		c.Next()
	}
}

// currentUser возвращает вызывающего или nil для анонимного запроса
func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
