package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check, токен не проверяется
	api.GET("/system/health", h.healthCheck)

	api.Use(AuthMiddleware(h.identityService, h.logger))
	requireAuth := RequireAuth(h.logger)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", requireAuth, h.me)
		auth.POST("/logout", requireAuth, h.logout)
	}

	// Создание сообщения доступно анонимно, остальное только с токеном
	disasters := api.Group("/disasters")
	{
		disasters.POST("", h.createDisaster)
		disasters.GET("", requireAuth, h.listDisasters)
		disasters.GET("/user", requireAuth, h.listOwnDisasters)
		disasters.GET("/:id", requireAuth, h.getDisaster)
		disasters.PUT("/:id", requireAuth, h.updateDisasterStatus)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("", h.listUsers)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
	}

	api.POST("/media/upload", h.uploadMedia)
	api.GET("/stats", requireAuth, h.getStats)
}
