package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

// @Summary Register a new user
// @Description Self-registration for the user and first_responder roles. Returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Validation error, duplicate email or invalid role"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")
	if !h.bindJSON(c, log, &input) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.identityService.Register(ctx, DTOToUserProfile(input), input.Password); err != nil {
		respondError(c, log, err)
		return
	}

	session, err := h.identityService.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		User:      ModelToUserResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary Log in
// @Description Exchange email and password for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 403 {object} ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")
	if !h.bindJSON(c, log, &input) {
		return
	}

	session, err := h.identityService.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		User:      ModelToUserResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CurrentUserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUserResponse{User: ModelToUserResponse(currentUser(c))})
}

// @Summary Log out
// @Description Revoke the current session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	log := h.logger.WithField("method", "logout")
	if err := h.identityService.Logout(c.Request.Context(), c.GetString(sessionTokenKey)); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// @Summary List users
// @Description Paginated list of users. Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter" Enums(user, first_responder, admin)
// @Param search query string false "Case-insensitive match on name or email"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} UserListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	var query ListUsersQuery
	log := h.logger.WithField("method", "listUsers")
	if !bindQuery(c, log, &query) {
		return
	}

	page, limit := service.NormalizePage(query.Page, query.Limit)
	users, total, err := h.identityService.ListUsers(c.Request.Context(), currentUser(c), models.UserFilter{
		Role:   models.Role(query.Role),
		Search: query.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, UserListResponse{
		Users:      ModelsToUserResponses(users),
		Pagination: Pagination{Total: total, Page: page, Limit: limit},
	})
}

// @Summary Update user role or status
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Role and/or isActive"
// @Success 200 {object} CurrentUserResponse
// @Failure 400 {object} ErrorResponse "Invalid ID, body or role"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	log := h.logger.WithField("method", "updateUser")
	id, ok := parseID(c, log)
	if !ok {
		return
	}
	log = log.WithField("id", id)

	var input UpdateUserRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	user, err := h.identityService.UpdateUser(c.Request.Context(), currentUser(c), id, DTOToUserPatch(input))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, CurrentUserResponse{User: ModelToUserResponse(user)})
}

// @Summary Delete user
// @Description Permanently delete a user. Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	log := h.logger.WithField("method", "deleteUser")
	id, ok := parseID(c, log)
	if !ok {
		return
	}

	if err := h.identityService.DeleteUser(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, log.WithField("id", id), err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
