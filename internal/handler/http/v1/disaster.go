package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

// @Summary Create a disaster report
// @Description Submit a report. Anonymous submissions are allowed; with a token the report is linked to the caller.
// @Tags Disasters
// @Accept json
// @Produce json
// @Param disaster body CreateDisasterRequest true "Disaster report"
// @Success 201 {object} DisasterEnvelope
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} ErrorResponse "Invalid token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /disasters [post]
func (h *Handler) createDisaster(c *gin.Context) {
	var input CreateDisasterRequest
	log := h.logger.WithField("method", "createDisaster")
	if !h.bindJSON(c, log, &input) {
		return
	}

	model := DTOToDisasterModel(input)
	if err := h.disasterService.CreateDisaster(c.Request.Context(), currentUser(c), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, DisasterEnvelope{Disaster: ModelToDisasterResponse(model)})
}

// @Summary List disaster reports
// @Description Filtered, paginated list ordered newest first. First responders and admins only.
// @Tags Disasters
// @Produce json
// @Security BearerAuth
// @Param type query string false "Disaster type"
// @Param severity query string false "Severity"
// @Param status query string false "Status"
// @Param search query string false "Case-insensitive match on name, details and address"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} DisasterListResponse
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /disasters [get]
func (h *Handler) listDisasters(c *gin.Context) {
	var query ListDisastersQuery
	log := h.logger.WithField("method", "listDisasters")
	if !bindQuery(c, log, &query) {
		return
	}

	page, limit := service.NormalizePage(query.Page, query.Limit)
	disasters, total, err := h.disasterService.ListDisasters(c.Request.Context(), currentUser(c), models.DisasterFilter{
		Type:     models.DisasterType(query.Type),
		Severity: models.Severity(query.Severity),
		Status:   models.Status(query.Status),
		Search:   query.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, DisasterListResponse{
		Disasters:  ModelsToDisasterResponses(disasters),
		Pagination: &Pagination{Total: total, Page: page, Limit: limit},
	})
}

// @Summary List own disaster reports
// @Description All reports submitted by the caller, newest first
// @Tags Disasters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DisasterListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /disasters/user [get]
func (h *Handler) listOwnDisasters(c *gin.Context) {
	log := h.logger.WithField("method", "listOwnDisasters")

	disasters, err := h.disasterService.ListOwnDisasters(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, DisasterListResponse{Disasters: ModelsToDisasterResponses(disasters)})
}

// @Summary Get disaster report by ID
// @Description Responders and admins see any report; other users only their own.
// @Tags Disasters
// @Produce json
// @Security BearerAuth
// @Param id path string true "Disaster ID"
// @Success 200 {object} DisasterEnvelope
// @Failure 400 {object} ErrorResponse "Invalid disaster ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Disaster not found"
// @Router /disasters/{id} [get]
func (h *Handler) getDisaster(c *gin.Context) {
	log := h.logger.WithField("method", "getDisaster")
	id, ok := parseID(c, log)
	if !ok {
		return
	}

	disaster, err := h.disasterService.GetDisaster(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, log.WithField("id", id), err)
		return
	}
	c.JSON(http.StatusOK, DisasterEnvelope{Disaster: ModelToDisasterResponse(disaster)})
}

// @Summary Update disaster status
// @Description Move a report along pending -> in-progress -> resolved (resolved -> in-progress reopens). First responders and admins only.
// @Tags Disasters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Disaster ID"
// @Param update body UpdateStatusRequest true "Status update"
// @Success 200 {object} DisasterEnvelope
// @Failure 400 {object} ErrorResponse "Invalid transition, assignee or body"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Disaster not found"
// @Router /disasters/{id} [put]
func (h *Handler) updateDisasterStatus(c *gin.Context) {
	log := h.logger.WithField("method", "updateDisasterStatus")
	id, ok := parseID(c, log)
	if !ok {
		return
	}
	log = log.WithField("id", id)

	var input UpdateStatusRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	disaster, err := h.disasterService.UpdateStatus(c.Request.Context(), currentUser(c), id, DTOToStatusUpdate(input))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, DisasterEnvelope{Disaster: ModelToDisasterResponse(disaster)})
}
