package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Get system statistics
// @Description Status counts, breakdowns by type/severity/status and a per-day trend. Admin only.
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trend window in days (1-90)" default(7)
// @Success 200 {object} StatsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	var query StatsQuery
	log := h.logger.WithField("method", "getStats")
	if !bindQuery(c, log, &query) {
		return
	}

	stats, err := h.statsService.ComputeStats(c.Request.Context(), currentUser(c), query.Days)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}
