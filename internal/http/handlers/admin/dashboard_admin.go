package admin

import (
	"github.com/tienda-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 后台首页经营数据
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.DashboardService.Overview(c.Request.Context(), c.Query("force_refresh") == "true")
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_overview_failed", err)
		return
	}
	response.Success(c, overview)
}
