package handlers

import (
	"net/http"
	"time"

	"farmhub/internal/http/middleware"
	"farmhub/internal/repo"

	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	orderRepo *repo.OrderRepository
	batchRepo *repo.UploadBatchRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(orderRepo *repo.OrderRepository, batchRepo *repo.UploadBatchRepository) *DashboardHandler {
	return &DashboardHandler{orderRepo: orderRepo, batchRepo: batchRepo}
}

// GetStats godoc
// @Summary Order statistics
// @Description Total order count, today's count and the per shipping status breakdown
// @Tags dashboard
// @Produce json
// @Success 200 {object} repo.OrderStats
// @Router /dashboard/stats [get]
// @Security BearerAuth
func (h *DashboardHandler) GetStats(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	stats, err := h.orderRepo.GetStats(orgID, time.Now().Format("2006-01-02"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load statistics"})
	}

	return c.JSON(http.StatusOK, stats)
}

// RecentUploads godoc
// @Summary Recent upload batches
// @Description The most recent submitted upload batches for the organization
// @Tags dashboard
// @Produce json
// @Success 200 {array} models.UploadBatch
// @Router /dashboard/recent-uploads [get]
// @Security BearerAuth
func (h *DashboardHandler) RecentUploads(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	batches, err := h.batchRepo.ListRecent(orgID, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load upload history"})
	}

	return c.JSON(http.StatusOK, batches)
}
