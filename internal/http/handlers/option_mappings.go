package handlers

import (
	"net/http"

	"farmhub/internal/http/middleware"
	"farmhub/internal/repo"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OptionMappingHandler handles option name mapping endpoints
type OptionMappingHandler struct {
	mappingRepo *repo.OptionNameMappingRepository
}

// NewOptionMappingHandler creates a new option mapping handler
func NewOptionMappingHandler(mappingRepo *repo.OptionNameMappingRepository) *OptionMappingHandler {
	return &OptionMappingHandler{mappingRepo: mappingRepo}
}

// List godoc
// @Summary List option name mappings
// @Tags option-mappings
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Search over user and site option names"
// @Success 200 {object} models.PaginationResult[models.OptionNameMapping]
// @Router /option-mappings [get]
// @Security BearerAuth
func (h *OptionMappingHandler) List(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c)
	result, err := h.mappingRepo.List(orgID, limit, offset, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list option mappings"})
	}

	return c.JSON(http.StatusOK, result)
}

// OptionMappingRequest carries the editable fields of an option name mapping
type OptionMappingRequest struct {
	UserOptionName string `json:"user_option_name" validate:"required"`
	SiteOptionName string `json:"site_option_name" validate:"required"`
}

// Create godoc
// @Summary Create option name mapping
// @Description Register a rewrite rule from a marketplace option name to the site option name
// @Tags option-mappings
// @Accept json
// @Produce json
// @Param request body OptionMappingRequest true "Mapping data"
// @Success 201 {object} models.OptionNameMapping
// @Failure 400 {object} map[string]string
// @Router /option-mappings [post]
// @Security BearerAuth
func (h *OptionMappingHandler) Create(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	var req OptionMappingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	mapping := &models.OptionNameMapping{
		BaseOrgModel:   models.BaseOrgModel{OrganizationID: orgID},
		UserOptionName: req.UserOptionName,
		SiteOptionName: req.SiteOptionName,
	}

	if err := h.mappingRepo.Create(mapping); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Failed to create option mapping"})
	}

	return c.JSON(http.StatusCreated, mapping)
}

// Update godoc
// @Summary Update option name mapping
// @Tags option-mappings
// @Accept json
// @Produce json
// @Param id path string true "Mapping ID"
// @Param request body OptionMappingRequest true "Mapping data"
// @Success 200 {object} models.OptionNameMapping
// @Failure 404 {object} map[string]string
// @Router /option-mappings/{id} [put]
// @Security BearerAuth
func (h *OptionMappingHandler) Update(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid mapping ID"})
	}

	mapping, err := h.mappingRepo.GetByID(orgID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Option mapping not found"})
	}

	var req OptionMappingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	mapping.UserOptionName = req.UserOptionName
	mapping.SiteOptionName = req.SiteOptionName

	if err := h.mappingRepo.Update(mapping); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update option mapping"})
	}

	return c.JSON(http.StatusOK, mapping)
}

// Delete godoc
// @Summary Delete option name mapping
// @Tags option-mappings
// @Produce json
// @Param id path string true "Mapping ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /option-mappings/{id} [delete]
// @Security BearerAuth
func (h *OptionMappingHandler) Delete(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid mapping ID"})
	}

	if err := h.mappingRepo.Delete(orgID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Option mapping not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Option mapping deleted"})
}
