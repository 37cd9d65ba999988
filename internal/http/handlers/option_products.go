package handlers

import (
	"net/http"

	"farmhub/internal/http/middleware"
	"farmhub/internal/repo"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OptionProductHandler handles option product catalog endpoints
type OptionProductHandler struct {
	productRepo *repo.OptionProductRepository
}

// NewOptionProductHandler creates a new option product handler
func NewOptionProductHandler(productRepo *repo.OptionProductRepository) *OptionProductHandler {
	return &OptionProductHandler{productRepo: productRepo}
}

// List godoc
// @Summary List option products
// @Tags option-products
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Search over option name and code"
// @Success 200 {object} models.PaginationResult[models.OptionProduct]
// @Router /option-products [get]
// @Security BearerAuth
func (h *OptionProductHandler) List(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c)
	result, err := h.productRepo.ListWithSearch(orgID, limit, offset, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list option products"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get option product
// @Tags option-products
// @Produce json
// @Param id path string true "Option product ID"
// @Success 200 {object} models.OptionProduct
// @Failure 404 {object} map[string]string
// @Router /option-products/{id} [get]
// @Security BearerAuth
func (h *OptionProductHandler) GetByID(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid option product ID"})
	}

	product, err := h.productRepo.GetByID(orgID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Option product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// OptionProductRequest carries the editable fields of an option product.
// The supply price is kept as text, matching how it arrives on order sheets.
type OptionProductRequest struct {
	OptionName        string `json:"option_name" validate:"required"`
	OptionCode        string `json:"option_code" validate:"required"`
	SellerSupplyPrice string `json:"seller_supply_price" validate:"omitempty,numeric"`
}

// Create godoc
// @Summary Create option product
// @Tags option-products
// @Accept json
// @Produce json
// @Param request body OptionProductRequest true "Option product data"
// @Success 201 {object} models.OptionProduct
// @Failure 400 {object} map[string]string
// @Router /option-products [post]
// @Security BearerAuth
func (h *OptionProductHandler) Create(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	var req OptionProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	product := &models.OptionProduct{
		BaseOrgModel:      models.BaseOrgModel{OrganizationID: orgID},
		OptionName:        req.OptionName,
		OptionCode:        req.OptionCode,
		SellerSupplyPrice: req.SellerSupplyPrice,
	}

	if err := h.productRepo.Create(product); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Failed to create option product"})
	}

	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update option product
// @Tags option-products
// @Accept json
// @Produce json
// @Param id path string true "Option product ID"
// @Param request body OptionProductRequest true "Option product data"
// @Success 200 {object} models.OptionProduct
// @Failure 404 {object} map[string]string
// @Router /option-products/{id} [put]
// @Security BearerAuth
func (h *OptionProductHandler) Update(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid option product ID"})
	}

	product, err := h.productRepo.GetByID(orgID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Option product not found"})
	}

	var req OptionProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	product.OptionName = req.OptionName
	product.OptionCode = req.OptionCode
	product.SellerSupplyPrice = req.SellerSupplyPrice

	if err := h.productRepo.Update(product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update option product"})
	}

	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete option product
// @Tags option-products
// @Produce json
// @Param id path string true "Option product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /option-products/{id} [delete]
// @Security BearerAuth
func (h *OptionProductHandler) Delete(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid option product ID"})
	}

	if err := h.productRepo.Delete(orgID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Option product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Option product deleted"})
}
