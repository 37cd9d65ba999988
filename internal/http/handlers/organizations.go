package handlers

import (
	"net/http"

	"farmhub/internal/auth"
	"farmhub/internal/repo"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrganizationHandler handles system admin organization management
type OrganizationHandler struct {
	orgRepo     *repo.OrganizationRepository
	userRepo    *repo.UserRepository
	authService *auth.Service
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgRepo *repo.OrganizationRepository, userRepo *repo.UserRepository, authService *auth.Service) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo, userRepo: userRepo, authService: authService}
}

// List godoc
// @Summary List organizations
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PaginationResult[models.Organization]
// @Router /admin/organizations [get]
// @Security BearerAuth
func (h *OrganizationHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)
	result, err := h.orgRepo.List(limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list organizations"})
	}
	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get organization
// @Tags admin
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string
// @Router /admin/organizations/{id} [get]
// @Security BearerAuth
func (h *OrganizationHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid organization ID"})
	}

	org, err := h.orgRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Organization not found"})
	}
	return c.JSON(http.StatusOK, org)
}

// CreateOrganizationRequest carries a new organization and its first admin
type CreateOrganizationRequest struct {
	Name           string `json:"name" validate:"required"`
	BusinessNumber string `json:"business_number"`
	Phone          string `json:"phone"`
	AdminEmail     string `json:"admin_email" validate:"required,email"`
	AdminName      string `json:"admin_name" validate:"required"`
	AdminPassword  string `json:"admin_password" validate:"required,min=8"`
}

// Create godoc
// @Summary Create organization
// @Description Create an organization together with its first org admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateOrganizationRequest true "Organization data"
// @Success 201 {object} models.Organization
// @Failure 400 {object} map[string]string
// @Router /admin/organizations [post]
// @Security BearerAuth
func (h *OrganizationHandler) Create(c echo.Context) error {
	var req CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	org := &models.Organization{
		Name:           req.Name,
		BusinessNumber: req.BusinessNumber,
		Phone:          req.Phone,
		Status:         "active",
	}
	if err := h.orgRepo.Create(org); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create organization"})
	}

	hash, err := h.authService.HashPassword(req.AdminPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	admin := &models.User{
		OrganizationID: &org.ID,
		Email:          req.AdminEmail,
		Name:           req.AdminName,
		Password:       hash,
		Role:           "org_admin",
		IsActive:       true,
	}
	if err := h.userRepo.Create(admin); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Failed to create organization admin"})
	}

	return c.JSON(http.StatusCreated, org)
}

// Update godoc
// @Summary Update organization
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body models.Organization true "Organization data"
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string
// @Router /admin/organizations/{id} [put]
// @Security BearerAuth
func (h *OrganizationHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid organization ID"})
	}

	org, err := h.orgRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Organization not found"})
	}

	var req struct {
		Name              string `json:"name"`
		BusinessNumber    string `json:"business_number"`
		Phone             string `json:"phone"`
		BankName          string `json:"bank_name"`
		BankAccountNumber string `json:"bank_account_number"`
		BankAccountHolder string `json:"bank_account_holder"`
		Status            string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.BusinessNumber != "" {
		org.BusinessNumber = req.BusinessNumber
	}
	if req.Phone != "" {
		org.Phone = req.Phone
	}
	if req.BankName != "" {
		org.BankName = req.BankName
	}
	if req.BankAccountNumber != "" {
		org.BankAccountNumber = req.BankAccountNumber
	}
	if req.BankAccountHolder != "" {
		org.BankAccountHolder = req.BankAccountHolder
	}
	if req.Status != "" {
		org.Status = req.Status
	}

	if err := h.orgRepo.Update(org); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update organization"})
	}

	return c.JSON(http.StatusOK, org)
}
