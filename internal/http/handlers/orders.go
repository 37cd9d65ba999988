package handlers

import (
	"net/http"
	"strconv"
	"time"

	"farmhub/internal/http/middleware"
	"farmhub/internal/repo"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderRepo *repo.OrderRepository
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderRepo *repo.OrderRepository) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo}
}

func parsePagination(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// List godoc
// @Summary List orders
// @Description List orders with optional search, sheet date and shipping status filters
// @Tags orders
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Search over recipient, buyer, order number and option name"
// @Param sheet_date query string false "Sheet date (YYYY-MM-DD)"
// @Param shipping_status query string false "Shipping status"
// @Success 200 {object} models.PaginationResult[models.Order]
// @Router /orders [get]
// @Security BearerAuth
func (h *OrderHandler) List(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c)
	result, err := h.orderRepo.ListWithSearch(orgID, limit, offset,
		c.QueryParam("search"), c.QueryParam("sheet_date"), c.QueryParam("shipping_status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list orders"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
// @Security BearerAuth
func (h *OrderHandler) GetByID(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	order, err := h.orderRepo.GetByID(orgID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// CreateOrderRequest is the manual entry form for orders that arrive
// outside a spreadsheet.
type CreateOrderRequest struct {
	MarketName        string `json:"market_name"`
	SellerOrderNumber string `json:"seller_order_number"`
	BuyerName         string `json:"buyer_name"`
	BuyerPhone        string `json:"buyer_phone"`
	RecipientName     string `json:"recipient_name" validate:"required"`
	RecipientPhone    string `json:"recipient_phone" validate:"required"`
	RecipientAddress  string `json:"recipient_address" validate:"required"`
	DeliveryMessage   string `json:"delivery_message"`
	OptionName        string `json:"option_name"`
	OptionCode        string `json:"option_code"`
	Quantity          string `json:"quantity" validate:"required"`
	SpecialRequest    string `json:"special_request"`
	SheetDate         string `json:"sheet_date"`
	PaymentDate       string `json:"payment_date"`
}

// Create godoc
// @Summary Create an order manually
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]string
// @Router /orders [post]
// @Security BearerAuth
func (h *OrderHandler) Create(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.OptionName == "" && req.OptionCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "option_name or option_code is required"})
	}

	var paymentDate *time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "payment_date must be YYYY-MM-DD"})
		}
		paymentDate = &parsed
	}

	order := &models.Order{
		BaseOrgModel:      models.BaseOrgModel{OrganizationID: orgID},
		MarketName:        req.MarketName,
		SellerOrderNumber: req.SellerOrderNumber,
		BuyerName:         req.BuyerName,
		BuyerPhone:        req.BuyerPhone,
		RecipientName:     req.RecipientName,
		RecipientPhone:    req.RecipientPhone,
		RecipientAddress:  req.RecipientAddress,
		DeliveryMessage:   req.DeliveryMessage,
		OptionName:        req.OptionName,
		OptionCode:        req.OptionCode,
		Quantity:          req.Quantity,
		SpecialRequest:    req.SpecialRequest,
		SheetDate:         req.SheetDate,
		PaymentDate:       paymentDate,
		ShippingStatus:    models.ShippingStatusPending,
		CreatedBy:         userID,
	}
	if order.MarketName == "" {
		order.MarketName = "직접입력"
	}

	if err := h.orderRepo.Create(order); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, order)
}

// UpdateShippingStatus godoc
// @Summary Update shipping status for a set of orders
// @Tags orders
// @Accept json
// @Produce json
// @Param request body object true "Order IDs and target status"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} map[string]string
// @Router /orders/shipping-status [put]
// @Security BearerAuth
func (h *OrderHandler) UpdateShippingStatus(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	var req struct {
		OrderIDs       []uuid.UUID `json:"order_ids" validate:"required,min=1"`
		ShippingStatus string      `json:"shipping_status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	valid := map[string]bool{
		models.ShippingStatusPending:   true,
		models.ShippingStatusPreparing: true,
		models.ShippingStatusShipped:   true,
		models.ShippingStatusCanceled:  true,
	}
	if !valid[req.ShippingStatus] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipping status"})
	}

	updated, err := h.orderRepo.UpdateShippingStatus(orgID, req.OrderIDs, req.ShippingStatus)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update shipping status"})
	}

	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// Delete godoc
// @Summary Delete an order
// @Description Soft delete an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [delete]
// @Security BearerAuth
func (h *OrderHandler) Delete(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	if err := h.orderRepo.SoftDelete(orgID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted"})
}
