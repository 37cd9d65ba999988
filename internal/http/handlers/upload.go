package handlers

import (
	"errors"
	"io"
	"net/http"

	"farmhub/internal/http/middleware"
	"farmhub/internal/services"
	"farmhub/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UploadHandler handles the order sheet upload flow
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) readSheetFile(c echo.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	return fileHeader.Filename, data, nil
}

// Upload godoc
// @Summary Upload an order sheet
// @Description Parse, validate, map and resolve an uploaded order sheet. A clean sheet is submitted immediately; otherwise the response carries a session to confirm or cancel, the column violations, or a password_required state for encrypted workbooks.
// @Tags orders
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Order sheet (.xlsx, .xls or .csv)"
// @Param market_name formData string false "Market name recorded on the orders"
// @Param sheet_date formData string false "Sheet date (YYYY-MM-DD)"
// @Success 200 {object} services.UploadOutcome
// @Failure 400 {object} map[string]string
// @Router /orders/upload [post]
// @Security BearerAuth
func (h *UploadHandler) Upload(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	fileName, data, err := h.readSheetFile(c)
	if err != nil {
		return err
	}

	outcome, err := h.uploadService.Start(c.Request().Context(), services.UploadInput{
		OrganizationID: orgID,
		UserID:         userID,
		FileName:       fileName,
		MarketName:     c.FormValue("market_name"),
		SheetDate:      c.FormValue("sheet_date"),
		Data:           data,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, outcome)
}

// Decrypt godoc
// @Summary Upload an encrypted order sheet with its password
// @Description Decrypt a password protected workbook and run it through the upload pipeline. A wrong password is reported without consuming the attempt.
// @Tags orders
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Encrypted order sheet (.xlsx)"
// @Param password formData string true "Workbook password"
// @Param market_name formData string false "Market name recorded on the orders"
// @Param sheet_date formData string false "Sheet date (YYYY-MM-DD)"
// @Success 200 {object} services.UploadOutcome
// @Failure 400 {object} map[string]string
// @Router /orders/upload/decrypt [post]
// @Security BearerAuth
func (h *UploadHandler) Decrypt(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	password := c.FormValue("password")
	if password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password is required"})
	}

	fileName, data, err := h.readSheetFile(c)
	if err != nil {
		return err
	}

	decrypted, err := utils.DecryptWorkbook(data, password)
	if err != nil {
		if errors.Is(err, utils.ErrWrongPassword) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error(), "wrong_password": "true"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	outcome, err := h.uploadService.Start(c.Request().Context(), services.UploadInput{
		OrganizationID: orgID,
		UserID:         userID,
		FileName:       fileName,
		MarketName:     c.FormValue("market_name"),
		SheetDate:      c.FormValue("sheet_date"),
		Data:           decrypted,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, outcome)
}

// Confirm godoc
// @Summary Confirm a pending upload
// @Description Submit the orders held by an upload session that stopped for confirmation.
// @Tags orders
// @Produce json
// @Param session_id path string true "Upload session ID"
// @Success 200 {object} services.UploadOutcome
// @Failure 404 {object} map[string]string
// @Router /orders/upload/{session_id}/confirm [post]
// @Security BearerAuth
func (h *UploadHandler) Confirm(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session ID"})
	}

	outcome, err := h.uploadService.Confirm(c.Request().Context(), orgID, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, outcome)
}

// Cancel godoc
// @Summary Cancel a pending upload
// @Description Discard an upload session without persisting any order.
// @Tags orders
// @Produce json
// @Param session_id path string true "Upload session ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/upload/{session_id} [delete]
// @Security BearerAuth
func (h *UploadHandler) Cancel(c echo.Context) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session ID"})
	}

	if err := h.uploadService.Cancel(orgID, sessionID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Upload cancelled"})
}
