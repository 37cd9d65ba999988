package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func jsonContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return uploadContext(e, req, rec), rec
}

func TestCreateOrderRejectsMalformedPaymentDate(t *testing.T) {
	h := NewOrderHandler(nil)
	c, rec := jsonContext(t, `{
		"recipient_name": "홍길동",
		"recipient_phone": "010-1234-5678",
		"recipient_address": "서울시 강남구",
		"option_name": "사과 5kg",
		"quantity": "3",
		"payment_date": "2026/09/01"
	}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payment_date") {
		t.Errorf("error body should name payment_date, got %s", rec.Body.String())
	}
}

func TestCreateOrderRequiresOptionNameOrCode(t *testing.T) {
	h := NewOrderHandler(nil)
	c, rec := jsonContext(t, `{
		"recipient_name": "홍길동",
		"recipient_phone": "010-1234-5678",
		"recipient_address": "서울시 강남구",
		"quantity": "1"
	}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
