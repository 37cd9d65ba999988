package services

import (
	"strings"
	"testing"

	"farmhub/pkg/models"
)

func validRow(rowNumber int) models.UploadRow {
	return models.UploadRow{
		RowNumber:        rowNumber,
		RecipientName:    "홍길동",
		RecipientPhone:   "010-1234-5678",
		RecipientAddress: "서울시 강남구",
		OptionName:       "사과 5kg",
		Quantity:         "3",
	}
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.UploadRow)
		violations int
		contains   string
	}{
		{"valid row", func(r *models.UploadRow) {}, 0, ""},
		{"missing recipient", func(r *models.UploadRow) { r.RecipientName = "" }, 1, "수령인이"},
		{"missing phone", func(r *models.UploadRow) { r.RecipientPhone = "" }, 1, "수령인전화번호"},
		{"missing address", func(r *models.UploadRow) { r.RecipientAddress = "" }, 1, "주소"},
		{"missing quantity", func(r *models.UploadRow) { r.Quantity = "" }, 1, "수량"},
		{"option code substitutes for name", func(r *models.UploadRow) {
			r.OptionName = ""
			r.OptionCode = "AP-5"
		}, 0, ""},
		{"missing both option name and code", func(r *models.UploadRow) {
			r.OptionName = ""
			r.OptionCode = ""
		}, 1, "옵션상품 또는 옵션코드"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			row := validRow(5)
			test.mutate(&row)

			violations := ValidateColumns([]models.UploadRow{row})
			if len(violations) != test.violations {
				t.Fatalf("got %d violations %v, expected %d", len(violations), violations, test.violations)
			}
			if test.contains != "" {
				if !strings.Contains(violations[0], test.contains) {
					t.Errorf("violation %q does not mention %q", violations[0], test.contains)
				}
				if !strings.Contains(violations[0], "5행") {
					t.Errorf("violation %q does not reference row number 5", violations[0])
				}
			}
		})
	}
}

func TestValidateColumnsDoesNotShortCircuit(t *testing.T) {
	row := models.UploadRow{RowNumber: 2}

	violations := ValidateColumns([]models.UploadRow{row})
	// recipient, phone, address, quantity and the combined option violation
	if len(violations) != 5 {
		t.Fatalf("got %d violations %v, expected 5", len(violations), violations)
	}
}

func TestValidateColumnsReportsEveryRow(t *testing.T) {
	rows := []models.UploadRow{validRow(2), validRow(3), validRow(4)}
	rows[0].RecipientName = ""
	rows[2].Quantity = ""

	violations := ValidateColumns(rows)
	if len(violations) != 2 {
		t.Fatalf("got %d violations %v, expected 2", len(violations), violations)
	}
	if !strings.Contains(violations[0], "2행") || !strings.Contains(violations[1], "4행") {
		t.Errorf("violations reference wrong rows: %v", violations)
	}
}
