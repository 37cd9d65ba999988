package services

import (
	"fmt"

	"farmhub/pkg/models"
)

// ValidateColumns checks every staged row for the required order fields and
// returns one violation string per missing field, referencing the 1-based
// spreadsheet row number. All checks run for every row so a seller can fix
// the whole file in one pass. A non-empty result fails the entire batch.
func ValidateColumns(rows []models.UploadRow) []string {
	var violations []string

	for _, row := range rows {
		if row.RecipientName == "" {
			violations = append(violations, fmt.Sprintf("%d행: 수령인이 없습니다", row.RowNumber))
		}
		if row.RecipientPhone == "" {
			violations = append(violations, fmt.Sprintf("%d행: 수령인전화번호가 없습니다", row.RowNumber))
		}
		if row.RecipientAddress == "" {
			violations = append(violations, fmt.Sprintf("%d행: 주소가 없습니다", row.RowNumber))
		}
		if row.Quantity == "" {
			violations = append(violations, fmt.Sprintf("%d행: 수량이 없습니다", row.RowNumber))
		}
		// Option name and option code are an OR constraint: one combined
		// violation when both are missing, never two
		if row.OptionName == "" && row.OptionCode == "" {
			violations = append(violations, fmt.Sprintf("%d행: 옵션상품 또는 옵션코드가 없습니다", row.RowNumber))
		}
	}

	return violations
}
