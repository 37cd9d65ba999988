package repo

import "farmhub/pkg/models"

// newPaginationResult wraps a page of rows with its paging metadata
func newPaginationResult[T any](data []T, total int64, limit, offset int) *models.PaginationResult[T] {
	if limit <= 0 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationResult[T]{
		Data:       data,
		Total:      total,
		Page:       offset/limit + 1,
		PerPage:    limit,
		TotalPages: totalPages,
	}
}
