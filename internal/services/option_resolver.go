package services

import (
	"fmt"

	"farmhub/pkg/models"

	"github.com/google/uuid"
)

// OptionProductSource provides catalog lookups for option names
type OptionProductSource interface {
	FindByNames(organizationID uuid.UUID, names []string) ([]models.OptionProduct, error)
}

// OptionResolver cross-references option names against the catalog to attach
// canonical codes and supply prices
type OptionResolver struct {
	source OptionProductSource
}

// NewOptionResolver creates a new option-product resolver
func NewOptionResolver(source OptionProductSource) *OptionResolver {
	return &OptionResolver{source: source}
}

// OptionLookup maps a normalized option name to its catalog snapshot
type OptionLookup map[string]models.OptionRef

// Resolve builds a lookup covering every distinct option name in the batch
// with a single batched query. Rows with no option name do not participate;
// they were admitted by option code.
func (r *OptionResolver) Resolve(organizationID uuid.UUID, rows []models.UploadRow) (OptionLookup, error) {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		key := models.NormalizeOptionName(row.OptionName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}

	lookup := make(OptionLookup, len(names))
	if len(names) == 0 {
		return lookup, nil
	}

	products, err := r.source.FindByNames(organizationID, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve option products: %w", err)
	}

	for _, product := range products {
		lookup[models.NormalizeOptionName(product.OptionName)] = models.OptionRef{
			OptionCode:        product.OptionCode,
			SellerSupplyPrice: product.SellerSupplyPrice,
		}
	}

	return lookup, nil
}

// Merge folds another lookup into this one; the newer pass wins on collision
func (l OptionLookup) Merge(other OptionLookup) {
	for key, ref := range other {
		l[key] = ref
	}
}

// Unmatched returns the distinct option names of rows whose (possibly mapped)
// name is absent from the lookup, in row order. Rows admitted by option code
// alone are considered matched.
func (l OptionLookup) Unmatched(rows []models.UploadRow) []string {
	seen := make(map[string]bool)
	var unmatched []string
	for _, row := range rows {
		key := models.NormalizeOptionName(row.OptionName)
		if key == "" || seen[key] {
			continue
		}
		if _, exists := l[key]; exists {
			continue
		}
		seen[key] = true
		unmatched = append(unmatched, row.OptionName)
	}
	return unmatched
}
