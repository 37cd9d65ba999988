package services

import (
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OptionMappingSource provides an organization's option-name rewrite rules
type OptionMappingSource interface {
	ListByOrganization(organizationID uuid.UUID) ([]models.OptionNameMapping, error)
}

// OptionNameMapper rewrites seller free-text option names to their canonical
// catalog names using the organization's mapping rules
type OptionNameMapper struct {
	source OptionMappingSource
}

// NewOptionNameMapper creates a new option-name mapper
func NewOptionNameMapper(source OptionMappingSource) *OptionNameMapper {
	return &OptionNameMapper{source: source}
}

// MappingSummary aggregates the rewrites applied to one upload batch
type MappingSummary struct {
	Results      []models.MappingResult `json:"results"`
	TotalOrders  int                    `json:"total_orders"`
	MappedOrders int                    `json:"mapped_orders"`
}

// Apply rewrites the option names of the given rows in place of a copy,
// preserving row order. The organization's rules are fetched once; a fetch
// failure degrades to a no-op because mapping is a best-effort enhancement,
// never a blocker on order submission.
func (m *OptionNameMapper) Apply(organizationID uuid.UUID, rows []models.UploadRow) ([]models.UploadRow, MappingSummary) {
	summary := MappingSummary{TotalOrders: len(rows)}

	mappings, err := m.source.ListByOrganization(organizationID)
	if err != nil {
		log.Warn().Err(err).Str("organization_id", organizationID.String()).
			Msg("Failed to load option-name mappings, passing rows through unmapped")
		return rows, summary
	}
	if len(mappings) == 0 {
		return rows, summary
	}

	lookup := make(map[string]string, len(mappings))
	for _, mapping := range mappings {
		lookup[models.NormalizeOptionName(mapping.UserOptionName)] = mapping.SiteOptionName
	}

	mapped := make([]models.UploadRow, len(rows))
	copy(mapped, rows)

	resultIndex := make(map[string]int)
	for i := range mapped {
		siteName, exists := lookup[models.NormalizeOptionName(mapped[i].OptionName)]
		if !exists || siteName == mapped[i].OptionName {
			// No rule, or the name is already canonical: applying again must
			// be a no-op
			continue
		}

		original := mapped[i].OptionName
		mapped[i].OptionName = siteName
		summary.MappedOrders++

		key := models.NormalizeOptionName(original)
		if idx, seen := resultIndex[key]; seen {
			summary.Results[idx].Count++
		} else {
			resultIndex[key] = len(summary.Results)
			summary.Results = append(summary.Results, models.MappingResult{
				OriginalName: original,
				MappedName:   siteName,
				Count:        1,
			})
		}
	}

	return mapped, summary
}
