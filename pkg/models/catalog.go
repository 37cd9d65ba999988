package models

import (
	"strings"

	"gorm.io/gorm"
)

// OptionProduct is a canonical catalog entry for a sellable product variant.
// Uploaded order rows are validated against this table to snapshot the option
// code and supply price of each order.
type OptionProduct struct {
	BaseOrgModel
	// Uniqueness is per organization, enforced by a composite partial index
	// created in internal/db; a gorm uniqueIndex tag here would be global.
	OptionName        string `gorm:"not null" json:"option_name" validate:"required"`
	OptionCode        string `gorm:"column:option_code" json:"option_code"`
	SellerSupplyPrice string `gorm:"column:seller_supply_price;default:'0'" json:"seller_supply_price"`
	IsActive          bool   `gorm:"default:true" json:"is_active"`
}

// OptionNameMapping is an organization-scoped rewrite rule from a seller's
// free-text option name to the canonical catalog name. Lookups are keyed by
// the trimmed, lower-cased user option name.
type OptionNameMapping struct {
	BaseOrgModel
	UserOptionName string `gorm:"column:user_option_name;not null" json:"user_option_name" validate:"required"`
	SiteOptionName string `gorm:"column:site_option_name;not null" json:"site_option_name" validate:"required"`
	// NormalizedName is maintained on save so the per-organization uniqueness
	// of rules survives casing and whitespace variations. The org-scoped
	// unique index lives in internal/db with the other composite indexes.
	NormalizedName string `gorm:"column:normalized_name;index" json:"-"`
}

// NormalizeOptionName is the shared lookup key convention for mapping rules
// and catalog resolution: trim and lower-case.
func NormalizeOptionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeSave keeps the normalized lookup key in sync with the source text
func (m *OptionNameMapping) BeforeSave(tx *gorm.DB) error {
	m.NormalizedName = NormalizeOptionName(m.UserOptionName)
	return nil
}
