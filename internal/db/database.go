package db

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmhub/pkg/models"
)

// NewDatabase creates a new database connection
func NewDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		os.Getenv("DB_TIMEZONE"),
	)

	config := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: false,
	}

	gdb, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return gdb, nil
}

// AutoMigrate runs database migrations using GORM
func AutoMigrate(gdb *gorm.DB) error {
	log.Info().Msg("Running GORM AutoMigrate...")

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("Could not create uuid-ossp extension")
	}

	if err := gdb.AutoMigrate(models.GetAllModels()...); err != nil {
		return fmt.Errorf("failed to run GORM AutoMigrate: %w", err)
	}

	if err := createCustomIndexes(gdb); err != nil {
		log.Warn().Err(err).Msg("Failed to create some custom indexes")
	}

	log.Info().Msg("GORM AutoMigrate completed successfully")
	return nil
}

// customIndexes are the indexes GORM tags cannot express. Catalog names and
// mapping keys are unique per organization, never globally, so both unique
// indexes must be composite with organization_id.
var customIndexes = []string{
	// One catalog entry per option name within an organization
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_option_products_org_name ON option_products(organization_id, LOWER(TRIM(option_name))) WHERE deleted_at IS NULL`,

	// One rewrite rule per normalized user option name within an organization
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_option_name_mappings_org_name ON option_name_mappings(organization_id, normalized_name) WHERE deleted_at IS NULL`,

	// Order list views filter by sheet date and shipping status
	`CREATE INDEX IF NOT EXISTS idx_orders_org_sheet_date ON orders(organization_id, sheet_date) WHERE is_deleted = false`,
	`CREATE INDEX IF NOT EXISTS idx_orders_org_shipping_status ON orders(organization_id, shipping_status) WHERE is_deleted = false`,

	// Recipient search on the order list
	`CREATE INDEX IF NOT EXISTS idx_orders_recipient_name ON orders(organization_id, recipient_name)`,
}

// createCustomIndexes creates any custom indexes that GORM might not handle
func createCustomIndexes(gdb *gorm.DB) error {
	for _, idx := range customIndexes {
		if err := gdb.Exec(idx).Error; err != nil {
			log.Warn().Err(err).Str("index", idx).Msg("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData creates initial system data
func SeedInitialData(gdb *gorm.DB) error {
	var userCount int64
	if err := gdb.Model(&models.User{}).Where("role = ?", "system_admin").Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}

	if userCount == 0 {
		adminEmail := os.Getenv("ADMIN_EMAIL")
		adminPassword := os.Getenv("ADMIN_PASSWORD_HASH")
		if adminEmail == "" || adminPassword == "" {
			log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, skipping admin seeding")
			return nil
		}

		adminUser := models.User{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     "System Administrator",
			Role:     "system_admin",
			IsActive: true,
		}

		if err := gdb.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Info().Str("email", adminEmail).Msg("Admin user created")
	}

	return nil
}

// RunMigrations is the main migration function called from main.go
func RunMigrations(gdb *gorm.DB) error {
	if err := AutoMigrate(gdb); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	if err := SeedInitialData(gdb); err != nil {
		return fmt.Errorf("initial data seeding failed: %w", err)
	}

	return nil
}
