package app

import (
	"farmhub/internal/auth"
	"farmhub/internal/repo"
	"farmhub/internal/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB                  *gorm.DB
	AuthService         *auth.Service
	UserRepo            *repo.UserRepository
	OrganizationRepo    *repo.OrganizationRepository
	OrderRepo           *repo.OrderRepository
	OptionProductRepo   *repo.OptionProductRepository
	OptionMappingRepo   *repo.OptionNameMappingRepository
	UploadBatchRepo     *repo.UploadBatchRepository
	UploadService       *services.UploadService
	SheetArchiveService *services.SheetArchiveService
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	userRepo := repo.NewUserRepository(db)
	organizationRepo := repo.NewOrganizationRepository(db)
	orderRepo := repo.NewOrderRepository(db)
	optionProductRepo := repo.NewOptionProductRepository(db)
	optionMappingRepo := repo.NewOptionNameMappingRepository(db)
	uploadBatchRepo := repo.NewUploadBatchRepository(db)

	authService := auth.NewService(userRepo)

	// Archiving is optional: without S3 credentials uploads still work, the
	// original sheet is just not retained
	var archiver services.SheetArchiver
	archiveService, err := services.NewSheetArchiveService()
	if err != nil {
		log.Warn().Err(err).Msg("sheet archiving disabled")
	} else {
		archiver = archiveService
	}

	mapper := services.NewOptionNameMapper(optionMappingRepo)
	resolver := services.NewOptionResolver(optionProductRepo)
	uploadService := services.NewUploadService(mapper, resolver, orderRepo, uploadBatchRepo, nil, archiver)

	return &Services{
		DB:                  db,
		AuthService:         authService,
		UserRepo:            userRepo,
		OrganizationRepo:    organizationRepo,
		OrderRepo:           orderRepo,
		OptionProductRepo:   optionProductRepo,
		OptionMappingRepo:   optionMappingRepo,
		UploadBatchRepo:     uploadBatchRepo,
		UploadService:       uploadService,
		SheetArchiveService: archiveService,
	}
}
