package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmhub/internal/utils"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrSessionNotFound is returned when a confirmation references an unknown or
// expired upload session
var ErrSessionNotFound = errors.New("업로드 세션을 찾을 수 없습니다")

// OrderStore persists an accepted batch in one all-or-nothing call
type OrderStore interface {
	BatchCreate(ctx context.Context, orders []models.Order) error
}

// UploadBatchStore records upload history for the dashboard
type UploadBatchStore interface {
	Create(batch *models.UploadBatch) error
}

// OrderNotifier pushes order events to connected dashboards
type OrderNotifier interface {
	NotifyOrdersSubmitted(organizationID uuid.UUID, count int)
}

// SheetArchiver stores the original sheet file after a successful submission
type SheetArchiver interface {
	ArchiveOrderSheet(organizationID uuid.UUID, fileName string, data []byte) (string, error)
}

// UploadService orchestrates the order-upload pipeline: parse, validate,
// map option names, resolve against the catalog, pause for user confirmation
// when needed, and finally submit the batch.
type UploadService struct {
	mapper   *OptionNameMapper
	resolver *OptionResolver
	orders   OrderStore
	batches  UploadBatchStore
	notifier OrderNotifier
	archiver SheetArchiver
	sessions *sessionStore
}

// NewUploadService creates a new upload orchestrator. notifier and archiver
// are optional and may be nil.
func NewUploadService(mapper *OptionNameMapper, resolver *OptionResolver, orders OrderStore, batches UploadBatchStore, notifier OrderNotifier, archiver SheetArchiver) *UploadService {
	return &UploadService{
		mapper:   mapper,
		resolver: resolver,
		orders:   orders,
		batches:  batches,
		notifier: notifier,
		archiver: archiver,
		sessions: newSessionStore(30 * time.Minute),
	}
}

// SetNotifier attaches the order notifier after construction. The WebSocket
// handler is built during route setup, after the service container exists.
func (s *UploadService) SetNotifier(notifier OrderNotifier) {
	s.notifier = notifier
}

// UploadInput carries one uploaded order sheet
type UploadInput struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	FileName       string
	MarketName     string
	SheetDate      string
	Data           []byte
}

// UploadOutcome reports where one upload attempt ended up
type UploadOutcome struct {
	State          UploadState            `json:"state"`
	SessionID      *uuid.UUID             `json:"session_id,omitempty"`
	Violations     []string               `json:"violations,omitempty"`
	MappingResults []models.MappingResult `json:"mapping_results,omitempty"`
	TotalOrders    int                    `json:"total_orders"`
	MappedOrders   int                    `json:"mapped_orders"`
	UnmatchedNames []string               `json:"unmatched_option_names,omitempty"`
	SubmittedCount int                    `json:"submitted_count,omitempty"`
}

// Start runs the pipeline on an uploaded file. The outcome is either
// submitted (the fast path for a clean file), awaiting_confirmation with a
// session to confirm or cancel, column_invalid with the full violation list,
// or password_required for an encrypted workbook.
func (s *UploadService) Start(ctx context.Context, input UploadInput) (*UploadOutcome, error) {
	session := &UploadSession{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		UserID:         input.UserID,
		State:          UploadStateIdle,
		FileName:       input.FileName,
		MarketName:     input.MarketName,
		SheetDate:      input.SheetDate,
		FileData:       input.Data,
		CreatedAt:      time.Now(),
	}
	if session.MarketName == "" {
		session.MarketName = "엑셀업로드"
	}
	if session.SheetDate == "" {
		session.SheetDate = time.Now().Format("2006-01-02")
	}

	if err := session.transition(UploadStateFileDropped); err != nil {
		return nil, err
	}

	records, err := utils.ParseSheet(input.FileName, input.Data)
	if err != nil {
		if errors.Is(err, utils.ErrEncryptedFile) {
			// The decrypt endpoint loops the decrypted file back into Start
			if terr := session.transition(UploadStatePasswordRequired); terr != nil {
				return nil, terr
			}
			return &UploadOutcome{State: session.State}, nil
		}
		return nil, err
	}
	if err := session.transition(UploadStateParsed); err != nil {
		return nil, err
	}

	session.Rows = uploadRowsFromRecords(records)
	if len(session.Rows) == 0 {
		// A header-only sheet must not reach the fast path and record an
		// empty batch
		return nil, utils.ErrEmptySheet
	}

	if violations := ValidateColumns(session.Rows); len(violations) > 0 {
		// Fail closed: no row of the batch is accepted
		if err := session.transition(UploadStateColumnInvalid); err != nil {
			return nil, err
		}
		return &UploadOutcome{
			State:       session.State,
			Violations:  violations,
			TotalOrders: len(session.Rows),
		}, nil
	}
	if err := session.transition(UploadStateColumnValidated); err != nil {
		return nil, err
	}

	// First resolution pass runs against the raw names; mapping may turn an
	// unresolvable name into a resolvable one, so a second pass follows and
	// wins on collision
	lookup, err := s.resolver.Resolve(input.OrganizationID, session.Rows)
	if err != nil {
		return nil, err
	}

	mappedRows, summary := s.mapper.Apply(input.OrganizationID, session.Rows)
	session.Rows = mappedRows
	session.MappingResults = summary.Results
	session.MappedOrders = summary.MappedOrders
	if err := session.transition(UploadStateOptionMapped); err != nil {
		return nil, err
	}

	postLookup, err := s.resolver.Resolve(input.OrganizationID, session.Rows)
	if err != nil {
		return nil, err
	}
	lookup.Merge(postLookup)
	session.Lookup = lookup
	session.UnmatchedNames = lookup.Unmatched(session.Rows)

	needsConfirmation := len(session.MappingResults) > 0 || len(session.UnmatchedNames) > 0
	if !needsConfirmation {
		if err := session.transition(UploadStateOptionResolved); err != nil {
			return nil, err
		}
		// Fast path: clean file, no mapping rules applied, nothing unmatched
		count, err := s.submit(ctx, session)
		if err != nil {
			return nil, err
		}
		return &UploadOutcome{
			State:          session.State,
			TotalOrders:    len(session.Rows),
			SubmittedCount: count,
		}, nil
	}

	if len(session.MappingResults) == 0 {
		if err := session.transition(UploadStateOptionResolved); err != nil {
			return nil, err
		}
	}
	if err := session.transition(UploadStateAwaitingConfirmation); err != nil {
		return nil, err
	}
	s.sessions.Put(session)

	sessionID := session.ID
	return &UploadOutcome{
		State:          session.State,
		SessionID:      &sessionID,
		MappingResults: session.MappingResults,
		TotalOrders:    len(session.Rows),
		MappedOrders:   session.MappedOrders,
		UnmatchedNames: session.UnmatchedNames,
	}, nil
}

// Confirm accepts a pending session, submitting the staged batch. The
// session is claimed atomically so a double-click or retried request cannot
// persist the batch twice.
func (s *UploadService) Confirm(ctx context.Context, organizationID, sessionID uuid.UUID) (*UploadOutcome, error) {
	session, exists := s.sessions.Take(sessionID)
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.OrganizationID != organizationID {
		s.sessions.Put(session)
		return nil, ErrSessionNotFound
	}

	count, err := s.submit(ctx, session)
	if err != nil {
		// Submission failed before anything was written; the session stays
		// claimable so the user can retry or cancel
		s.sessions.Put(session)
		return nil, err
	}

	return &UploadOutcome{
		State:          session.State,
		TotalOrders:    len(session.Rows),
		MappedOrders:   session.MappedOrders,
		SubmittedCount: count,
	}, nil
}

// Cancel discards a pending session without writing anything
func (s *UploadService) Cancel(organizationID, sessionID uuid.UUID) error {
	session, exists := s.sessions.Take(sessionID)
	if !exists {
		return ErrSessionNotFound
	}
	if session.OrganizationID != organizationID {
		s.sessions.Put(session)
		return ErrSessionNotFound
	}
	return session.transition(UploadStateIdle)
}

// submit performs the single batched persistence call for all accepted rows.
// The backend call is all-or-nothing; there is no automatic retry.
func (s *UploadService) submit(ctx context.Context, session *UploadSession) (int, error) {
	orders := make([]models.Order, 0, len(session.Rows))
	for _, row := range session.Rows {
		ref := session.Lookup[models.NormalizeOptionName(row.OptionName)]
		optionCode := row.OptionCode
		if optionCode == "" {
			optionCode = ref.OptionCode
		}

		orders = append(orders, models.Order{
			BaseOrgModel:      models.BaseOrgModel{OrganizationID: session.OrganizationID},
			MarketName:        session.MarketName,
			SellerOrderNumber: row.SellerOrderNumber,
			BuyerName:         row.BuyerName,
			BuyerPhone:        row.BuyerPhone,
			RecipientName:     row.RecipientName,
			RecipientPhone:    row.RecipientPhone,
			RecipientAddress:  row.RecipientAddress,
			DeliveryMessage:   row.DeliveryMessage,
			OptionName:        row.OptionName,
			OptionCode:        optionCode,
			Quantity:          row.Quantity,
			SpecialRequest:    row.SpecialRequest,
			SheetDate:         session.SheetDate,
			ShippingStatus:    models.ShippingStatusPending,
			CreatedBy:         session.UserID,
		})
	}

	if err := s.orders.BatchCreate(ctx, orders); err != nil {
		return 0, fmt.Errorf("주문 저장에 실패했습니다: %w", err)
	}
	if err := session.transition(UploadStateSubmitted); err != nil {
		return 0, err
	}

	batch := &models.UploadBatch{
		BaseOrgModel: models.BaseOrgModel{OrganizationID: session.OrganizationID},
		UserID:       session.UserID,
		FileName:     session.FileName,
		TotalRows:    len(session.Rows),
		MappedRows:   session.MappedOrders,
		SubmittedAt:  time.Now(),
	}
	if s.archiver != nil {
		url, err := s.archiver.ArchiveOrderSheet(session.OrganizationID, session.FileName, session.FileData)
		if err != nil {
			log.Warn().Err(err).Str("file_name", session.FileName).Msg("Failed to archive order sheet")
		} else {
			batch.ArchiveURL = url
		}
	}
	if s.batches != nil {
		if err := s.batches.Create(batch); err != nil {
			log.Warn().Err(err).Msg("Failed to record upload batch")
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyOrdersSubmitted(session.OrganizationID, len(orders))
	}

	log.Info().
		Str("organization_id", session.OrganizationID.String()).
		Int("orders", len(orders)).
		Int("mapped", session.MappedOrders).
		Msg("Order upload submitted")

	return len(orders), nil
}
