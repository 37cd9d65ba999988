package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"farmhub/internal/utils"
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type stubOrderStore struct {
	batches [][]models.Order
	err     error
}

func (s *stubOrderStore) BatchCreate(ctx context.Context, orders []models.Order) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, orders)
	return nil
}

type stubBatchStore struct {
	batches []*models.UploadBatch
}

func (s *stubBatchStore) Create(batch *models.UploadBatch) error {
	s.batches = append(s.batches, batch)
	return nil
}

func newTestUploadService(mappings *stubMappingSource, products *stubProductSource, orders *stubOrderStore) (*UploadService, *stubBatchStore) {
	batches := &stubBatchStore{}
	service := NewUploadService(
		NewOptionNameMapper(mappings),
		NewOptionResolver(products),
		orders,
		batches,
		nil,
		nil,
	)
	return service, batches
}

func orderSheetCSV(rows [][]string) []byte {
	var b strings.Builder
	b.WriteString("주문번호,수령인,수령인전화번호,주소,옵션상품,수량\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func TestUploadFastPath(t *testing.T) {
	var sheetRows [][]string
	for i := 0; i < 100; i++ {
		sheetRows = append(sheetRows, []string{
			fmt.Sprintf("ORD-%03d", i), "홍길동", "010-1234-5678", "서울시 강남구", "사과5kg", "3",
		})
	}

	mappings := &stubMappingSource{}
	products := &stubProductSource{products: []models.OptionProduct{
		catalogEntry("사과5kg", "AP-5", "15000"),
	}}
	orders := &stubOrderStore{}
	service, batches := newTestUploadService(mappings, products, orders)

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data:           orderSheetCSV(sheetRows),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if outcome.State != UploadStateSubmitted {
		t.Fatalf("state = %s, expected submitted (no confirmation on the fast path)", outcome.State)
	}
	if outcome.SessionID != nil {
		t.Error("fast path must not create a pending session")
	}
	if outcome.SubmittedCount != 100 {
		t.Errorf("submitted count = %d, expected 100", outcome.SubmittedCount)
	}
	if len(orders.batches) != 1 || len(orders.batches[0]) != 100 {
		t.Fatalf("expected one persistence call with 100 orders, got %d calls", len(orders.batches))
	}
	if mappings.calls != 1 {
		t.Errorf("mapping rules fetched %d times, expected 1", mappings.calls)
	}
	if order := orders.batches[0][0]; order.OptionCode != "AP-5" || order.ShippingStatus != models.ShippingStatusPending {
		t.Errorf("unexpected first order: %+v", order)
	}
	if len(batches.batches) != 1 || batches.batches[0].TotalRows != 100 {
		t.Errorf("upload batch history not recorded: %+v", batches.batches)
	}
}

func TestUploadUnmatchedOptionStops(t *testing.T) {
	mappings := &stubMappingSource{}
	products := &stubProductSource{products: []models.OptionProduct{
		catalogEntry("사과5kg", "AP-5", "15000"),
	}}
	orders := &stubOrderStore{}
	service, _ := newTestUploadService(mappings, products, orders)
	orgID := uuid.New()

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: orgID,
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "사과5kg", "3"},
			{"ORD-002", "김철수", "010-9999-0000", "부산시 해운대구", "미등록상품 1box", "1"},
		}),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if outcome.State != UploadStateAwaitingConfirmation {
		t.Fatalf("state = %s, expected awaiting_confirmation", outcome.State)
	}
	if len(orders.batches) != 0 {
		t.Fatal("persistence must not be called before the user confirms")
	}
	if len(outcome.UnmatchedNames) != 1 || outcome.UnmatchedNames[0] != "미등록상품 1box" {
		t.Errorf("unmatched names = %v, expected [미등록상품 1box]", outcome.UnmatchedNames)
	}
	if outcome.SessionID == nil {
		t.Fatal("expected a pending session id")
	}

	confirmed, err := service.Confirm(context.Background(), orgID, *outcome.SessionID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if confirmed.State != UploadStateSubmitted || confirmed.SubmittedCount != 2 {
		t.Errorf("unexpected confirm outcome: %+v", confirmed)
	}
	if len(orders.batches) != 1 || len(orders.batches[0]) != 2 {
		t.Fatalf("expected one persistence call with 2 orders after confirm")
	}
}

func TestUploadMappingTurnsUnresolvableIntoResolvable(t *testing.T) {
	mappings := &stubMappingSource{mappings: []models.OptionNameMapping{
		{UserOptionName: "사과 5kg (특)", SiteOptionName: "사과5kg(특)"},
	}}
	products := &stubProductSource{products: []models.OptionProduct{
		catalogEntry("사과5kg(특)", "AP-5T", "18000"),
	}}
	orders := &stubOrderStore{}
	service, _ := newTestUploadService(mappings, products, orders)
	orgID := uuid.New()

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: orgID,
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "사과 5kg (특)", "3"},
		}),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// A mapping was applied, so the session pauses for confirmation, but the
	// mapped name resolved against the catalog on the second pass
	if outcome.State != UploadStateAwaitingConfirmation {
		t.Fatalf("state = %s, expected awaiting_confirmation", outcome.State)
	}
	if len(outcome.MappingResults) != 1 || outcome.MappingResults[0].Count != 1 {
		t.Fatalf("unexpected mapping results: %+v", outcome.MappingResults)
	}
	if len(outcome.UnmatchedNames) != 0 {
		t.Errorf("mapped name should have resolved, unmatched = %v", outcome.UnmatchedNames)
	}

	confirmed, err := service.Confirm(context.Background(), orgID, *outcome.SessionID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if confirmed.SubmittedCount != 1 {
		t.Errorf("submitted count = %d, expected 1", confirmed.SubmittedCount)
	}
	if order := orders.batches[0][0]; order.OptionName != "사과5kg(특)" || order.OptionCode != "AP-5T" {
		t.Errorf("order did not carry the mapped name and resolved code: %+v", order)
	}
}

func TestUploadColumnViolationsFailClosed(t *testing.T) {
	mappings := &stubMappingSource{}
	products := &stubProductSource{}
	orders := &stubOrderStore{}
	service, _ := newTestUploadService(mappings, products, orders)

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "사과5kg", "3"},
			{"ORD-002", "", "010-9999-0000", "부산시 해운대구", "사과5kg", "1"},
		}),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if outcome.State != UploadStateColumnInvalid {
		t.Fatalf("state = %s, expected column_invalid", outcome.State)
	}
	if len(outcome.Violations) != 1 || !strings.Contains(outcome.Violations[0], "3행") {
		t.Errorf("violations = %v, expected one for row 3", outcome.Violations)
	}
	if len(orders.batches) != 0 {
		t.Error("no row of an invalid batch may be persisted")
	}
	if products.calls != 0 {
		t.Error("catalog must not be queried for an invalid batch")
	}
}

func TestUploadEncryptedWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"수령인", "수령인전화번호", "주소", "옵션상품", "수량"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}
	var buf bytes.Buffer
	err := f.Write(&buf, excelize.Options{Password: "secret"})
	f.Close()
	if err != nil {
		t.Fatalf("failed to encode workbook: %v", err)
	}

	service, _ := newTestUploadService(&stubMappingSource{}, &stubProductSource{}, &stubOrderStore{})

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		FileName:       "orders.xlsx",
		Data:           bytes.Clone(buf.Bytes()),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.State != UploadStatePasswordRequired {
		t.Errorf("state = %s, expected password_required", outcome.State)
	}
}

// gatedOrderStore blocks inside BatchCreate until released, so tests can hold
// a submission in flight while issuing a second call against the same session.
type gatedOrderStore struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *gatedOrderStore) BatchCreate(ctx context.Context, orders []models.Order) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	s.started <- struct{}{}
	<-s.release
	return nil
}

func TestUploadConfirmClaimsSessionOnce(t *testing.T) {
	mappings := &stubMappingSource{}
	products := &stubProductSource{}
	orders := &gatedOrderStore{started: make(chan struct{}), release: make(chan struct{})}
	service := NewUploadService(
		NewOptionNameMapper(mappings),
		NewOptionResolver(products),
		orders,
		&stubBatchStore{},
		nil,
		nil,
	)
	orgID := uuid.New()

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: orgID,
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "미등록상품", "1"},
		}),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.State != UploadStateAwaitingConfirmation {
		t.Fatalf("state = %s, expected awaiting_confirmation", outcome.State)
	}
	sessionID := *outcome.SessionID

	firstErr := make(chan error, 1)
	go func() {
		_, err := service.Confirm(context.Background(), orgID, sessionID)
		firstErr <- err
	}()
	<-orders.started

	// The first confirm holds the session and is mid-persistence; a second
	// confirm must not find it and must not trigger another write
	if _, err := service.Confirm(context.Background(), orgID, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second confirm returned %v, expected ErrSessionNotFound", err)
	}

	close(orders.release)
	if err := <-firstErr; err != nil {
		t.Fatalf("first Confirm returned error: %v", err)
	}
	if orders.calls != 1 {
		t.Errorf("persistence called %d times for one session, expected 1", orders.calls)
	}
}

func TestUploadHeaderOnlySheet(t *testing.T) {
	orders := &stubOrderStore{}
	service, batches := newTestUploadService(&stubMappingSource{}, &stubProductSource{}, orders)

	_, err := service.Start(context.Background(), UploadInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data:           orderSheetCSV(nil),
	})
	if !errors.Is(err, utils.ErrEmptySheet) {
		t.Fatalf("header-only sheet must fail with ErrEmptySheet, got %v", err)
	}
	if len(orders.batches) != 0 || len(batches.batches) != 0 {
		t.Error("nothing may be persisted or recorded for an empty sheet")
	}
}

func TestUploadCancelDiscardsSession(t *testing.T) {
	mappings := &stubMappingSource{}
	products := &stubProductSource{}
	orders := &stubOrderStore{}
	service, _ := newTestUploadService(mappings, products, orders)
	orgID := uuid.New()

	outcome, err := service.Start(context.Background(), UploadInput{
		OrganizationID: orgID,
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "미등록상품", "1"},
		}),
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.State != UploadStateAwaitingConfirmation {
		t.Fatalf("state = %s, expected awaiting_confirmation", outcome.State)
	}

	if err := service.Cancel(orgID, *outcome.SessionID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if _, err := service.Confirm(context.Background(), orgID, *outcome.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after cancel, got %v", err)
	}
	if len(orders.batches) != 0 {
		t.Error("cancel must not persist anything")
	}
}

func TestUploadPersistenceFailureSurfaces(t *testing.T) {
	mappings := &stubMappingSource{}
	products := &stubProductSource{products: []models.OptionProduct{
		catalogEntry("사과5kg", "AP-5", "15000"),
	}}
	orders := &stubOrderStore{err: errors.New("deadlock detected")}
	service, batches := newTestUploadService(mappings, products, orders)

	_, err := service.Start(context.Background(), UploadInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		FileName:       "orders.csv",
		Data: orderSheetCSV([][]string{
			{"ORD-001", "홍길동", "010-1234-5678", "서울시 강남구", "사과5kg", "3"},
		}),
	})
	if err == nil || !strings.Contains(err.Error(), "deadlock detected") {
		t.Errorf("backend error must surface verbatim, got %v", err)
	}
	if len(batches.batches) != 0 {
		t.Error("upload history must not be recorded on a failed submission")
	}
}

func TestUploadSessionTransitions(t *testing.T) {
	session := &UploadSession{State: UploadStateIdle}

	if err := session.transition(UploadStateSubmitted); err == nil {
		t.Error("idle -> submitted must be rejected")
	}
	if err := session.transition(UploadStateFileDropped); err != nil {
		t.Errorf("idle -> file_dropped should be legal: %v", err)
	}
	if err := session.transition(UploadStatePasswordRequired); err != nil {
		t.Errorf("file_dropped -> password_required should be legal: %v", err)
	}
	if err := session.transition(UploadStateFileDropped); err != nil {
		t.Errorf("password_required -> file_dropped (decrypt retry) should be legal: %v", err)
	}
}
