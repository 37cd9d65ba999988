package services

import (
	"errors"
	"testing"

	"farmhub/pkg/models"

	"github.com/google/uuid"
)

type stubMappingSource struct {
	mappings []models.OptionNameMapping
	err      error
	calls    int
}

func (s *stubMappingSource) ListByOrganization(organizationID uuid.UUID) ([]models.OptionNameMapping, error) {
	s.calls++
	return s.mappings, s.err
}

func mappingRule(userName, siteName string) models.OptionNameMapping {
	return models.OptionNameMapping{UserOptionName: userName, SiteOptionName: siteName}
}

func TestOptionNameMapperRewrites(t *testing.T) {
	source := &stubMappingSource{mappings: []models.OptionNameMapping{
		mappingRule("사과 5kg (특)", "사과5kg(특)"),
	}}
	mapper := NewOptionNameMapper(source)

	rows := []models.UploadRow{
		{RowNumber: 2, OptionName: "사과 5kg (특) "}, // trailing space still matches
		{RowNumber: 3, OptionName: "배 3kg"},
	}

	mapped, summary := mapper.Apply(uuid.New(), rows)

	if mapped[0].OptionName != "사과5kg(특)" {
		t.Errorf("row 2 option name = %q, expected 사과5kg(특)", mapped[0].OptionName)
	}
	if mapped[1].OptionName != "배 3kg" {
		t.Errorf("row 3 option name = %q, should be untouched", mapped[1].OptionName)
	}
	if len(summary.Results) != 1 {
		t.Fatalf("got %d mapping results, expected 1", len(summary.Results))
	}
	if summary.Results[0].Count != 1 || summary.Results[0].MappedName != "사과5kg(특)" {
		t.Errorf("unexpected mapping result: %+v", summary.Results[0])
	}
	if summary.TotalOrders != 2 || summary.MappedOrders != 1 {
		t.Errorf("totals = %d/%d, expected 2/1", summary.TotalOrders, summary.MappedOrders)
	}
}

func TestOptionNameMapperCaseInsensitive(t *testing.T) {
	source := &stubMappingSource{mappings: []models.OptionNameMapping{
		mappingRule("Apple 5KG", "사과5kg"),
	}}
	mapper := NewOptionNameMapper(source)

	mapped, summary := mapper.Apply(uuid.New(), []models.UploadRow{{OptionName: "apple 5kg"}})

	if mapped[0].OptionName != "사과5kg" {
		t.Errorf("option name = %q, expected 사과5kg", mapped[0].OptionName)
	}
	if summary.MappedOrders != 1 {
		t.Errorf("mapped orders = %d, expected 1", summary.MappedOrders)
	}
}

func TestOptionNameMapperAggregatesDistinctPairs(t *testing.T) {
	source := &stubMappingSource{mappings: []models.OptionNameMapping{
		mappingRule("사과 5kg", "사과5kg"),
		mappingRule("배 3kg", "배3kg"),
	}}
	mapper := NewOptionNameMapper(source)

	rows := []models.UploadRow{
		{OptionName: "사과 5kg"},
		{OptionName: "사과 5kg"},
		{OptionName: "배 3kg"},
	}
	_, summary := mapper.Apply(uuid.New(), rows)

	if len(summary.Results) != 2 {
		t.Fatalf("got %d mapping results, expected 2", len(summary.Results))
	}
	if summary.Results[0].Count != 2 {
		t.Errorf("first pair count = %d, expected 2", summary.Results[0].Count)
	}
	if summary.MappedOrders != 3 {
		t.Errorf("mapped orders = %d, expected 3", summary.MappedOrders)
	}
}

func TestOptionNameMapperIdempotent(t *testing.T) {
	source := &stubMappingSource{mappings: []models.OptionNameMapping{
		mappingRule("사과 5kg (특)", "사과5kg(특)"),
	}}
	mapper := NewOptionNameMapper(source)
	orgID := uuid.New()

	rows := []models.UploadRow{{OptionName: "사과 5kg (특)"}}
	mapped, first := mapper.Apply(orgID, rows)
	if first.MappedOrders != 1 {
		t.Fatalf("first pass mapped %d rows, expected 1", first.MappedOrders)
	}

	remapped, second := mapper.Apply(orgID, mapped)
	if second.MappedOrders != 0 || len(second.Results) != 0 {
		t.Errorf("second pass must be a no-op, got %+v", second)
	}
	if remapped[0].OptionName != "사과5kg(특)" {
		t.Errorf("option name changed on second pass: %q", remapped[0].OptionName)
	}
}

func TestOptionNameMapperIdentityRuleIsNoOp(t *testing.T) {
	// A rule whose target equals the row's current name must not report a
	// rewrite
	source := &stubMappingSource{mappings: []models.OptionNameMapping{
		mappingRule("사과5kg", "사과5kg"),
	}}
	mapper := NewOptionNameMapper(source)

	_, summary := mapper.Apply(uuid.New(), []models.UploadRow{{OptionName: "사과5kg"}})
	if summary.MappedOrders != 0 || len(summary.Results) != 0 {
		t.Errorf("identity rule produced rewrites: %+v", summary)
	}
}

func TestOptionNameMapperSingleQuery(t *testing.T) {
	source := &stubMappingSource{}
	mapper := NewOptionNameMapper(source)

	rows := make([]models.UploadRow, 500)
	for i := range rows {
		rows[i] = models.UploadRow{RowNumber: i + 2, OptionName: "사과 5kg"}
	}

	_, summary := mapper.Apply(uuid.New(), rows)
	if source.calls != 1 {
		t.Errorf("mapping rules fetched %d times, expected exactly 1", source.calls)
	}
	if summary.TotalOrders != 500 || summary.MappedOrders != 0 {
		t.Errorf("unexpected summary for empty rule set: %+v", summary)
	}
}

func TestOptionNameMapperFetchFailureDegrades(t *testing.T) {
	source := &stubMappingSource{err: errors.New("connection refused")}
	mapper := NewOptionNameMapper(source)

	rows := []models.UploadRow{{OptionName: "사과 5kg"}}
	mapped, summary := mapper.Apply(uuid.New(), rows)

	if mapped[0].OptionName != "사과 5kg" {
		t.Errorf("rows must pass through unmapped on fetch failure")
	}
	if len(summary.Results) != 0 || summary.MappedOrders != 0 {
		t.Errorf("fetch failure must yield an empty summary: %+v", summary)
	}
}
