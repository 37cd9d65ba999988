package db

import (
	"reflect"
	"strings"
	"testing"

	"farmhub/pkg/models"
)

// Catalog names and mapping keys may repeat across organizations, so every
// unique index on those tables has to be scoped by organization_id and no
// model tag may declare a global unique index.
func TestUniqueIndexesAreOrganizationScoped(t *testing.T) {
	for _, stmt := range customIndexes {
		if !strings.Contains(stmt, "UNIQUE") {
			continue
		}
		if !strings.Contains(stmt, "organization_id") {
			t.Errorf("unique index is not organization scoped: %s", stmt)
		}
	}

	var found bool
	for _, stmt := range customIndexes {
		if strings.Contains(stmt, "UNIQUE") && strings.Contains(stmt, "option_name_mappings") {
			found = true
		}
	}
	if !found {
		t.Error("missing organization-scoped unique index on option_name_mappings")
	}
}

func TestModelTagsDeclareNoGlobalUniqueIndex(t *testing.T) {
	for _, model := range []interface{}{models.OptionProduct{}, models.OptionNameMapping{}} {
		typ := reflect.TypeOf(model)
		for i := 0; i < typ.NumField(); i++ {
			tag := typ.Field(i).Tag.Get("gorm")
			if strings.Contains(tag, "uniqueIndex") || strings.Contains(tag, "unique") {
				t.Errorf("%s.%s declares a unique constraint in its gorm tag: %q",
					typ.Name(), typ.Field(i).Name, tag)
			}
		}
	}
}
