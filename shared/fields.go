package shared

import (
	"reflect"

	"charter/shared/constant"
	"charter/shared/dto"
	"charter/shared/timezone"
)

// TransformFields turns a partial-update struct into a column map for Repository.Update.
// Zero fields are skipped. Set pointers are dereferenced, so an explicit zero such as seats=0 survives.
// The audit columns modified_at and modified_by are always stamped.
func TransformFields(data any, actor string) map[string]any {
	v := reflect.ValueOf(data)
	t := v.Type()

	fields := make(map[string]any, t.NumField()+2)

	for i := range t.NumField() {
		column := t.Field(i).Tag.Get("db")
		value := v.Field(i)

		if column == constant.Empty || value.IsZero() {
			continue
		}

		if value.Kind() == reflect.Pointer {
			value = value.Elem()
		}

		fields[column] = value.Interface()
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

// FilterByField is a single equality filter on table.field.
func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{dto.Filter{Table: table, Field: field, Operator: dto.FilterOperatorEq, Value: value}},
	}
}
