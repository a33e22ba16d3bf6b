package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/shared/constant"
	"charter/shared/dto"
	"charter/shared/logger"

	"github.com/jmoiron/sqlx"
)

// ErrRequiredFilter guards statements that would otherwise touch every row.
var ErrRequiredFilter = errors.New("required filter")

// setPrefix keeps SET parameters apart from WHERE parameters on the same column.
const setPrefix = "set_"

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is the generic CRUD layer every domain repository embeds. Columns come from the
// model's db tags; a `table` tag marks a joined column and a `column` tag selects a different
// source column aliased to the db tag. A model may expose GetJoinQuery() string.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	entity  string
	table   string
	primary string
	schema  schema
}

type schema struct {
	selectList string
	selectable map[string]string
	insertable []string
	join       string
}

func NewRepository[T any](entity, table, primary string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:      db,
		otel:    otl,
		entity:  entity,
		table:   table,
		primary: primary,
		schema:  buildSchema[T](table),
	}
}

// InsertColumns lists the columns written by Insert, in struct order.
func (repo *Repository[T]) InsertColumns() []string {
	return slices.Clone(repo.schema.insertable)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, "Insert", model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	return repo.insert(ctx, tx, "InsertTx", model)
}

// InsertBulk writes all models in one statement. An empty slice is a no-op.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, repo.db.Write, "InsertBulk", models)
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, tx, "InsertBulkTx", models)
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, op string, arg any) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	query := repo.insertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, "insert", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s %s %s)", repo.table, repo.schema.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool
	if err := repo.get(ctx, repo.db.Read, &exist, query, args); err != nil {
		return false, repo.fail(scope, "check existence of", err)
	}

	return exist, nil
}

// Get returns the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.schema.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.get(ctx, repo.db.Read, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get", err)
	}

	return model, nil
}

// GetForUpdate reads one row inside tx and holds its row lock until the transaction ends.
// Joined columns are not selected.
func (repo *Repository[T]) GetForUpdate(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.scope(ctx, "GetForUpdate")
	defer scope.End()

	var model T

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return model, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s FOR UPDATE", repo.selectList(nil), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.get(ctx, tx, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "lock", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.schema.join, where)

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&query, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		query.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = params.Offset()
			query.WriteString(" OFFSET :offset")
		}
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query.String())

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query.String())
	if err != nil {
		return nil, repo.fail(scope, "prepare list of", err)
	}
	defer stmt.Close()

	models := []T{}
	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "list", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primary, repo.table, repo.schema.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := repo.get(ctx, repo.db.Read, &count, query, args); err != nil {
		return 0, repo.fail(scope, "count", err)
	}

	return count, nil
}

func (repo *Repository[T]) Update(ctx context.Context, values map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, "Update", values, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, values map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, tx, "UpdateTx", values, filter)
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, op string, values map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return ErrRequiredFilter
	}

	if len(values) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(values))

	for _, col := range slices.Sorted(maps.Keys(values)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s%s", col, setPrefix, col))
		args[setPrefix+col] = values[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, "Delete", filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, tx, "DeleteTx", filter)
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, op string, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return ErrRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete", err)
	}

	return nil
}

// BuildWhereClause renders filter as a WHERE clause, or "" when the filter is empty.
func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func (repo *Repository[T]) get(ctx context.Context, db preparer, dest any, query string, args map[string]any) error {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args)
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.schema.insertable))
	for i, col := range repo.schema.insertable {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.schema.insertable, ", "), strings.Join(placeholders, ", "))
}

// selectList narrows the select to the named db tags, keeping struct order.
func (repo *Repository[T]) selectList(only []string) string {
	if len(only) == 0 {
		return repo.schema.selectList
	}

	picked := make([]string, 0, len(only))
	for _, name := range only {
		if expr, ok := repo.schema.selectable[name]; ok {
			picked = append(picked, expr)
		}
	}

	return strings.Join(picked, ", ")
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s %s: %w", action, repo.entity, err)
}

type joiner interface {
	GetJoinQuery() string
}

func buildSchema[T any](table string) schema {
	var zero T

	s := schema{selectable: map[string]string{}}

	var selects []string

	walkColumns(reflect.TypeOf(zero), table, func(name, source, sourceTable string) {
		expr := sourceTable + "." + source
		if source != name {
			expr += " AS " + name
		}

		if _, seen := s.selectable[name]; !seen {
			selects = append(selects, expr)
		}

		s.selectable[name] = expr

		if sourceTable == table {
			s.insertable = append(s.insertable, name)
		}
	})

	s.selectList = strings.Join(selects, ", ")

	if j, ok := any(zero).(joiner); ok {
		s.join = j.GetJoinQuery()
	} else if j, ok := any(&zero).(joiner); ok {
		s.join = j.GetJoinQuery()
	}

	return s
}

func walkColumns(t reflect.Type, table string, visit func(name, source, sourceTable string)) {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			walkColumns(field.Type, table, visit)

			continue
		}

		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		source := field.Tag.Get("column")
		if source == "" {
			source = name
		}

		sourceTable := field.Tag.Get("table")
		if sourceTable == "" {
			sourceTable = table
		}

		visit(name, source, sourceTable)
	}
}
