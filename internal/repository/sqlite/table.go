package sqlite

import (
	"context"
	"fmt"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository"
)

// Mapping describes how an entity type T is stored in one table.
//
// Columns lists every column in insert order and must include Key.
// Mutable lists the columns Update overwrites; the key is never among them.
// Fields returns the column -> value map for an entity. FromRow rebuilds
// an entity from a fetched row and may be nil for write-only tables.
type Mapping[T any] struct {
	Table   string
	Key     string
	Columns []string
	Mutable []string
	Fields  func(T) map[string]any
	FromRow func(map[string]string) (T, error)
}

// Table is a generic repository over one table. It builds the parameterized
// statements once from its Mapping and sends them through an Executor.
type Table[T any] struct {
	exec    repository.Executor
	mapping Mapping[T]

	selectByKey string
	selectAll   string
	insert      string
	update      string
	deleteByKey string
	deleteAll   string
	count       string
}

// NewTable creates a repository for the mapping's table
func NewTable[T any](exec repository.Executor, m Mapping[T]) *Table[T] {
	name := quoteIdent(m.Table)
	key := quoteIdent(m.Key)
	cols := quoteIdents(m.Columns)

	t := &Table[T]{
		exec:        exec,
		mapping:     m,
		selectByKey: fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?;", cols, name, key),
		selectAll:   fmt.Sprintf("SELECT %s FROM %s;", cols, name),
		insert:      fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", name, cols, placeholders(len(m.Columns))),
		deleteByKey: fmt.Sprintf("DELETE FROM %s WHERE %s = ?;", name, key),
		deleteAll:   fmt.Sprintf("DELETE FROM %s;", name),
		count:       fmt.Sprintf("SELECT COUNT(*) FROM %s;", name),
	}

	if len(m.Mutable) > 0 {
		set := ""
		for i, c := range m.Mutable {
			if i > 0 {
				set += ", "
			}
			set += quoteIdent(c) + " = ?"
		}
		t.update = fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?;", name, set, key)
	}

	return t
}

// Name returns the table name
func (t *Table[T]) Name() string {
	return t.mapping.Table
}

// Find fetches the row whose key equals key
func (t *Table[T]) Find(ctx context.Context, key string) (T, error) {
	var zero T
	if t.mapping.FromRow == nil {
		return zero, fmt.Errorf("table %s has no row mapping", t.mapping.Table)
	}

	row, err := t.exec.FetchRow(ctx, t.selectByKey, key)
	if err != nil {
		return zero, fmt.Errorf("failed to load %s %s: %w", t.mapping.Table, key, err)
	}

	entity, err := t.mapping.FromRow(row)
	if err != nil {
		return zero, fmt.Errorf("failed to map %s row: %w", t.mapping.Table, err)
	}
	return entity, nil
}

// List returns the whole table for display
func (t *Table[T]) List(ctx context.Context) (*domain.Table, error) {
	table, err := t.exec.FetchTable(ctx, t.selectAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.mapping.Table, err)
	}
	return table, nil
}

// Insert adds a new row
func (t *Table[T]) Insert(ctx context.Context, entity T) error {
	fields := t.mapping.Fields(entity)
	args := make([]any, len(t.mapping.Columns))
	for i, c := range t.mapping.Columns {
		args[i] = fields[c]
	}

	if err := t.exec.ExecuteNonQuery(ctx, t.insert, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.mapping.Table, err)
	}
	return nil
}

// Update overwrites the mutable columns of the row keyed by the entity's key.
// It does not check whether a row was affected.
func (t *Table[T]) Update(ctx context.Context, entity T) error {
	if t.update == "" {
		return fmt.Errorf("table %s does not support updates", t.mapping.Table)
	}

	fields := t.mapping.Fields(entity)
	args := make([]any, 0, len(t.mapping.Mutable)+1)
	for _, c := range t.mapping.Mutable {
		args = append(args, fields[c])
	}
	args = append(args, fields[t.mapping.Key])

	if err := t.exec.ExecuteNonQuery(ctx, t.update, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", t.mapping.Table, err)
	}
	return nil
}

// Delete removes the row keyed by key. Deleting a missing key is a no-op.
func (t *Table[T]) Delete(ctx context.Context, key string) error {
	if err := t.exec.ExecuteNonQuery(ctx, t.deleteByKey, key); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", t.mapping.Table, err)
	}
	return nil
}

// DeleteAll removes every row
func (t *Table[T]) DeleteAll(ctx context.Context) error {
	if err := t.exec.ExecuteNonQuery(ctx, t.deleteAll); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.mapping.Table, err)
	}
	return nil
}

// Count returns the number of rows
func (t *Table[T]) Count(ctx context.Context) (int64, error) {
	v, err := t.exec.ExecuteScalar(ctx, t.count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.mapping.Table, err)
	}
	return toInt64(v)
}

// CountWhere counts rows matching column = value for every pair given.
// Columns must belong to the mapping.
func (t *Table[T]) CountWhere(ctx context.Context, columns []string, values ...any) (int64, error) {
	if len(columns) == 0 || len(columns) != len(values) {
		return 0, fmt.Errorf("count %s: %d columns for %d values", t.mapping.Table, len(columns), len(values))
	}

	where := ""
	for i, c := range columns {
		if !t.hasColumn(c) {
			return 0, fmt.Errorf("count %s: unknown column %q", t.mapping.Table, c)
		}
		if i > 0 {
			where += " AND "
		}
		where += quoteIdent(c) + " = ?"
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s;", quoteIdent(t.mapping.Table), where)
	v, err := t.exec.ExecuteScalar(ctx, query, values...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.mapping.Table, err)
	}
	return toInt64(v)
}

// Exists reports whether a row with the given key is present
func (t *Table[T]) Exists(ctx context.Context, key string) (bool, error) {
	n, err := t.CountWhere(ctx, []string{t.mapping.Key}, key)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func (t *Table[T]) hasColumn(name string) bool {
	for _, c := range t.mapping.Columns {
		if c == name {
			return true
		}
	}
	return false
}
