package binding

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/descry-dev/descry/database"
)

// ScanRow binds the current row of rows into target. Columns are
// matched to writable properties through the descriptor's
// case-insensitive index with underscores stripped, so snake_case
// columns reach camelCase properties (first_name -> firstName).
// Unmatched columns are discarded.
func (b *Binder) ScanRow(rows database.Rows, target any) error {
	d, err := b.registry.DescribeValue(target)
	if err != nil {
		return err
	}
	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	holders := make([]any, len(columns))
	props := make([]string, len(columns))
	for i, col := range columns {
		if prop, ok := d.FindPropertyName(columnProperty(col)); ok && d.HasSetter(prop) {
			props[i] = prop
		}
		var cell any
		holders[i] = &cell
	}
	if err := rows.Scan(holders...); err != nil {
		return err
	}

	for i, prop := range props {
		if prop == "" {
			continue
		}
		setter, err := d.Setter(prop)
		if err != nil {
			return err
		}
		value := *(holders[i].(*any))
		adapted, err := adapt(value, setter.Type())
		if err != nil {
			return fmt.Errorf("binding: column %q: %w", columns[i], err)
		}
		if err := setter.Set(target, adapted); err != nil {
			return fmt.Errorf("binding: column %q: %w", columns[i], err)
		}
	}
	return nil
}

// ScanAll drains rows into fresh instances created through the
// descriptor's default constructor. It closes rows.
func ScanAll[T any](b *Binder, rows database.Rows) ([]*T, error) {
	defer rows.Close()

	t := reflect.TypeOf((*T)(nil)).Elem()
	d, err := b.registry.Describe(t)
	if err != nil {
		return nil, err
	}

	var out []*T
	for rows.Next() {
		obj, err := d.Instantiate()
		if err != nil {
			return nil, err
		}
		target, ok := obj.(*T)
		if !ok {
			return nil, fmt.Errorf("binding: constructor for %s produced %T", t, obj)
		}
		if err := b.ScanRow(rows, target); err != nil {
			return nil, err
		}
		out = append(out, target)
	}
	return out, rows.Err()
}

// Select executes query on q and drains the result set into fresh T
// instances via ScanAll.
func Select[T any](ctx context.Context, b *Binder, q database.Queryer, query string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanAll[T](b, rows)
}

// columnProperty folds a column name into property-index form.
func columnProperty(col string) string {
	return strings.ReplaceAll(col, "_", "")
}
