package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// Builder returns a squirrel statement builder using $n placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Scoped restricts b to the rows visible to scope. column overrides the
// scope's own column when the table names it differently; pass "" to use
// scope.Column(). Admin scopes are left unfiltered.
func Scoped(b sq.SelectBuilder, scope domain.Scope, column string) sq.SelectBuilder {
	if scope.Role.IsAdmin() {
		return b
	}
	if column == "" {
		column = scope.Column()
	}
	return b.Where(sq.Eq{column: scope.UserID})
}

// Select runs b and scans every row into T by column name.
func Select[T any](ctx context.Context, q Querier, b sq.SelectBuilder) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get runs b and scans exactly one row into T. pgx.ErrNoRows is returned
// unwrapped so callers can pass it to MapError.
func Get[T any](ctx context.Context, q Querier, b sq.SelectBuilder) (T, error) {
	var zero T

	query, args, err := b.ToSql()
	if err != nil {
		return zero, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
}

// Returning runs an INSERT or UPDATE with a RETURNING clause and scans the
// single returned row into T.
func Returning[T any](ctx context.Context, q Querier, b sq.Sqlizer) (T, error) {
	var zero T

	query, args, err := b.ToSql()
	if err != nil {
		return zero, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
}
