package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx para que los repositorios funcionen dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: una fila de otra tabla todavía referencia a la borrada.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullIfEmpty devuelve nil para textos opcionales ausentes o en blanco (columna NULL).
func nullIfEmpty(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

// updateBuilder arma un UPDATE ... SET solo con los campos presentes del patch.
// Los parámetros $1 y $2 quedan reservados para id y company_id.
type updateBuilder struct {
	sets []string
	args []any
}

func newUpdateBuilder(id, companyID string) *updateBuilder {
	return &updateBuilder{args: []any{id, companyID}}
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool { return len(b.sets) == 0 }

// sql devuelve la sentencia completa con RETURNING de las columnas indicadas.
func (b *updateBuilder) sql(table, returning string) string {
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND company_id = $2 RETURNING %s",
		table, strings.Join(b.sets, ", "), returning)
}

// setOpt agrega la columna si el campo vino presente en el patch.
func setOpt[T any](b *updateBuilder, column string, o entity.Optional[T]) {
	if o.Set {
		b.set(column, o.Value)
	}
}
