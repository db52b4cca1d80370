package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeNumericOutOfRange    = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapError traduce errores del driver a errores de dominio conservando la causa.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &domain.Error{Kind: domain.ErrDuplicate, Msg: op + ": registro duplicado", Cause: err}
		case codeForeignKeyViolation:
			return domain.Persistence(err, "%s: violación de clave foránea", op)
		case codeCheckViolation:
			return domain.Persistence(err, "%s: violación de restricción", op)
		case codeNumericOutOfRange:
			return &domain.Error{Kind: domain.ErrValidation, Msg: op + ": valor numérico fuera de rango", Cause: err}
		case codeSerializationFailure:
			return domain.Persistence(err, "%s: conflicto de concurrencia", op)
		}
	}
	return domain.Persistence(err, "%s", op)
}
