package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInsufficientPriv    = "42501"
	pgInvalidDatetime     = "22007"
	pgDatetimeOverflow    = "22008"
	pgRaiseException      = "P0001"
	pgNoDataFound         = "P0002"
)

var (
	ErrBackendDate       = New(http.StatusBadRequest, "invalid_date", "Error en las fechas", "revise las fechas ingresadas")
	ErrBackendForeignKey = New(http.StatusConflict, "reference_error", "Error de referencia", "el registro depende de datos que no existen o están en uso")
	ErrBackendPermission = New(http.StatusForbidden, "permission_denied", "Permisos insuficientes", "no tiene permisos para realizar esta operación")
	ErrBackendDuplicate  = New(http.StatusConflict, "duplicate", "Registro duplicado", "ya existe un registro con estos datos")
	ErrBackendCheck      = New(http.StatusBadRequest, "constraint_violation", "Datos inválidos", "los datos no cumplen las reglas del registro")
	ErrBackendRejected   = New(http.StatusUnprocessableEntity, "backend_rejected", "Operación rechazada", "la base de datos rechazó la operación")
	ErrBackendTechnical  = New(http.StatusInternalServerError, "backend_error", "Error técnico", "error técnico")
)

// ClassifyBackend maps a database failure to a user-facing error. PostgreSQL codes win;
// otherwise the message is matched by substring. Unknown failures keep the backend text.
func ClassifyBackend(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(ErrNotFound, "", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(ErrBackendDuplicate, "", err)
		case pgForeignKeyViolation:
			return Wrap(ErrBackendForeignKey, "", err)
		case pgInsufficientPriv:
			return Wrap(ErrBackendPermission, "", err)
		case pgInvalidDatetime, pgDatetimeOverflow:
			return Wrap(ErrBackendDate, pgErr.Message, err)
		case pgCheckViolation:
			return Wrap(ErrBackendCheck, "", err)
		case pgNoDataFound:
			return Wrap(ErrNotFound, pgErr.Message, err)
		case pgRaiseException:
			return Wrap(ErrBackendRejected, pgErr.Message, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "fecha"):
		return Wrap(ErrBackendDate, "", err)
	case strings.Contains(msg, "foreign key"):
		return Wrap(ErrBackendForeignKey, "", err)
	case strings.Contains(msg, "permission"):
		return Wrap(ErrBackendPermission, "", err)
	case strings.Contains(msg, "duplicate"):
		return Wrap(ErrBackendDuplicate, "", err)
	}
	return Wrap(ErrBackendTechnical, "error técnico: "+err.Error(), err)
}

// IsUniqueViolation reports whether err is a unique violation, optionally on a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
