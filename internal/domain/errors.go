package domain

import (
	"errors"
	"fmt"
)

// Tipos de error del dominio. Se comparan con errors.Is.
var (
	ErrValidation   = errors.New("datos inválidos")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrBusinessRule = errors.New("regla de negocio violada")
	ErrPersistence  = errors.New("error de persistencia")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
)

// Error transporta el tipo (sentinela), el mensaje para el usuario y la causa técnica opcional.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

// Unwrap expone el tipo y la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Validation entrada ausente o mal formada.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound la entidad referenciada no existe.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// BusinessRule stock insuficiente, borrado bloqueado, etc.
func BusinessRule(format string, args ...any) error {
	return &Error{Kind: ErrBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

// Persistence falla del almacenamiento; conserva la causa para diagnóstico.
func Persistence(cause error, format string, args ...any) error {
	return &Error{Kind: ErrPersistence, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Message devuelve el mensaje legible de un error de dominio, o err.Error() si no lo es.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return err.Error()
}

// Unauthorized credenciales o token inválidos.
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}
