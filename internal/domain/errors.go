package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConfiguration     = errors.New("configuración incompleta")
)

// ValidationError entrada mal formada o regla de negocio violada sobre un campo concreto.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// PermissionError violación de rol, propiedad o alcance de bodega.
type PermissionError struct {
	Reason string
}

// NewPermissionError construye un PermissionError.
func NewPermissionError(format string, args ...any) *PermissionError {
	return &PermissionError{Reason: fmt.Sprintf(format, args...)}
}

func (e *PermissionError) Error() string { return "permiso denegado: " + e.Reason }

func (e *PermissionError) Unwrap() error { return ErrForbidden }

// InsufficientStockError el movimiento dejaría el stock en negativo.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en bodega %s (disponible %d, solicitado %d)",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError duplicados (número de documento, liquidación ya ejecutada, nombre repetido).
type ConflictError struct {
	Resource string
	Message  string
}

// NewConflictError construye un ConflictError para el recurso indicado.
func NewConflictError(resource, format string, args ...any) *ConflictError {
	return &ConflictError{Resource: resource, Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.Resource + ": " + e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ConfigurationError falta configuración de datos maestros (ej. no hay bodega CENTRAL activa).
type ConfigurationError struct {
	Message string
}

// NewConfigurationError construye un ConfigurationError.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string { return e.Message }

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
