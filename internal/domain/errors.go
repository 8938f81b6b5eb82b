package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
//
// Solo ErrTemplateNotFound es fatal para la corrida de una categoría: sin
// plantilla no hay forma de dar la forma correcta a ninguna fila. El resto
// son locales al producto o al campo y permiten continuar con éxito parcial.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrMissingData         = errors.New("producto sin datos recuperables")
	ErrTemplateNotFound    = errors.New("la categoría no tiene plantilla registrada")
	ErrGenerationCall      = errors.New("llamada al servicio de generación fallida")
	ErrUniquenessViolation = errors.New("atributos de variación duplicados en la familia")
	ErrNoPendingItems      = errors.New("no hay productos pendientes de publicar")
)

// RuleError describe el fallo de una regla de mapeo sobre un campo concreto.
// El campo se omite de la fila; la fila continúa.
type RuleError struct {
	Field string
	Kind  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("regla %q del campo %q: %v", e.Kind, e.Field, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
