package entity

import "github.com/google/uuid"

// Valores del campo Status de una entrada de log de publicación.
const (
	LogStatusGenerated = "GENERATED"

	// ParentSKUStandalone marca que el producto se publicó suelto, sin familia.
	ParentSKUStandalone = "SINGLE_PRODUCT"
)

// ListingLogEntry es el rastro de auditoría de un producto dentro de una
// corrida: su rol resultante, el SKU padre sintético (o el marcador de
// suelto), los atributos de variación asignados y el lote. Las entradas de
// una misma familia se persisten como un solo lote lógico.
type ListingLogEntry struct {
	InternalSKU string
	ParentSKU   string
	Attributes  map[string]string
	BatchID     uuid.UUID
	Status      string
	Theme       string
}
