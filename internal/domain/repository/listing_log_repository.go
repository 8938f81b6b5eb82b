package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
)

// ListingLogRepository define el puerto del log de asignación de publicaciones (DIP).
type ListingLogRepository interface {
	// BulkUpsert inserta o reemplaza entradas de log por SKU interno. Las
	// entradas de una familia deben llegar juntas en una sola llamada: el
	// adaptador las persiste como un lote lógico, sin familias a medias.
	BulkUpsert(ctx context.Context, entries []entity.ListingLogEntry) error

	// FindByBatch devuelve las entradas de un lote de generación.
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.ListingLogEntry, error)
}
