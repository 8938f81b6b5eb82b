package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

// RowWriter escribe el lote completo de filas mapeadas en el formato de
// salida del marketplace y devuelve la ruta del archivo generado. Recibe
// el lote entero o nada: no hay escrituras parciales.
type RowWriter interface {
	WriteRows(ctx context.Context, categoryName string, batchID uuid.UUID, rows []entity.ListingRow, tpl *entity.CategoryTemplate) (string, error)
}

// ListingTxRunner ejecuta una función dentro de una transacción que incluye
// el repo del log de publicaciones. Todas las entradas del lote se
// confirman o se revierten juntas.
type ListingTxRunner interface {
	RunListing(ctx context.Context, fn func(logRepo repository.ListingLogRepository) error) error
}
