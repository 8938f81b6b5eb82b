package repository

import (
	"context"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
)

// CatalogItemRepository define el puerto de lectura del catálogo elegible (DIP).
// La selección de elegibilidad (qué productos pueden publicarse) vive del
// lado de la persistencia; el pipeline solo consume sus resultados.
type CatalogItemRepository interface {
	// PendingSKUs devuelve los SKUs internos pendientes de publicar, en orden estable.
	PendingSKUs(ctx context.Context) ([]string, error)

	// CategoryBySKU devuelve el nombre de categoría resuelto para cada SKU interno.
	CategoryBySKU(ctx context.Context, skus []string) (map[string]string, error)

	// AssociationData devuelve las tripletas de asociación para la detección de familias.
	AssociationData(ctx context.Context, skus []string) ([]entity.AssociationRecord, error)

	// FullItem devuelve la foto completa de un producto, o nil si no hay datos.
	FullItem(ctx context.Context, internalSKU string) (*entity.CatalogItem, error)
}
