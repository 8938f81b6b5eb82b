package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

var _ repository.ListingLogRepository = (*ListingLogRepo)(nil)

// ListingLogRepo implementación de ListingLogRepository sobre PostgreSQL.
// Para persistir un lote entero o nada, pasar la tx del TxRunner.
type ListingLogRepo struct {
	q Querier
}

// NewListingLogRepository construye el adaptador del log de publicaciones. Pasar pool o tx (Querier).
func NewListingLogRepository(q Querier) *ListingLogRepo {
	return &ListingLogRepo{q: q}
}

// BulkUpsert inserta o reemplaza entradas de log por SKU interno. Un SKU
// regenerado pisa su entrada anterior con el rol y lote nuevos.
func (r *ListingLogRepo) BulkUpsert(ctx context.Context, entries []entity.ListingLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO listing_logs
			(internal_sku, parent_sku, variation_attributes, listing_batch_id, status, variation_theme)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (internal_sku) DO UPDATE SET
			parent_sku = EXCLUDED.parent_sku,
			variation_attributes = EXCLUDED.variation_attributes,
			listing_batch_id = EXCLUDED.listing_batch_id,
			status = EXCLUDED.status,
			variation_theme = EXCLUDED.variation_theme,
			created_at = CURRENT_TIMESTAMP`
	for _, e := range entries {
		attrs := e.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrsJSON, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("serializar atributos de %s: %w", e.InternalSKU, err)
		}
		_, err = r.q.Exec(ctx, query,
			e.InternalSKU, e.ParentSKU, attrsJSON, e.BatchID, e.Status, e.Theme,
		)
		if err != nil {
			return fmt.Errorf("upsert log de %s: %w", e.InternalSKU, err)
		}
	}
	return nil
}

// FindByBatch devuelve las entradas de un lote de generación, ordenadas por
// SKU padre y SKU interno para que las familias salgan contiguas.
func (r *ListingLogRepo) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.ListingLogEntry, error) {
	query := `
		SELECT internal_sku, parent_sku, variation_attributes, listing_batch_id, status, variation_theme
		FROM listing_logs
		WHERE listing_batch_id = $1
		ORDER BY parent_sku, internal_sku`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("select logs del lote %s: %w", batchID, err)
	}
	defer rows.Close()

	var entries []entity.ListingLogEntry
	for rows.Next() {
		var e entity.ListingLogEntry
		var attrsJSON []byte
		if err := rows.Scan(&e.InternalSKU, &e.ParentSKU, &attrsJSON, &e.BatchID, &e.Status, &e.Theme); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if err := json.Unmarshal(attrsJSON, &e.Attributes); err != nil {
			return nil, fmt.Errorf("decodificar atributos de %s: %w", e.InternalSKU, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return entries, nil
}
