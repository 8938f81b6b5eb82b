package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

var _ repository.CatalogItemRepository = (*CatalogItemRepo)(nil)

// supplierPlatform identifica al proveedor dropship en las tablas de mapeo.
const supplierPlatform = "dropship"

// CatalogItemRepo implementación de CatalogItemRepository sobre PostgreSQL
// (usable con pool o tx).
type CatalogItemRepo struct {
	q Querier
}

// NewCatalogItemRepository construye el adaptador de lectura del catálogo. Pasar pool o tx (Querier).
func NewCatalogItemRepository(q Querier) *CatalogItemRepo {
	return &CatalogItemRepo{q: q}
}

// PendingSKUs devuelve los SKUs internos elegibles para publicar, en orden
// estable por SKU. Elegible significa: sin publicación previa en el reporte
// del marketplace, no sobredimensionado, de vendedor GENERAL y con precio
// base disponible.
func (r *CatalogItemRepo) PendingSKUs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT m.internal_sku
		FROM sku_map m
			LEFT JOIN marketplace_listing_reports rep
				ON m.internal_sku = rep.seller_sku
			JOIN vendor_sync_records psr
				ON m.vendor_sku = psr.vendor_sku
				AND m.vendor_source = $1
			JOIN vendor_base_prices pbp
				ON m.vendor_sku = pbp.vendor_sku
		WHERE rep.seller_sku IS NULL
		  AND psr.is_oversize IS NOT TRUE
		  AND psr.raw_data -> 'sellerInfo' ->> 'sellerType' = 'GENERAL'
		  AND pbp.sku_available IS TRUE
		ORDER BY m.internal_sku`
	rows, err := r.q.Query(ctx, query, supplierPlatform)
	if err != nil {
		return nil, fmt.Errorf("select pending skus: %w", err)
	}
	defer rows.Close()

	var skus []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan pending sku: %w", err)
		}
		skus = append(skus, sku)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending skus: %w", err)
	}
	return skus, nil
}

// CategoryBySKU resuelve la categoría estándar de cada SKU interno vía el
// código de categoría del proveedor. Los SKUs sin categoría mapeada quedan
// fuera del resultado.
func (r *CatalogItemRepo) CategoryBySKU(ctx context.Context, skus []string) (map[string]string, error) {
	if len(skus) == 0 {
		return map[string]string{}, nil
	}
	query := `
		SELECT DISTINCT m.internal_sku, scm.standard_category_name
		FROM sku_map m
			JOIN vendor_sync_records psr
				ON m.vendor_sku = psr.vendor_sku
				AND m.vendor_source = $1
			LEFT JOIN supplier_categories_map scm
				ON LOWER(psr.category_code) = LOWER(scm.supplier_category_code)
				AND scm.supplier_platform = $1
		WHERE m.internal_sku = ANY($2)
		ORDER BY m.internal_sku`
	rows, err := r.q.Query(ctx, query, supplierPlatform, skus)
	if err != nil {
		return nil, fmt.Errorf("select sku categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]string, len(skus))
	for rows.Next() {
		var sku string
		var category *string
		if err := rows.Scan(&sku, &category); err != nil {
			return nil, fmt.Errorf("scan sku category: %w", err)
		}
		if category != nil && *category != "" {
			categories[sku] = *category
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sku categories: %w", err)
	}
	return categories, nil
}

// AssociationData devuelve las tripletas de asociación para la detección de
// familias. Usa una ventana por vendor_sku para quedarse solo con el registro
// de sincronización más reciente.
func (r *CatalogItemRepo) AssociationData(ctx context.Context, skus []string) ([]entity.AssociationRecord, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	query := `
		WITH latest_records AS (
			SELECT
				vendor_sku,
				raw_data,
				ROW_NUMBER() OVER (PARTITION BY vendor_sku ORDER BY id DESC) AS rn
			FROM vendor_sync_records
		)
		SELECT
			m.internal_sku,
			m.vendor_sku,
			COALESCE(lr.raw_data -> 'associateProductList', '[]'::jsonb) AS associate_list
		FROM sku_map m
			JOIN latest_records lr
				ON m.vendor_sku = lr.vendor_sku
		WHERE lr.rn = 1
		  AND m.internal_sku = ANY($1)`
	rows, err := r.q.Query(ctx, query, skus)
	if err != nil {
		return nil, fmt.Errorf("select association data: %w", err)
	}
	defer rows.Close()

	var records []entity.AssociationRecord
	for rows.Next() {
		var rec entity.AssociationRecord
		var associateRaw []byte
		if err := rows.Scan(&rec.InternalSKU, &rec.VendorSKU, &associateRaw); err != nil {
			return nil, fmt.Errorf("scan association record: %w", err)
		}
		// Tolerar JSONB con forma inesperada: sin aristas, el SKU queda suelto.
		if err := json.Unmarshal(associateRaw, &rec.Associates); err != nil {
			rec.Associates = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate association data: %w", err)
	}
	return records, nil
}

// FullItem arma la foto completa de un producto en una sola consulta:
// mapeo de SKUs, textos generados, bolsa cruda del proveedor, precio final
// e inventario disponible. Devuelve nil si el SKU no existe.
func (r *CatalogItemRepo) FullItem(ctx context.Context, internalSKU string) (*entity.CatalogItem, error) {
	query := `
		SELECT
			m.internal_sku,
			m.vendor_sku,
			scm.standard_category_name AS category_name,
			ds.product_name,
			ds.product_description,
			ds.selling_point_1,
			ds.selling_point_2,
			ds.selling_point_3,
			ds.selling_point_4,
			ds.selling_point_5,
			psr.raw_data,
			pfp.final_price,
			(COALESCE(inv.quantity, 0) + COALESCE(inv.buyer_qty, 0)) AS total_quantity
		FROM sku_map m
			LEFT JOIN product_details ds
				ON m.vendor_sku = ds.sku_id
			LEFT JOIN vendor_sync_records psr
				ON m.vendor_sku = psr.vendor_sku
			LEFT JOIN supplier_categories_map scm
				ON LOWER(psr.category_code) = LOWER(scm.supplier_category_code)
				AND scm.supplier_platform = $2
			LEFT JOIN product_final_prices pfp
				ON m.internal_sku = pfp.internal_sku
			LEFT JOIN vendor_inventory inv
				ON m.vendor_sku = inv.vendor_sku
		WHERE m.internal_sku = $1
		ORDER BY psr.id DESC, ds.id DESC
		LIMIT 1`

	var (
		item        entity.CatalogItem
		category    *string
		name        *string
		description *string
		points      [5]*string
		rawData     []byte
		finalPrice  decimal.NullDecimal
	)
	err := r.q.QueryRow(ctx, query, internalSKU, supplierPlatform).Scan(
		&item.InternalSKU, &item.VendorSKU, &category, &name, &description,
		&points[0], &points[1], &points[2], &points[3], &points[4],
		&rawData, &finalPrice, &item.TotalQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select full item %s: %w", internalSKU, err)
	}

	if category != nil {
		item.CategoryName = *category
	}
	if name != nil {
		item.ProductName = *name
	}
	if description != nil {
		item.Description = *description
	}
	item.SellingPoints = make([]string, len(points))
	for i, p := range points {
		if p != nil {
			item.SellingPoints[i] = *p
		}
	}
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &item.RawData); err != nil {
			return nil, fmt.Errorf("decodificar raw_data de %s: %w", internalSKU, err)
		}
	}
	if finalPrice.Valid {
		item.FinalPrice = finalPrice.Decimal
	}
	return &item, nil
}
