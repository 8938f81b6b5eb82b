package entity

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawData es la bolsa de datos semiestructurada del proveedor (JSONB ya
// decodificado): claves anidadas, arreglos y escalares tal como llegaron
// de la sincronización. Solo lectura para el pipeline.
type RawData map[string]any

// Path recorre una ruta con puntos ("sellerInfo.sellerType") dentro de la
// bolsa. Devuelve nil si algún tramo no existe o no es un objeto.
func (r RawData) Path(path string) any {
	if path == "" {
		return nil
	}
	var current any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
		if current == nil {
			return nil
		}
	}
	return current
}

// Array devuelve el arreglo en la clave dada, o nil si no existe o no es arreglo.
func (r RawData) Array(key string) []any {
	arr, _ := r[key].([]any)
	return arr
}

// CatalogItem es la foto completa de un producto elegible para publicar:
// el mapeo de SKUs, los textos generados, la bolsa cruda del proveedor,
// el precio final y el inventario disponible. Lo arma el repositorio de
// catálogo; el pipeline nunca lo muta.
type CatalogItem struct {
	InternalSKU   string
	VendorSKU     string
	CategoryName  string
	ProductName   string
	Description   string
	SellingPoints []string // hasta 5 puntos de venta, en orden
	RawData       RawData
	FinalPrice    decimal.Decimal
	TotalQuantity int
}

// Field devuelve el valor de un campo de primer nivel por su nombre
// serializado, tal como lo referencian las reglas direct y direct_multiple.
// Devuelve nil si el campo no existe o está vacío.
func (c *CatalogItem) Field(name string) any {
	switch name {
	case "internal_sku":
		return emptyAsNil(c.InternalSKU)
	case "vendor_sku":
		return emptyAsNil(c.VendorSKU)
	case "category_name":
		return emptyAsNil(c.CategoryName)
	case "product_name":
		return emptyAsNil(c.ProductName)
	case "product_description":
		return emptyAsNil(c.Description)
	case "final_price":
		if c.FinalPrice.IsZero() {
			return nil
		}
		return c.FinalPrice.String()
	case "total_quantity":
		return c.TotalQuantity
	}
	if strings.HasPrefix(name, "selling_point_") {
		idx, err := strconv.Atoi(strings.TrimPrefix(name, "selling_point_"))
		if err != nil || idx < 1 || idx > len(c.SellingPoints) {
			return nil
		}
		return emptyAsNil(c.SellingPoints[idx-1])
	}
	return nil
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// AssociationRecord es la tripleta mínima para la detección de familias:
// el SKU interno, su SKU de proveedor (nodo del grafo) y los SKUs de
// proveedor declarados como variantes (aristas).
type AssociationRecord struct {
	InternalSKU string
	VendorSKU   string
	Associates  []string
}
