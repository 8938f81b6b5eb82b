package entity

// Nombres de campos estructurales de la fila de salida. Existen en toda
// plantilla razonable; si la plantilla no los trae, el escritor los reporta.
const (
	FieldSKU             = "SKU"
	FieldItemName        = "Item Name"
	FieldProductType     = "Product Type"
	FieldListingAction   = "Listing Action"
	FieldParentageLevel  = "Parentage Level"
	FieldChildRelType    = "Child Relationship Type"
	FieldParentSKU       = "Parent SKU"
	FieldVariationTheme  = "Variation Theme Name"
	ListingActionDefault = "Create or Replace (Full Update)"

	ParentageParent   = "Parent"
	ParentageChild    = "Child"
	ChildRelVariation = "Variation"
)

// ListingRow es el registro de salida completamente mapeado de un producto
// (suelto, padre o hijo), indexado por nombre de columna de la plantilla.
// Los valores son escalares o listas (para columnas repetidas). Se produce
// una vez por producto por corrida y no se muta después del ensamblado.
type ListingRow map[string]any

// Clone copia superficialmente la fila. Las listas se copian también para
// que el escritor pueda reordenar sin tocar la fila original.
func (r ListingRow) Clone() ListingRow {
	out := make(ListingRow, len(r))
	for k, v := range r {
		if list, ok := v.([]any); ok {
			copied := make([]any, len(list))
			copy(copied, list)
			out[k] = copied
			continue
		}
		out[k] = v
	}
	return out
}
