package entity

// VariationFamily es un grupo de ≥2 productos conectados (directa o
// transitivamente) por asociaciones declaradas, más el tema resuelto y los
// atributos distintivos por miembro una vez que el resolutor los asigna.
// Invariante tras la aceptación: las firmas de atributos son distintas
// dos a dos entre miembros.
type VariationFamily struct {
	InternalSKUs []string                     // orden de primer avistamiento, estable entre corridas
	Theme        string                       // ej. "Color", "Size", "Color/Size"; vacío hasta resolver
	Attributes   map[string]map[string]string // SKU interno -> atributo -> valor ya formateado
}

// Size devuelve la cantidad de miembros de la familia.
func (f *VariationFamily) Size() int { return len(f.InternalSKUs) }
