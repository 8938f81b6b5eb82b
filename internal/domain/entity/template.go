package entity

import (
	"strings"
	"time"
)

// VocabularyGroup es un vocabulario controlado: los valores permitidos por
// el marketplace para un atributo concreto de la plantilla.
type VocabularyGroup struct {
	Group     string   `json:"group"`
	Attribute string   `json:"attribute"`
	Scope     string   `json:"scope"`
	Values    []string `json:"values"`
}

// FieldDefinition describe un campo de la plantilla según la hoja
// Data Definitions: agrupación, etiqueta local y obligatoriedad por rol.
type FieldDefinition struct {
	Group          string `json:"group"`
	FieldName      string `json:"field_name"`
	LocalLabel     string `json:"local_label"`
	AcceptedValues string `json:"accepted_values"`
	Example        string `json:"example"`
	RequiredParent string `json:"required_parent"`
	RequiredChild  string `json:"required_child"`
	RequiredSingle string `json:"required_single"`
}

// VariationThemeAttribute es el nombre del atributo que declara los temas
// de variación válidos dentro de los vocabularios de una plantilla.
const VariationThemeAttribute = "Variation Theme Name"

// CategoryTemplate es la plantilla de marketplace para una categoría:
// columnas, definiciones, vocabularios controlados, la traducción de claves
// internas de variación a columnas y los temas preferidos. Inmutable
// durante una corrida.
type CategoryTemplate struct {
	ID               int64
	CategoryName     string
	TemplateName     string
	Fields           []string
	FieldDefinitions map[string]FieldDefinition
	ValidValues      []VocabularyGroup
	VariationMapping map[string]string // clave interna (color_name) -> columna (Color)
	PriorityThemes   []string
	CreatedAt        time.Time
}

// VocabularyFor devuelve los valores permitidos para un campo, o nil si el
// campo no tiene vocabulario. La búsqueda ignora mayúsculas y espacios
// sobrantes porque las plantillas no son consistentes entre sí.
func (t *CategoryTemplate) VocabularyFor(field string) []string {
	want := strings.ToLower(strings.TrimSpace(field))
	for _, group := range t.ValidValues {
		if strings.ToLower(strings.TrimSpace(group.Attribute)) == want {
			return group.Values
		}
	}
	return nil
}

// VariationThemes devuelve los temas de variación válidos de la plantilla
// (el vocabulario del atributo "Variation Theme Name"), o nil si no existe.
func (t *CategoryTemplate) VariationThemes() []string {
	return t.VocabularyFor(VariationThemeAttribute)
}
