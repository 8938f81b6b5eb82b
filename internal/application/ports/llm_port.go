package ports

import "context"

// EnrichmentTask es un campo de salida delegado al servicio de generación:
// el nombre del campo, la instrucción en texto libre de la regla y, si el
// campo tiene vocabulario controlado, los valores permitidos.
type EnrichmentTask struct {
	FieldName    string   `json:"field_name"`
	Description  string   `json:"description"`
	OutputType   string   `json:"output_type"`
	ValidOptions []string `json:"valid_options,omitempty"`
}

// ProductProfile es el perfil redactado de un producto para enriquecer
// atributos: texto plano, sin marcado, solo lo que el modelo necesita.
type ProductProfile struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Attributes          map[string]any `json:"attributes,omitempty"`
	Characteristics     []any          `json:"characteristics,omitempty"`
	DimensionsAndWeight map[string]any `json:"dimensions_and_weight,omitempty"`
}

// FamilyMemberProfile es el perfil redactado de un miembro de familia para
// la determinación del tema de variación.
type FamilyMemberProfile struct {
	InternalSKU         string         `json:"internal_sku"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Attributes          map[string]any `json:"attributes,omitempty"`
	DimensionsAndWeight map[string]any `json:"dimensions_and_weight,omitempty"`
}

// ThemeRequest es la solicitud de tema de variación para una familia.
// FailedTheme vacío en la primera ronda; en la ronda correctiva lleva el
// tema que produjo atributos duplicados.
type ThemeRequest struct {
	Members        []FamilyMemberProfile `json:"products"`
	ValidThemes    []string              `json:"valid_variation_themes"`
	PriorityThemes []string              `json:"high_priority_themes,omitempty"`
	FailedTheme    string                `json:"failed_theme,omitempty"`
}

// ThemeAssignment es la respuesta del modelo: el tema elegido y el mapa de
// atributos por miembro (SKU interno -> atributo -> valor crudo).
type ThemeAssignment struct {
	Theme            string                    `json:"variation_theme"`
	MemberAttributes map[string]map[string]any `json:"child_attributes"`
}

// LLMService define el puerto de salida hacia la capacidad de generación
// de texto. Cualquier adaptador (DeepSeek, Qwen, mock) debe implementar
// esta interfaz. El contexto debe llevar un timeout: ambas operaciones son
// llamadas de red lentas y el pipeline nunca debe quedar bloqueado en ellas.
type LLMService interface {
	// EnrichProductAttributes resuelve las tareas delegadas de un producto y
	// devuelve el mapa nombre de campo -> valor generado.
	EnrichProductAttributes(ctx context.Context, profile ProductProfile, tasks []EnrichmentTask) (map[string]any, error)

	// DetermineVariationTheme elige el tema de variación de una familia y
	// asigna atributos distintivos a cada miembro.
	DetermineVariationTheme(ctx context.Context, req ThemeRequest) (*ThemeAssignment, error)
}
