package entity

import (
	"encoding/json"
	"fmt"
	"os"
)

// RuleKind identifica el tipo de transformación de una regla de mapeo.
// Los valores coinciden con el formato serializado del archivo de reglas,
// de modo que el JSON de configuración es legible tal cual.
type RuleKind string

const (
	RuleStatic           RuleKind = "static"            // valor literal configurado
	RuleDirect           RuleKind = "direct"            // campo de primer nivel del producto
	RuleDirectMultiple   RuleKind = "direct_multiple"   // varios campos de primer nivel, como lista
	RuleJSONPath         RuleKind = "jsonb"             // ruta con puntos dentro de la bolsa cruda
	RuleJSONArray        RuleKind = "jsonb_array"       // arreglo de la bolsa cruda, tal cual
	RuleComputedCount    RuleKind = "jsonb_computed"    // largo de un arreglo (mínimo 1)
	RulePackageDimension RuleKind = "package_dimension" // dimensión de empaque, con fallback al primer componente
	RuleItemDimension    RuleKind = "item_dimension"    // dimensión del producto; centinela -> nulo
	RuleUnitLookup       RuleKind = "unit_mapper"       // unidad cruda -> unidad de display
	RuleSummedWeight     RuleKind = "summed_weight"     // peso, sumando componentes si es combo
	RuleCategoryLookup   RuleKind = "category_lookup"   // constante por categoría
	RuleFieldReference   RuleKind = "field_reference"   // copia de otro campo ya resuelto (segunda pasada)
	RuleGenerated        RuleKind = "llm_enhanced"      // delegado al servicio de generación de texto
)

// MappingRule es la receta declarativa para calcular un campo de salida.
// Según el Kind aplican unos parámetros u otros; el resto quedan vacíos.
// El conjunto de reglas es inmutable durante una corrida.
type MappingRule struct {
	Kind        RuleKind `json:"source_type"`
	Value       any      `json:"value,omitempty"`       // static, direct (nombre del campo)
	Field       string   `json:"field,omitempty"`       // field_reference
	Fields      []string `json:"fields,omitempty"`      // direct_multiple
	JSONPath    string   `json:"json_path,omitempty"`   // jsonb, jsonb_array, jsonb_computed
	Fallback    any      `json:"fallback,omitempty"`    // jsonb
	Dimension   string   `json:"dimension,omitempty"`   // package_dimension, item_dimension
	UnitType    string   `json:"unit_type,omitempty"`   // unit_mapper: "weight" | "dimension"
	WeightType  string   `json:"weight_type,omitempty"` // summed_weight: "item" | "package"
	LookupKey   string   `json:"lookup_key,omitempty"`  // category_lookup
	Description string   `json:"description,omitempty"` // llm_enhanced: instrucción para el modelo
	OutputType  string   `json:"output_type,omitempty"` // llm_enhanced: "string" | "list"
}

// RuleSet asocia cada campo de salida con su única regla.
type RuleSet map[string]MappingRule

// LoadRuleSet carga el conjunto de reglas desde un archivo JSON con la
// forma {"mappings": {"<campo>": {...}}}.
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer reglas de mapeo: %w", err)
	}
	var file struct {
		Mappings RuleSet `json:"mappings"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsear reglas de mapeo: %w", err)
	}
	if len(file.Mappings) == 0 {
		return nil, fmt.Errorf("reglas de mapeo vacías en %s", path)
	}
	return file.Mappings, nil
}

// CategoryConfig son las constantes por categoría (keyed por el nombre de
// categoría en mayúsculas) que consumen las reglas category_lookup.
type CategoryConfig map[string]map[string]any

// LoadCategoryConfig carga las constantes por categoría desde un archivo JSON.
func LoadCategoryConfig(path string) (CategoryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer configuración de categorías: %w", err)
	}
	var cfg CategoryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsear configuración de categorías: %w", err)
	}
	return cfg, nil
}
