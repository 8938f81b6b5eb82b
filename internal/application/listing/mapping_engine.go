package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	domlisting "github.com/jhoicas/Publicador-api/internal/domain/listing"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// notApplicable es el centinela que el proveedor usa para marcar un dato
// inexistente dentro de la bolsa cruda.
const notApplicable = "Not Applicable"

// Tablas de unidades crudas del proveedor a unidades de display del marketplace.
var (
	weightUnitMap = map[string]string{
		"lb": "Pounds",
		"kg": "Kilograms",
		"oz": "Ounces",
		"g":  "Grams",
	}
	dimensionUnitMap = map[string]string{
		"in": "Inches",
		"cm": "Centimeters",
		"mm": "Millimeters",
		"ft": "Feet",
	}
)

// MappingEngine interpreta el conjunto de reglas declarativas sobre un
// producto y produce su fila de salida. El conjunto de reglas, las
// constantes por categoría y el servicio de generación se fijan en la
// construcción; el motor no guarda estado entre productos y es seguro
// para uso concurrente.
type MappingEngine struct {
	rules       entity.RuleSet
	categoryMap entity.CategoryConfig
	llm         ports.LLMService
	log         *logger.Logger
}

// NewMappingEngine construye el motor de mapeo.
func NewMappingEngine(rules entity.RuleSet, categoryMap entity.CategoryConfig, llm ports.LLMService, log *logger.Logger) *MappingEngine {
	return &MappingEngine{
		rules:       rules,
		categoryMap: categoryMap,
		llm:         llm,
		log:         log.Component("mapping_engine"),
	}
}

// MapItem ejecuta las cuatro pasadas de mapeo sobre un producto:
//
//  1. reglas deterministas (todas salvo field_reference y llm_enhanced)
//  2. field_reference, copiando campos ya resueltos
//  3. alineación con los vocabularios controlados de la plantilla
//  4. enriquecimiento vía el servicio de generación, si hay tareas
//
// Un fallo de regla omite el campo y la fila continúa; un fallo de la
// llamada de generación deja los campos delegados sin valor. Nunca
// devuelve error: con datos idénticos la salida es idéntica.
func (e *MappingEngine) MapItem(ctx context.Context, item *entity.CatalogItem, tpl *entity.CategoryTemplate) entity.ListingRow {
	row := make(entity.ListingRow)
	var tasks []ports.EnrichmentTask

	// Primera pasada: reglas deterministas.
	for fieldName, rule := range e.rules {
		switch rule.Kind {
		case entity.RuleGenerated:
			task := ports.EnrichmentTask{
				FieldName:   fieldName,
				Description: rule.Description,
				OutputType:  rule.OutputType,
			}
			if task.OutputType == "" {
				task.OutputType = "string"
			}
			tasks = append(tasks, task)
			continue
		case entity.RuleFieldReference:
			continue
		}

		value, err := e.mapSingleField(fieldName, rule, item)
		if err != nil {
			e.log.Warn().Err(err).Str("campo", fieldName).Msg("regla de mapeo fallida, campo omitido")
			continue
		}
		if value != nil {
			row[fieldName] = value
		}
	}

	// Segunda pasada: referencias entre campos ya resueltos.
	for fieldName, rule := range e.rules {
		if rule.Kind != entity.RuleFieldReference {
			continue
		}
		if referenced, ok := row[rule.Field]; ok {
			row[fieldName] = referenced
		}
	}

	// Tercera pasada: alineación con vocabularios controlados. Las listas
	// nunca se normalizan; un valor sin correspondencia se queda como está.
	for fieldName, value := range row {
		vocabulary := tpl.VocabularyFor(fieldName)
		if len(vocabulary) == 0 {
			continue
		}
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}
		if matched, found := domlisting.MatchVocabulary(str, vocabulary); found {
			row[fieldName] = matched
		} else {
			e.log.Debug().Str("campo", fieldName).Str("valor", str).Msg("valor fuera del vocabulario, se conserva")
		}
	}

	// Cuarta pasada: campos delegados al servicio de generación.
	if len(tasks) > 0 && e.llm != nil {
		for field, value := range e.enrichFields(ctx, item, tpl, tasks) {
			row[field] = value
		}
	}

	return row
}

// EnrichmentTasks devuelve las tareas delegadas del conjunto de reglas con
// sus opciones válidas según la plantilla. Útil para inspección y pruebas.
func (e *MappingEngine) EnrichmentTasks(tpl *entity.CategoryTemplate) []ports.EnrichmentTask {
	var tasks []ports.EnrichmentTask
	for fieldName, rule := range e.rules {
		if rule.Kind != entity.RuleGenerated {
			continue
		}
		task := ports.EnrichmentTask{
			FieldName:   fieldName,
			Description: rule.Description,
			OutputType:  rule.OutputType,
		}
		if task.OutputType == "" {
			task.OutputType = "string"
		}
		task.ValidOptions = tpl.VocabularyFor(fieldName)
		tasks = append(tasks, task)
	}
	return tasks
}

func (e *MappingEngine) enrichFields(ctx context.Context, item *entity.CatalogItem, tpl *entity.CategoryTemplate, tasks []ports.EnrichmentTask) map[string]any {
	for i := range tasks {
		tasks[i].ValidOptions = tpl.VocabularyFor(tasks[i].FieldName)
	}

	profile := buildProductProfile(item)
	enriched, err := e.llm.EnrichProductAttributes(ctx, profile, tasks)
	if err != nil {
		e.log.Error().Err(err).Str("internal_sku", item.InternalSKU).Msg("enriquecimiento fallido, campos delegados sin valor")
		return nil
	}
	return enriched
}

func buildProductProfile(item *entity.CatalogItem) ports.ProductProfile {
	description := item.Description
	if description == "" {
		description, _ = item.RawData["description"].(string)
	}
	attributes, _ := item.RawData["attributes"].(map[string]any)

	dims := make(map[string]any)
	for _, key := range []string{"assembledLength", "assembledWidth", "assembledHeight"} {
		if v := item.RawData[key]; v != nil {
			dims[key] = v
		}
	}

	return ports.ProductProfile{
		Name:                item.ProductName,
		Description:         domlisting.StripHTML(description),
		Attributes:          attributes,
		Characteristics:     item.RawData.Array("characteristics"),
		DimensionsAndWeight: dims,
	}
}

func (e *MappingEngine) mapSingleField(fieldName string, rule entity.MappingRule, item *entity.CatalogItem) (any, error) {
	raw := item.RawData

	switch rule.Kind {
	case entity.RuleStatic:
		return rule.Value, nil

	case entity.RuleDirect:
		sourceField, _ := rule.Value.(string)
		value := item.Field(sourceField)
		if fieldName == entity.FieldProductType {
			if str, ok := value.(string); ok {
				return strings.ToUpper(str), nil
			}
		}
		return value, nil

	case entity.RuleDirectMultiple:
		var values []any
		for _, f := range rule.Fields {
			if v := item.Field(f); v != nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, nil
		}
		return values, nil

	case entity.RuleJSONPath:
		value := raw.Path(rule.JSONPath)
		if value == nil || value == "" || value == notApplicable {
			if rule.Fallback != nil {
				return rule.Fallback, nil
			}
			return nil, nil
		}
		return value, nil

	case entity.RuleJSONArray:
		arr := raw.Array(rule.JSONPath)
		if arr == nil {
			return nil, nil
		}
		return arr, nil

	case entity.RuleComputedCount:
		if arr := raw.Array(rule.JSONPath); len(arr) > 0 {
			return len(arr), nil
		}
		return 1, nil

	case entity.RulePackageDimension:
		value := raw[rule.Dimension]
		if isEmptyValue(value) {
			if combo := raw.Array("comboInfo"); len(combo) > 0 {
				if first, ok := combo[0].(map[string]any); ok {
					value = first[rule.Dimension]
				}
			}
		}
		return value, nil

	case entity.RuleItemDimension:
		value := raw[rule.Dimension]
		if value == notApplicable {
			return nil, nil
		}
		return value, nil

	case entity.RuleUnitLookup:
		return mapUnit(rule.UnitType, raw), nil

	case entity.RuleSummedWeight:
		return sumWeight(rule.WeightType, raw), nil

	case entity.RuleCategoryLookup:
		if e.categoryMap == nil {
			return nil, nil
		}
		categoryConstants, ok := e.categoryMap[strings.ToUpper(item.CategoryName)]
		if !ok {
			return nil, nil
		}
		return categoryConstants[rule.LookupKey], nil

	default:
		return nil, &domain.RuleError{
			Field: fieldName,
			Kind:  string(rule.Kind),
			Err:   fmt.Errorf("source_type desconocido"),
		}
	}
}

func mapUnit(unitType string, raw entity.RawData) any {
	switch unitType {
	case "weight":
		if unit, ok := raw["weightUnit"].(string); ok {
			if display, found := weightUnitMap[strings.ToLower(unit)]; found {
				return display
			}
		}
	case "dimension":
		if unit, ok := raw["lengthUnit"].(string); ok {
			if display, found := dimensionUnitMap[strings.ToLower(unit)]; found {
				return display
			}
		}
	}
	return nil
}

// sumWeight resuelve el peso del producto o, si falta y el producto es un
// combo, la suma de los pesos de sus componentes.
func sumWeight(weightType string, raw entity.RawData) any {
	var total float64
	var present bool
	if weightType == "item" {
		total, present = toFloat(raw["assembledWeight"])
	} else {
		total, present = toFloat(raw["weight"])
	}

	if (!present || total == 0) && isTruthy(raw["comboFlag"]) {
		total = 0
		for _, component := range raw.Array("comboInfo") {
			obj, ok := component.(map[string]any)
			if !ok {
				continue
			}
			if w, found := toFloat(obj["weight"]); found {
				total += w
			}
		}
	}

	if total == 0 {
		return nil
	}
	return total
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case int:
		return v == 0
	}
	return false
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return value != nil
}
