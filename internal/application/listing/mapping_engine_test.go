package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

func testTemplate() *entity.CategoryTemplate {
	return &entity.CategoryTemplate{
		CategoryName: "CABINET",
		TemplateName: "cabinet_v1",
		ValidValues: []entity.VocabularyGroup{
			{Attribute: "Color", Values: []string{"White", "Black", "Navy Blue"}},
			{Attribute: entity.VariationThemeAttribute, Values: []string{"Color", "Size", "Color/Size"}},
		},
		VariationMapping: map[string]string{
			"color_name": "Color",
			"size_name":  "Size",
		},
	}
}

func testItem() *entity.CatalogItem {
	return &entity.CatalogItem{
		InternalSKU:  "INT-001",
		VendorSKU:    "VEN-001",
		CategoryName: "Cabinet",
		ProductName:  "Modern Cabinet - White",
		Description:  "<p>Solid wood   cabinet</p>",
		RawData: entity.RawData{
			"productType": "cabinet",
			"sellerInfo":  map[string]any{"sellerType": "GENERAL"},
			"images":      []any{"a.jpg", "b.jpg", "c.jpg"},
			"comboFlag":   true,
			"comboInfo": []any{
				map[string]any{"weight": 10.5, "length": 30.0},
				map[string]any{"weight": 4.5},
			},
			"weightUnit":      "lb",
			"lengthUnit":      "in",
			"assembledHeight": "Not Applicable",
			"color":           "white ",
		},
	}
}

func TestMapItem_ReglasDeterministas(t *testing.T) {
	rules := entity.RuleSet{
		"Listing Action":      {Kind: entity.RuleStatic, Value: entity.ListingActionDefault},
		"SKU":                 {Kind: entity.RuleDirect, Value: "internal_sku"},
		"Product Type":        {Kind: entity.RuleDirect, Value: "category_name"},
		"Seller Type":         {Kind: entity.RuleJSONPath, JSONPath: "sellerInfo.sellerType"},
		"Battery Required":    {Kind: entity.RuleJSONPath, JSONPath: "battery.required", Fallback: "No"},
		"Images":              {Kind: entity.RuleJSONArray, JSONPath: "images"},
		"Item Package Qty":    {Kind: entity.RuleComputedCount, JSONPath: "comboInfo"},
		"Package Length":      {Kind: entity.RulePackageDimension, Dimension: "length"},
		"Item Height":         {Kind: entity.RuleItemDimension, Dimension: "assembledHeight"},
		"Weight Unit":         {Kind: entity.RuleUnitLookup, UnitType: "weight"},
		"Dimension Unit":      {Kind: entity.RuleUnitLookup, UnitType: "dimension"},
		"Package Weight":      {Kind: entity.RuleSummedWeight, WeightType: "package"},
		"Browse Node":         {Kind: entity.RuleCategoryLookup, LookupKey: "browse_node"},
		"Item Name Reference": {Kind: entity.RuleFieldReference, Field: "SKU"},
	}
	categoryMap := entity.CategoryConfig{
		"CABINET": {"browse_node": "12345"},
	}

	engine := NewMappingEngine(rules, categoryMap, nil, logger.Nop())
	row := engine.MapItem(context.Background(), testItem(), testTemplate())

	assert.Equal(t, entity.ListingActionDefault, row["Listing Action"], "static debe copiar el literal")
	assert.Equal(t, "INT-001", row["SKU"], "direct debe leer el campo de primer nivel")
	assert.Equal(t, "CABINET", row["Product Type"], "Product Type debe ir en mayúsculas")
	assert.Equal(t, "GENERAL", row["Seller Type"], "jsonb debe recorrer la ruta con puntos")
	assert.Equal(t, "No", row["Battery Required"], "jsonb sin valor debe usar el fallback")
	assert.Equal(t, []any{"a.jpg", "b.jpg", "c.jpg"}, row["Images"], "jsonb_array debe copiar el arreglo")
	assert.Equal(t, 2, row["Item Package Qty"], "jsonb_computed debe contar el arreglo")
	assert.Equal(t, 30.0, row["Package Length"], "package_dimension debe caer al primer componente")
	assert.NotContains(t, row, "Item Height", "item_dimension con centinela debe omitirse")
	assert.Equal(t, "Pounds", row["Weight Unit"], "unit_mapper de peso")
	assert.Equal(t, "Inches", row["Dimension Unit"], "unit_mapper de dimensión")
	assert.Equal(t, 15.0, row["Package Weight"], "summed_weight debe sumar los componentes del combo")
	assert.Equal(t, "12345", row["Browse Node"], "category_lookup por categoría en mayúsculas")
	assert.Equal(t, "INT-001", row["Item Name Reference"], "field_reference debe copiar el campo ya resuelto")
}

func TestMapItem_KindDesconocidoOmiteCampo(t *testing.T) {
	rules := entity.RuleSet{
		"SKU":   {Kind: entity.RuleDirect, Value: "internal_sku"},
		"Weird": {Kind: "no_such_kind"},
	}
	engine := NewMappingEngine(rules, nil, nil, logger.Nop())
	row := engine.MapItem(context.Background(), testItem(), testTemplate())

	assert.NotContains(t, row, "Weird", "source_type desconocido debe omitir el campo")
	assert.Equal(t, "INT-001", row["SKU"], "el resto de la fila debe continuar")
}

func TestMapItem_AlineacionConVocabulario(t *testing.T) {
	item := testItem()
	rules := entity.RuleSet{
		"Color": {Kind: entity.RuleJSONPath, JSONPath: "color"},
	}
	engine := NewMappingEngine(rules, nil, nil, logger.Nop())
	row := engine.MapItem(context.Background(), item, testTemplate())

	assert.Equal(t, "White", row["Color"], "el valor debe alinearse al casing canónico del vocabulario")

	item.RawData["color"] = "whit"
	row = engine.MapItem(context.Background(), item, testTemplate())
	assert.Equal(t, "whit", row["Color"], "bajo el corte difuso el valor se conserva sin cambios")
}

func TestMapItem_EnriquecimientoConOpcionesValidas(t *testing.T) {
	llm := &fakeLLM{enrichResult: map[string]any{"Color": "Black", "Bullet Points": []any{"p1", "p2"}}}
	rules := entity.RuleSet{
		"Color":         {Kind: entity.RuleGenerated, Description: "color principal"},
		"Bullet Points": {Kind: entity.RuleGenerated, Description: "puntos de venta", OutputType: "list"},
	}
	engine := NewMappingEngine(rules, nil, llm, logger.Nop())
	row := engine.MapItem(context.Background(), testItem(), testTemplate())

	require.Equal(t, 1, llm.enrichCalls, "todas las tareas deben ir en una sola llamada")
	assert.Equal(t, "Black", row["Color"])
	assert.Equal(t, []any{"p1", "p2"}, row["Bullet Points"])

	var colorTask *ports.EnrichmentTask
	for i := range llm.lastTasks {
		if llm.lastTasks[i].FieldName == "Color" {
			colorTask = &llm.lastTasks[i]
		}
	}
	require.NotNil(t, colorTask)
	assert.Equal(t, []string{"White", "Black", "Navy Blue"}, colorTask.ValidOptions,
		"la tarea debe llevar el vocabulario del campo")
}

func TestMapItem_FalloDeEnriquecimientoNoAborta(t *testing.T) {
	llm := &fakeLLM{enrichErr: errors.New("timeout")}
	rules := entity.RuleSet{
		"SKU":   {Kind: entity.RuleDirect, Value: "internal_sku"},
		"Color": {Kind: entity.RuleGenerated, Description: "color principal"},
	}
	engine := NewMappingEngine(rules, nil, llm, logger.Nop())
	row := engine.MapItem(context.Background(), testItem(), testTemplate())

	assert.Equal(t, "INT-001", row["SKU"], "la fila debe continuar sin los campos delegados")
	assert.NotContains(t, row, "Color", "el campo delegado queda sin valor ante el fallo")
}

func TestMapItem_Idempotente(t *testing.T) {
	rules := entity.RuleSet{
		"SKU":          {Kind: entity.RuleDirect, Value: "internal_sku"},
		"Product Type": {Kind: entity.RuleDirect, Value: "category_name"},
		"Seller Type":  {Kind: entity.RuleJSONPath, JSONPath: "sellerInfo.sellerType"},
		"Images":       {Kind: entity.RuleJSONArray, JSONPath: "images"},
		"Color":        {Kind: entity.RuleJSONPath, JSONPath: "color"},
	}
	engine := NewMappingEngine(rules, nil, nil, logger.Nop())

	first := engine.MapItem(context.Background(), testItem(), testTemplate())
	second := engine.MapItem(context.Background(), testItem(), testTemplate())

	assert.Equal(t, first, second, "con entradas idénticas la fila debe ser idéntica")
}
