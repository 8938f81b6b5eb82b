package excel

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Publicador-api/internal/application/template"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

var _ template.TemplateParser = (*TemplateFileParser)(nil)

// Hojas esperadas en un archivo de plantilla de marketplace.
const (
	sheetTemplate        = "Template"
	sheetDataDefinitions = "Data Definitions"
	sheetValidValues     = "Valid Values"
)

// TemplateFileParser parsea archivos de plantilla .xlsm del marketplace:
// columnas, definiciones de campo y vocabularios controlados. Las plantillas
// reales no son uniformes (fila de campos variable, encabezados con erratas,
// hojas ausentes), así que el parseo busca en vez de asumir posiciones.
type TemplateFileParser struct {
	log *logger.Logger
}

// NewTemplateFileParser construye el parser de plantillas.
func NewTemplateFileParser(log *logger.Logger) *TemplateFileParser {
	return &TemplateFileParser{log: log.Component("template_parser")}
}

// ParseFile parsea el archivo de plantilla en la ruta dada.
func (p *TemplateFileParser) ParseFile(path string) (*template.ParsedTemplate, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir plantilla %s: %w", path, err)
	}
	defer f.Close()

	fields, err := p.parseTemplateSheet(f)
	if err != nil {
		return nil, err
	}
	defs, err := p.parseDataDefinitions(f)
	if err != nil {
		return nil, err
	}
	validValues, err := p.parseValidValues(f)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("file", path).
		Int("fields", len(fields)).
		Int("field_definitions", len(defs)).
		Int("valid_value_groups", len(validValues)).
		Msg("plantilla parseada")

	return &template.ParsedTemplate{
		Fields:           fields,
		FieldDefinitions: defs,
		ValidValues:      validValues,
	}, nil
}

// parseTemplateSheet extrae la lista de columnas de la hoja Template. La fila
// de campos no siempre es la misma entre plantillas: se prueban 4, 3, 2 y 1.
func (p *TemplateFileParser) parseTemplateSheet(f *excelize.File) ([]string, error) {
	rows, err := f.GetRows(sheetTemplate)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheetTemplate, err)
	}

	for _, rowIdx := range []int{4, 3, 2, 1} {
		if rowIdx > len(rows) {
			continue
		}
		var fields []string
		for _, cell := range rows[rowIdx-1] {
			if v := strings.TrimSpace(cell); v != "" {
				fields = append(fields, v)
			}
		}
		if len(fields) > 0 {
			p.log.Debug().Int("row", rowIdx).Int("fields", len(fields)).Msg("fila de campos encontrada")
			return fields, nil
		}
	}
	return nil, fmt.Errorf("hoja %q sin fila de campos reconocible", sheetTemplate)
}

// Variantes de encabezado vistas en plantillas reales, erratas incluidas.
var definitionHeaderVariants = map[string][]string{
	"group":           {"Group Name"},
	"field_name":      {"Field Name"},
	"local_label":     {"Local Label Name", "Local Label"},
	"accepted_values": {"Accepted Values"},
	"example":         {"Example"},
	"required_parent": {"Required for Parent?", "Required for Parant?"},
	"required_child":  {"Required for Child?"},
	"required_single": {"Required for single SKU product?", "Required for single SKU"},
}

// parseDataDefinitions extrae las definiciones de campo de la hoja
// Data Definitions. El encabezado se busca en las primeras 5 filas; las
// filas con grupo pero sin campo abren un grupo nuevo.
func (p *TemplateFileParser) parseDataDefinitions(f *excelize.File) (map[string]entity.FieldDefinition, error) {
	rows, err := f.GetRows(sheetDataDefinitions)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheetDataDefinitions, err)
	}

	headerRow, header := findHeaderRow(rows, 5, "Field Name", "Local Label Name")
	if headerRow == -1 {
		return nil, fmt.Errorf("hoja %q sin fila de encabezado reconocible", sheetDataDefinitions)
	}

	columns := map[string]int{}
	for key, variants := range definitionHeaderVariants {
		for _, variant := range variants {
			if idx := indexOfHeader(header, variant); idx != -1 {
				columns[key] = idx
				break
			}
		}
	}
	if _, ok := columns["field_name"]; !ok {
		return nil, fmt.Errorf("hoja %q sin columna 'Field Name'", sheetDataDefinitions)
	}

	defs := make(map[string]entity.FieldDefinition)
	currentGroup := ""
	for _, row := range rows[headerRow:] {
		group := cellAt(row, columns, "group")
		fieldName := cellAt(row, columns, "field_name")

		if group != "" && fieldName == "" {
			currentGroup = group
			continue
		}
		if fieldName == "" || strings.EqualFold(fieldName, "field name") {
			continue
		}
		defs[fieldName] = entity.FieldDefinition{
			Group:          currentGroup,
			FieldName:      fieldName,
			LocalLabel:     cellAt(row, columns, "local_label"),
			AcceptedValues: cellAt(row, columns, "accepted_values"),
			Example:        cellAt(row, columns, "example"),
			RequiredParent: cellAt(row, columns, "required_parent"),
			RequiredChild:  cellAt(row, columns, "required_child"),
			RequiredSingle: cellAt(row, columns, "required_single"),
		}
	}
	return defs, nil
}

// Términos que marcan un valor de vocabulario como retirado por el marketplace.
var deprecatedTerms = []string{"deprecated", "do not use", "obsolete"}

// parseValidValues extrae los vocabularios controlados de la hoja
// Valid Values. La hoja es opcional. Una fila con la primera celda ocupada
// abre un grupo; una fila de atributo trae "Nombre - [alcance]" en la segunda
// celda y los valores a partir de la tercera.
func (p *TemplateFileParser) parseValidValues(f *excelize.File) ([]entity.VocabularyGroup, error) {
	rows, err := f.GetRows(sheetValidValues)
	if err != nil {
		// Plantillas sin vocabulario son válidas.
		p.log.Debug().Msgf("hoja %q ausente, se omite", sheetValidValues)
		return nil, nil
	}

	var groups []entity.VocabularyGroup
	currentGroup := ""
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if first := strings.TrimSpace(cell(row, 0)); first != "" {
			currentGroup = first
			continue
		}

		declaration := strings.TrimSpace(cell(row, 1))
		if declaration == "" || !strings.Contains(declaration, "[") || !strings.Contains(declaration, "]") {
			continue
		}
		attribute, scope := splitAttributeDeclaration(declaration)

		var values []string
		for _, v := range row[2:] {
			v = strings.TrimSpace(v)
			if v != "" && !isDeprecatedValue(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		groups = append(groups, entity.VocabularyGroup{
			Group:     currentGroup,
			Attribute: attribute,
			Scope:     scope,
			Values:    values,
		})
	}
	return groups, nil
}

// splitAttributeDeclaration separa "Color Name - [cabinet]" en el nombre del
// atributo y su alcance.
func splitAttributeDeclaration(declaration string) (attribute, scope string) {
	idx := strings.LastIndex(declaration, "[")
	if idx == -1 {
		return declaration, "UNKNOWN"
	}
	scope = declaration[idx+1:]
	if end := strings.Index(scope, "]"); end != -1 {
		scope = scope[:end]
	}
	scope = strings.TrimSpace(scope)
	attribute = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(declaration[:idx]), "-"))
	return attribute, scope
}

func isDeprecatedValue(value string) bool {
	lower := strings.ToLower(value)
	for _, term := range deprecatedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// findHeaderRow busca en las primeras maxRows filas una que contenga todos
// los encabezados requeridos. Devuelve el número de fila (1-based) y la fila,
// o -1 si no aparece.
func findHeaderRow(rows [][]string, maxRows int, required ...string) (int, []string) {
	limit := maxRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		present := map[string]bool{}
		for _, c := range rows[i] {
			present[strings.TrimSpace(c)] = true
		}
		ok := true
		for _, want := range required {
			if !present[want] {
				ok = false
				break
			}
		}
		if ok {
			return i + 1, rows[i]
		}
	}
	return -1, nil
}

func indexOfHeader(header []string, want string) int {
	for i, c := range header {
		if strings.TrimSpace(c) == want {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cellAt(row []string, columns map[string]int, key string) string {
	idx, ok := columns[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell(row, idx))
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var _ template.ReportParser = (*ReportFileParser)(nil)

// requiredFieldPattern extrae el nombre del campo de los mensajes de error
// "required but not supplied" del reporte de procesamiento.
var requiredFieldPattern = regexp.MustCompile(`'(.+?)' is required but not supplied\.`)

// Código de error del marketplace para campo obligatorio ausente.
const missingRequiredCode = "90220"

// ReportFileParser extrae de un reporte de errores del marketplace los
// campos reclamados como obligatorios no provistos.
type ReportFileParser struct {
	log *logger.Logger
}

// NewReportFileParser construye el parser de reportes de errores.
func NewReportFileParser(log *logger.Logger) *ReportFileParser {
	return &ReportFileParser{log: log.Component("report_parser")}
}

// RequiredFields devuelve los nombres de campo (etiqueta local) citados en
// errores de obligatorio-no-provisto, sin duplicados y ordenados.
func (p *ReportFileParser) RequiredFields(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir reporte %s: %w", path, err)
	}
	defer f.Close()

	const sheetName = "Feed Processing Summary"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("el reporte no contiene la hoja %q: %w", sheetName, err)
	}

	headerRow, header := findHeaderRow(rows, 10, "Error code", "Error message")
	if headerRow == -1 {
		return nil, fmt.Errorf("hoja %q sin encabezado 'Error code' / 'Error message'", sheetName)
	}
	codeIdx := indexOfHeader(header, "Error code")
	msgIdx := indexOfHeader(header, "Error message")

	seen := map[string]bool{}
	for _, row := range rows[headerRow:] {
		if strings.TrimSpace(cell(row, codeIdx)) != missingRequiredCode {
			continue
		}
		match := requiredFieldPattern.FindStringSubmatch(cell(row, msgIdx))
		if match != nil {
			seen[match[1]] = true
		}
	}

	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	p.log.Info().Str("file", path).Int("required_fields", len(fields)).Msg("reporte de errores parseado")
	return fields, nil
}
