package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Publicador-api/internal/application/listing"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/pkg/config"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

var _ listing.RowWriter = (*WorkbookWriter)(nil)

// Posiciones fijas de la hoja Template en los archivos de carga: los campos
// van en la fila 4 y los datos empiezan en la 7.
const (
	headerRowIndex = 4
	dataStartRow   = 7
)

// Campos estructurales que toda plantilla razonable debería traer. Si el
// archivo no los tiene, la carga saldrá sin jerarquía y hay que revisarlo.
var structuralFields = map[string]bool{
	entity.FieldParentageLevel: true,
	entity.FieldChildRelType:   true,
	entity.FieldParentSKU:      true,
	entity.FieldVariationTheme: true,
}

// WorkbookWriter escribe el lote de filas mapeadas sobre el archivo de
// plantilla .xlsm de la categoría y lo guarda en el directorio de salida.
// El archivo original no se toca: se trabaja sobre una copia en memoria.
type WorkbookWriter struct {
	templateDir string
	outputDir   string
	log         *logger.Logger
}

// NewWorkbookWriter construye el escritor con los directorios de la config.
func NewWorkbookWriter(cfg config.ListingConfig, log *logger.Logger) *WorkbookWriter {
	return &WorkbookWriter{
		templateDir: cfg.TemplateDir,
		outputDir:   cfg.OutputDir,
		log:         log.Component("workbook_writer"),
	}
}

// WriteRows llena la plantilla de la categoría con las filas del lote y
// devuelve la ruta del archivo generado.
func (w *WorkbookWriter) WriteRows(ctx context.Context, categoryName string, batchID uuid.UUID, rows []entity.ListingRow, tpl *entity.CategoryTemplate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("lote sin filas para %s", categoryName)
	}

	templatePath := filepath.Join(w.templateDir, strings.ToUpper(categoryName)+".xlsm")
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("abrir plantilla de %s: %w", categoryName, err)
	}
	defer f.Close()

	headerMap, err := w.parseHeader(f)
	if err != nil {
		return "", err
	}

	missingStructural := map[string]bool{}
	for i, row := range rows {
		currentRow := dataStartRow + i
		for field, value := range row {
			cols, ok := headerMap[field]
			if !ok {
				w.log.Debug().Str("field", field).Msg("campo sin columna en la plantilla, se omite")
				if structuralFields[field] {
					missingStructural[field] = true
				}
				continue
			}
			if err := w.setValue(f, cols, currentRow, value); err != nil {
				return "", fmt.Errorf("escribir %q en fila %d: %w", field, currentRow, err)
			}
		}
	}

	for _, field := range sortedKeys(missingStructural) {
		w.log.Warn().
			Str("field", field).
			Str("category", categoryName).
			Msg("la plantilla no contiene un campo estructural, revisar el archivo")
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de salida: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	batchShort := batchID.String()[:8]
	outputPath := filepath.Join(w.outputDir,
		fmt.Sprintf("MarketplaceUpload_%s_%s_batch_%s.xlsm", categoryName, timestamp, batchShort))

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("guardar archivo de carga: %w", err)
	}

	w.log.Info().
		Str("category", categoryName).
		Str("template", tpl.TemplateName).
		Int("rows", len(rows)).
		Str("file", outputPath).
		Msg("archivo de carga generado")
	return outputPath, nil
}

// parseHeader mapea cada nombre de columna de la fila de campos a sus
// índices de columna (1-based). Las columnas repetidas (Bullet Point) se
// acumulan en orden.
func (w *WorkbookWriter) parseHeader(f *excelize.File) (map[string][]int, error) {
	rows, err := f.GetRows(sheetTemplate)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheetTemplate, err)
	}
	if len(rows) < headerRowIndex {
		return nil, fmt.Errorf("hoja %q sin fila de campos en la posición %d", sheetTemplate, headerRowIndex)
	}

	headerMap := make(map[string][]int)
	for i, cellValue := range rows[headerRowIndex-1] {
		name := strings.TrimSpace(cellValue)
		if name != "" {
			headerMap[name] = append(headerMap[name], i+1)
		}
	}
	if len(headerMap) == 0 {
		return nil, fmt.Errorf("hoja %q con fila de campos vacía", sheetTemplate)
	}
	return headerMap, nil
}

// setValue escribe un valor escalar en la primera columna del campo, o
// reparte una lista entre las columnas repetidas. Los elementos que exceden
// las columnas disponibles se descartan.
func (w *WorkbookWriter) setValue(f *excelize.File, cols []int, rowIdx int, value any) error {
	write := func(col int, v any) error {
		cellName, err := excelize.CoordinatesToCellName(col, rowIdx)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetTemplate, cellName, v)
	}

	switch list := value.(type) {
	case []any:
		for i, item := range list {
			if i >= len(cols) {
				break
			}
			if err := write(cols[i], item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for i, item := range list {
			if i >= len(cols) {
				break
			}
			if err := write(cols[i], item); err != nil {
				return err
			}
		}
		return nil
	default:
		return write(cols[0], value)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
