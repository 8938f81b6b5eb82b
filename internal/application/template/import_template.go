package template

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// internalAttributeAliases traduce las claves internas de atributos de
// variación a los nombres de columna que suelen usar las plantillas. El
// primer alias que exista en la plantilla y sea parte de un tema gana.
var internalAttributeAliases = map[string][]string{
	"color_name":            {"Color", "Color Name", "Main Color"},
	"size_name":             {"Size", "Size Name", "Apparel Size", "Ring Size", "Shoe Size"},
	"material_name":         {"Material", "Main Material", "Material Type"},
	"style_name":            {"Style", "Style Name"},
	"item_package_quantity": {"Item Package Quantity", "Number Of Items"},
}

// defaultPriorityThemes es la preferencia de temas cuando ni el request ni
// el historial de la categoría traen una.
var defaultPriorityThemes = []string{
	"COLOR/SIZE",
	"COLOR",
	"SIZE",
	"MATERIAL",
	"STYLE",
	"COLOR/STYLE",
}

// ImportTemplateUseCase parsea un archivo de plantilla de categoría, genera
// la traducción de atributos de variación, resuelve los temas preferidos y
// persiste la plantilla.
type ImportTemplateUseCase struct {
	parser TemplateParser
	repo   repository.TemplateRepository
	log    *logger.Logger
}

// NewImportTemplateUseCase construye el caso de uso.
func NewImportTemplateUseCase(parser TemplateParser, repo repository.TemplateRepository, log *logger.Logger) *ImportTemplateUseCase {
	return &ImportTemplateUseCase{
		parser: parser,
		repo:   repo,
		log:    log.Component("import_template"),
	}
}

// Import procesa el archivo y guarda la plantilla. La preferencia de temas
// resuelve en orden: los del request, los guardados con la última plantilla
// de la categoría, los del sistema.
func (uc *ImportTemplateUseCase) Import(ctx context.Context, in dto.ImportTemplateRequest) (*dto.ImportTemplateResult, error) {
	if strings.TrimSpace(in.CategoryName) == "" || strings.TrimSpace(in.FilePath) == "" {
		return nil, domain.ErrInvalidInput
	}
	categoryName := strings.ToUpper(strings.TrimSpace(in.CategoryName))

	parsed, err := uc.parser.ParseFile(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("parsear plantilla: %w", err)
	}
	if len(parsed.Fields) == 0 || len(parsed.FieldDefinitions) == 0 {
		return nil, domain.ErrInvalidInput
	}

	themes := variationThemes(parsed.ValidValues)
	mapping := GenerateVariationMapping(parsed.Fields, themes)
	priority, err := uc.resolvePriorityThemes(ctx, categoryName, in.PriorityThemes)
	if err != nil {
		return nil, err
	}

	tpl := &entity.CategoryTemplate{
		CategoryName:     categoryName,
		TemplateName:     filepath.Base(in.FilePath),
		Fields:           parsed.Fields,
		FieldDefinitions: parsed.FieldDefinitions,
		ValidValues:      parsed.ValidValues,
		VariationMapping: mapping,
		PriorityThemes:   priority,
		CreatedAt:        time.Now(),
	}

	id, err := uc.repo.Save(ctx, tpl)
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("categoria", categoryName).
		Str("plantilla", tpl.TemplateName).
		Int("campos", len(parsed.Fields)).
		Strs("temas_preferidos", priority).
		Msg("plantilla importada")

	return &dto.ImportTemplateResult{
		TemplateID:      id,
		CategoryName:    categoryName,
		TemplateName:    tpl.TemplateName,
		FieldCount:      len(parsed.Fields),
		VariationThemes: themes,
	}, nil
}

func (uc *ImportTemplateUseCase) resolvePriorityThemes(ctx context.Context, categoryName string, requested []string) ([]string, error) {
	if len(requested) > 0 {
		themes := make([]string, 0, len(requested))
		for _, t := range requested {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				themes = append(themes, strings.ToUpper(trimmed))
			}
		}
		if len(themes) > 0 {
			return themes, nil
		}
	}

	saved, err := uc.repo.LatestPriorityThemes(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if len(saved) > 0 {
		return saved, nil
	}
	return defaultPriorityThemes, nil
}

func variationThemes(groups []entity.VocabularyGroup) []string {
	for _, g := range groups {
		if g.Attribute == entity.VariationThemeAttribute {
			return g.Values
		}
	}
	return nil
}

// GenerateVariationMapping asocia cada clave interna de atributo con la
// columna real de la plantilla. Una columna califica solo si existe en la
// plantilla y además aparece como componente de algún tema de variación
// (los temas compuestos se separan por "/").
func GenerateVariationMapping(templateFields, themes []string) map[string]string {
	themeParts := make(map[string]bool)
	for _, theme := range themes {
		for _, part := range strings.Split(theme, "/") {
			themeParts[strings.ToLower(strings.TrimSpace(part))] = true
		}
	}

	fieldsLower := make(map[string]string, len(templateFields))
	for _, field := range templateFields {
		fieldsLower[strings.ToLower(field)] = field
	}

	mapping := make(map[string]string)
	for internalKey, aliases := range internalAttributeAliases {
		for _, alias := range aliases {
			aliasLower := strings.ToLower(alias)
			if fieldsLower[aliasLower] != "" && themeParts[aliasLower] {
				mapping[internalKey] = fieldsLower[aliasLower]
				break
			}
		}
	}
	return mapping
}
