package template

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// CorrectRulesUseCase corrige la obligatoriedad de campos de una plantilla
// a partir de un reporte de procesamiento del marketplace: cada campo
// reclamado como obligatorio no provisto pasa a Required para hijos y
// productos sueltos.
type CorrectRulesUseCase struct {
	reports ReportParser
	repo    repository.TemplateRepository
	log     *logger.Logger
}

// NewCorrectRulesUseCase construye el caso de uso.
func NewCorrectRulesUseCase(reports ReportParser, repo repository.TemplateRepository, log *logger.Logger) *CorrectRulesUseCase {
	return &CorrectRulesUseCase{
		reports: reports,
		repo:    repo,
		log:     log.Component("correct_rules"),
	}
}

// CorrectFromReport devuelve los campos efectivamente corregidos, en orden
// estable. Una lista vacía significa que no había nada que corregir.
func (uc *CorrectRulesUseCase) CorrectFromReport(ctx context.Context, categoryName, reportPath string) ([]string, error) {
	if strings.TrimSpace(categoryName) == "" || strings.TrimSpace(reportPath) == "" {
		return nil, domain.ErrInvalidInput
	}
	categoryName = strings.ToUpper(strings.TrimSpace(categoryName))

	requiredFields, err := uc.reports.RequiredFields(reportPath)
	if err != nil {
		return nil, fmt.Errorf("parsear reporte: %w", err)
	}
	if len(requiredFields) == 0 {
		uc.log.Info().Str("categoria", categoryName).Msg("el reporte no trae faltantes de obligatorios")
		return nil, nil
	}

	tpl, err := uc.repo.FindLatestByCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrTemplateNotFound
	}

	// Las etiquetas locales del reporte se traducen a claves de definición.
	labelToKey := make(map[string]string, len(tpl.FieldDefinitions))
	for key, def := range tpl.FieldDefinitions {
		if def.LocalLabel != "" {
			labelToKey[def.LocalLabel] = key
		}
	}

	var corrected []string
	for _, label := range requiredFields {
		key, ok := labelToKey[label]
		if !ok {
			uc.log.Warn().Str("campo", label).Msg("etiqueta del reporte sin definición en la plantilla")
			continue
		}
		def := tpl.FieldDefinitions[key]
		if def.RequiredChild == "Required" && def.RequiredSingle == "Required" {
			continue
		}
		def.RequiredChild = "Required"
		def.RequiredSingle = "Required"
		tpl.FieldDefinitions[key] = def
		corrected = append(corrected, label)
	}

	if len(corrected) == 0 {
		return nil, nil
	}
	sort.Strings(corrected)

	if err := uc.repo.UpdateFieldDefinitions(ctx, tpl.ID, tpl.FieldDefinitions); err != nil {
		return nil, err
	}

	uc.log.Info().Str("categoria", categoryName).Strs("campos", corrected).Msg("reglas de obligatoriedad corregidas")
	return corrected, nil
}
