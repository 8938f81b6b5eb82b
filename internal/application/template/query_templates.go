package template

import (
	"context"
	"strings"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

// TemplateQueryUseCase consultas de solo lectura sobre plantillas guardadas.
type TemplateQueryUseCase struct {
	repo repository.TemplateRepository
}

// NewTemplateQueryUseCase construye el caso de uso de consulta.
func NewTemplateQueryUseCase(repo repository.TemplateRepository) *TemplateQueryUseCase {
	return &TemplateQueryUseCase{repo: repo}
}

// ByCategory devuelve la vista de la plantilla vigente de la categoría.
func (uc *TemplateQueryUseCase) ByCategory(ctx context.Context, categoryName string) (*dto.TemplateResponse, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, domain.ErrInvalidInput
	}
	tpl, err := uc.repo.FindLatestByCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrTemplateNotFound
	}
	return &dto.TemplateResponse{
		ID:              tpl.ID,
		CategoryName:    tpl.CategoryName,
		TemplateName:    tpl.TemplateName,
		FieldCount:      len(tpl.Fields),
		VariationThemes: tpl.VariationThemes(),
		PriorityThemes:  tpl.PriorityThemes,
		CreatedAt:       tpl.CreatedAt,
	}, nil
}
