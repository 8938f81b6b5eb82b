package repository

import (
	"context"

	"github.com/jhoicas/Publicador-api/internal/domain/entity"
)

// TemplateRepository define el puerto de persistencia de plantillas de categoría (DIP).
type TemplateRepository interface {
	// Save persiste una plantilla parseada y devuelve su ID.
	Save(ctx context.Context, tpl *entity.CategoryTemplate) (int64, error)

	// FindLatestByCategory devuelve la plantilla más reciente de la categoría,
	// o nil si la categoría no tiene ninguna registrada.
	FindLatestByCategory(ctx context.Context, categoryName string) (*entity.CategoryTemplate, error)

	// LatestPriorityThemes devuelve los temas preferidos guardados con la última
	// plantilla de la categoría, o nil si no hay historial.
	LatestPriorityThemes(ctx context.Context, categoryName string) ([]string, error)

	// UpdateFieldDefinitions reemplaza las definiciones de campo de una
	// plantilla ya guardada. Lo usa la corrección de reglas por reporte.
	UpdateFieldDefinitions(ctx context.Context, templateID int64, defs map[string]entity.FieldDefinition) error
}
