package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

// TemplateRepo implementación de TemplateRepository sobre PostgreSQL.
// Las plantillas se versionan por inserción: la vigente es la de mayor id.
type TemplateRepo struct {
	q Querier
}

// NewTemplateRepository construye el adaptador de plantillas. Pasar pool o tx (Querier).
func NewTemplateRepository(q Querier) *TemplateRepo {
	return &TemplateRepo{q: q}
}

// Save persiste una plantilla parseada y devuelve el id de la nueva versión.
func (r *TemplateRepo) Save(ctx context.Context, tpl *entity.CategoryTemplate) (int64, error) {
	fieldsJSON, err := json.Marshal(tpl.Fields)
	if err != nil {
		return 0, fmt.Errorf("serializar fields: %w", err)
	}
	defsJSON, err := json.Marshal(tpl.FieldDefinitions)
	if err != nil {
		return 0, fmt.Errorf("serializar field_definitions: %w", err)
	}
	validJSON, err := json.Marshal(tpl.ValidValues)
	if err != nil {
		return 0, fmt.Errorf("serializar valid_values: %w", err)
	}
	mappingJSON, err := json.Marshal(tpl.VariationMapping)
	if err != nil {
		return 0, fmt.Errorf("serializar variation_mapping: %w", err)
	}
	themesJSON, err := json.Marshal(tpl.PriorityThemes)
	if err != nil {
		return 0, fmt.Errorf("serializar priority_themes: %w", err)
	}

	query := `
		INSERT INTO category_templates
			(category, template_name, fields, field_definitions, valid_values, variation_mapping, priority_themes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`
	var id int64
	err = r.q.QueryRow(ctx, query,
		tpl.CategoryName, tpl.TemplateName,
		fieldsJSON, defsJSON, validJSON, mappingJSON, themesJSON,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert template: %w", err)
	}
	return id, nil
}

// FindLatestByCategory devuelve la versión más reciente de la plantilla de
// la categoría, o nil si la categoría no tiene ninguna registrada.
func (r *TemplateRepo) FindLatestByCategory(ctx context.Context, categoryName string) (*entity.CategoryTemplate, error) {
	query := `
		SELECT id, category, template_name, fields, field_definitions, valid_values, variation_mapping, priority_themes, created_at
		FROM category_templates
		WHERE LOWER(category) = LOWER($1)
		ORDER BY id DESC
		LIMIT 1`

	var (
		tpl         entity.CategoryTemplate
		fieldsJSON  []byte
		defsJSON    []byte
		validJSON   []byte
		mappingJSON []byte
		themesJSON  []byte
	)
	err := r.q.QueryRow(ctx, query, categoryName).Scan(
		&tpl.ID, &tpl.CategoryName, &tpl.TemplateName,
		&fieldsJSON, &defsJSON, &validJSON, &mappingJSON, &themesJSON,
		&tpl.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select template %s: %w", categoryName, err)
	}

	if err := json.Unmarshal(fieldsJSON, &tpl.Fields); err != nil {
		return nil, fmt.Errorf("decodificar fields de plantilla %d: %w", tpl.ID, err)
	}
	if err := json.Unmarshal(defsJSON, &tpl.FieldDefinitions); err != nil {
		return nil, fmt.Errorf("decodificar field_definitions de plantilla %d: %w", tpl.ID, err)
	}
	if err := json.Unmarshal(validJSON, &tpl.ValidValues); err != nil {
		return nil, fmt.Errorf("decodificar valid_values de plantilla %d: %w", tpl.ID, err)
	}
	if err := json.Unmarshal(mappingJSON, &tpl.VariationMapping); err != nil {
		return nil, fmt.Errorf("decodificar variation_mapping de plantilla %d: %w", tpl.ID, err)
	}
	if err := json.Unmarshal(themesJSON, &tpl.PriorityThemes); err != nil {
		return nil, fmt.Errorf("decodificar priority_themes de plantilla %d: %w", tpl.ID, err)
	}
	return &tpl, nil
}

// LatestPriorityThemes devuelve los temas preferidos guardados con la última
// versión de la categoría, o nil si no hay historial o está vacío.
func (r *TemplateRepo) LatestPriorityThemes(ctx context.Context, categoryName string) ([]string, error) {
	query := `
		SELECT priority_themes
		FROM category_templates
		WHERE LOWER(category) = LOWER($1)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	var themesJSON []byte
	err := r.q.QueryRow(ctx, query, categoryName).Scan(&themesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select priority themes %s: %w", categoryName, err)
	}
	var themes []string
	if err := json.Unmarshal(themesJSON, &themes); err != nil {
		return nil, fmt.Errorf("decodificar priority_themes de %s: %w", categoryName, err)
	}
	if len(themes) == 0 {
		return nil, nil
	}
	return themes, nil
}

// UpdateFieldDefinitions reemplaza las definiciones de campo de una versión
// ya guardada. Lo usa la corrección de reglas por reporte de errores.
func (r *TemplateRepo) UpdateFieldDefinitions(ctx context.Context, templateID int64, defs map[string]entity.FieldDefinition) error {
	defsJSON, err := json.Marshal(defs)
	if err != nil {
		return fmt.Errorf("serializar field_definitions: %w", err)
	}
	query := `UPDATE category_templates SET field_definitions = $1 WHERE id = $2`
	tag, err := r.q.Exec(ctx, query, defsJSON, templateID)
	if err != nil {
		return fmt.Errorf("update field definitions %d: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plantilla %d: %w", templateID, domain.ErrNotFound)
	}
	return nil
}
