package template

import (
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
)

// ParsedTemplate es el resultado crudo de parsear un archivo de plantilla:
// columnas, definiciones de campo y vocabularios controlados, sin la
// traducción de variación ni los temas preferidos (los calcula el caso de uso).
type ParsedTemplate struct {
	Fields           []string
	FieldDefinitions map[string]entity.FieldDefinition
	ValidValues      []entity.VocabularyGroup
}

// TemplateParser define el puerto de entrada de plantillas de marketplace.
type TemplateParser interface {
	// ParseFile parsea el archivo de plantilla en la ruta dada.
	ParseFile(path string) (*ParsedTemplate, error)
}

// ReportParser extrae de un reporte de errores del marketplace los campos
// reclamados como obligatorios no provistos.
type ReportParser interface {
	RequiredFields(path string) ([]string, error)
}
