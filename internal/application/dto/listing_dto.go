package dto

import "time"

// GenerateListingsRequest parámetros para generar un lote de publicaciones.
type GenerateListingsRequest struct {
	Category       string   `json:"category"`
	PriorityThemes []string `json:"priority_themes,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// GenerateListingsResult resumen del lote generado.
type GenerateListingsResult struct {
	BatchID         string   `json:"batch_id"`
	Category        string   `json:"category"`
	TemplateName    string   `json:"template_name"`
	TotalRows       int      `json:"total_rows"`
	FamilyCount     int      `json:"family_count"`
	StandaloneCount int      `json:"standalone_count"`
	SkippedSKUs     []string `json:"skipped_skus,omitempty"`
	OutputFile      string   `json:"output_file"`
}

// ImportTemplateRequest parámetros para importar una plantilla de categoría.
type ImportTemplateRequest struct {
	CategoryName   string   `json:"category_name"`
	FilePath       string   `json:"file_path"`
	PriorityThemes []string `json:"priority_themes,omitempty"`
}

// ImportTemplateResult resumen de la plantilla importada.
type ImportTemplateResult struct {
	TemplateID      int64    `json:"template_id"`
	CategoryName    string   `json:"category_name"`
	TemplateName    string   `json:"template_name"`
	FieldCount      int      `json:"field_count"`
	VariationThemes []string `json:"variation_themes"`
}

// CorrectRulesRequest parámetros para corregir reglas desde un reporte de errores.
type CorrectRulesRequest struct {
	CategoryName string `json:"category_name"`
	ReportPath   string `json:"report_path"`
}

// CorrectRulesResult campos marcados como obligatorios tras la corrección.
type CorrectRulesResult struct {
	CategoryName    string   `json:"category_name"`
	CorrectedFields []string `json:"corrected_fields"`
}

// TemplateResponse vista de una plantilla guardada.
type TemplateResponse struct {
	ID              int64     `json:"id"`
	CategoryName    string    `json:"category_name"`
	TemplateName    string    `json:"template_name"`
	FieldCount      int       `json:"field_count"`
	VariationThemes []string  `json:"variation_themes"`
	PriorityThemes  []string  `json:"priority_themes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListingLogResponse registro de asignación SKU a familia.
type ListingLogResponse struct {
	InternalSKU string            `json:"internal_sku"`
	ParentSKU   string            `json:"parent_sku"`
	Theme       string            `json:"variation_theme,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Status      string            `json:"status"`
	BatchID     string            `json:"batch_id"`
}
