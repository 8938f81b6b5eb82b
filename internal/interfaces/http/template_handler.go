package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/application/template"
	"github.com/jhoicas/Publicador-api/internal/domain"
)

// TemplateHandler maneja las peticiones HTTP de plantillas de categoría (protegido).
type TemplateHandler struct {
	importUC  *template.ImportTemplateUseCase
	correctUC *template.CorrectRulesUseCase
	queryUC   *template.TemplateQueryUseCase
}

// NewTemplateHandler construye el handler.
func NewTemplateHandler(importUC *template.ImportTemplateUseCase, correctUC *template.CorrectRulesUseCase, queryUC *template.TemplateQueryUseCase) *TemplateHandler {
	return &TemplateHandler{importUC: importUC, correctUC: correctUC, queryUC: queryUC}
}

// Import godoc
// @Summary      Importar una plantilla de categoría desde un archivo
// @Tags         templates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportTemplateRequest  true  "Categoría y ruta del archivo"
// @Success      201   {object}  dto.ImportTemplateResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/templates/import [post]
func (h *TemplateHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.importUC.Import(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category_name y file_path son requeridos y el archivo debe ser una plantilla válida"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la plantilla ya fue importada para esta categoría"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error importando la plantilla"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Correct godoc
// @Summary      Corregir reglas de obligatoriedad desde un reporte de errores
// @Tags         templates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CorrectRulesRequest  true  "Categoría y ruta del reporte"
// @Success      200   {object}  dto.CorrectRulesResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/templates/correct [post]
func (h *TemplateHandler) Correct(c *fiber.Ctx) error {
	var in dto.CorrectRulesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	corrected, err := h.correctUC.CorrectFromReport(c.UserContext(), in.CategoryName, in.ReportPath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category_name y report_path son requeridos"})
		case errors.Is(err, domain.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TEMPLATE_NOT_FOUND", Message: "la categoría no tiene plantilla registrada"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error corrigiendo las reglas"})
		}
	}
	return c.JSON(dto.CorrectRulesResult{CategoryName: in.CategoryName, CorrectedFields: corrected})
}

// GetByCategory godoc
// @Summary      Consultar la plantilla vigente de una categoría
// @Tags         templates
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "Nombre de la categoría"
// @Success      200  {object}  dto.TemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/templates/{category} [get]
func (h *TemplateHandler) GetByCategory(c *fiber.Ctx) error {
	out, err := h.queryUC.ByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category es requerido"})
		case errors.Is(err, domain.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TEMPLATE_NOT_FOUND", Message: "la categoría no tiene plantilla registrada"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error consultando la plantilla"})
		}
	}
	return c.JSON(out)
}
