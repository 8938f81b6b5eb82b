package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Publicador-api/internal/application/dto"
	"github.com/jhoicas/Publicador-api/internal/application/listing"
	"github.com/jhoicas/Publicador-api/internal/domain"
)

// ListingHandler maneja las peticiones HTTP del pipeline de publicaciones (protegido).
type ListingHandler struct {
	generate *listing.GenerateListingsUseCase
	logs     *listing.LogQueryUseCase
}

// NewListingHandler construye el handler.
func NewListingHandler(generate *listing.GenerateListingsUseCase, logs *listing.LogQueryUseCase) *ListingHandler {
	return &ListingHandler{generate: generate, logs: logs}
}

// Generate godoc
// @Summary      Generar lote de publicaciones para una categoría
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateListingsRequest  true  "Categoría y opciones del lote"
// @Success      201   {object}  dto.GenerateListingsResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/listings/generate [post]
func (h *ListingHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateListingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category es requerido"})
	}

	out, err := h.generate.Generate(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TEMPLATE_NOT_FOUND", Message: "la categoría no tiene plantilla registrada"})
		case errors.Is(err, domain.ErrNoPendingItems):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_PENDING_ITEMS", Message: "no hay productos pendientes para la categoría"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando el lote"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LogsByBatch godoc
// @Summary      Consultar el log de asignación de un lote
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        batch_id  path  string  true  "ID del lote (UUID)"
// @Success      200  {array}   dto.ListingLogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/listings/logs/{batch_id} [get]
func (h *ListingHandler) LogsByBatch(c *fiber.Ctx) error {
	out, err := h.logs.ByBatch(c.UserContext(), c.Params("batch_id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id debe ser un UUID"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error consultando el log"})
	}
	return c.JSON(out)
}
