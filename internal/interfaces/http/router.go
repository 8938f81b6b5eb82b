package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Publicador-api/internal/application/listing"
	"github.com/jhoicas/Publicador-api/internal/application/template"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GenerateListings *listing.GenerateListingsUseCase
	LogQuery         *listing.LogQueryUseCase
	ImportTemplate   *template.ImportTemplateUseCase
	CorrectRules     *template.CorrectRulesUseCase
	TemplateQuery    *template.TemplateQueryUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas las rutas de negocio requieren
// un token de servicio (Bearer).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Publicaciones
	listings := api.Group("/listings")
	listingHandler := NewListingHandler(deps.GenerateListings, deps.LogQuery)
	listings.Post("/generate", listingHandler.Generate)
	listings.Get("/logs/:batch_id", listingHandler.LogsByBatch)

	// Plantillas de categoría
	templates := api.Group("/templates")
	templateHandler := NewTemplateHandler(deps.ImportTemplate, deps.CorrectRules, deps.TemplateQuery)
	templates.Post("/import", templateHandler.Import)
	templates.Post("/correct", templateHandler.Correct)
	templates.Get("/:category", templateHandler.GetByCategory)
}
