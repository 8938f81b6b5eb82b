package listing

import (
	"context"
	"time"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain/entity"
	domlisting "github.com/jhoicas/Publicador-api/internal/domain/listing"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// DefaultTheme es el tema de variación al que degrada el resolutor cuando
// el servicio de generación falla o no devuelve tema.
const DefaultTheme = "Color"

// ThemeResolver determina el tema de variación de una familia y los
// atributos distintivos de cada miembro. Protocolo de dos rondas: una
// asignación inicial y, si las combinaciones de atributos colisionan, una
// única ronda correctiva. Si la corrección tampoco logra unicidad se
// acepta el resultado de la primera ronda con una advertencia; la familia
// nunca se descarta por esto.
type ThemeResolver struct {
	llm         ports.LLMService
	callTimeout time.Duration
	log         *logger.Logger
}

// NewThemeResolver construye el resolutor. callTimeout acota cada llamada
// al servicio de generación por separado.
func NewThemeResolver(llm ports.LLMService, callTimeout time.Duration, log *logger.Logger) *ThemeResolver {
	return &ThemeResolver{
		llm:         llm,
		callTimeout: callTimeout,
		log:         log.Component("theme_resolver"),
	}
}

// Resolve ejecuta el protocolo sobre una familia. Devuelve el tema elegido
// y los atributos por miembro ya formateados (tamaños redondeados a entero).
// Si ambas llamadas fallan devuelve el tema por defecto y atributos vacíos.
func (r *ThemeResolver) Resolve(ctx context.Context, members []*entity.CatalogItem, validThemes, priorityThemes []string) (string, map[string]map[string]string) {
	profiles := buildMemberProfiles(members)
	priority := filterPriorityThemes(priorityThemes, validThemes)

	first := r.call(ctx, ports.ThemeRequest{
		Members:        profiles,
		ValidThemes:    validThemes,
		PriorityThemes: priority,
	})

	unique, dupSig := domlisting.AttributesUnique(first.MemberAttributes)
	if unique {
		return first.Theme, domlisting.FormatAttributes(first.MemberAttributes)
	}
	r.log.Warn().Str("firma", dupSig).Str("tema", first.Theme).Msg("atributos duplicados, ronda correctiva")

	failedTheme := first.Theme
	if failedTheme == "" {
		failedTheme = DefaultTheme
	}

	corrected := r.call(ctx, ports.ThemeRequest{
		Members:        profiles,
		ValidThemes:    validThemes,
		PriorityThemes: priority,
		FailedTheme:    failedTheme,
	})

	if unique, dupSig := domlisting.AttributesUnique(corrected.MemberAttributes); !unique {
		r.log.Error().Str("firma", dupSig).Msg("la corrección sigue duplicada, se acepta la primera ronda")
		corrected = first
	}

	return corrected.Theme, domlisting.FormatAttributes(corrected.MemberAttributes)
}

// call envuelve una llamada al servicio de generación con su timeout y la
// degradación ante fallo: tema fallido (o por defecto) y atributos vacíos.
func (r *ThemeResolver) call(ctx context.Context, req ports.ThemeRequest) *ports.ThemeAssignment {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	assignment, err := r.llm.DetermineVariationTheme(callCtx, req)
	if err != nil || assignment == nil {
		degraded := req.FailedTheme
		if degraded == "" {
			degraded = DefaultTheme
		}
		r.log.Error().Err(err).Str("tema", degraded).Msg("llamada de tema fallida, resultado degradado")
		return &ports.ThemeAssignment{Theme: degraded, MemberAttributes: map[string]map[string]any{}}
	}
	if assignment.Theme == "" {
		assignment.Theme = DefaultTheme
	}
	if assignment.MemberAttributes == nil {
		assignment.MemberAttributes = map[string]map[string]any{}
	}
	return assignment
}

func buildMemberProfiles(members []*entity.CatalogItem) []ports.FamilyMemberProfile {
	profiles := make([]ports.FamilyMemberProfile, 0, len(members))
	for _, item := range members {
		description := item.Description
		if description == "" {
			description, _ = item.RawData["description"].(string)
		}
		attributes, _ := item.RawData["attributes"].(map[string]any)

		dims := make(map[string]any)
		for _, key := range []string{"assembledLength", "assembledWidth", "assembledHeight", "weight"} {
			if v := item.RawData[key]; v != nil {
				dims[key] = v
			}
		}

		profiles = append(profiles, ports.FamilyMemberProfile{
			InternalSKU:         item.InternalSKU,
			Name:                item.ProductName,
			Description:         domlisting.StripHTML(description),
			Attributes:          attributes,
			DimensionsAndWeight: dims,
		})
	}
	return profiles
}

// filterPriorityThemes conserva solo los temas preferidos que existen en el
// vocabulario de temas válidos, en el orden dado.
func filterPriorityThemes(priority, valid []string) []string {
	if len(priority) == 0 {
		return nil
	}
	validSet := make(map[string]bool, len(valid))
	for _, theme := range valid {
		validSet[theme] = true
	}
	var filtered []string
	for _, theme := range priority {
		if validSet[theme] {
			filtered = append(filtered, theme)
		}
	}
	return filtered
}
