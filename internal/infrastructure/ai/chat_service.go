package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// Verificar en tiempo de compilación que ChatCompletionService implementa LLMService.
var _ ports.LLMService = (*ChatCompletionService)(nil)

// ChatCompletionService adaptador que implementa LLMService sobre un
// ChatClient compatible con OpenAI (DeepSeek, Qwen). Serializa los
// payloads del puerto tal cual y exige JSON puro de vuelta.
type ChatCompletionService struct {
	client *ChatClient
	log    *logger.Logger
}

// NewChatCompletionService construye el adaptador.
func NewChatCompletionService(client *ChatClient, log *logger.Logger) *ChatCompletionService {
	return &ChatCompletionService{
		client: client,
		log:    log.Component("llm"),
	}
}

// EnrichProductAttributes resuelve las tareas delegadas de un producto.
func (s *ChatCompletionService) EnrichProductAttributes(ctx context.Context, profile ports.ProductProfile, tasks []ports.EnrichmentTask) (map[string]any, error) {
	userContent, err := json.Marshal(struct {
		ProductProfile ports.ProductProfile   `json:"product_profile"`
		Tasks          []ports.EnrichmentTask `json:"tasks"`
	}{profile, tasks})
	if err != nil {
		return nil, fmt.Errorf("serializar perfil: %w", err)
	}

	content, err := s.client.Generate(ctx, enrichmentPrompt, string(userContent), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationCall, err)
	}

	var enriched map[string]any
	if err := json.Unmarshal([]byte(extractJSON(content)), &enriched); err != nil {
		s.log.Error().Err(err).Str("contenido", truncate(content, 200)).Msg("respuesta de enriquecimiento no es JSON")
		return nil, fmt.Errorf("%w: respuesta no es JSON", domain.ErrGenerationCall)
	}

	s.log.Debug().Int("campos", len(enriched)).Msg("enriquecimiento completado")
	return enriched, nil
}

// DetermineVariationTheme elige el tema de variación de una familia. Con
// FailedTheme presente usa el prompt correctivo.
func (s *ChatCompletionService) DetermineVariationTheme(ctx context.Context, req ports.ThemeRequest) (*ports.ThemeAssignment, error) {
	userContent, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("serializar familia: %w", err)
	}

	systemPrompt := themePrompt
	if req.FailedTheme != "" {
		systemPrompt = themeCorrectionPrompt
	}

	content, err := s.client.Generate(ctx, systemPrompt, string(userContent), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationCall, err)
	}

	var assignment ports.ThemeAssignment
	if err := json.Unmarshal([]byte(extractJSON(content)), &assignment); err != nil {
		s.log.Error().Err(err).Str("contenido", truncate(content, 200)).Msg("respuesta de tema no es JSON")
		return nil, fmt.Errorf("%w: respuesta no es JSON", domain.ErrGenerationCall)
	}

	s.log.Debug().Str("tema", assignment.Theme).Int("miembros", len(assignment.MemberAttributes)).Msg("tema determinado")
	return &assignment, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
