package ai

import (
	"fmt"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/pkg/config"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

// NewLLMService construye el servicio de generación según el proveedor
// configurado. Endpoint sobreescribe la base por defecto del proveedor.
func NewLLMService(cfg config.LLMConfig, log *logger.Logger) (ports.LLMService, error) {
	baseURL := cfg.Endpoint
	model := cfg.Model

	switch cfg.Provider {
	case "", "deepseek":
		if baseURL == "" {
			baseURL = deepseekBaseURL
		}
		if model == "" {
			model = "deepseek-chat"
		}
	case "qwen":
		if baseURL == "" {
			baseURL = qwenBaseURL
		}
		if model == "" {
			model = "qwen-plus-latest"
		}
	default:
		return nil, fmt.Errorf("proveedor LLM desconocido: %q", cfg.Provider)
	}

	client := NewChatClient(baseURL, cfg.APIKey, model, cfg.CallTimeout)
	return NewChatCompletionService(client, log), nil
}
