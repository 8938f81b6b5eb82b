package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Publicador-api/internal/application/ports"
	"github.com/jhoicas/Publicador-api/internal/domain"
	"github.com/jhoicas/Publicador-api/pkg/logger"
)

func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestEnrichProductAttributes(t *testing.T) {
	srv := chatServer(t, `{"Color": "White", "Bullet Points": ["a", "b"]}`, http.StatusOK)
	defer srv.Close()

	svc := NewChatCompletionService(NewChatClient(srv.URL, "test-key", "deepseek-chat", time.Second), logger.Nop())

	result, err := svc.EnrichProductAttributes(context.Background(), ports.ProductProfile{Name: "Cabinet"}, []ports.EnrichmentTask{
		{FieldName: "Color", Description: "color principal"},
	})
	require.NoError(t, err)
	assert.Equal(t, "White", result["Color"])
}

func TestEnrichProductAttributes_RespuestaNoJSON(t *testing.T) {
	srv := chatServer(t, "lo siento, no puedo", http.StatusOK)
	defer srv.Close()

	svc := NewChatCompletionService(NewChatClient(srv.URL, "test-key", "deepseek-chat", time.Second), logger.Nop())

	_, err := svc.EnrichProductAttributes(context.Background(), ports.ProductProfile{}, nil)
	assert.ErrorIs(t, err, domain.ErrGenerationCall, "respuesta malformada debe mapear al error de generación")
}

func TestDetermineVariationTheme_ConCercoMarkdown(t *testing.T) {
	content := "```json\n{\"variation_theme\": \"Color\", \"child_attributes\": {\"INT-A\": {\"color_name\": \"White\"}}}\n```"
	srv := chatServer(t, content, http.StatusOK)
	defer srv.Close()

	svc := NewChatCompletionService(NewChatClient(srv.URL, "test-key", "deepseek-chat", time.Second), logger.Nop())

	assignment, err := svc.DetermineVariationTheme(context.Background(), ports.ThemeRequest{
		ValidThemes: []string{"Color"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Color", assignment.Theme)
	assert.Equal(t, "White", assignment.MemberAttributes["INT-A"]["color_name"])
}

func TestGenerate_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "rate limited", "type": "rate_limit"}})
	}))
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", "deepseek-chat", time.Second)
	_, err := client.Generate(context.Background(), "sys", "user", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerate_SinAPIKey(t *testing.T) {
	client := NewChatClient("http://localhost:0", "", "deepseek-chat", time.Second)
	_, err := client.Generate(context.Background(), "sys", "user", false)
	assert.Error(t, err)
}
