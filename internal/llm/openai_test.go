package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClient(t *testing.T) {
	_, err := NewOpenAIClient(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := NewOpenAIClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, c.model)
	assert.Equal(t, defaultOpenAIURL, c.baseURL)
}

func TestNew_Provider(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = New(context.Background(), Config{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Provider: ProviderGemini})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatRequest
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  population of France  "}}]}`))
	})

	out, err := c.Complete(context.Background(), "rephrase this")
	require.NoError(t, err)
	assert.Equal(t, "population of France", out)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "rephrase this", got.Messages[0].Content)
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIClient_CompleteJSON(t *testing.T) {
	var got chatRequest
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("{\"choices\":[{\"message\":{\"content\":\"```json\\n{\\\"claims\\\":[]}\\n```\"}}]}"))
	})

	out, err := c.CompleteJSON(context.Background(), "find claims")
	require.NoError(t, err)
	assert.Equal(t, `{"claims":[]}`, out)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, "bad key"},
		{"plain error", http.StatusBadGateway, `upstream down`, "status 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no completion choices"},
		{"bad json", http.StatusOK, `{`, "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Complete(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIClient_CancelledContext(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "x")
	assert.Error(t, err)
}
