package embedding

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_EmbedNormalizes(t *testing.T) {
	var got ollamaEmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vec, err := p.Embed(context.Background(), "frais de scolarité")
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", got.Model)
	assert.Equal(t, "frais de scolarité", got.Prompt)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
	assert.Equal(t, 768, p.Dimensions())
}

func TestOllamaProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusInternalServerError, body: `model not found`},
		{name: "error field", status: http.StatusOK, body: `{"error":"model not loaded"}`},
		{name: "empty vector", status: http.StatusOK, body: `{"embedding":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "m").Embed(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestNormalizeVector_ZeroStaysZero(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))
}
