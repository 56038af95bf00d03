package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusOK)
		case "/api/embed":
			var req struct {
				Model string `json:"model"`
				Input string `json:"input"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"model":      req.Model,
				"embeddings": [][]float32{{0.1, 0.2, 0.3}},
			})
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"models": []map[string]string{{"name": "nomic-embed-text", "model": "nomic-embed-text"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())

	_, err = NewClient("://bad", "m")
	assert.Error(t, err)
}

func TestEmbed(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	vec, err := c.Embed(context.Background(), "email address")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)

	_, err = c.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestAvailable(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)
	assert.True(t, c.Available(context.Background()))

	down, err := NewClient("http://127.0.0.1:1", "")
	require.NoError(t, err)
	assert.False(t, down.Available(context.Background()))
}

func TestCheckModel(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)
	assert.NoError(t, c.CheckModel(context.Background()))

	missing, err := NewClient(srv.URL, "other-model")
	require.NoError(t, err)
	assert.ErrorContains(t, missing.CheckModel(context.Background()), "ollama pull other-model")
}
