// Package ollama embeds search text through a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultModel = "nomic-embed-text"
	DefaultURL   = "http://localhost:11434"
)

// Client embeds text with one model
type Client struct {
	api   *api.Client
	model string
}

// NewClient returns a client for the server at rawURL
func NewClient(rawURL, model string) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", rawURL, err)
	}
	return &Client{
		api:   api.NewClient(base, &http.Client{Timeout: 30 * time.Second}),
		model: model,
	}, nil
}

// Available reports whether the server answers within two seconds
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.api.Heartbeat(ctx) == nil
}

// Embed returns the embedding of text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	resp, err := c.api.Embed(ctx, &api.EmbedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return resp.Embeddings[0], nil
}

// CheckModel fails when the model has not been pulled
func (c *Client) CheckModel(ctx context.Context) error {
	list, err := c.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	for _, m := range list.Models {
		if m.Name == c.model || m.Model == c.model {
			return nil
		}
	}
	return fmt.Errorf("model '%s' not found - run: ollama pull %s", c.model, c.model)
}

// Model returns the embedding model name
func (c *Client) Model() string {
	return c.model
}
