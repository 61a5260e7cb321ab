// Package llm wraps the Gemini embedding API. The engine only needs
// fixed-dimensionality vectors whose cosine similarity tracks semantic
// similarity; everything else about the model is opaque here.
package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultEmbeddingModel is used when the config does not name one.
	DefaultEmbeddingModel = "text-embedding-004"

	// EmbeddingDimensions is the output dimensionality of the default model.
	EmbeddingDimensions = 768
)

// Client talks to the Gemini API for embedding generation.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. The same model must be used for every
// embedding within one run; vectors from different models are not comparable.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Model returns the embedding model name in use.
func (c *Client) Model() string {
	return c.model
}

// Embed generates an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	em := c.client.EmbeddingModel(c.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding values returned from API")
	}

	values := resp.Embedding.Values
	embedding := make([]float64, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}

	return embedding, nil
}
