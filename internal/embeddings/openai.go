package embeddings

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/moodstream/hub/internal/recerrors"
)

// ErrEmptyText is returned when CreateEmbedding is called with empty input.
var ErrEmptyText = errors.New("embeddings: text is empty")

// OpenAIClient generates embeddings via the OpenAI embeddings API.
// Uses text-embedding-3-small (1536 dimensions) by default.
type OpenAIClient struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates an OpenAI embedding client.
// Panics if apiKey is empty; the composition root decides whether embeddings are enabled.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	if apiKey == "" {
		panic("embeddings: OpenAI API key cannot be empty")
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  openai.SmallEmbedding3,
	}
}

// NewOpenAIClientWithModel creates an OpenAI embedding client with a custom model.
func NewOpenAIClientWithModel(apiKey string, model openai.EmbeddingModel) *OpenAIClient {
	c := NewOpenAIClient(apiKey)
	c.model = model

	return c
}

// CreateEmbedding returns the embedding vector for the given text.
// API failures are wrapped in recerrors.ProviderError; no retries are attempted here.
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, recerrors.NewProviderError("create embedding", err)
	}

	if len(resp.Data) == 0 {
		return nil, recerrors.NewProviderError("no embedding returned from API", nil)
	}

	return resp.Data[0].Embedding, nil
}
