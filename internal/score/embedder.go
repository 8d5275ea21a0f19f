package score

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	embedRetries = 3
	embedBackoff = 500 * time.Millisecond
)

// OpenAIEmbedder obtains embeddings from an OpenAI-compatible API. The client
// is created once and reused for every grading call.
type OpenAIEmbedder struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIEmbedder creates an embedder against an OpenAI-compatible endpoint.
// baseURL may be empty for the default OpenAI endpoint. timeout bounds one
// Embed call including its retries; zero disables the bound.
func NewOpenAIEmbedder(baseURL, apiKey, modelName string, timeout time.Duration) *OpenAIEmbedder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		timeout: timeout,
	}
}

// Embed requests one vector per input text, in input order. The request is
// the only network call in the grading pipeline, so it retries a few times
// with doubling backoff before giving up. A timed-out call fails like any
// other embedding error; it never degrades to a default score.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var vecs [][]float32
	err := withRetry(ctx, embedRetries, embedBackoff, func() error {
		resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return fmt.Errorf("embeddings API call: %w", err)
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("embeddings API returned %d vectors for %d texts", len(resp.Data), len(texts))
		}
		vecs = make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			vecs[i] = d.Embedding
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}

// Ping verifies the embedding endpoint responds before grading starts.
func (e *OpenAIEmbedder) Ping(ctx context.Context) error {
	_, err := e.Embed(ctx, []string{"ping"})
	return err
}

// withRetry runs fn up to attempts times, sleeping with doubling backoff
// between failures. Context cancellation aborts the wait.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		slog.Warn("embedding call failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
