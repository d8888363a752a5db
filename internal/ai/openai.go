package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// ChatRequest is a single system+user chat completion.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Client is the subset of the OpenAI API the generator needs.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// ClientFactory builds a Client for an API key. Keys can come from the
// stored settings per request, so clients are created on demand.
type ClientFactory func(apiKey string) Client

type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client with the SDK's own retries disabled;
// retries are handled by the caller's policy.
func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &OpenAIClient{client: openai.NewClient(append(base, opts...)...)}
}

func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	response, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return response.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  prompt,
		Model:   openai.ImageModelDallE3,
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		return "", fmt.Errorf("openai image request failed: %w", err)
	}
	if len(response.Data) == 0 || response.Data[0].URL == "" {
		return "", errors.New("no image returned from openai")
	}
	return response.Data[0].URL, nil
}

func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai list models failed: %w", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// StatusError is an API failure carrying an HTTP status, for clients other
// than the OpenAI SDK.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// StatusCode extracts the HTTP status from err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// IsRetryable reports whether err is a rate limit or server-side failure.
func IsRetryable(err error) bool {
	code := StatusCode(err)
	return code == 429 || code >= 500
}

func filterChatModels(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.Contains(id, "gpt") {
			out = append(out, id)
		}
	}
	return out
}
