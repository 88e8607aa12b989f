package gemini

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash-exp"

// TextGenerator abstracts the generative model, so handlers can be
// tested without network access.
type TextGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	client *genai.Client
	model  string
}

// NewClient configures the underlying genai client once; requests reuse it.
func NewClient(apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gemini: create client")
	}

	return &Client{client: client, model: model}, nil
}

// GenerateReply submits the prompt as a single-turn conversation and
// returns the concatenated text of the first candidate. An empty string
// with a nil error means the model produced no usable text; callers
// decide what to substitute.
func (c *Client) GenerateReply(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "gemini: generate content")
	}

	return resp.Text(), nil
}
