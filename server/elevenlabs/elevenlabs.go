package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultVoiceID is "Rachel", used when no voice override is configured.
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID = "eleven_monolingual_v1"

	defaultBaseURL = "https://api.elevenlabs.io"
)

// Synthesizer abstracts the text-to-speech provider, so handlers can be
// tested without network access.
type Synthesizer interface {
	Synthesize(ctx context.Context, voiceID, modelID, text string) ([]byte, error)
}

type ClientWrapper struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *ClientWrapper {
	return &ClientWrapper{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the wrapper at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *ClientWrapper {
	client := NewClient(apiKey)
	client.baseURL = baseURL

	return client
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to mp3 audio with the given voice & model.
func (cw *ClientWrapper) Synthesize(ctx context.Context, voiceID, modelID, text string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: modelID})
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: encode request")
	}

	url := fmt.Sprintf("%v/v1/text-to-speech/%v", cw.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: create request")
	}

	req.Header.Set("xi-api-key", cw.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := cw.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: text-to-speech request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("elevenlabs: text-to-speech returned %v: %s", resp.StatusCode, detail)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "elevenlabs: read audio")
	}

	return audio, nil
}
