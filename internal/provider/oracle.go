package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"meetpoint-api/internal/models"
)

// ChatOracle is the scoring oracle backed by an OpenAI-compatible
// chat-completions endpoint. The pipeline treats it as an untrusted black
// box: whatever text comes back is handed to the recommendation engine's
// defensive parser.
type ChatOracle struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewChatOracle creates a scoring oracle client.
func NewChatOracle(baseURL, apiKey, model string) *ChatOracle {
	return &ChatOracle{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Score sends the place context to the model under the given instruction
// and returns the raw completion text.
func (o *ChatOracle) Score(ctx context.Context, contextText, instruction string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("oracle: rate limiter: %w", models.ErrProviderUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: contextText},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("oracle: marshal request: %w", err)
	}

	endpoint := o.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("oracle: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle: %w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oracle: %w: HTTP %d", models.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("oracle: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("oracle: %w: empty completion", models.ErrProviderUnavailable)
	}
	return payload.Choices[0].Message.Content, nil
}
