package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Price guidance is advisory only: nothing here ever touches cart or
// order data, and every failure is safe to surface and ignore.

var (
	ErrNotConfigured = errors.New("price insights gateway is not configured")
	ErrRateLimited   = errors.New("insights rate limit exceeded, try again later")
	ErrQuotaExceeded = errors.New("insights credits exhausted")
)

// Client talks to an OpenAI-compatible chat-completions gateway.
type Client struct {
	gatewayURL string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(gatewayURL, apiKey, model string) *Client {
	return &Client{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type Request struct {
	Crop         string  `json:"crop"`
	CurrentPrice float64 `json:"currentPrice"`
	Unit         string  `json:"unit"`
}

type ForecastPoint struct {
	Month string  `json:"month"`
	Price float64 `json:"price"`
	Trend string  `json:"trend"`
}

type Insights struct {
	Forecast       []ForecastPoint `json:"forecast"`
	Factors        []string        `json:"factors"`
	Recommendation string          `json:"recommendation"`
	Reasoning      string          `json:"reasoning"`
	Confidence     string          `json:"confidence"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You are an agricultural market analyst. Analyze crop prices and provide market insights as JSON with fields: forecast (6 entries of {month, price, trend: up|down|stable}), factors (string array), recommendation (sell|hold|wait), reasoning, confidence (high|medium|low). Respond with JSON only.`

// PriceInsights asks the gateway for a six month outlook on a crop.
func (c *Client) PriceInsights(ctx context.Context, req Request) (Insights, error) {
	if c.gatewayURL == "" || c.apiKey == "" {
		return Insights{}, ErrNotConfigured
	}

	body := chatRequest{Model: c.model}
	body.ResponseFormat.Type = "json_object"
	body.Messages = []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Analyze the market for %s currently priced at %.2f per %s. Provide a 6-month price forecast, key market factors, and a recommendation for the farmer.",
			req.Crop, req.CurrentPrice, req.Unit)},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Insights{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/v1/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return Insights{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Insights{}, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return Insights{}, ErrRateLimited
	case http.StatusPaymentRequired:
		return Insights{}, ErrQuotaExceeded
	default:
		return Insights{}, fmt.Errorf("insights gateway returned status %d", res.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Insights{}, err
	}
	if len(parsed.Choices) == 0 {
		return Insights{}, errors.New("insights gateway returned no choices")
	}

	var out Insights
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &out); err != nil {
		return Insights{}, fmt.Errorf("could not parse insights payload: %w", err)
	}
	return out, nil
}
