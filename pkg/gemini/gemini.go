package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type geminiImpl struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// newGeminiImpl creates a new Gemini implementation
func newGeminiImpl(cfg Config) *geminiImpl {
	return &geminiImpl{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     cfg.APIURL,
		httpClient: cfg.HTTPClient,
	}
}

// GenerateContent sends a generation request to Gemini API
func (g *geminiImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiResp, err := g.callAPI(ctx, transformRequest(req))
	if err != nil {
		return nil, err
	}
	return transformResponse(geminiResp), nil
}

// Model returns the model being used
func (g *geminiImpl) Model() string {
	return g.model
}

func (g *geminiImpl) StartChat(cfg ChatConfig) *Chat {
	return &Chat{client: g, cfg: cfg}
}

// callAPI sends a request to the Gemini API
func (g *geminiImpl) callAPI(ctx context.Context, req geminiRequest) (*geminiResponse, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.apiURL, g.model)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}

	return &result, nil
}

// transformRequest converts request to Gemini API format
func transformRequest(req *Request) geminiRequest {
	geminiReq := geminiRequest{
		Contents: make([]geminiContent, len(req.Messages)),
	}

	if req.SystemInstruction != nil {
		geminiReq.SystemInstruction = &geminiContent{
			Parts: transformParts(req.SystemInstruction.Parts),
		}
	}

	for i, msg := range req.Messages {
		geminiReq.Contents[i] = geminiContent{
			Role:  msg.Role,
			Parts: transformParts(msg.Parts),
		}
	}

	if req.Temperature > 0 || req.MaxTokens > 0 {
		geminiReq.GenerationConfig = &geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	return geminiReq
}

func transformParts(parts []Part) []geminiPart {
	geminiParts := make([]geminiPart, len(parts))
	for i, part := range parts {
		geminiParts[i] = geminiPart{Text: part.Text}
		if part.InlineData != nil {
			geminiParts[i].InlineData = &geminiBlob{
				MimeType: part.InlineData.MimeType,
				Data:     part.InlineData.Data,
			}
		}
	}
	return geminiParts
}

// transformResponse converts Gemini API response to standard format
func transformResponse(resp *geminiResponse) *Response {
	out := &Response{Usage: &Usage{}}
	if resp.PromptFeedback != nil {
		out.BlockReason = resp.PromptFeedback.BlockReason
	}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}
	if len(resp.Candidates) == 0 {
		return out
	}

	candidate := resp.Candidates[0]
	parts := make([]Part, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		p := Part{Text: part.Text}
		if part.InlineData != nil {
			p.InlineData = &Blob{MimeType: part.InlineData.MimeType, Data: part.InlineData.Data}
		}
		parts = append(parts, p)
	}

	role := candidate.Content.Role
	if role == "" {
		role = RoleModel
	}
	out.Content = Content{Role: role, Parts: parts}
	out.FinishReason = candidate.FinishReason
	return out
}
