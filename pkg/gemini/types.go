package gemini

import (
	"net/http"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	APIKey     string
	Model      string
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return nil
}

// Request is a single generateContent call.
type Request struct {
	SystemInstruction *Content
	Messages          []Content
	Temperature       float64
	MaxTokens         int
}

// Content is one turn of a conversation.
type Content struct {
	Role  string
	Parts []Part
}

// Part holds either text or inline binary data.
type Part struct {
	Text       string
	InlineData *Blob
}

// Blob is inline media. Data is sent base64 encoded.
type Blob struct {
	MimeType string
	Data     []byte
}

// Response is the first candidate of a generateContent answer.
type Response struct {
	Content      Content
	FinishReason string
	BlockReason  string
	Usage        *Usage
}

// Text concatenates the text parts of the response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Usage reports token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatConfig holds the generation settings applied to every turn of a chat.
type ChatConfig struct {
	SystemInstruction *Content
	Temperature       float64
	MaxTokens         int

	// MaxHistory bounds the number of stored turns. Zero keeps everything.
	MaxHistory int
}

// Wire format.

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *geminiUsageMetadata  `json:"usageMetadata,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}
