package openaichat

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for an OpenAI-compatible chat completions
// endpoint. Qwen (DashScope compatible mode), DeepSeek, and OpenAI itself
// all speak this wire format; only BaseURL and Model differ.
type Config struct {
	Name        string // provider label used in errors, e.g. "qwen"
	APIKey      string
	Model       string
	VisionModel string // optional multimodal model; empty disables vision
	BaseURL     string
	HTTPClient  *http.Client
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = "openai"
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s: APIKey is required", c.Name)
	}
	if c.Model == "" {
		return fmt.Errorf("%s: Model is required", c.Name)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%s: BaseURL is required", c.Name)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Request represents a generation request.
type Request struct {
	SystemInstruction *Content
	Messages          []Content
	Tools             []Tool
	// ForcedTool names the single function the model must call.
	// Empty means tool_choice "auto" (or none when Tools is empty).
	ForcedTool  string
	Temperature float64
	MaxTokens   int
}

// Content represents a message content
type Content struct {
	Role  string
	Parts []Part
}

// Part represents a message part
type Part struct {
	Text             string
	InlineImage      *InlineImage
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// InlineImage carries raw image bytes for multimodal requests.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Tool represents a function declaration
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// FunctionCall represents a function call request
type FunctionCall struct {
	Name string
	Args map[string]interface{}
}

// FunctionResponse represents a function execution result
type FunctionResponse struct {
	Name     string
	Response interface{}
}

// Response represents a generation response
type Response struct {
	Content Content
	Usage   *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ---- wire types (chat completions API shapes) ----

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	ToolChoice  interface{}   `json:"tool_choice,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage content is either a plain string or a list of typed parts
// (text / image_url) for multimodal messages.
type chatMessage struct {
	Role       string         `json:"role"`
	Content    interface{}    `json:"content,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatContentPart struct {
	Type     string        `json:"type"` // "text" | "image_url"
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"` // data:image/...;base64,...
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatFunctionDecl `json:"function"`
}

type chatFunctionDecl struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type chatToolChoice struct {
	Type     string             `json:"type"`
	Function chatChoiceFunction `json:"function"`
}

type chatChoiceFunction struct {
	Name string `json:"name"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatFunctionCall `json:"function"`
}

type chatFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
