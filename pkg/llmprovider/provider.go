package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// GenerateContent sends a generation request and returns a response
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "qwen", "gemini")
	Name() string

	// Model returns the model being used
	Model() string

	// SupportsVision reports whether the provider accepts image parts
	SupportsVision() bool
}

// Request represents a normalized LLM generation request
type Request struct {
	SystemInstruction *Message
	Messages          []Message
	Tools             []Tool
	// ForcedTool names the single function the model must call; empty
	// leaves the choice to the model. Forcing it is how the engine gets
	// schema-constrained output instead of prose.
	ForcedTool  string
	Temperature float64
	MaxTokens   int
}

// Message represents a conversation message
type Message struct {
	Role  string // "user", "assistant", "system"
	Parts []Part
}

// Part represents a message part (text, image, or function call)
type Part struct {
	Text             string
	InlineImage      *InlineImage
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// InlineImage carries raw image bytes for multimodal requests
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Tool represents a function declaration
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// FunctionCall represents a model's function call request
type FunctionCall struct {
	Name string
	Args map[string]interface{}
}

// FunctionResponse represents a function execution result
type FunctionResponse struct {
	Name     string
	Response interface{}
}

// Response represents a normalized LLM generation response
type Response struct {
	Content      Message
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// HasImage reports whether any message in the request carries image bytes.
func (r *Request) HasImage() bool {
	for _, msg := range r.Messages {
		for _, part := range msg.Parts {
			if part.InlineImage != nil {
				return true
			}
		}
	}
	return false
}

// FirstFunctionCall returns the first function call in the response, or nil.
func (r *Response) FirstFunctionCall() *FunctionCall {
	for _, part := range r.Content.Parts {
		if part.FunctionCall != nil {
			return part.FunctionCall
		}
	}
	return nil
}

// Text concatenates the text parts of the response content.
func (r *Response) Text() string {
	var out string
	for _, part := range r.Content.Parts {
		if part.Text != "" {
			if out != "" {
				out += "\n"
			}
			out += part.Text
		}
	}
	return out
}
