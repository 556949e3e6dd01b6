package llmprovider

import (
	"context"

	"todoflow/pkg/gemini"
	"todoflow/pkg/openaichat"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		SystemInstruction: convertToGeminiContent(req.SystemInstruction),
		Messages:          convertToGeminiContents(req.Messages),
		Tools:             convertToGeminiTools(req.Tools),
		ForcedTool:        req.ForcedTool,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      convertFromGeminiContent(resp.Content),
		ProviderName: "gemini",
		ModelName:    a.client.Model(),
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	} else {
		out.Usage = &Usage{}
	}
	return out, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// SupportsVision reports image support. Gemini models are multimodal.
func (a *GeminiAdapter) SupportsVision() bool {
	return true
}

// OpenAIChatAdapter adapts pkg/openaichat to llmprovider.Provider interface.
// One adapter serves every OpenAI-compatible endpoint (Qwen, DeepSeek,
// OpenAI); the wrapped client carries the provider name and base URL.
type OpenAIChatAdapter struct {
	name   string
	client openaichat.IChat
}

// NewOpenAIChatAdapter creates an adapter for an OpenAI-compatible client
func NewOpenAIChatAdapter(name string, client openaichat.IChat) *OpenAIChatAdapter {
	return &OpenAIChatAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAIChatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	chatReq := &openaichat.Request{
		SystemInstruction: convertToChatContent(req.SystemInstruction),
		Messages:          convertToChatContents(req.Messages),
		Tools:             convertToChatTools(req.Tools),
		ForcedTool:        req.ForcedTool,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}

	resp, err := a.client.GenerateContent(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      convertFromChatContent(resp.Content),
		ProviderName: a.name,
		ModelName:    a.client.Model(),
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	} else {
		out.Usage = &Usage{}
	}
	return out, nil
}

// Name returns provider name
func (a *OpenAIChatAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIChatAdapter) Model() string {
	return a.client.Model()
}

// SupportsVision reports whether the client has a vision model configured
func (a *OpenAIChatAdapter) SupportsVision() bool {
	return a.client.SupportsVision()
}

// Conversion helpers for Gemini
func convertToGeminiContent(msg *Message) *gemini.Content {
	if msg == nil {
		return nil
	}
	parts := make([]gemini.Part, len(msg.Parts))
	for i, p := range msg.Parts {
		parts[i] = gemini.Part{Text: p.Text}
		if p.InlineImage != nil {
			parts[i].InlineImage = &gemini.InlineImage{
				MIMEType: p.InlineImage.MIMEType,
				Data:     p.InlineImage.Data,
			}
		}
		if p.FunctionCall != nil {
			parts[i].FunctionCall = &gemini.FunctionCall{
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}
		}
		if p.FunctionResponse != nil {
			parts[i].FunctionResponse = &gemini.FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			}
		}
	}
	return &gemini.Content{Role: msg.Role, Parts: parts}
}

func convertToGeminiContents(msgs []Message) []gemini.Content {
	contents := make([]gemini.Content, len(msgs))
	for i, msg := range msgs {
		contents[i] = *convertToGeminiContent(&msg)
	}
	return contents
}

func convertToGeminiTools(tools []Tool) []gemini.Tool {
	geminiTools := make([]gemini.Tool, len(tools))
	for i, t := range tools {
		geminiTools[i] = gemini.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		}
	}
	return geminiTools
}

func convertFromGeminiContent(content gemini.Content) Message {
	parts := make([]Part, len(content.Parts))
	for i, p := range content.Parts {
		parts[i] = Part{Text: p.Text}
		if p.FunctionCall != nil {
			parts[i].FunctionCall = &FunctionCall{
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}
		}
		if p.FunctionResponse != nil {
			parts[i].FunctionResponse = &FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			}
		}
	}
	return Message{Role: content.Role, Parts: parts}
}

// Conversion helpers for OpenAI-compatible chat
func convertToChatContent(msg *Message) *openaichat.Content {
	if msg == nil {
		return nil
	}
	parts := make([]openaichat.Part, len(msg.Parts))
	for i, p := range msg.Parts {
		parts[i] = openaichat.Part{Text: p.Text}
		if p.InlineImage != nil {
			parts[i].InlineImage = &openaichat.InlineImage{
				MIMEType: p.InlineImage.MIMEType,
				Data:     p.InlineImage.Data,
			}
		}
		if p.FunctionCall != nil {
			parts[i].FunctionCall = &openaichat.FunctionCall{
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}
		}
		if p.FunctionResponse != nil {
			parts[i].FunctionResponse = &openaichat.FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			}
		}
	}
	return &openaichat.Content{Role: msg.Role, Parts: parts}
}

func convertToChatContents(msgs []Message) []openaichat.Content {
	contents := make([]openaichat.Content, len(msgs))
	for i, msg := range msgs {
		contents[i] = *convertToChatContent(&msg)
	}
	return contents
}

func convertToChatTools(tools []Tool) []openaichat.Tool {
	chatTools := make([]openaichat.Tool, len(tools))
	for i, t := range tools {
		chatTools[i] = openaichat.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		}
	}
	return chatTools
}

func convertFromChatContent(content openaichat.Content) Message {
	parts := make([]Part, len(content.Parts))
	for i, p := range content.Parts {
		parts[i] = Part{Text: p.Text}
		if p.FunctionCall != nil {
			parts[i].FunctionCall = &FunctionCall{
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}
		}
		if p.FunctionResponse != nil {
			parts[i].FunctionResponse = &FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			}
		}
	}
	return Message{Role: content.Role, Parts: parts}
}
