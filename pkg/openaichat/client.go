package openaichat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatImpl is the internal implementation of IChat
type chatImpl struct {
	name        string
	apiKey      string
	baseURL     string
	model       string
	visionModel string
	httpClient  *http.Client
}

func newChatImpl(cfg Config) *chatImpl {
	return &chatImpl{
		name:        cfg.Name,
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		httpClient:  cfg.HTTPClient,
	}
}

// GenerateContent sends a generation request to the chat completions API
func (c *chatImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	chatReq := c.transformRequest(req)

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", c.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: API call failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: API error %d: %s", c.name, resp.StatusCode, string(raw))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", c.name, err)
	}

	return c.transformResponse(&chatResp), nil
}

// Model returns the model being used
func (c *chatImpl) Model() string {
	return c.model
}

// SupportsVision reports whether a multimodal model is configured
func (c *chatImpl) SupportsVision() bool {
	return c.visionModel != ""
}

// transformRequest converts the request to chat completions format.
// Requests carrying image parts are routed to the vision model.
func (c *chatImpl) transformRequest(req *Request) *chatRequest {
	chatReq := &chatRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    make([]chatMessage, 0, len(req.Messages)+1),
	}

	if req.SystemInstruction != nil {
		systemMsg := transformMessage(req.SystemInstruction)
		systemMsg.Role = "system"
		chatReq.Messages = append(chatReq.Messages, systemMsg)
	}

	hasImage := false
	for i := range req.Messages {
		msg := transformMessage(&req.Messages[i])
		if _, ok := msg.Content.([]chatContentPart); ok {
			hasImage = true
		}
		chatReq.Messages = append(chatReq.Messages, msg)
	}
	if hasImage && c.visionModel != "" {
		chatReq.Model = c.visionModel
	}

	if len(req.Tools) > 0 {
		chatReq.Tools = make([]chatTool, len(req.Tools))
		for i, tool := range req.Tools {
			chatReq.Tools[i] = chatTool{
				Type: "function",
				Function: chatFunctionDecl{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  tool.Parameters,
				},
			}
		}
		if req.ForcedTool != "" {
			chatReq.ToolChoice = chatToolChoice{
				Type:     "function",
				Function: chatChoiceFunction{Name: req.ForcedTool},
			}
		} else {
			chatReq.ToolChoice = "auto"
		}
	}

	return chatReq
}

func transformMessage(msg *Content) chatMessage {
	chatMsg := chatMessage{Role: msg.Role}

	var text string
	var parts []chatContentPart
	for _, part := range msg.Parts {
		if part.Text != "" {
			if text != "" {
				text += "\n"
			}
			text += part.Text
		}

		if part.InlineImage != nil {
			dataURL := fmt.Sprintf("data:%s;base64,%s",
				part.InlineImage.MIMEType,
				base64.StdEncoding.EncodeToString(part.InlineImage.Data))
			parts = append(parts, chatContentPart{
				Type:     "image_url",
				ImageURL: &chatImageURL{URL: dataURL},
			})
		}

		if part.FunctionCall != nil {
			argsJSON, _ := json.Marshal(part.FunctionCall.Args)
			chatMsg.ToolCalls = append(chatMsg.ToolCalls, chatToolCall{
				ID:   "call_" + part.FunctionCall.Name,
				Type: "function",
				Function: chatFunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(argsJSON),
				},
			})
		}

		if part.FunctionResponse != nil {
			chatMsg.Role = "tool"
			chatMsg.ToolCallID = "call_" + part.FunctionResponse.Name
			responseJSON, _ := json.Marshal(part.FunctionResponse.Response)
			text = string(responseJSON)
		}
	}

	// Image-bearing messages use the typed parts form; text-only messages
	// keep the plain string form most endpoints prefer.
	if len(parts) > 0 {
		if text != "" {
			parts = append([]chatContentPart{{Type: "text", Text: text}}, parts...)
		}
		chatMsg.Content = parts
	} else if text != "" {
		chatMsg.Content = text
	}

	return chatMsg
}

func (c *chatImpl) transformResponse(resp *chatResponse) *Response {
	if resp == nil || len(resp.Choices) == 0 {
		return &Response{Usage: &Usage{}}
	}

	choice := resp.Choices[0]
	message := Content{
		Role:  choice.Message.Role,
		Parts: make([]Part, 0),
	}

	if content, ok := choice.Message.Content.(string); ok && content != "" {
		message.Parts = append(message.Parts, Part{Text: content})
	}

	for _, toolCall := range choice.Message.ToolCalls {
		if toolCall.Type != "function" {
			continue
		}
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
			args = make(map[string]interface{})
		}
		message.Parts = append(message.Parts, Part{
			FunctionCall: &FunctionCall{
				Name: toolCall.Function.Name,
				Args: args,
			},
		})
	}

	return &Response{
		Content: message,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
}
