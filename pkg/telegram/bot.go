package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	fileAPIURL string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		fileAPIURL: fmt.Sprintf("https://api.telegram.org/file/bot%s", token),
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetFileAPIURL overrides the default file download URL for testing purposes.
func (b *Bot) SetFileAPIURL(url string) {
	b.fileAPIURL = url
}

// SetWebhook registers the webhook URL with Telegram. A non-empty
// secretToken makes Telegram echo it back in the
// X-Telegram-Bot-Api-Secret-Token header of every webhook call.
func (b *Bot) SetWebhook(webhookURL, secretToken string) error {
	payload := map[string]string{"url": webhookURL}
	if secretToken != "" {
		payload["secret_token"] = secretToken
	}

	_, err := b.call("setWebhook", payload)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	return b.SendMessageWithMode(chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(chatID int64, text string, parseMode string) error {
	url := fmt.Sprintf("%s/sendMessage", b.apiURL)
	payload := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	resp, err := b.httpClient.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram sendMessage API error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// SendMessageWithKeyboard sends a message carrying an inline keyboard.
// Returns the sent message so callers can later edit it.
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard *InlineKeyboardMarkup) (*Message, error) {
	payload := SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}

	result, err := b.call("sendMessage", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to send message with keyboard: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(result, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode sent message: %w", err)
	}
	return &msg, nil
}

// EditMessageText replaces the text of a previously sent message and
// removes its inline keyboard unless a new one is supplied.
func (b *Bot) EditMessageText(chatID, messageID int64, text string) error {
	payload := EditMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}

	_, err := b.call("editMessageText", payload)
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AnswerCallbackQuery acknowledges an inline keyboard button press so the
// client stops showing its loading spinner.
func (b *Bot) AnswerCallbackQuery(callbackQueryID, text string) error {
	payload := map[string]string{"callback_query_id": callbackQueryID}
	if text != "" {
		payload["text"] = text
	}

	_, err := b.call("answerCallbackQuery", payload)
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// GetFile resolves a file_id into a downloadable file path.
func (b *Bot) GetFile(fileID string) (*File, error) {
	result, err := b.call("getFile", map[string]string{"file_id": fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	var file File
	if err := json.Unmarshal(result, &file); err != nil {
		return nil, fmt.Errorf("failed to decode file info: %w", err)
	}
	return &file, nil
}

// DownloadFile fetches the raw bytes of a file previously resolved with GetFile.
func (b *Bot) DownloadFile(filePath string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", b.fileAPIURL, filePath)
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file download error %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return data, nil
}

// call posts a JSON payload to a Bot API method and returns the raw result.
func (b *Bot) call(method string, payload interface{}) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s", b.apiURL, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := b.httpClient.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}
	return apiResp.Result, nil
}
