package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"todoflow/internal/model"
	"todoflow/internal/task"
	"todoflow/pkg/response"
	pkgTelegram "todoflow/pkg/telegram"
)

// Callback data prefixes for the decomposition confirmation keyboard.
// Telegram caps callback_data at 64 bytes; prefix plus UUID fits.
const (
	callbackPrefix = "dec"

	replyGenericError  = "Sorry, something went wrong. Please try again."
	replyEmptyMessage  = "Send me a task, a question about your tasks, or a photo of a list."
	replySessionStale  = "That choice expired — send the task again."
	replyPhotoDownload = "Couldn't download that photo, please resend it."
)

// HandleWebhook accepts a Telegram update, acknowledges it immediately,
// and processes it in the background. Telegram retries non-200 responses,
// so even malformed payloads are acknowledged.
// @Summary Telegram webhook
// @Description Receives Telegram bot updates
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "update accepted"
// @Router /webhook/telegram [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Warnf(c.Request.Context(), "telegram delivery: undecodable update: %v", err)
		response.OK(c, gin.H{"status": "ignored"})
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.processUpdate(ctx, &update)
	}()

	response.OK(c, gin.H{"status": "accepted"})
}

func (h *handler) processUpdate(ctx context.Context, update *pkgTelegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	default:
		h.l.Debugf(ctx, "telegram delivery: update %d carries nothing to handle", update.UpdateID)
	}
}

func (h *handler) handleMessage(ctx context.Context, msg *pkgTelegram.Message) {
	if msg.Chat == nil {
		return
	}
	sc := scopeFor(msg)

	var (
		out task.ProcessOutput
		err error
	)
	switch {
	case len(msg.Photo) > 0:
		out, err = h.processPhoto(ctx, sc, msg)
	case strings.TrimSpace(msg.Text) != "":
		out, err = h.uc.ProcessText(ctx, sc, task.ProcessTextInput{Text: msg.Text})
	default:
		h.send(ctx, sc.ChatID, replyEmptyMessage)
		return
	}

	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: processing failed for chat %d: %v", sc.ChatID, err)
		h.send(ctx, sc.ChatID, replyGenericError)
		return
	}

	if out.Pending != nil {
		h.offerDecomposition(ctx, sc.ChatID, out.Pending)
		return
	}
	h.send(ctx, sc.ChatID, out.Reply)
}

// processPhoto downloads the largest size of an incoming photo and runs it
// through the image pipeline.
func (h *handler) processPhoto(ctx context.Context, sc model.Scope, msg *pkgTelegram.Message) (task.ProcessOutput, error) {
	largest := msg.Photo[len(msg.Photo)-1]

	file, err := h.bot.GetFile(largest.FileID)
	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: getFile %s failed: %v", largest.FileID, err)
		return task.ProcessOutput{Reply: replyPhotoDownload}, nil
	}
	data, err := h.bot.DownloadFile(file.FilePath)
	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: download %s failed: %v", file.FilePath, err)
		return task.ProcessOutput{Reply: replyPhotoDownload}, nil
	}

	return h.uc.ProcessImage(ctx, sc, task.ProcessImageInput{
		ImageData: data,
		MIMEType:  mimeForPath(file.FilePath),
		Caption:   msg.Caption,
	})
}

// offerDecomposition shows the subtask plan with a confirmation keyboard.
func (h *handler) offerDecomposition(ctx context.Context, chatID int64, dec *model.DecompositionResult) {
	sessionID := h.sessions.put(dec)

	keyboard := &pkgTelegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]pkgTelegram.InlineKeyboardButton{
			{
				{Text: fmt.Sprintf("✅ Create all %d", len(dec.Subtasks)), CallbackData: callbackData(task.ConfirmAll, sessionID)},
				{Text: "📌 Just one task", CallbackData: callbackData(task.ConfirmOriginal, sessionID)},
			},
			{
				{Text: "❌ Cancel", CallbackData: callbackData(task.ConfirmCancel, sessionID)},
			},
		},
	}

	if _, err := h.bot.SendMessageWithKeyboard(chatID, planText(dec), keyboard); err != nil {
		h.l.Errorf(ctx, "telegram delivery: keyboard send to chat %d failed: %v", chatID, err)
	}
}

func (h *handler) handleCallback(ctx context.Context, cb *pkgTelegram.CallbackQuery) {
	if err := h.bot.AnswerCallbackQuery(cb.ID, ""); err != nil {
		h.l.Warnf(ctx, "telegram delivery: answerCallbackQuery failed: %v", err)
	}
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	choice, sessionID, ok := parseCallbackData(cb.Data)
	if !ok {
		h.l.Warnf(ctx, "telegram delivery: unrecognized callback data %q", cb.Data)
		return
	}

	dec, found := h.sessions.take(sessionID)
	if !found {
		h.edit(ctx, chatID, cb.Message.MessageID, replySessionStale)
		return
	}

	sc := model.Scope{ChatID: chatID}
	if cb.From != nil {
		sc.UserID = strconv.FormatInt(cb.From.ID, 10)
	}

	out, err := h.uc.ConfirmDecomposition(ctx, sc, task.ConfirmInput{
		Choice:        choice,
		Decomposition: *dec,
	})
	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: confirm failed for chat %d: %v", chatID, err)
		h.edit(ctx, chatID, cb.Message.MessageID, replyGenericError)
		return
	}
	h.edit(ctx, chatID, cb.Message.MessageID, out.Reply)
}

func (h *handler) send(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	if err := h.bot.SendMessage(chatID, text); err != nil {
		h.l.Errorf(ctx, "telegram delivery: send to chat %d failed: %v", chatID, err)
	}
}

func (h *handler) edit(ctx context.Context, chatID, messageID int64, text string) {
	if err := h.bot.EditMessageText(chatID, messageID, text); err != nil {
		h.l.Errorf(ctx, "telegram delivery: edit %d/%d failed: %v", chatID, messageID, err)
	}
}

func scopeFor(msg *pkgTelegram.Message) model.Scope {
	sc := model.Scope{ChatID: msg.Chat.ID}
	if msg.From != nil {
		sc.UserID = strconv.FormatInt(msg.From.ID, 10)
	}
	return sc
}

// planText renders a decomposition plan for the confirmation message.
func planText(dec *model.DecompositionResult) string {
	var sb strings.Builder
	sb.WriteString("🔀 This looks like a multi-step task:\n")
	for i, sub := range dec.Subtasks {
		fmt.Fprintf(&sb, "%s %d. %s", priorityEmoji(sub.Priority), i+1, sub.Title)
		if sub.DueDate != "" {
			fmt.Fprintf(&sb, " (📅 %s)", sub.DueDate)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nHow should I create it?")
	return sb.String()
}

// priorityEmoji marks subtask urgency, 1 highest.
func priorityEmoji(priority int) string {
	switch priority {
	case 1:
		return "🔴"
	case 2:
		return "🟠"
	case 3:
		return "🟡"
	case 4:
		return "🟢"
	case 5:
		return "🔵"
	}
	return "⚪"
}

func callbackData(choice task.ConfirmChoice, sessionID string) string {
	return fmt.Sprintf("%s:%s:%s", callbackPrefix, choice, sessionID)
}

func parseCallbackData(data string) (task.ConfirmChoice, string, bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[0] != callbackPrefix {
		return "", "", false
	}
	choice := task.ConfirmChoice(parts[1])
	switch choice {
	case task.ConfirmAll, task.ConfirmOriginal, task.ConfirmCancel:
		return choice, parts[2], true
	}
	return "", "", false
}

func mimeForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
