package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sentra-dev/sentra/internal/types"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

type TelegramInlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type TelegramReplyMarkup struct {
	InlineKeyboard [][]TelegramInlineButton `json:"inline_keyboard"`
}

type TelegramSendMessageRequest struct {
	ChatID      string               `json:"chat_id"`
	Text        string               `json:"text"`
	ParseMode   string               `json:"parse_mode"`
	ReplyMarkup *TelegramReplyMarkup `json:"reply_markup,omitempty"`
}

type TelegramSendPhotoRequest struct {
	ChatID      string               `json:"chat_id"`
	Photo       string               `json:"photo"`
	Caption     string               `json:"caption"`
	ParseMode   string               `json:"parse_mode"`
	ReplyMarkup *TelegramReplyMarkup `json:"reply_markup,omitempty"`
}

type TelegramAnswerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text"`
	ShowAlert       bool   `json:"show_alert"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramGateway delivers alerts through the Telegram Bot API. Photos go out
// as native attachments with the alert text as caption, and the claim/reject
// controls become an inline keyboard.
type TelegramGateway struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewTelegramGateway(token string) (*TelegramGateway, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	return &TelegramGateway{
		token:   token,
		baseURL: defaultTelegramBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *TelegramGateway) Channel() string {
	return types.ChannelTelegram
}

func (g *TelegramGateway) Send(ctx context.Context, msg Message) SendResult {
	markup := inlineKeyboard(msg.Controls)

	var method string
	var payload interface{}

	if msg.ImageURL != "" {
		method = "sendPhoto"
		payload = TelegramSendPhotoRequest{
			ChatID:      msg.Address,
			Photo:       msg.ImageURL,
			Caption:     msg.Text,
			ParseMode:   "Markdown",
			ReplyMarkup: markup,
		}
	} else {
		method = "sendMessage"
		payload = TelegramSendMessageRequest{
			ChatID:      msg.Address,
			Text:        msg.Text,
			ParseMode:   "Markdown",
			ReplyMarkup: markup,
		}
	}

	body, status, err := g.call(ctx, method, payload)

	if err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	var parsed telegramResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	return SendResult{Success: status < 400 && parsed.OK, Detail: body}
}

// AnswerCallback acknowledges a button press with a popup alert.
func (g *TelegramGateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	body, status, err := g.call(ctx, "answerCallbackQuery", TelegramAnswerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})

	if err != nil {
		return err
	}

	if status >= 400 {
		return fmt.Errorf("answerCallbackQuery returned status %d: %s", status, body)
	}

	return nil
}

func (g *TelegramGateway) call(ctx context.Context, method string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal Telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", g.baseURL, g.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))

	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)

	if err != nil {
		return nil, 0, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func inlineKeyboard(controls []Control) *TelegramReplyMarkup {
	if len(controls) == 0 {
		return nil
	}

	row := make([]TelegramInlineButton, 0, len(controls))

	for _, control := range controls {
		row = append(row, TelegramInlineButton{
			Text:         control.Label,
			CallbackData: control.CallbackData(),
		})
	}

	return &TelegramReplyMarkup{InlineKeyboard: [][]TelegramInlineButton{row}}
}
