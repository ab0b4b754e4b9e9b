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

const defaultFonnteAPIURL = "https://api.fonnte.com/send"

// Fonnte has no native inline buttons; controls ride along as a JSON string
// in the "buttons" field and the image is a plain link in "url".
type FonnteButton struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type FonnteSendRequest struct {
	Target      string `json:"target"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
	URL         string `json:"url,omitempty"`
	Buttons     string `json:"buttons,omitempty"`
}

type fonnteResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
}

// WhatsAppGateway delivers alerts over WhatsApp via the Fonnte API.
type WhatsAppGateway struct {
	token  string
	apiURL string
	client *http.Client
}

func NewWhatsAppGateway(token string) (*WhatsAppGateway, error) {
	if token == "" {
		return nil, fmt.Errorf("FONNTE_TOKEN is not set")
	}

	return &WhatsAppGateway{
		token:  token,
		apiURL: defaultFonnteAPIURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *WhatsAppGateway) Channel() string {
	return types.ChannelWhatsApp
}

func (g *WhatsAppGateway) Send(ctx context.Context, msg Message) SendResult {
	payload := FonnteSendRequest{
		Target:      FormatPhoneNumber(msg.Address),
		Message:     msg.Text,
		CountryCode: "62",
		URL:         msg.ImageURL,
	}

	if len(msg.Controls) > 0 {
		buttons := make([]FonnteButton, 0, len(msg.Controls))

		for _, control := range msg.Controls {
			buttons = append(buttons, FonnteButton{
				ID:   control.CallbackData(),
				Text: control.Label,
			})
		}

		encoded, err := json.Marshal(buttons)

		if err != nil {
			return SendResult{Success: false, Detail: failureDetail(err)}
		}

		payload.Buttons = string(encoded)
	}

	data, err := json.Marshal(payload)

	if err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(data))

	if err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	req.Header.Set("Authorization", g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)

	if err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	var parsed fonnteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SendResult{Success: false, Detail: failureDetail(err)}
	}

	return SendResult{Success: resp.StatusCode < 400 && parsed.Status, Detail: body}
}
