package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
)

// Outcome is the result of one fan-out delivery attempt.
type Outcome struct {
	Channel string `json:"channel"`
	Address string `json:"address"`
	Success bool   `json:"success"`
}

// Dispatcher fans an accident alert out to every registered contact and
// pushes the handled notice after a claim. It is an interface so a retrying
// or queued variant can be swapped in without touching callers.
type Dispatcher interface {
	// FanOut alerts every active contact of the camera across all channels
	// and returns one outcome per attempt. Zero contacts is not an error.
	FanOut(ctx context.Context, accident *models.Accident, camera *models.Camera) ([]Outcome, error)

	// NotifyResolved tells everyone who received the original alert, except
	// the handler, that the accident has been taken. Best effort: failures
	// are logged, not returned, and the notices are not audited.
	NotifyResolved(ctx context.Context, accident *models.Accident, handlerAddress string) (int, error)
}

// FanoutDispatcher is the direct, synchronous-triggered implementation:
// one goroutine per (channel, contact) pair, no retries, no queue.
type FanoutDispatcher struct {
	registry *ContactRegistry
	audit    *AuditLog
	gateways map[string]Gateway
	baseURL  string
}

func NewDispatcher(registry *ContactRegistry, audit *AuditLog, baseURL string, gateways ...Gateway) *FanoutDispatcher {
	byChannel := make(map[string]Gateway, len(gateways))

	for _, gateway := range gateways {
		byChannel[gateway.Channel()] = gateway
	}

	return &FanoutDispatcher{
		registry: registry,
		audit:    audit,
		gateways: byChannel,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

type delivery struct {
	gateway Gateway
	contact models.Contact
}

func (d *FanoutDispatcher) FanOut(ctx context.Context, accident *models.Accident, camera *models.Camera) ([]Outcome, error) {
	var deliveries []delivery

	for channel, gateway := range d.gateways {
		contacts, err := d.registry.List(camera.ID, channel)

		if err != nil {
			return nil, err
		}

		for _, contact := range contacts {
			deliveries = append(deliveries, delivery{gateway: gateway, contact: contact})
		}
	}

	if len(deliveries) == 0 {
		log.Printf("No contacts configured for camera %d, skipping fan-out for accident %d", camera.ID, accident.ID)
		return []Outcome{}, nil
	}

	text := alertText(accident, camera)
	imageURL := d.photoURL(accident)
	controls := []Control{
		{Action: ActionHandle, Label: "✅ Handle", AccidentID: accident.ID},
		{Action: ActionReject, Label: "❌ Reject", AccidentID: accident.ID},
	}

	results := make(chan Outcome, len(deliveries))

	var wg sync.WaitGroup

	for _, job := range deliveries {
		wg.Add(1)

		go func(job delivery) {
			defer wg.Done()

			result := job.gateway.Send(ctx, Message{
				Address:  job.contact.Address,
				Text:     text,
				ImageURL: imageURL,
				Controls: controls,
			})

			status := types.StatusSent
			if !result.Success {
				status = types.StatusFailed
				log.Printf("Failed to send %s alert for accident %d to %s: %s",
					job.gateway.Channel(), accident.ID, job.contact.Address, result.Detail)
			}

			if err := d.audit.Append(accident.ID, job.gateway.Channel(), job.contact.Address, status, result.Detail); err != nil {
				log.Printf("Failed to record notification for accident %d to %s: %v", accident.ID, job.contact.Address, err)
			}

			results <- Outcome{
				Channel: job.gateway.Channel(),
				Address: job.contact.Address,
				Success: result.Success,
			}
		}(job)
	}

	wg.Wait()
	close(results)

	outcomes := make([]Outcome, 0, len(deliveries))

	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (d *FanoutDispatcher) NotifyResolved(ctx context.Context, accident *models.Accident, handlerAddress string) (int, error) {
	recipients, err := d.audit.Recipients(accident.ID)

	if err != nil {
		return 0, err
	}

	text := resolvedText(accident)

	var wg sync.WaitGroup

	notified := 0

	for _, recipient := range recipients {
		if recipient.Address == handlerAddress {
			continue
		}

		gateway, ok := d.gateways[recipient.Channel]

		if !ok {
			log.Printf("No gateway for channel %q, skipping handled notice to %s", recipient.Channel, recipient.Address)
			continue
		}

		notified++
		wg.Add(1)

		go func(gateway Gateway, address string) {
			defer wg.Done()

			result := gateway.Send(ctx, Message{Address: address, Text: text})

			if !result.Success {
				log.Printf("Failed to send handled notice for accident %d to %s: %s", accident.ID, address, result.Detail)
			}
		}(gateway, recipient.Address)
	}

	wg.Wait()

	return notified, nil
}

func (d *FanoutDispatcher) photoURL(accident *models.Accident) string {
	if accident.Photo == "" {
		return ""
	}

	if strings.HasPrefix(accident.Photo, "http") {
		return accident.Photo
	}

	return d.baseURL + "/" + strings.TrimPrefix(accident.Photo, "/")
}

// alertText is the shared semantic content of an alert; channel-specific
// formatting (attachment vs link, keyboard vs button payload) lives in the
// gateways.
func alertText(accident *models.Accident, camera *models.Camera) string {
	return fmt.Sprintf(`🚨 *TRAFFIC ACCIDENT ALERT* 🚨
*Report ID:* %d
*Location:* %s
*Severity:* %s
*Time:* %s

📍 *GPS location:*
%s

⚠️ *IMMEDIATE RESPONSE NEEDED!*

Please confirm whether you will handle this accident.`,
		accident.ID,
		camera.City,
		accident.Severity,
		accident.CreatedAt.Format("2006-01-02 15:04:05"),
		MapsLink(camera.Latitude, camera.Longitude))
}

func resolvedText(accident *models.Accident) string {
	return fmt.Sprintf(`✅ *ACCIDENT HANDLED*
*Report ID:* %d

The accident reported at:
*Location:* %s
*Time:* %s

has been taken by another responder.

Thank you for your attention.`,
		accident.ID,
		accident.Camera.City,
		accident.CreatedAt.Format("2006-01-02 15:04:05"))
}
