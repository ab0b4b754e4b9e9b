package notifier

import (
	"context"
	"testing"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*FanoutDispatcher, *fakeGateway, *fakeGateway, *ContactRegistry, *AuditLog) {
	t.Helper()

	db := setupDB(t)
	registry := NewContactRegistry(db)
	audit := NewAuditLog(db)
	telegram := newFakeGateway(types.ChannelTelegram)
	whatsapp := newFakeGateway(types.ChannelWhatsApp)
	dispatcher := NewDispatcher(registry, audit, "http://localhost:3000", telegram, whatsapp)

	return dispatcher, telegram, whatsapp, registry, audit
}

func TestFanOutReachesEveryContact(t *testing.T) {
	dispatcher, telegram, whatsapp, registry, audit := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := registry.Add(camera.ID, types.ChannelTelegram, "111", "A")
	require.NoError(t, err)
	_, err = registry.Add(camera.ID, types.ChannelTelegram, "222", "B")
	require.NoError(t, err)
	_, err = registry.Add(camera.ID, types.ChannelWhatsApp, "0878585209", "C")
	require.NoError(t, err)

	outcomes, err := dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	for _, outcome := range outcomes {
		require.True(t, outcome.Success)
	}

	require.ElementsMatch(t, []string{"111", "222"}, telegram.addresses())
	require.Len(t, whatsapp.addresses(), 1)

	// Exactly one audit row per attempt.
	records, err := audit.ListByAccident(accident.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, record := range records {
		require.Equal(t, types.StatusSent, record.Status)
	}
}

func TestFanOutWithNoContacts(t *testing.T) {
	dispatcher, telegram, whatsapp, registry, audit := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	outcomes, err := dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)
	require.Empty(t, outcomes)

	require.Empty(t, telegram.messages())
	require.Empty(t, whatsapp.messages())

	records, err := audit.ListByAccident(accident.ID)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFanOutIsolatesFailures(t *testing.T) {
	dispatcher, telegram, _, registry, audit := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := registry.Add(camera.ID, types.ChannelTelegram, "111", "A")
	require.NoError(t, err)
	_, err = registry.Add(camera.ID, types.ChannelTelegram, "222", "B")
	require.NoError(t, err)

	telegram.failFor["222"] = true

	outcomes, err := dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	byAddress := map[string]bool{}
	for _, outcome := range outcomes {
		byAddress[outcome.Address] = outcome.Success
	}

	require.True(t, byAddress["111"])
	require.False(t, byAddress["222"])

	// The audit trail shows the mixed result.
	records, err := audit.ListByAccident(accident.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	statuses := map[string]string{}
	for _, record := range records {
		statuses[record.Address] = record.Status
	}

	require.Equal(t, types.StatusSent, statuses["111"])
	require.Equal(t, types.StatusFailed, statuses["222"])
}

func TestFanOutMessageContent(t *testing.T) {
	dispatcher, telegram, _, registry, _ := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := registry.Add(camera.ID, types.ChannelTelegram, "111", "A")
	require.NoError(t, err)

	_, err = dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)

	messages := telegram.messages()
	require.Len(t, messages, 1)

	msg := messages[0]
	require.Contains(t, msg.Text, "Surabaya")
	require.Contains(t, msg.Text, "Serious")
	require.Contains(t, msg.Text, "https://www.google.com/maps?q=-7.2575,112.7521")
	require.Equal(t, "http://localhost:3000/uploads/accident.jpg", msg.ImageURL)

	require.Len(t, msg.Controls, 2)
	require.Equal(t, ActionHandle, msg.Controls[0].Action)
	require.Equal(t, ActionReject, msg.Controls[1].Action)
	require.Equal(t, accident.ID, msg.Controls[0].AccidentID)
}

func TestNotifyResolvedSkipsHandlerAndFailures(t *testing.T) {
	dispatcher, telegram, whatsapp, registry, audit := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)
	accident.Camera = camera

	require.NoError(t, audit.Append(accident.ID, types.ChannelTelegram, "111", types.StatusSent, nil))
	require.NoError(t, audit.Append(accident.ID, types.ChannelTelegram, "222", types.StatusSent, nil))
	require.NoError(t, audit.Append(accident.ID, types.ChannelTelegram, "333", types.StatusFailed, nil))
	require.NoError(t, audit.Append(accident.ID, types.ChannelWhatsApp, "628111", types.StatusSent, nil))

	notified, err := dispatcher.NotifyResolved(context.Background(), &accident, "111")
	require.NoError(t, err)
	require.Equal(t, 2, notified)

	require.ElementsMatch(t, []string{"222"}, telegram.addresses())
	require.ElementsMatch(t, []string{"628111"}, whatsapp.addresses())

	// The handled notice carries no controls or image and is not audited.
	for _, msg := range append(telegram.messages(), whatsapp.messages()...) {
		require.Empty(t, msg.Controls)
		require.Empty(t, msg.ImageURL)
		require.Contains(t, msg.Text, "ACCIDENT HANDLED")
	}

	records, err := audit.ListByAccident(accident.ID)
	require.NoError(t, err)
	require.Len(t, records, 4)
}

func TestPhotoURLPassthrough(t *testing.T) {
	dispatcher, telegram, _, registry, _ := newTestDispatcher(t)
	db := registry.db
	camera := seedCamera(t, db)

	accident := models.Accident{
		CameraID: camera.ID,
		Severity: "Fatal",
		Photo:    "https://cdn.example.com/a.jpg",
	}
	require.NoError(t, db.Create(&accident).Error)

	_, err := registry.Add(camera.ID, types.ChannelTelegram, "111", "A")
	require.NoError(t, err)

	_, err = dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)

	messages := telegram.messages()
	require.Len(t, messages, 1)
	require.Equal(t, "https://cdn.example.com/a.jpg", messages[0].ImageURL)
}
