package notifier

import (
	"context"
	"sync"
	"testing"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB opens a fresh in-memory database. A single pooled connection keeps
// concurrent tests serialized at the pool instead of tripping SQLITE_BUSY.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Camera{},
		&models.Accident{},
		&models.Contact{},
		&models.Notification{},
	)
	require.NoError(t, err)

	return db
}

func seedCamera(t *testing.T, db *gorm.DB) models.Camera {
	t.Helper()

	camera := models.Camera{
		Name:      "Jalan Sudirman North",
		IPAddress: "10.0.0.10",
		StreamURL: "http://10.0.0.10/stream",
		City:      "Surabaya",
		Latitude:  -7.2575,
		Longitude: 112.7521,
		Status:    "online",
	}

	require.NoError(t, db.Create(&camera).Error)

	return camera
}

func seedAccident(t *testing.T, db *gorm.DB, cameraID uint) models.Accident {
	t.Helper()

	accident := models.Accident{
		CameraID:   cameraID,
		Severity:   "Serious",
		Photo:      "uploads/accident.jpg",
		Confidence: 0.92,
	}

	require.NoError(t, db.Create(&accident).Error)

	return accident
}

// fakeGateway records every send and can be told to fail specific addresses.
type fakeGateway struct {
	channel string

	mu      sync.Mutex
	sent    []Message
	failFor map[string]bool
}

func newFakeGateway(channel string) *fakeGateway {
	return &fakeGateway{channel: channel, failFor: make(map[string]bool)}
}

func (g *fakeGateway) Channel() string {
	return g.channel
}

func (g *fakeGateway) Send(_ context.Context, msg Message) SendResult {
	g.mu.Lock()
	g.sent = append(g.sent, msg)
	fail := g.failFor[msg.Address]
	g.mu.Unlock()

	if fail {
		return SendResult{Success: false, Detail: []byte(`{"error":"provider rejected"}`)}
	}

	return SendResult{Success: true, Detail: []byte(`{"ok":true}`)}
}

func (g *fakeGateway) messages() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Message, len(g.sent))
	copy(out, g.sent)

	return out
}

func (g *fakeGateway) addresses() []string {
	addresses := []string{}

	for _, msg := range g.messages() {
		addresses = append(addresses, msg.Address)
	}

	return addresses
}
