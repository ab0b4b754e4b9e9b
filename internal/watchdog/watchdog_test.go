package watchdog

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Camera{}))

	return db
}

func seedCamera(t *testing.T, db *gorm.DB, streamURL, status string) models.Camera {
	t.Helper()

	camera := models.Camera{
		Name:      "Jalan Darmo",
		IPAddress: "10.0.0.10",
		StreamURL: streamURL,
		City:      "Surabaya",
		Status:    status,
	}
	require.NoError(t, db.Create(&camera).Error)

	return camera
}

func cameraStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()

	var camera models.Camera
	require.NoError(t, db.First(&camera, id).Error)

	return camera.Status
}

func TestSweepMarksUnreachableCameraOffline(t *testing.T) {
	db := setupDB(t)
	camera := seedCamera(t, db, "http://127.0.0.1:1/stream", types.CameraOnline)

	w := New(db, time.Minute)
	w.client.Timeout = time.Second
	w.sweep()

	require.Equal(t, types.CameraOffline, cameraStatus(t, db, camera.ID))
}

func TestSweepRecoversCamera(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	db := setupDB(t)
	camera := seedCamera(t, db, server.URL, types.CameraOffline)

	w := New(db, time.Minute)
	w.sweep()

	require.Equal(t, types.CameraOnline, cameraStatus(t, db, camera.ID))
}

func TestSweepTreatsErrorStatusAsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	db := setupDB(t)
	camera := seedCamera(t, db, server.URL, types.CameraOnline)

	w := New(db, time.Minute)
	w.sweep()

	require.Equal(t, types.CameraOffline, cameraStatus(t, db, camera.ID))
}

func TestSweepSkipsCamerasWithoutStream(t *testing.T) {
	db := setupDB(t)
	camera := seedCamera(t, db, "", types.CameraOnline)

	w := New(db, time.Minute)
	w.sweep()

	require.Equal(t, types.CameraOnline, cameraStatus(t, db, camera.ID))
}

func TestStartStop(t *testing.T) {
	db := setupDB(t)
	seedCamera(t, db, "", types.CameraOnline)

	w := New(db, time.Hour)
	w.Start()
	w.Stop()
}
