package watchdog

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"gorm.io/gorm"
)

// Watchdog periodically probes every camera's stream endpoint and keeps the
// stored status in sync, so the dashboard and dispatch logs reflect which
// cameras are actually reachable.
type Watchdog struct {
	db       *gorm.DB
	client   *http.Client
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func New(db *gorm.DB, interval time.Duration) *Watchdog {
	ctx, cancel := context.WithCancel(context.Background())

	return &Watchdog{
		db:       db,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the probe loop with an immediate first sweep.
func (w *Watchdog) Start() {
	log.Printf("Starting camera watchdog with %v interval", w.interval)

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		w.sweep()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.sweep()
			}
		}
	}()
}

// Stop cancels the loop and waits for in-flight probes.
func (w *Watchdog) Stop() {
	w.cancel()
	w.wg.Wait()
	log.Println("Camera watchdog stopped")
}

func (w *Watchdog) sweep() {
	var cameras []models.Camera

	if err := w.db.Where("stream_url <> ''").Find(&cameras).Error; err != nil {
		log.Printf("Watchdog failed to load cameras: %v", err)
		return
	}

	var wg sync.WaitGroup

	for _, camera := range cameras {
		wg.Add(1)

		go func(camera models.Camera) {
			defer wg.Done()

			status := w.probe(camera)

			if status == camera.Status {
				return
			}

			if err := w.db.Model(&models.Camera{}).Where("id = ?", camera.ID).Update("status", status).Error; err != nil {
				log.Printf("Watchdog failed to update camera %d: %v", camera.ID, err)
				return
			}

			log.Printf("Camera %d (%s) is now %s", camera.ID, camera.Name, status)
		}(camera)
	}

	wg.Wait()
}

func (w *Watchdog) probe(camera models.Camera) string {
	req, err := http.NewRequestWithContext(w.ctx, http.MethodGet, camera.StreamURL, nil)

	if err != nil {
		return types.CameraOffline
	}

	resp, err := w.client.Do(req)

	if err != nil {
		return types.CameraOffline
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return types.CameraOffline
	}

	return types.CameraOnline
}
