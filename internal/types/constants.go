package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Notification channels.
const (
	ChannelTelegram = "telegram"
	ChannelWhatsApp = "whatsapp"
)

// Accident severity classifications, most severe first.
const (
	SeverityFatal   = "Fatal"
	SeveritySerious = "Serious"
	SeverityNormal  = "Normal"
)

// Notification delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Camera statuses maintained by the watchdog.
const (
	CameraOnline  = "online"
	CameraOffline = "offline"
)

// Channels lists every delivery channel the dispatcher fans out to.
var Channels = []string{ChannelTelegram, ChannelWhatsApp}

// NormalizeSeverity coerces unknown classifications to Normal instead of
// rejecting them; the detection pipeline occasionally sends garbage.
func NormalizeSeverity(severity string) string {
	switch severity {
	case SeverityFatal, SeveritySerious, SeverityNormal:
		return severity
	default:
		return SeverityNormal
	}
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
