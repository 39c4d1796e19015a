package monitoring

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/notification"
	"github.com/atcvoice/radio-registry/internal/storage"
)

// healthResponse is the healthcheck output.
type healthResponse struct {
	Status        string                      `json:"status"`
	Error         string                      `json:"error,omitempty"`
	Notifications []notification.Notification `json:"notifications"`
}

func healthCheckHandlerFunc(src NotificationSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:        "ok",
			Notifications: []notification.Notification{},
		}
		code := http.StatusOK

		if src != nil {
			resp.Notifications = append(resp.Notifications, src.Notifications()...)
		}

		if storage.Enabled() {
			if err := storage.RedisClient().Ping(r.Context()).Err(); err != nil {
				code = http.StatusServiceUnavailable
				resp.Status = "unavailable"
				resp.Error = errors.Wrap(err, "redis ping error").Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.WithError(err).Error("monitoring: write healthcheck response error")
		}
	}
}
