package handlers

import (
	"net/http"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Prune triggers a manual retention run outside the schedule.
func Prune(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.PruneTrigger <- struct{}{}:
			d.Logger.Info("manual retention prune triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("prune triggered\n"))
		default:
			d.Logger.Warn("retention prune already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("prune already in progress, please wait\n"))
		}
	}
}
