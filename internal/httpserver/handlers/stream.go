package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Stream is the SSE endpoint UI surfaces subscribe to for timer updates,
// storage-change notifications and alerts. The connection stays open until
// the client disconnects or the bus drops it for not keeping up.
func Stream(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ch, cancel := d.Events.Subscribe()
		defer cancel()

		d.Logger.Debug("stream subscriber connected",
			logger.String("remote_ip", r.RemoteAddr))

		for {
			select {
			case ev, open := <-ch:
				if !open {
					// Dropped by the bus for lagging.
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					d.Logger.Error("failed to encode stream event",
						logger.String("event", ev.Kind()),
						logger.Error(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind(), payload); err != nil {
					return
				}
				flusher.Flush()

			case <-r.Context().Done():
				d.Logger.Debug("stream subscriber disconnected",
					logger.String("remote_ip", r.RemoteAddr))
				return
			}
		}
	}
}
