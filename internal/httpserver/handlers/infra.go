package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Entries    *int   `json:"entries,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode        string                     `json:"mode"`
	Subscribers int                        `json:"subscribers"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports per-component health for debugging: Redis, the blocklist
// snapshot, the timer engine and the tracker.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blocklistCount := d.BlocklistIndex.Count()
		lastReload := "never"
		if t := d.BlocklistIndex.LastReload(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		timerMode := "idle"
		if status, running := d.Timer.Status(); running {
			timerMode = "running"
			if status.IsPaused {
				timerMode = "paused"
			}
			if status.IsCompleted {
				timerMode = "completed"
			}
		}

		trackerMode := "idle"
		if _, active := d.Tracker.ActiveDomain(); active {
			trackerMode = "tracking"
		}

		components := map[string]componentStatus{
			"redis": checkRedis(d),
			"blocklist": {
				OK:         true,
				Entries:    &blocklistCount,
				LastReload: lastReload,
			},
			"timer": {
				OK:   true,
				Mode: timerMode,
			},
			"tracker": {
				OK:   true,
				Mode: trackerMode,
			},
		}

		mode := "ok"
		if !components["redis"].OK {
			mode = "degraded"
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:        mode,
			Subscribers: d.Events.Count(),
			Components:  components,
		})
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Error: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Error: "timeout"}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
