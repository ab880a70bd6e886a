package handlers

import (
	"net/http"
	"time"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/timer"
)

type timerResponse struct {
	Running bool `json:"running"`
	// Embedded status fields are omitted when no timer runs.
	Title       string `json:"title,omitempty"`
	TimeLeftMs  int64  `json:"timeLeftMs,omitempty"`
	IsPaused    bool   `json:"isPaused,omitempty"`
	IsCompleted bool   `json:"isCompleted,omitempty"`
}

func timerStatusBody(status timer.Status, running bool) timerResponse {
	if !running {
		return timerResponse{Running: false}
	}
	return timerResponse{
		Running:     true,
		Title:       status.Title,
		TimeLeftMs:  status.TimeLeft.Milliseconds(),
		IsPaused:    status.IsPaused,
		IsCompleted: status.IsCompleted,
	}
}

func TimerStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, running := d.Timer.Status()
		writeJSON(w, http.StatusOK, timerStatusBody(status, running))
	}
}

func TimerStart(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title      string `json:"title"`
			DurationMs int64  `json:"durationMs"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.DurationMs <= 0 {
			writeError(w, http.StatusBadRequest, "durationMs must be > 0")
			return
		}

		status, err := d.Timer.StartTimer(r.Context(), req.Title, time.Duration(req.DurationMs)*time.Millisecond)
		if err != nil {
			d.Logger.Error("failed to start timer", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start timer")
			return
		}
		writeJSON(w, http.StatusCreated, timerStatusBody(status, true))
	}
}

func TimerPause(d deps.Deps) http.HandlerFunc {
	return setPaused(d, true)
}

func TimerResume(d deps.Deps) http.HandlerFunc {
	return setPaused(d, false)
}

func setPaused(d deps.Deps, paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := d.Timer.SetPaused(r.Context(), paused)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, timerStatusBody(status, true))
	}
}

func TimerCancel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Timer.Cancel(r.Context()); err != nil {
			d.Logger.Error("failed to cancel timer", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to cancel timer")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// TimerAck clears a completed timer after the user has seen it.
func TimerAck(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Timer.Acknowledge(r.Context()); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
