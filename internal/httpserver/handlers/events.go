package handlers

import (
	"io"
	"net/http"

	"github.com/tabdeck/tabdeck/internal/coordinator"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Events receives browser lifecycle events from UI surfaces. Navigation
// events return {blocked, redirect}; everything else returns the zero result.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}

		ev, err := coordinator.DecodeBrowserEvent(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := d.Coordinator.HandleEvent(r.Context(), ev)
		if err != nil {
			d.Logger.Error("event handling failed",
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "event handling failed")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
