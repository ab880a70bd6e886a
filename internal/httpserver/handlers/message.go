package handlers

import (
	"io"
	"net/http"

	"github.com/tabdeck/tabdeck/internal/coordinator"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Message handles one UI request/response round-trip.
func Message(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}

		msg, err := coordinator.DecodeMessage(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp, err := d.Coordinator.HandleMessage(r.Context(), msg)
		if err != nil {
			d.Logger.Error("message handling failed",
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "message handling failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
