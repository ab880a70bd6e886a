package handlers

import (
	"net/http"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type backgroundBody struct {
	Value string `json:"value"`
}

func BackgroundGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, err := d.Store.GetBackground(r.Context())
		if err != nil {
			d.Logger.Error("failed to read background", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read background")
			return
		}
		writeJSON(w, http.StatusOK, backgroundBody{Value: value})
	}
}

func BackgroundPut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backgroundBody
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Store.SaveBackground(r.Context(), req.Value); err != nil {
			d.Logger.Error("failed to save background", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save background")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
