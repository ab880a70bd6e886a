package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type blocklistResponse struct {
	Blocklist []domain.BlockedItem `json:"blocklist"`
}

func BlocklistList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Store.GetBlocklist(r.Context())
		if err != nil {
			d.Logger.Error("failed to read blocklist", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read blocklist")
			return
		}
		if list == nil {
			list = []domain.BlockedItem{}
		}
		writeJSON(w, http.StatusOK, blocklistResponse{Blocklist: list})
	}
}

func BlocklistAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		item, err := d.Store.AddBlockedItem(r.Context(), req.URL)
		if err != nil {
			d.Logger.Error("failed to add blocklist entry",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to add blocklist entry")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func BlocklistToggle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := chi.URLParam(r, "host")
		if err := d.Store.ToggleBlockedItem(r.Context(), host); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func BlocklistDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := chi.URLParam(r, "host")
		if err := d.Store.RemoveBlockedItem(r.Context(), host); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
