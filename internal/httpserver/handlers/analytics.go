package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/tracker"
)

const defaultAnalyticsLimit = 10

type analyticsResponse struct {
	Range   string                `json:"range"`
	Domains []tracker.DomainTotal `json:"domains"`
}

// Analytics reports per-domain dwell totals over daily, weekly or monthly
// windows.
func Analytics(d deps.Deps) http.HandlerFunc {
	timeNow := d.TimeNow
	if timeNow == nil {
		timeNow = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rng := r.URL.Query().Get("range")
		if rng == "" {
			rng = "daily"
		}

		now := timeNow()
		var since time.Time
		switch rng {
		case "daily":
			since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		case "weekly":
			since = now.AddDate(0, 0, -7)
		case "monthly":
			since = now.AddDate(0, -1, 0)
		default:
			writeError(w, http.StatusBadRequest, "range must be daily, weekly or monthly")
			return
		}

		limit := defaultAnalyticsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		domains, err := d.Tracker.TopDomains(r.Context(), since, limit)
		if err != nil {
			d.Logger.Error("failed to compute analytics", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to compute analytics")
			return
		}
		if domains == nil {
			domains = []tracker.DomainTotal{}
		}
		writeJSON(w, http.StatusOK, analyticsResponse{Range: rng, Domains: domains})
	}
}
