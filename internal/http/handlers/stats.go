package handlers

import (
	"net/http"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// StatsHandler serves the dashboard roll-up.
type StatsHandler struct {
	store  *clinic.Store
	logger *logging.Logger
}

func NewStatsHandler(store *clinic.Store, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{store: store, logger: logger}
}

// Get returns the stats for a day, defaulting to today.
// Route: GET /stats?date=2025-06-05
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	writeJSON(w, http.StatusOK, h.store.StatsFor(day))
}
