// Package router assembles the HTTP surface for the clinic service.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicdesk/clinicdesk/internal/http/handlers"
	httpmiddleware "github.com/clinicdesk/clinicdesk/internal/http/middleware"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	PatientsHandler     *handlers.PatientsHandler
	AppointmentsHandler *handlers.AppointmentsHandler
	WaitingListHandler  *handlers.WaitingListHandler
	TreatmentsHandler   *handlers.TreatmentsHandler
	DataHandler         *handlers.DataHandler
	StatsHandler        *handlers.StatsHandler
	ChangeFeed          *handlers.ChangeFeedHandler
	MetricsHandler      http.Handler
	SessionSecret       string
	SessionTTL          time.Duration
	CORSAllowedOrigins  []string
}

// New creates a new chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		// The shell exchanges its login signal for the session token
		// here; the credential check itself happens upstream.
		if cfg.SessionSecret != "" {
			public.Post("/session", func(w http.ResponseWriter, _ *http.Request) {
				ttl := cfg.SessionTTL
				if ttl <= 0 {
					ttl = 12 * time.Hour
				}
				token, err := httpmiddleware.IssueSessionToken(cfg.SessionSecret, ttl)
				if err != nil {
					http.Error(w, "could not issue session", http.StatusInternalServerError)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"token":"` + token + `"}`))
			})
		}
	})

	// Session-gated API. With no secret configured the gate is a no-op
	// for local single-user runs.
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.SessionJWT(cfg.SessionSecret))

		api.Route("/patients", func(r chi.Router) {
			r.Get("/", cfg.PatientsHandler.List)
			r.Post("/", cfg.PatientsHandler.Create)
			r.Delete("/", cfg.PatientsHandler.DeleteAll)
			r.Post("/deduplicate", cfg.PatientsHandler.RemoveDuplicates)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", cfg.PatientsHandler.Update)
				r.Delete("/", cfg.PatientsHandler.Delete)
				r.Post("/history", cfg.PatientsHandler.AddTreatmentRecord)
				r.Get("/vcard", cfg.PatientsHandler.ExportVCard)
				r.Get("/whatsapp", cfg.PatientsHandler.WhatsAppLink)
			})
		})

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.List)
			r.Post("/", cfg.AppointmentsHandler.Upsert)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/status", cfg.AppointmentsHandler.SetStatus)
				r.Delete("/", cfg.AppointmentsHandler.Delete)
			})
		})

		api.Route("/waiting-list", func(r chi.Router) {
			r.Get("/", cfg.WaitingListHandler.List)
			r.Post("/", cfg.WaitingListHandler.Add)
			r.Delete("/{id}", cfg.WaitingListHandler.Remove)
		})

		api.Route("/treatments", func(r chi.Router) {
			r.Get("/", cfg.TreatmentsHandler.List)
			r.Post("/", cfg.TreatmentsHandler.Upsert)
			r.Delete("/{id}", cfg.TreatmentsHandler.Delete)
		})

		api.Route("/data", func(r chi.Router) {
			r.Post("/backup", cfg.DataHandler.CreateBackup)
			r.Get("/backup/last", cfg.DataHandler.LastBackup)
			r.Post("/restore", cfg.DataHandler.Restore)
			r.Post("/import/csv", cfg.DataHandler.ImportCSV)
			r.Post("/import/vcard", cfg.DataHandler.ImportVCard)
			r.Get("/export/csv", cfg.DataHandler.ExportCSV)
			r.Get("/export/vcard", cfg.DataHandler.ExportVCard)
		})

		api.Get("/stats", cfg.StatsHandler.Get)

		if cfg.ChangeFeed != nil {
			api.Get("/ws/changes", cfg.ChangeFeed.ServeHTTP)
		}
	})

	return r
}
