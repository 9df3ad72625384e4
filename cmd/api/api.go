package main

import (
	"net/http"
	"time"

	"github.com/farxc/folha-inspecao/internal/catalog"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/farxc/folha-inspecao/internal/mailer"
	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/farxc/folha-inspecao/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type application struct {
	config      config
	logger      *logger.Logger
	catalog     *catalog.Catalog
	inspections *records.Log[records.InspectionRecord]
	clients     *records.Log[records.ClientRecord]
	mailer      mailer.Sender
	// store is nil when no database is configured.
	store *store.Storage
	now   func() time.Time
}

type config struct {
	addr            string
	catalogPath     string
	catalogEncoding string
	inspectionLog   string
	clientLog       string
	exportDir       string
	smtp            mailer.Config
	db              dbConfig
}

type dbConfig struct {
	driver       string
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/points", func(r chi.Router) {
			r.Get("/", app.handleListPoints)
			r.Get("/{id}", app.handleGetPoint)
		})
		r.Route("/inspections", func(r chi.Router) {
			r.Get("/", app.handleListInspections)
			r.Post("/", app.handleCreateInspection)
			r.Get("/export", app.handleExportInspections)
		})
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", app.handleListClients)
			r.Post("/", app.handleCreateClient)
			r.Get("/export", app.handleExportClients)
			r.Post("/email", app.handleEmailClients)
		})
		r.Route("/exports", func(r chi.Router) {
			r.Get("/history", app.handleGetExportHistory)
		})
	})

	return r
}

func (app *application) requestLogger(next http.Handler) http.Handler {
	const component = "HTTP"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			app.logger.Info(component, "%s %s status=%d bytes=%d duration=%s request_id=%s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info("Server", "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
