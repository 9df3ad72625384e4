package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/farxc/folha-inspecao/internal/db"
	"github.com/farxc/folha-inspecao/internal/env"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/farxc/folha-inspecao/internal/mailer"
	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/farxc/folha-inspecao/internal/store"
)

type options struct {
	kind      string
	source    string
	out       string
	recipient string
	trigger   string
}

type exporter struct {
	sender  mailer.Sender
	storage *store.Storage
	logger  *logger.Logger
}

func (e *exporter) run(ctx context.Context, opts options) (int, error) {
	const component = "Exporter"

	var (
		n   int
		err error
	)
	switch opts.kind {
	case store.KindClients:
		n, err = records.NewClientLog(opts.source, e.logger).Export(opts.out)
	case store.KindInspections:
		n, err = records.NewInspectionLog(opts.source, e.logger).Export(opts.out)
	default:
		return 0, fmt.Errorf("unknown kind %q (want %s or %s)", opts.kind, store.KindClients, store.KindInspections)
	}

	entry := &store.ExportHistory{Kind: opts.kind, Destination: opts.out, RowCount: n, Status: store.StatusExported}
	if err != nil {
		entry.Status = store.StatusFailure
		entry.ErrorMessage = err.Error()
		e.record(ctx, entry)
		return 0, err
	}
	e.logger.Info(component, "Export ready: kind=%s out=%s rows=%d trigger=%s", opts.kind, opts.out, n, opts.trigger)

	if opts.recipient != "" {
		to, err := mailer.ValidateRecipient(opts.recipient)
		if err != nil {
			return n, err
		}
		entry.Recipient = to
		if err := e.sender.Send(ctx, mailer.ExportMessage(to, opts.out)); err != nil {
			entry.Status = store.StatusFailure
			entry.ErrorMessage = err.Error()
			e.record(ctx, entry)
			return n, err
		}
		entry.Status = store.StatusSent
	}

	e.record(ctx, entry)
	return n, nil
}

func (e *exporter) record(ctx context.Context, entry *store.ExportHistory) {
	if e.storage == nil {
		return
	}
	if err := e.storage.ExportHistory.InsertExportHistory(ctx, entry); err != nil {
		e.logger.Error("Exporter", "Failed to insert export history: kind=%s error=%v", entry.Kind, err)
	}
}

func main() {
	const component = "Main"

	if err := env.Load(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	kindPtr := flag.String("kind", store.KindClients, "Records to export: clients, inspections")
	sourcePtr := flag.String("source", "", "Log file to read (defaults to CLIENT_LOG_PATH or INSPECTION_LOG_PATH)")
	outPtr := flag.String("out", "", "Spreadsheet to write (defaults to clientes.xlsx or inspecoes.xlsx)")
	toPtr := flag.String("to", "", "Email the spreadsheet to this address")
	triggerPtr := flag.String("trigger", "manual", "Trigger source: manual, scheduled")
	logLevelPtr := flag.String("loglevel", env.GetString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	appLogger, err := logger.New(*logLevelPtr)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	opts := options{
		kind:      strings.ToLower(*kindPtr),
		source:    *sourcePtr,
		out:       *outPtr,
		recipient: *toPtr,
		trigger:   *triggerPtr,
	}
	if opts.source == "" {
		if opts.kind == store.KindInspections {
			opts.source = env.GetString("INSPECTION_LOG_PATH", "client.csv")
		} else {
			opts.source = env.GetString("CLIENT_LOG_PATH", "client.csv")
		}
	}
	if opts.out == "" {
		if opts.kind == store.KindInspections {
			opts.out = "inspecoes.xlsx"
		} else {
			opts.out = "clientes.xlsx"
		}
	}

	e := &exporter{
		sender: mailer.NewSMTPSender(mailer.ConfigFromEnv(), appLogger),
		logger: appLogger,
	}

	if addr := env.GetString("DB_ADDR", ""); addr != "" {
		database, err := db.New(
			env.GetString("DB_DRIVER", db.DriverPostgres),
			addr,
			env.GetInt("DB_MAX_OPEN_CONNS", 2),
			env.GetInt("DB_MAX_IDLE_CONNS", 2),
			env.GetString("DB_MAX_IDLE_TIME", "15m"))
		if err != nil {
			appLogger.Fatal(component, "Database connection failed: error=%v", err)
		}
		defer database.Close()
		e.storage = store.NewStorage(database)
	}

	starting := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if e.storage != nil {
		if err := e.storage.ExportHistory.Migrate(ctx); err != nil {
			appLogger.Fatal(component, "Failed to migrate export history: error=%v", err)
		}
	}

	n, err := e.run(ctx, opts)
	if err != nil {
		appLogger.Fatal(component, "Export failed: kind=%s error=%v", opts.kind, err)
	}

	appLogger.Info(component, "Export completed: rows=%d duration=%.2f seconds", n, time.Since(starting).Seconds())
}
