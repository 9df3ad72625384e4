package main

import (
	"context"
	"log"
	"time"

	"github.com/farxc/folha-inspecao/internal/catalog"
	"github.com/farxc/folha-inspecao/internal/db"
	"github.com/farxc/folha-inspecao/internal/env"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/farxc/folha-inspecao/internal/mailer"
	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/farxc/folha-inspecao/internal/store"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	appLogger, err := logger.New(env.GetString("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	cfg := config{
		addr:            env.GetString("ADDR", ":8080"),
		catalogPath:     env.GetString("CATALOG_PATH", "dados.csv"),
		catalogEncoding: env.GetString("CATALOG_ENCODING", string(catalog.EncodingUTF8)),
		inspectionLog:   env.GetString("INSPECTION_LOG_PATH", "client.csv"),
		clientLog:       env.GetString("CLIENT_LOG_PATH", "client.csv"),
		exportDir:       env.GetString("EXPORT_DIR", "."),
		smtp:            mailer.ConfigFromEnv(),
		db: dbConfig{
			driver:       env.GetString("DB_DRIVER", db.DriverPostgres),
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 5),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 5),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
	}

	points, err := catalog.Load(cfg.catalogPath, catalog.Encoding(cfg.catalogEncoding), appLogger)
	if err != nil {
		appLogger.Fatal("Main", "Failed to load catalog: %v", err)
	}

	if cfg.smtp.Username == "" || cfg.smtp.Password == "" {
		appLogger.Warn("Main", "SMTP_USERNAME or SMTP_PASSWORD not set, email delivery will fail")
	}

	app := &application{
		config:      cfg,
		logger:      appLogger,
		catalog:     points,
		inspections: records.NewInspectionLog(cfg.inspectionLog, appLogger),
		clients:     records.NewClientLog(cfg.clientLog, appLogger),
		mailer:      mailer.NewSMTPSender(cfg.smtp, appLogger),
		now:         time.Now,
	}

	if cfg.db.addr != "" {
		conn, err := db.New(
			cfg.db.driver,
			cfg.db.addr,
			cfg.db.maxOpenConns,
			cfg.db.maxIdleConns,
			cfg.db.maxIdleTime)
		if err != nil {
			appLogger.Fatal("Main", "Failed to connect to database: %v", err)
		}
		defer conn.Close()
		appLogger.Info("Main", "Database connection pool established")

		app.store = store.NewStorage(conn)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = app.store.ExportHistory.Migrate(ctx)
		cancel()
		if err != nil {
			appLogger.Fatal("Main", "Failed to migrate export history: %v", err)
		}
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal("Main", "Server stopped: %v", err)
	}
}
