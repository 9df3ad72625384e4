package main

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/farxc/folha-inspecao/internal/store"
)

const (
	clientsExportFile     = "clientes.xlsx"
	inspectionsExportFile = "inspecoes.xlsx"
)

func (app *application) exportPath(name string) string {
	return filepath.Join(app.config.exportDir, name)
}

func parseLimit(r *http.Request, fallback int) int {
	limitParam := r.URL.Query().Get("limit")
	if limitParam == "" {
		return fallback
	}
	if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
		return l
	}
	return fallback
}

// recordExport stores a history entry when a database is configured. Failures
// are logged and never fail the request.
func (app *application) recordExport(ctx context.Context, entry *store.ExportHistory) {
	if app.store == nil {
		return
	}
	entry.CreatedAt = app.now()
	if err := app.store.ExportHistory.InsertExportHistory(ctx, entry); err != nil {
		app.logger.Error("ExportHistory", "Failed to record export: kind=%s status=%s error=%v", entry.Kind, entry.Status, err)
	}
}
