package main

import (
	"fmt"
	"net/http"

	"github.com/farxc/folha-inspecao/internal/response"
	"github.com/farxc/folha-inspecao/internal/spreadsheet"
	"github.com/farxc/folha-inspecao/internal/store"
)

type GetExportHistoryResponse = response.APIResponse[[]store.ExportHistory]

// @Summary		Get export history
// @Description	Get a list of the latest exports and email dispatches.
// @Tags			Exports
// @Produce		json
// @Param			limit	query		int							false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetExportHistoryResponse	"Successfully retrieved latest export records"
// @Failure		503		{object}	response.ErrorResponse		"No database configured"
// @Failure		500		{object}	response.ErrorResponse		"Failed to get export history"
// @Router			/exports/history [get]
func (app *application) handleGetExportHistory(w http.ResponseWriter, r *http.Request) {
	if app.store == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "export history is not configured")
		return
	}

	limit := parseLimit(r, 10)

	ctx := r.Context()
	data, err := app.store.ExportHistory.GetLatest(ctx, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get export history: "+err.Error())
		return
	}

	response := &GetExportHistoryResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest export records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func serveDownload(w http.ResponseWriter, r *http.Request, path, filename string) {
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}
