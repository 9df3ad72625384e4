package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/farxc/folha-inspecao/internal/form"
	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/farxc/folha-inspecao/internal/response"
	"github.com/farxc/folha-inspecao/internal/store"
)

type SubmitResult[T any] struct {
	Record T `json:"record"`
	// Obs is echoed back and never stored.
	Obs string `json:"obs,omitempty"`
	// State is the reset form state the client should render next.
	State form.State `json:"state"`
}

type ListingView[T any] struct {
	Columns []string `json:"columns"`
	Records []T      `json:"records"`
	Skipped int      `json:"skipped"`
}

type inspectionSubmission struct {
	form.InspectionForm
	SelectedID string `json:"selected_id"`
}

type CreateInspectionResponse = response.APIResponse[SubmitResult[records.InspectionRecord]]
type ListInspectionsResponse = response.APIResponse[ListingView[records.InspectionRecord]]

const partialReadWarning = "Algumas linhas do registo não puderam ser lidas e foram ignoradas."

// @Summary		Validate an inspection
// @Description	Appends an inspection to the log when carga, lat and lon are filled.
// @Tags			Inspections
// @Accept			json
// @Produce		json
// @Param			inspection	body		inspectionSubmission		true	"Inspection form and selected point"
// @Success		201			{object}	CreateInspectionResponse
// @Failure		422			{object}	response.WarningResponse	"Required fields missing"
// @Failure		500			{object}	response.ErrorResponse
// @Router			/inspections [post]
func (app *application) handleCreateInspection(w http.ResponseWriter, r *http.Request) {
	const component = "Inspections"

	input := inspectionSubmission{InspectionForm: form.DefaultInspectionForm()}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := input.Validate(); err != nil {
		var warn *form.Warning
		if errors.As(err, &warn) {
			writeJSONWarning(w, warn)
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := app.now()
	rec := input.Record(now)
	if err := app.inspections.Append(rec); err != nil {
		app.logger.Error(component, "Failed to append inspection: error=%v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save inspection: "+err.Error())
		return
	}
	app.logger.Info(component, "Inspection validated: contador=%s status=%s", rec.Contador, rec.Status)

	state := form.NewState(now)
	state.Inspection = input.InspectionForm
	state.SelectedID = strings.TrimSpace(input.SelectedID)
	state.ResetInspection()

	response := &CreateInspectionResponse{
		Success: true,
		Message: form.SuccessInspection,
		Data:    SubmitResult[records.InspectionRecord]{Record: rec, Obs: input.Obs, State: state},
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		List inspections
// @Description	Every parseable inspection in append order; unreadable lines are counted in skipped.
// @Tags			Inspections
// @Produce		json
// @Success		200	{object}	ListInspectionsResponse
// @Failure		500	{object}	response.ErrorResponse
// @Router			/inspections [get]
func (app *application) handleListInspections(w http.ResponseWriter, r *http.Request) {
	listing, err := app.inspections.ListAll()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Erro ao carregar dados: "+err.Error())
		return
	}

	response := &ListInspectionsResponse{
		Success: true,
		Data:    ListingView[records.InspectionRecord]{Columns: app.inspections.Columns(), Records: listing.Records, Skipped: listing.Skipped},
	}
	if listing.Err() != nil {
		response.Warning = partialReadWarning
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Export inspections
// @Description	Regenerates the inspections spreadsheet and downloads it.
// @Tags			Inspections
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		500	{object}	response.ErrorResponse
// @Router			/inspections/export [get]
func (app *application) handleExportInspections(w http.ResponseWriter, r *http.Request) {
	dest := app.exportPath(inspectionsExportFile)

	n, err := app.inspections.Export(dest)
	if err != nil {
		app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindInspections, Destination: dest, Status: store.StatusFailure, ErrorMessage: err.Error()})
		writeJSONError(w, http.StatusInternalServerError, "failed to export inspections: "+err.Error())
		return
	}
	app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindInspections, Destination: dest, RowCount: n, Status: store.StatusExported})

	serveDownload(w, r, dest, inspectionsExportFile)
}
