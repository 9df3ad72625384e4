package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/form"
	"github.com/farxc/folha-inspecao/internal/mailer"
	"github.com/farxc/folha-inspecao/internal/mapview"
	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/farxc/folha-inspecao/internal/response"
	"github.com/farxc/folha-inspecao/internal/store"
)

type ClientSubmitResult struct {
	SubmitResult[records.ClientRecord]
	Location mapview.Marker `json:"location"`
}

type clientSubmission struct {
	form.ClientForm
	SelectedID string `json:"selected_id"`
}

type ClientListingView struct {
	ListingView[records.ClientRecord]
	Locations []mapview.Marker `json:"locations"`
}

type EmailResult struct {
	Recipient string `json:"recipient"`
	Rows      int    `json:"rows"`
}

type CreateClientResponse = response.APIResponse[ClientSubmitResult]
type ListClientsResponse = response.APIResponse[ClientListingView]
type EmailClientsResponse = response.APIResponse[EmailResult]

const (
	emailSentMessage       = "E-mail enviado com sucesso!"
	invalidRecipientNotice = "Insira um e-mail válido."
)

// @Summary		Register a client
// @Description	Appends a client to the log when nome and endereco are filled.
// @Tags			Clients
// @Accept			json
// @Produce		json
// @Param			client	body		clientSubmission			true	"Client form and selected point"
// @Success		201		{object}	CreateClientResponse
// @Failure		422		{object}	response.WarningResponse	"Required fields missing"
// @Failure		500		{object}	response.ErrorResponse
// @Router			/clients [post]
func (app *application) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	const component = "Clients"

	now := app.now()
	input := clientSubmission{ClientForm: form.DefaultClientForm(now)}
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

	rec := input.Record(now)
	if err := app.clients.Append(rec); err != nil {
		app.logger.Error(component, "Failed to append client: error=%v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save client: "+err.Error())
		return
	}
	app.logger.Info(component, "Client registered: status=%s", rec.Status)

	state := form.NewState(now)
	state.Client = input.ClientForm
	state.SelectedID = strings.TrimSpace(input.SelectedID)
	state.ResetClient(now)

	response := &CreateClientResponse{
		Success: true,
		Message: form.SuccessClient,
		Data: ClientSubmitResult{
			SubmitResult: SubmitResult[records.ClientRecord]{Record: rec, State: state},
			Location:     mapview.Marker{Lat: rec.Lat, Long: rec.Lon},
		},
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		List clients
// @Description	Every parseable client record plus the map locations of all of them.
// @Tags			Clients
// @Produce		json
// @Success		200	{object}	ListClientsResponse
// @Failure		500	{object}	response.ErrorResponse
// @Router			/clients [get]
func (app *application) handleListClients(w http.ResponseWriter, r *http.Request) {
	listing, err := app.clients.ListAll()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Erro ao carregar dados: "+err.Error())
		return
	}

	coords := make([][2]float64, len(listing.Records))
	for i, rec := range listing.Records {
		coords[i] = [2]float64{rec.Lat, rec.Lon}
	}

	response := &ListClientsResponse{
		Success: true,
		Data: ClientListingView{
			ListingView: ListingView[records.ClientRecord]{Columns: app.clients.Columns(), Records: listing.Records, Skipped: listing.Skipped},
			Locations:   mapview.Locations(coords),
		},
	}
	if listing.Err() != nil {
		response.Warning = partialReadWarning
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Export clients
// @Description	Regenerates clientes.xlsx and downloads it.
// @Tags			Clients
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		500	{object}	response.ErrorResponse
// @Router			/clients/export [get]
func (app *application) handleExportClients(w http.ResponseWriter, r *http.Request) {
	dest := app.exportPath(clientsExportFile)

	n, err := app.clients.Export(dest)
	if err != nil {
		app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindClients, Destination: dest, Status: store.StatusFailure, ErrorMessage: err.Error()})
		writeJSONError(w, http.StatusInternalServerError, "failed to export clients: "+err.Error())
		return
	}
	app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindClients, Destination: dest, RowCount: n, Status: store.StatusExported})

	serveDownload(w, r, dest, clientsExportFile)
}

// @Summary		Email the client export
// @Description	Regenerates clientes.xlsx and sends it as an attachment to recipient.
// @Tags			Clients
// @Accept			json
// @Produce		json
// @Param			email	body		object{recipient:string}	true	"Recipient"
// @Success		200		{object}	EmailClientsResponse
// @Failure		422		{object}	response.WarningResponse	"Missing or invalid recipient"
// @Failure		502		{object}	response.ErrorResponse		"Relay failure"
// @Router			/clients/email [post]
func (app *application) handleEmailClients(w http.ResponseWriter, r *http.Request) {
	const component = "Clients"

	var input struct {
		Recipient string `json:"recipient"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipient, err := mailer.ValidateRecipient(input.Recipient)
	if err != nil {
		writeJSONWarning(w, &form.Warning{Message: invalidRecipientNotice, Fields: []string{"recipient"}})
		return
	}

	dest := app.exportPath(clientsExportFile)
	n, err := app.clients.Export(dest)
	if err != nil {
		app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindClients, Destination: dest, Recipient: recipient, Status: store.StatusFailure, ErrorMessage: err.Error()})
		writeJSONError(w, http.StatusInternalServerError, "failed to export clients: "+err.Error())
		return
	}

	if err := app.mailer.Send(r.Context(), mailer.ExportMessage(recipient, dest)); err != nil {
		app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindClients, Destination: dest, Recipient: recipient, RowCount: n, Status: store.StatusFailure, ErrorMessage: err.Error()})

		var te *data.TransportError
		if errors.As(err, &te) {
			writeJSONError(w, http.StatusBadGateway, "Erro ao enviar e-mail: "+te.Err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Erro ao enviar e-mail: "+err.Error())
		return
	}
	app.logger.Info(component, "Client export emailed: recipient=%s rows=%d", recipient, n)
	app.recordExport(r.Context(), &store.ExportHistory{Kind: store.KindClients, Destination: dest, Recipient: recipient, RowCount: n, Status: store.StatusSent})

	response := &EmailClientsResponse{
		Success: true,
		Message: emailSentMessage,
		Data:    EmailResult{Recipient: recipient, Rows: n},
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
