package main

import (
	"encoding/json"
	"net/http"

	"github.com/farxc/folha-inspecao/internal/form"
	"github.com/farxc/folha-inspecao/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})

}

func writeJSONWarning(w http.ResponseWriter, warn *form.Warning) error {
	return writeJSON(w, http.StatusUnprocessableEntity, &response.WarningResponse{
		Success: false,
		Warning: warn.Message,
		Fields:  warn.Fields,
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(data)
}
