package form

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/farxc/folha-inspecao/internal/records"
)

const (
	WarningRequired      = "Por favor, preencha os campos obrigatórios."
	WarningClientFields  = "Por favor, preencha nome e endereço."
	SuccessInspection    = "Inspeção validada com sucesso!"
	SuccessClient        = "Cliente cadastrado com sucesso!"
	WarningInvalidStatus = "Status inválido."
	WarningLineBreak     = "Os campos não podem conter quebras de linha."
)

// Warning is returned by the validation gate. It never reaches the record
// store and is shown to the user as a warning, not as an error.
type Warning struct {
	Message string
	Fields  []string
}

func (w *Warning) Error() string {
	if len(w.Fields) == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (%s)", w.Message, strings.Join(w.Fields, ", "))
}

// InspectionForm holds the fields of the inspection screen for one request.
// Obs is displayed by the sheet variant but never written to the log.
type InspectionForm struct {
	Contador string  `json:"contador"`
	Leitura  string  `json:"leitura"`
	Carga    string  `json:"carga"`
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Obs      string  `json:"obs,omitempty"`
}

func DefaultInspectionForm() InspectionForm {
	return InspectionForm{Status: records.InspectionStatuses[0]}
}

// Validate requires carga, lat and lon to be non-empty and non-zero.
func (f InspectionForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Carga) == "" {
		missing = append(missing, "carga")
	}
	if f.Lat == 0 {
		missing = append(missing, "lat")
	}
	if f.Lon == 0 {
		missing = append(missing, "lon")
	}
	if len(missing) > 0 {
		return &Warning{Message: WarningRequired, Fields: missing}
	}
	if broken := lineBreaks(map[string]string{
		"contador": f.Contador,
		"leitura":  f.Leitura,
		"carga":    f.Carga,
		"status":   f.Status,
	}); len(broken) > 0 {
		return &Warning{Message: WarningLineBreak, Fields: broken}
	}
	if !validStatus(f.Status, records.InspectionStatuses) {
		return &Warning{Message: WarningInvalidStatus, Fields: []string{"status"}}
	}
	return nil
}

func (f InspectionForm) Record(now time.Time) records.InspectionRecord {
	return records.InspectionRecord{
		Contador:  f.Contador,
		Leitura:   f.Leitura,
		Carga:     f.Carga,
		Status:    statusOrDefault(f.Status, records.InspectionStatuses),
		Lat:       f.Lat,
		Lon:       f.Lon,
		Timestamp: now.Truncate(time.Second),
	}
}

// ClientForm holds the fields of the client registration screen.
type ClientForm struct {
	Nome     string  `json:"nome"`
	Endereco string  `json:"endereco"`
	DtNsc    string  `json:"dt_nsc"`
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

func DefaultClientForm(today time.Time) ClientForm {
	return ClientForm{DtNsc: today.Format(records.DateLayout), Status: records.ClientStatuses[0]}
}

// Validate requires nome and endereco. An empty birth date is filled with
// today on Record; a malformed one is rejected.
func (f ClientForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Nome) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(f.Endereco) == "" {
		missing = append(missing, "endereco")
	}
	if len(missing) > 0 {
		return &Warning{Message: WarningClientFields, Fields: missing}
	}
	if broken := lineBreaks(map[string]string{
		"nome":     f.Nome,
		"endereco": f.Endereco,
		"dt_nsc":   f.DtNsc,
		"status":   f.Status,
	}); len(broken) > 0 {
		return &Warning{Message: WarningLineBreak, Fields: broken}
	}
	if !validStatus(f.Status, records.ClientStatuses) {
		return &Warning{Message: WarningInvalidStatus, Fields: []string{"status"}}
	}
	if f.DtNsc != "" {
		if _, err := time.Parse(records.DateLayout, f.DtNsc); err != nil {
			return &Warning{Message: "Data de nascimento inválida.", Fields: []string{"dt_nsc"}}
		}
	}
	return nil
}

func (f ClientForm) Record(now time.Time) records.ClientRecord {
	dt := f.DtNsc
	if dt == "" {
		dt = now.Format(records.DateLayout)
	}
	return records.ClientRecord{
		Nome:      f.Nome,
		Endereco:  f.Endereco,
		DtNsc:     dt,
		Status:    statusOrDefault(f.Status, records.ClientStatuses),
		Lat:       f.Lat,
		Lon:       f.Lon,
		Timestamp: now.Truncate(time.Second),
	}
}

// State is the per-session form state. It replaces ambient shared keys: the
// handler builds it from the request and returns the reset copy after a
// successful submission.
type State struct {
	Inspection InspectionForm `json:"inspection"`
	Client     ClientForm     `json:"client"`
	SelectedID string         `json:"selected_id,omitempty"`
}

func NewState(today time.Time) State {
	return State{Inspection: DefaultInspectionForm(), Client: DefaultClientForm(today)}
}

// ResetInspection clears the inspection fields and keeps the selected point.
func (s *State) ResetInspection() {
	s.Inspection = DefaultInspectionForm()
}

func (s *State) ResetClient(today time.Time) {
	s.Client = DefaultClientForm(today)
}

// lineBreaks returns the sorted names of the fields holding a CR or LF. A
// record is exactly one log line, so those fields are never written.
func lineBreaks(fields map[string]string) []string {
	var broken []string
	for name, v := range fields {
		if strings.ContainsAny(v, "\r\n") {
			broken = append(broken, name)
		}
	}
	slices.Sort(broken)
	return broken
}

func validStatus(status string, allowed []string) bool {
	return status == "" || slices.Contains(allowed, status)
}

func statusOrDefault(status string, allowed []string) string {
	if status == "" {
		return allowed[0]
	}
	return status
}
