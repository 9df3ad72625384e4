package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampLayout is the second-precision creation time written to the log.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is used for birth dates.
	DateLayout = "2006-01-02"
)

var (
	StatusFraud     = "fraud"
	StatusNormal    = "Normal"
	StatusExecutado = "executado"
	StatusSemAcesso = "Sem acesso"
)

// InspectionStatuses and ClientStatuses are the values offered by each form,
// first one being the default.
var (
	InspectionStatuses = []string{StatusFraud, StatusNormal, StatusSemAcesso}
	ClientStatuses     = []string{StatusFraud, StatusExecutado, StatusSemAcesso}
)

// InspectionRecord is one validated meter inspection.
type InspectionRecord struct {
	Contador  string    `json:"contador"`
	Leitura   string    `json:"leitura"`
	Carga     string    `json:"carga"`
	Status    string    `json:"status"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientRecord is one registered client. DtNsc keeps the YYYY-MM-DD text.
type ClientRecord struct {
	Nome      string    `json:"nome"`
	Endereco  string    `json:"endereco"`
	DtNsc     string    `json:"dt_nsc"`
	Status    string    `json:"status"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// Layout maps a record type to its line fields and spreadsheet columns.
type Layout[T any] interface {
	Columns() []string
	Encode(rec T) []string
	Decode(fields []string) (T, error)
	Cells(rec T) []any
}

type InspectionLayout struct{}

func (InspectionLayout) Columns() []string {
	return []string{"Contador", "Leitura", "Carga", "Status", "Lat", "Lon", "Data_Status"}
}

func (InspectionLayout) Encode(r InspectionRecord) []string {
	return []string{r.Contador, r.Leitura, r.Carga, r.Status, formatFloat(r.Lat), formatFloat(r.Lon), r.Timestamp.Format(TimestampLayout)}
}

func (l InspectionLayout) Decode(f []string) (InspectionRecord, error) {
	if err := checkFieldCount(f, len(l.Columns())); err != nil {
		return InspectionRecord{}, err
	}
	lat, lon, ts, err := decodeTail(f[4], f[5], f[6])
	if err != nil {
		return InspectionRecord{}, err
	}
	return InspectionRecord{Contador: f[0], Leitura: f[1], Carga: f[2], Status: f[3], Lat: lat, Lon: lon, Timestamp: ts}, nil
}

func (InspectionLayout) Cells(r InspectionRecord) []any {
	return []any{r.Contador, r.Leitura, r.Carga, r.Status, r.Lat, r.Lon, r.Timestamp.Format(TimestampLayout)}
}

type ClientLayout struct{}

func (ClientLayout) Columns() []string {
	return []string{"Nome", "Endereço", "Nascimento", "Status", "Lat", "Long", "Data_Status"}
}

func (ClientLayout) Encode(r ClientRecord) []string {
	return []string{r.Nome, r.Endereco, r.DtNsc, r.Status, formatFloat(r.Lat), formatFloat(r.Lon), r.Timestamp.Format(TimestampLayout)}
}

func (l ClientLayout) Decode(f []string) (ClientRecord, error) {
	if err := checkFieldCount(f, len(l.Columns())); err != nil {
		return ClientRecord{}, err
	}
	lat, lon, ts, err := decodeTail(f[4], f[5], f[6])
	if err != nil {
		return ClientRecord{}, err
	}
	return ClientRecord{Nome: f[0], Endereco: f[1], DtNsc: f[2], Status: f[3], Lat: lat, Lon: lon, Timestamp: ts}, nil
}

func (ClientLayout) Cells(r ClientRecord) []any {
	return []any{r.Nome, r.Endereco, r.DtNsc, r.Status, r.Lat, r.Lon, r.Timestamp.Format(TimestampLayout)}
}

func checkFieldCount(f []string, want int) error {
	if len(f) != want {
		return fmt.Errorf("expected %d fields, got %d", want, len(f))
	}
	return nil
}

func decodeTail(latStr, lonStr, tsStr string) (float64, float64, time.Time, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("lat %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("lon %q: %w", lonStr, err)
	}
	ts, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(tsStr), time.Local)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("timestamp %q: %w", tsStr, err)
	}
	return lat, lon, ts, nil
}

// formatFloat writes the shortest representation that keeps at least one
// decimal, so 0 is written as 0.0.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
