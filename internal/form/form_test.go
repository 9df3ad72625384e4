package form

import (
	"errors"
	"testing"
	"time"

	"github.com/farxc/folha-inspecao/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 30, 15, 500, time.Local)

func TestInspectionGate(t *testing.T) {
	tests := []struct {
		name    string
		form    InspectionForm
		missing []string
	}{
		{"complete", InspectionForm{Carga: "10", Lat: 38.7, Lon: -9.1}, nil},
		{"no carga", InspectionForm{Carga: "  ", Lat: 38.7, Lon: -9.1}, []string{"carga"}},
		{"zero coordinates", InspectionForm{Carga: "10"}, []string{"lat", "lon"}},
		{"empty", InspectionForm{}, []string{"carga", "lat", "lon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			var w *Warning
			require.True(t, errors.As(err, &w))
			assert.Equal(t, WarningRequired, w.Message)
			assert.Equal(t, tt.missing, w.Fields)
		})
	}
}

func TestInspectionStatus(t *testing.T) {
	f := InspectionForm{Carga: "10", Lat: 1, Lon: 1, Status: "executado"}
	var w *Warning
	require.True(t, errors.As(f.Validate(), &w))
	assert.Equal(t, []string{"status"}, w.Fields)

	f.Status = records.StatusSemAcesso
	assert.NoError(t, f.Validate())
}

func TestInspectionRecord(t *testing.T) {
	f := InspectionForm{Contador: "C1", Leitura: "100", Carga: "10", Lat: 38.7, Lon: -9.1, Obs: "portão fechado"}
	rec := f.Record(now)

	assert.Equal(t, records.StatusFraud, rec.Status)
	assert.Equal(t, "2025-03-14 09:30:15", rec.Timestamp.Format(records.TimestampLayout))
	assert.Equal(t, 0, rec.Timestamp.Nanosecond())
	assert.Equal(t, "C1", rec.Contador)
}

func TestClientGate(t *testing.T) {
	var w *Warning
	require.True(t, errors.As(ClientForm{Nome: "Ana"}.Validate(), &w))
	assert.Equal(t, WarningClientFields, w.Message)
	assert.Equal(t, []string{"endereco"}, w.Fields)

	assert.NoError(t, ClientForm{Nome: "Ana", Endereco: "Rua A"}.Validate(), "coordinates are optional for clients")

	require.True(t, errors.As(ClientForm{Nome: "Ana", Endereco: "Rua A", DtNsc: "17/05/1990"}.Validate(), &w))
	assert.Equal(t, []string{"dt_nsc"}, w.Fields)

	require.True(t, errors.As(ClientForm{Nome: "Ana", Endereco: "Rua A", Status: "Normal"}.Validate(), &w))
	assert.Equal(t, []string{"status"}, w.Fields)
}

func TestGateRejectsLineBreaks(t *testing.T) {
	var w *Warning
	forged := "FORGED,999,1,Normal,1.0,1.0,2020-01-01 00:00:00\nC1"

	err := InspectionForm{Contador: forged, Carga: "5", Lat: 38.7, Lon: -9.1}.Validate()
	require.True(t, errors.As(err, &w))
	assert.Equal(t, WarningLineBreak, w.Message)
	assert.Equal(t, []string{"contador"}, w.Fields)

	err = InspectionForm{Leitura: "1\r", Carga: "5\n", Lat: 38.7, Lon: -9.1}.Validate()
	require.True(t, errors.As(err, &w))
	assert.Equal(t, []string{"carga", "leitura"}, w.Fields)

	err = ClientForm{Nome: "Ana", Endereco: "Rua A\nRui,Rua B,1985-02-02,fraud,1,1,2020-01-01 00:00:00"}.Validate()
	require.True(t, errors.As(err, &w))
	assert.Equal(t, WarningLineBreak, w.Message)
	assert.Equal(t, []string{"endereco"}, w.Fields)
}

func TestClientRecordDefaultsBirthDate(t *testing.T) {
	rec := ClientForm{Nome: "Ana", Endereco: "Rua A"}.Record(now)
	assert.Equal(t, "2025-03-14", rec.DtNsc)
	assert.Equal(t, records.StatusFraud, rec.Status)
}

func TestStateReset(t *testing.T) {
	s := NewState(now)
	assert.Equal(t, "2025-03-14", s.Client.DtNsc)
	assert.Equal(t, records.StatusFraud, s.Inspection.Status)

	s.SelectedID = "7"
	s.Inspection = InspectionForm{Contador: "C1", Carga: "10", Status: records.StatusNormal, Lat: 1, Lon: 2}
	s.Client.Nome = "Ana"

	s.ResetInspection()
	assert.Equal(t, DefaultInspectionForm(), s.Inspection)
	assert.Equal(t, "7", s.SelectedID)
	assert.Equal(t, "Ana", s.Client.Nome)

	s.ResetClient(now)
	assert.Equal(t, DefaultClientForm(now), s.Client)
}
