package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"
)

const sample = `id,lat,long,contador,leitura,MatContador,MedFat
7,38.7,-9.1,C1,100,M1,F1
8,38.71,-9.12,C2,0042,M2,F2
7,40.0,-8.0,DUP,1,M3,F3
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dados.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndFind(t *testing.T) {
	c, err := Load(writeCatalog(t, sample), EncodingUTF8, logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"7", "8", "7"}, c.IDs())

	for _, id := range []string{"7", "8"} {
		p, err := c.FindByID(id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
	}

	p, err := c.FindByID("7")
	require.NoError(t, err)
	assert.Equal(t, Point{ID: "7", Lat: 38.7, Long: -9.1, Contador: "C1", Leitura: "100", MatContador: "M1", MedFat: "F1"}, p)

	p, err = c.FindByID(" 8 ")
	require.NoError(t, err)
	assert.Equal(t, "0042", p.Leitura, "readings keep their literal text")
}

func TestFindUnknownID(t *testing.T) {
	c, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	_, err = c.FindByID("99")
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), EncodingUTF8, logger.NewNop())
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeCatalog(t, "id,lat,long,contador\n7,38.7,-9.1,C1\n")

	_, err := Load(path, EncodingUTF8, logger.NewNop())
	require.ErrorIs(t, err, data.ErrMalformedData)
	assert.Contains(t, err.Error(), "leitura, MatContador, MedFat")
}

func TestLoadSkipsRowsWithoutCoordinates(t *testing.T) {
	content := "id,lat,long,contador,leitura,MatContador,MedFat\n" +
		"7,38.7,-9.1,C1,100,M1,F1\n" +
		"8,,,C2,,M2,F2\n" +
		"9,north,-9.1,C3,1,M3,F3\n" +
		"10,NaN,-9.1,C4,1,M4,F4\n" +
		"11,38.72,-9.13,C5,1,M5,F5\n"

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := Load(writeCatalog(t, content), EncodingUTF8, logger.FromZap(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "11"}, c.IDs())
	assert.Equal(t, 3, c.Skipped())

	_, err = c.FindByID("8")
	assert.ErrorIs(t, err, data.ErrNotFound)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "skipped=3")
}

func TestReadHeaderOnlyIsEmpty(t *testing.T) {
	for _, content := range []string{
		"id,lat,long,contador,leitura,MatContador,MedFat\n",
		"id,lat,long,contador,leitura,MatContador,MedFat",
	} {
		c, err := Read(strings.NewReader(content))
		require.NoError(t, err)
		assert.Zero(t, c.Len())
		assert.Empty(t, c.IDs())
	}

	_, err := Read(strings.NewReader("id,lat\n"))
	assert.ErrorIs(t, err, data.ErrMalformedData, "columns are still checked without rows")

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, data.ErrMalformedData)
}

func TestLoadWindows1252(t *testing.T) {
	raw := "id,lat,long,contador,leitura,MatContador,MedFat\n1,38.7,-9.1,Medição,5,M1,F1\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(raw)
	require.NoError(t, err)

	c, err := Load(writeCatalog(t, encoded), EncodingWindows1252, logger.NewNop())
	require.NoError(t, err)

	p, err := c.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Medição", p.Contador)
}

func TestPointsReturnsCopy(t *testing.T) {
	c, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	pts := c.Points()
	pts[0].Contador = "changed"

	p, err := c.FindByID("7")
	require.NoError(t, err)
	assert.Equal(t, "C1", p.Contador)
}
