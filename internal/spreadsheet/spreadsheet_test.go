package spreadsheet

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadBack(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "clientes.xlsx")

	err := Write(dest, []string{"Nome", "Lat"}, [][]any{
		{"Ana", 38.7},
		{"Rui", -9.1},
	})
	require.NoError(t, err)

	rows, err := ReadRows(dest)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nome", "Lat"}, rows[0])
	assert.Equal(t, []string{"Ana", "38.7"}, rows[1])
	assert.Equal(t, []string{"Rui", "-9.1"}, rows[2])
}

func TestWriteOverwrites(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "clientes.xlsx")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	require.NoError(t, Write(dest, []string{"Nome"}, nil))

	rows, err := ReadRows(dest)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nome"}}, rows)
}

func TestConcurrentWritesLeaveCompleteWorkbook(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clientes.xlsx")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows := make([][]any, i+1)
			for r := range rows {
				rows[r] = []any{"Ana", r}
			}
			errs[i] = Write(dest, []string{"Nome", "N"}, rows)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	rows, err := ReadRows(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nome", "N"}, rows[0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are cleaned up")
	assert.Equal(t, "clientes.xlsx", entries[0].Name())
}
