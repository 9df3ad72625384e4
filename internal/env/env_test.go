package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("FOLHA_ADDR", ":9090")
	t.Setenv("FOLHA_PORT", "465")
	t.Setenv("FOLHA_BAD_PORT", "abc")
	t.Setenv("FOLHA_SSL", "false")

	assert.Equal(t, ":9090", GetString("FOLHA_ADDR", ":8080"))
	assert.Equal(t, "x", GetString("FOLHA_MISSING", "x"))
	assert.Equal(t, 465, GetInt("FOLHA_PORT", 25))
	assert.Equal(t, 25, GetInt("FOLHA_BAD_PORT", 25))
	assert.False(t, GetBool("FOLHA_SSL", true))
	assert.True(t, GetBool("FOLHA_MISSING", true))
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOLHA_FROM_FILE=dados.csv\nFOLHA_PRESET=file\n"), 0o644))

	t.Setenv("FOLHA_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("FOLHA_FROM_FILE") })

	require.NoError(t, Load(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "dados.csv", os.Getenv("FOLHA_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("FOLHA_PRESET"))
}
