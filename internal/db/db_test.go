package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteMemory(t *testing.T) {
	db, err := New(DriverSQLite, ":memory:", 1, 1, "15m")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.DriverName())

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
}

func TestNewRejectsBadIdleTime(t *testing.T) {
	_, err := New(DriverSQLite, ":memory:", 1, 1, "fifteen")
	assert.Error(t, err)
}
