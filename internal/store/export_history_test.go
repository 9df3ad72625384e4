package store

import (
	"context"
	"testing"
	"time"

	"github.com/farxc/folha-inspecao/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	conn, err := db.New(db.DriverSQLite, ":memory:", 1, 1, "15m")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s := NewStorage(conn)
	require.NoError(t, s.ExportHistory.Migrate(context.Background()))
	return s
}

func TestInsertAndGetLatest(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	entries := []*ExportHistory{
		{Kind: KindClients, Destination: "exports/clientes.xlsx", RowCount: 3, Status: StatusExported, CreatedAt: base},
		{Kind: KindClients, Destination: "exports/clientes.xlsx", Recipient: "ana@example.com", RowCount: 3, Status: StatusSent, CreatedAt: base.Add(time.Minute)},
		{Kind: KindInspections, Destination: "exports/inspecoes.xlsx", Status: StatusFailure, ErrorMessage: "disk full", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, s.ExportHistory.InsertExportHistory(ctx, e))
		assert.NotZero(t, e.ID)
	}

	latest, err := s.ExportHistory.GetLatest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, KindInspections, latest[0].Kind)
	assert.Equal(t, "disk full", latest[0].ErrorMessage)
	assert.Equal(t, "ana@example.com", latest[1].Recipient)
	assert.True(t, latest[1].CreatedAt.Equal(base.Add(time.Minute)))
}

func TestInsertDefaultsCreatedAt(t *testing.T) {
	s := newTestStorage(t)

	e := &ExportHistory{Kind: KindClients, Destination: "x.xlsx", Status: StatusExported}
	require.NoError(t, s.ExportHistory.InsertExportHistory(context.Background(), e))
	assert.False(t, e.CreatedAt.IsZero())
}

func TestGetLatestEmpty(t *testing.T) {
	s := newTestStorage(t)

	latest, err := s.ExportHistory.GetLatest(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, latest)
}
