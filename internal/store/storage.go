package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	ExportHistory interface {
		Migrate(ctx context.Context) error
		InsertExportHistory(ctx context.Context, history *ExportHistory) error
		GetLatest(ctx context.Context, limit int) ([]ExportHistory, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		ExportHistory: &ExportHistoryStore{db: db},
	}
}
