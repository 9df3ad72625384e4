package store

import (
	"context"
	"time"

	"github.com/farxc/folha-inspecao/internal/db"
	"github.com/jmoiron/sqlx"
)

type ExportHistoryStore struct {
	db *sqlx.DB
}

// ExportHistory represents the 'export_history' table.
type ExportHistory struct {
	ID           int64     `db:"id" json:"id"`
	Kind         string    `db:"kind" json:"kind"`
	Destination  string    `db:"destination" json:"destination"`
	Recipient    string    `db:"recipient" json:"recipient,omitempty"`
	RowCount     int       `db:"row_count" json:"row_count"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var (
	KindClients     = "clients"
	KindInspections = "inspections"
)

var (
	StatusExported = "exported"
	StatusSent     = "sent"
	StatusFailure  = "failure"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS export_history (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	destination TEXT NOT NULL,
	recipient TEXT NOT NULL DEFAULT '',
	row_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

const sqliteSchema = `CREATE TABLE IF NOT EXISTS export_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	destination TEXT NOT NULL,
	recipient TEXT NOT NULL DEFAULT '',
	row_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
)`

func (eh *ExportHistoryStore) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if eh.db.DriverName() == db.DriverSQLite {
		schema = sqliteSchema
	}
	_, err := eh.db.ExecContext(ctx, schema)
	return err
}

func (eh *ExportHistoryStore) InsertExportHistory(ctx context.Context, history *ExportHistory) error {
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}

	query := `INSERT INTO export_history (
		kind,
		destination,
		recipient,
		row_count,
		status,
		error_message,
		created_at
	) VALUES (
		:kind,
		:destination,
		:recipient,
		:row_count,
		:status,
		:error_message,
		:created_at
	) RETURNING id`

	rows, err := eh.db.NamedQueryContext(ctx, query, history)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&history.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetLatest returns up to limit entries, newest first.
func (eh *ExportHistoryStore) GetLatest(ctx context.Context, limit int) ([]ExportHistory, error) {
	query := eh.db.Rebind(`SELECT id, kind, destination, recipient, row_count, status, error_message, created_at
		FROM export_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	history := []ExportHistory{}
	if err := eh.db.SelectContext(ctx, &history, query, limit); err != nil {
		return nil, err
	}
	return history, nil
}
