package state

import (
	"context"
	"database/sql"
	"strconv"
)

type MetaStore struct {
	db *sql.DB
}

func NewMetaStore(db *sql.DB) *MetaStore { return &MetaStore{db: db} }

func (m *MetaStore) Ensure(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS cnpj_consulta_meta (
  key text PRIMARY KEY,
  value text NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);`)
	return err
}

func (m *MetaStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM cnpj_consulta_meta WHERE key=$1`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (m *MetaStore) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
INSERT INTO cnpj_consulta_meta(key,value) VALUES ($1,$2)
ON CONFLICT (key) DO UPDATE SET value=excluded.value, updated_at=now()
`, key, value)
	return err
}

// RecordRun stores the last successful run under last_run_id, last_output,
// last_table and last_rows.
func (m *MetaStore) RecordRun(ctx context.Context, runID, output, table string, rows int) error {
	kv := [][2]string{
		{"last_run_id", runID},
		{"last_output", output},
		{"last_table", table},
		{"last_rows", strconv.Itoa(rows)},
	}
	for _, p := range kv {
		if err := m.Set(ctx, p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}
