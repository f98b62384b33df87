package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// CreateTableSQL declares every column as TEXT, in table order.
func CreateTableSQL(table string, columns []string) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(pgx.Identifier{table}.Sanitize())
	sb.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(pgx.Identifier{c}.Sanitize())
		sb.WriteString(" TEXT")
	}
	sb.WriteString(");")
	return sb.String()
}

// ToPostgres replaces table with the rows in a single transaction using
// COPY. Empty cells are stored as NULL.
func ToPostgres(ctx context.Context, db *sql.DB, table string, rows Rows) (int64, error) {
	sqlConn, err := db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer sqlConn.Close()

	cols := rows.Columns()
	var copied int64
	err = sqlConn.Raw(func(driverConn any) error {
		stdConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		return pgx.BeginFunc(ctx, stdConn.Conn(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{table}.Sanitize()); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, CreateTableSQL(table, cols)); err != nil {
				return err
			}
			var copyErr error
			copied, copyErr = tx.CopyFrom(ctx, pgx.Identifier{table}, cols, copySource(rows))
			return copyErr
		})
	})
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", table, err)
	}
	return copied, nil
}

func copySource(rows Rows) pgx.CopyFromSource {
	return pgx.CopyFromSlice(rows.Len(), func(i int) ([]any, error) {
		rec := rows.Record(i)
		out := make([]any, len(rec))
		for j, v := range rec {
			if v == "" {
				out[j] = nil
				continue
			}
			out[j] = v
		}
		return out, nil
	})
}
