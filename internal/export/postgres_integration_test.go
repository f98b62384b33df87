package export

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"github.com/abriciof/cnpj-consulta/internal/db"
)

func TestToPostgres_RealIntegration(t *testing.T) {
	if strings.TrimSpace(os.Getenv("RUN_INTEGRATION")) != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run integration tests")
	}

	_ = godotenv.Load("../../.env")

	ctx := context.Background()
	sqlDB, err := db.OpenSQL(ctx, db.Params{
		Host: strings.TrimSpace(os.Getenv("DB_HOST")),
		Port: strings.TrimSpace(os.Getenv("DB_PORT")),
		User: strings.TrimSpace(os.Getenv("DB_USER")),
		Pass: strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		Name: strings.TrimSpace(os.Getenv("DB_NAME")),
	})
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	defer sqlDB.Close()

	const tableName = "consulta_cnpj_it"
	defer func() { _, _ = sqlDB.ExecContext(ctx, `DROP TABLE IF EXISTS "`+tableName+`"`) }()

	// second export exercises DROP on an existing table
	for i := 0; i < 2; i++ {
		n, err := ToPostgres(ctx, sqlDB, tableName, sampleTable())
		if err != nil {
			t.Fatalf("ToPostgres run %d failed: %v", i+1, err)
		}
		if n != 2 {
			t.Fatalf("ToPostgres run %d: expected 2 rows copied, got %d", i+1, n)
		}
	}

	var total int
	if err := sqlDB.QueryRowContext(ctx, `SELECT count(*) FROM "`+tableName+`"`).Scan(&total); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 rows after re-export, got %d", total)
	}

	var nulls int
	if err := sqlDB.QueryRowContext(ctx, `SELECT count(*) FROM "`+tableName+`" WHERE razao_social IS NULL AND porte IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("null query failed: %v", err)
	}
	if nulls != 1 {
		t.Fatalf("expected empty cells stored as NULL in 1 row, got %d", nulls)
	}
}
