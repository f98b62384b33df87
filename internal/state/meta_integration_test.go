package state

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"github.com/abriciof/cnpj-consulta/internal/db"
)

func TestMetaStore_RecordRun(t *testing.T) {
	if strings.TrimSpace(os.Getenv("RUN_INTEGRATION")) != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run integration tests")
	}
	_ = godotenv.Load("../../.env")

	ctx := context.Background()
	sqlDB, err := db.OpenSQL(ctx, db.Params{
		Host: os.Getenv("DB_HOST"),
		Port: os.Getenv("DB_PORT"),
		User: os.Getenv("DB_USER"),
		Pass: os.Getenv("DB_PASSWORD"),
		Name: os.Getenv("DB_NAME"),
	})
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	defer sqlDB.Close()

	meta := NewMetaStore(sqlDB)
	if err := meta.Ensure(ctx); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := meta.RecordRun(ctx, "run-1", "resultado.csv", "consulta_cnpj", 3); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	v, ok, err := meta.Get(ctx, "last_rows")
	if err != nil || !ok || v != "3" {
		t.Fatalf("unexpected last_rows: %q ok=%v err=%v", v, ok, err)
	}
}
