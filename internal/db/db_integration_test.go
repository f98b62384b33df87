package db

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"
)

func TestOpenSQL_RealIntegration(t *testing.T) {
	if strings.TrimSpace(os.Getenv("RUN_INTEGRATION")) != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run integration tests")
	}

	_ = godotenv.Load("../../.env")

	p := Params{
		Host: strings.TrimSpace(os.Getenv("DB_HOST")),
		Port: strings.TrimSpace(os.Getenv("DB_PORT")),
		User: strings.TrimSpace(os.Getenv("DB_USER")),
		Pass: strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		Name: strings.TrimSpace(os.Getenv("DB_NAME")),
	}
	if p.Host == "" || p.Port == "" || p.User == "" || p.Pass == "" || p.Name == "" {
		t.Fatal("DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME are required")
	}

	conn, err := OpenSQL(context.Background(), p)
	if err != nil {
		t.Fatalf("OpenSQL real integration failed: %v", err)
	}
	_ = conn.Close()
}
