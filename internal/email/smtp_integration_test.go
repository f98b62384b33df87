package email

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/joho/godotenv"
)

func TestCheckConnection_RealSMTP(t *testing.T) {
	runIntegration := strings.TrimSpace(os.Getenv("RUN_INTEGRATION")) == "1" ||
		strings.TrimSpace(os.Getenv("RUN_SMTP_INTEGRATION")) == "1"
	if !runIntegration {
		t.Skip("set RUN_INTEGRATION=1 to run integration tests")
	}

	_ = godotenv.Load("../../.env")

	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	portStr := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	user := strings.TrimSpace(os.Getenv("SMTP_USER"))
	pass := strings.TrimSpace(os.Getenv("SMTP_PASS"))

	if host == "" || portStr == "" {
		t.Fatal("SMTP_HOST and SMTP_PORT are required")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("invalid SMTP_PORT=%q: %v", portStr, err)
	}

	cfg := SMTPConfig{
		Host: host,
		Port: port,
		User: user,
		Pass: pass,
		To:   strings.TrimSpace(os.Getenv("MAIL_TO")),
	}

	var errConn error
	if user != "" && pass != "" {
		errConn = CheckConnectionRequireAuth(cfg)
	} else {
		errConn = CheckConnection(cfg)
	}
	if errConn != nil {
		t.Fatalf("real SMTP connection failed: %v", errConn)
	}
}
