package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/abriciof/cnpj-consulta/internal/input"
	"github.com/abriciof/cnpj-consulta/internal/timeutil"
)

type Config struct {
	InputFile      string
	OutputFile     string
	InputEncoding  string
	InputDelimiter rune

	// lookup service
	BaseURI     string
	HTTPTimeout time.Duration

	// postgres export
	EnableDBExport bool
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBTable        string

	// kafka export
	KafkaBrokers []string
	KafkaTopic   string

	// email
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailTo   string

	ReportUTCOffset string
	LogLevel        string
}

// Load reads the environment (and .env, when present). args are the
// positional command line arguments: [input] [output].
func Load(args ...string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		InputFile:     getenv("INPUT_FILE", "cnpj.csv"),
		OutputFile:    getenv("OUTPUT_FILE", "resultado.csv"),
		InputEncoding: input.NormalizeEncoding(getenv("INPUT_ENCODING", "utf-8")),

		BaseURI:     getenv("MINHARECEITA_URI", "https://minhareceita.org/"),
		HTTPTimeout: time.Duration(getenvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,

		EnableDBExport: getenvBool("ENABLE_DB_EXPORT", false),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPass:         getenv("DB_PASSWORD", "postgres"),
		DBName:         getenv("DB_NAME", "rfcnpj"),
		DBTable:        getenv("DB_TABLE", "consulta_cnpj"),

		KafkaBrokers: getenvList("KAFKA_BROKERS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", ""),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: getenv("SMTP_USER", ""),
		SMTPPass: getenv("SMTP_PASS", ""),
		MailTo:   getenv("MAIL_TO", ""),

		ReportUTCOffset: getenv("REPORT_UTC_OFFSET", "-03:00"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}

	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		cfg.InputFile = args[0]
	}
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		cfg.OutputFile = args[1]
	}
	if len(args) > 2 {
		return Config{}, fmt.Errorf("argumentos demais: uso [entrada.csv] [saida.csv]")
	}

	delim := getenv("INPUT_DELIMITER", ",")
	if utf8.RuneCountInString(delim) != 1 {
		return Config{}, fmt.Errorf("INPUT_DELIMITER deve ter um único caractere: %q", delim)
	}
	cfg.InputDelimiter, _ = utf8.DecodeRuneInString(delim)

	switch cfg.InputEncoding {
	case "utf-8", "latin1":
	default:
		return Config{}, fmt.Errorf("INPUT_ENCODING não suportado: %q", cfg.InputEncoding)
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT_SECONDS deve ser positivo")
	}
	if _, err := timeutil.ParseUTCOffset(cfg.ReportUTCOffset); err != nil {
		return Config{}, fmt.Errorf("REPORT_UTC_OFFSET: %w", err)
	}
	if (len(cfg.KafkaBrokers) == 0) != (strings.TrimSpace(cfg.KafkaTopic) == "") {
		return Config{}, fmt.Errorf("KAFKA_BROKERS e KAFKA_TOPIC devem ser configurados juntos")
	}

	return cfg, nil
}

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getenv(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(k)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvList(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
