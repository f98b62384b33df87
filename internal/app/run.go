package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/abriciof/cnpj-consulta/internal/config"
	"github.com/abriciof/cnpj-consulta/internal/db"
	"github.com/abriciof/cnpj-consulta/internal/email"
	"github.com/abriciof/cnpj-consulta/internal/export"
	"github.com/abriciof/cnpj-consulta/internal/input"
	"github.com/abriciof/cnpj-consulta/internal/minhareceita"
	"github.com/abriciof/cnpj-consulta/internal/state"
	"github.com/abriciof/cnpj-consulta/internal/table"
	"github.com/abriciof/cnpj-consulta/internal/timeutil"
)

// Fetcher looks up one CNPJ.
type Fetcher interface {
	Fetch(ctx context.Context, cnpj string) (gjson.Result, error)
}

type report struct {
	RunID         string
	Input         string
	Output        string
	StartedAt     time.Time
	FinishedAt    time.Time
	UTCOffset     string
	Requested     int
	Rows          int
	Columns       int
	DBTable       string
	DBRows        int64
	KafkaMessages int
}

// sinks builds the optional exporters of a run.
type sinks struct {
	kafka func(cfg config.Config) *export.KafkaPublisher
}

func defaultSinks() sinks {
	return sinks{
		kafka: func(cfg config.Config) *export.KafkaPublisher {
			return export.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		},
	}
}

func Run(ctx context.Context, cfg config.Config) error {
	client := minhareceita.NewClient(cfg.BaseURI, cfg.HTTPTimeout)
	_, err := run(ctx, cfg, client, defaultSinks())
	return err
}

func run(ctx context.Context, cfg config.Config, f Fetcher, out sinks) (report, error) {
	rep := report{
		RunID:     uuid.NewString(),
		Input:     cfg.InputFile,
		Output:    cfg.OutputFile,
		StartedAt: time.Now(),
		UTCOffset: cfg.ReportUTCOffset,
	}
	log := slog.With("run_id", rep.RunID)
	log.Info("pipeline started",
		"input", cfg.InputFile,
		"output", cfg.OutputFile,
		"base_uri", cfg.BaseURI,
		"db_export", cfg.EnableDBExport,
		"kafka_export", cfg.KafkaEnabled(),
	)

	smtpCfg := email.SMTPConfig{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, To: cfg.MailTo}
	mail := email.Enabled(smtpCfg)
	if mail {
		if err := email.CheckConnectionRequireAuth(smtpCfg); err != nil {
			log.Warn("smtp preflight failed, report email disabled", "host", cfg.SMTPHost, "error", err)
			mail = false
		}
	}

	tb, requested, err := Executar(ctx, cfg, f, log)
	if err != nil {
		return rep, err
	}
	rep.Requested = requested
	rep.Rows = tb.Len()
	rep.Columns = len(tb.Columns())

	if cfg.EnableDBExport {
		if err := exportPostgres(ctx, cfg, tb, &rep, log); err != nil {
			return rep, err
		}
		log.Info("postgres export finished", "table", rep.DBTable, "rows", rep.DBRows)
	}

	if cfg.KafkaEnabled() {
		pub := out.kafka(cfg)
		n, err := pub.Publish(ctx, rep.RunID, tb)
		if cerr := pub.Close(); cerr != nil {
			log.Warn("kafka writer close failed", "topic", cfg.KafkaTopic, "error", cerr)
		}
		if err != nil {
			return rep, fmt.Errorf("publicando no kafka (%s): %w", cfg.KafkaTopic, err)
		}
		rep.KafkaMessages = n
		log.Info("kafka export finished", "topic", cfg.KafkaTopic, "messages", n)
	}

	rep.FinishedAt = time.Now()

	if mail {
		subject := fmt.Sprintf("Consulta CNPJ finalizada - %s", timeutil.HumanPTBR(rep.FinishedAt))
		if err := email.Send(smtpCfg, subject, formatReport(rep)); err != nil {
			log.Warn("report email failed", "error", err)
		}
	}

	log.Info("pipeline finished", "rows", rep.Rows, "columns", rep.Columns, "duration", rep.FinishedAt.Sub(rep.StartedAt).String())
	return rep, nil
}

// Executar loads the CNPJ list, fetches every record in input order,
// normalizes the combined table and writes it to cfg.OutputFile. It returns
// the final table and the number of CNPJs read. Any failure aborts the run
// before the output file is touched.
func Executar(ctx context.Context, cfg config.Config, f Fetcher, log *slog.Logger) (*table.Table, int, error) {
	cnpjs, err := input.ReadCNPJs(cfg.InputFile, input.Options{
		Encoding: cfg.InputEncoding,
		Comma:    cfg.InputDelimiter,
	})
	if err != nil {
		return nil, 0, err
	}
	log.Info("input loaded", "cnpjs", len(cnpjs))

	tb := table.New()
	for i, c := range cnpjs {
		rec, err := f.Fetch(ctx, c)
		if err != nil {
			return nil, len(cnpjs), err
		}
		tb.Append(table.Flatten(rec))
		log.Debug("cnpj fetched", "cnpj", c, "position", i+1, "columns", len(tb.Columns()))
	}
	log.Info("fetch stage finished", "rows", tb.Len(), "columns", len(tb.Columns()))

	if err := tb.Normalize(); err != nil {
		return nil, len(cnpjs), err
	}
	log.Info("normalize stage finished", "columns", len(tb.Columns()))

	if err := tb.WriteCSV(cfg.OutputFile); err != nil {
		return nil, len(cnpjs), fmt.Errorf("gravando %s: %w", cfg.OutputFile, err)
	}
	log.Info("output written", "path", cfg.OutputFile, "rows", tb.Len())
	return tb, len(cnpjs), nil
}

func exportPostgres(ctx context.Context, cfg config.Config, tb *table.Table, rep *report, log *slog.Logger) error {
	sqlDB, err := db.OpenSQL(ctx, db.Params{Host: cfg.DBHost, Port: cfg.DBPort, User: cfg.DBUser, Pass: cfg.DBPass, Name: cfg.DBName})
	if err != nil {
		return fmt.Errorf("conectando ao banco: %w", err)
	}
	defer sqlDB.Close()

	n, err := export.ToPostgres(ctx, sqlDB, cfg.DBTable, tb)
	if err != nil {
		return err
	}
	rep.DBTable = cfg.DBTable
	rep.DBRows = n

	meta := state.NewMetaStore(sqlDB)
	if err := meta.Ensure(ctx); err != nil {
		return err
	}
	prev, ok, err := meta.Get(ctx, "last_run_id")
	if err != nil {
		return err
	}
	if ok {
		last, _, _ := meta.Get(ctx, "last_rows")
		log.Info("previous export replaced", "previous_run_id", prev, "previous_rows", last, "table", cfg.DBTable)
	}
	return meta.RecordRun(ctx, rep.RunID, rep.Output, cfg.DBTable, rep.Rows)
}

func formatReport(rep report) string {
	loc, err := timeutil.ParseUTCOffset(rep.UTCOffset)
	if err != nil {
		loc = time.UTC
	}
	dur := rep.FinishedAt.Sub(rep.StartedAt)
	sb := strings.Builder{}
	sb.WriteString("Consulta CNPJ - Finalizado\n")
	sb.WriteString("Execução: " + rep.RunID + "\n")
	sb.WriteString("Entrada: " + rep.Input + "\n")
	sb.WriteString("Saída: " + rep.Output + "\n")
	sb.WriteString("Início: " + rep.StartedAt.In(loc).Format(time.RFC3339) + "\n")
	sb.WriteString("Fim: " + rep.FinishedAt.In(loc).Format(time.RFC3339) + "\n")
	sb.WriteString(fmt.Sprintf("Duração: %s\n", dur))
	sb.WriteString(fmt.Sprintf("CNPJs consultados: %d\n", rep.Requested))
	sb.WriteString(fmt.Sprintf("Linhas: %d\n", rep.Rows))
	sb.WriteString(fmt.Sprintf("Colunas: %d\n", rep.Columns))
	if rep.DBTable != "" {
		sb.WriteString(fmt.Sprintf("Postgres: %s (%d linhas)\n", rep.DBTable, rep.DBRows))
	}
	if rep.KafkaMessages > 0 {
		sb.WriteString(fmt.Sprintf("Kafka: %d mensagens\n", rep.KafkaMessages))
	}
	return sb.String()
}
