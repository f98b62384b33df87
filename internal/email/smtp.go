package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	To   string // comma or semicolon separated
}

func Enabled(cfg SMTPConfig) bool {
	return strings.TrimSpace(cfg.User) != "" &&
		strings.TrimSpace(cfg.Pass) != "" &&
		strings.TrimSpace(cfg.To) != ""
}

func (cfg SMTPConfig) addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Send delivers a plain text UTF-8 message to every recipient in cfg.To.
func Send(cfg SMTPConfig, subject, body string) error {
	to, err := parseRecipients(cfg.To)
	if err != nil {
		return err
	}
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	return smtp.SendMail(cfg.addr(), auth, cfg.User, to, buildMessage(cfg.User, to, subject, body, time.Now()))
}

func buildMessage(from string, to []string, subject, body string, date time.Time) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	msg.WriteString("\r\n")
	return []byte(msg.String())
}

func parseRecipients(v string) ([]string, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("nenhum destinatário em MAIL_TO")
	}
	return out, nil
}

// CheckConnection dials the server and exchanges EHLO/NOOP/QUIT.
func CheckConnection(cfg SMTPConfig) error {
	return checkConnection(cfg, false)
}

// CheckConnectionRequireAuth also authenticates with cfg.User/cfg.Pass.
func CheckConnectionRequireAuth(cfg SMTPConfig) error {
	return checkConnection(cfg, true)
}

func checkConnection(cfg SMTPConfig, requireAuth bool) error {
	c, err := smtp.Dial(cfg.addr())
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", cfg.addr(), err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return err
	}
	if requireAuth {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(nil); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
		if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Noop(); err != nil {
		return err
	}
	return c.Quit()
}
