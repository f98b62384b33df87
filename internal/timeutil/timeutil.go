package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseUTCOffset parses "±HH:MM" (or "Z") into a fixed zone.
func ParseUTCOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" {
		return time.UTC, nil
	}
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return nil, fmt.Errorf("offset inválido (esperado ±HH:MM): %q", s)
	}
	h, err := strconv.Atoi(s[1:3])
	if err != nil {
		return nil, err
	}
	m, err := strconv.Atoi(s[4:6])
	if err != nil {
		return nil, err
	}
	if h > 14 || m > 59 {
		return nil, fmt.Errorf("offset fora do intervalo: %q", s)
	}
	secs := h*3600 + m*60
	if s[0] == '-' {
		secs = -secs
	}
	return time.FixedZone(s, secs), nil
}

// HumanPTBR renders a date as "17 de Outubro de 2026".
func HumanPTBR(t time.Time) string {
	nomes := []string{
		"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), nomes[int(t.Month())], t.Year())
}
