package fieldservice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/fold"
)

// Layouts accepted for dates in imported files, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006, 15:04",
	"02/01/06, 15:04",
	"2006-01-02",
	"02/01/2006",
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %q", s)
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("ano inválido: %q", s)
	}
	return year, nil
}

func parseID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("identificador inválido: %q", s)
	}
	return &id, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(fold.ASCII(strings.TrimSpace(s))) {
	case "true", "sim", "s", "1", "yes", "ativo":
		return true, nil
	case "false", "nao", "n", "0", "no", "inativo":
		return false, nil
	default:
		return false, fmt.Errorf("valor inválido para ativo: %q", s)
	}
}

// parseAmount reads euro amounts written either way round: "1.234,56",
// "1234.56", "250 €".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("€", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("valor inválido: %q", s)
	}
	return d, nil
}

func parseStatus[S ~string](s string, values []S) (S, error) {
	status, ok := domain.ParseStatus(s, values)
	if !ok {
		return status, fmt.Errorf("estado inválido: %q", s)
	}
	return status, nil
}
