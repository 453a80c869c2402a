package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesledger/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reMoney = regexp.MustCompile(`^[0-9]{1,12}([.,][0-9]{1,4})?$`)
	reDate  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a positive integer resource identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Name validates a product name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 120 {
		return "", false
	}
	return s, true
}

// Qty parses a whole quantity of at least 1.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 1_000_000 {
		return 0, false
	}
	return n, true
}

// Installments parses an installment count; an empty field means 1.
func Installments(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 360 {
		return 0, false
	}
	return n, true
}

// Money parses a non-negative amount. Both "12.50" and "12,50" are accepted.
func Money(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	if !reMoney.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Percent parses a non-negative percentage, same format as Money.
func Percent(s string) (decimal.Decimal, bool) {
	return Money(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// Date parses YYYY-MM-DD. An empty value yields the zero time and ok.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if !reDate.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func PaymentMethod(s string) (domain.PaymentMethod, bool) {
	return domain.ParsePaymentMethod(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72
}
