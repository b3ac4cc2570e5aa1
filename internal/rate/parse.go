package rate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"banguat/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	requestDateLayout = "02/01/2006"
	isoDateLayout     = "2006-01-02"
)

// present returns value as T, failing with ErrInvalidResponse when it is absent.
// nil and "" count as absent, as does a value of another type.
func present[T any](value any, message string) (T, error) {
	var zero T
	if value == nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, message)
	}
	if s, ok := value.(string); ok && s == "" {
		return zero, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, message)
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, message)
	}
	return typed, nil
}

// field looks key up in node; anything that is not an object yields nil.
func field(node any, key string) any {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	return obj[key]
}

func first(node any) any {
	list, ok := node.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	return list[0]
}

// FormatRequestDate renders t the way every date parameter is sent upstream: dd/mm/yyyy.
func FormatRequestDate(t time.Time) string {
	return t.Format(requestDateLayout)
}

// ParseUpstreamDate reads a dd/mm/yyyy value as a local calendar date at midnight.
// Out of range parts roll over the same way time.Date does.
func ParseUpstreamDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidResponse, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidResponse, s)
		}
		nums[i] = n
	}
	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.Local), nil
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseRate reads the longest numeric prefix of s after leading whitespace,
// so "7.85abc" is 7.85. A value with no numeric prefix is rejected.
func parseRate(s string) (decimal.Decimal, error) {
	prefix := numericPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
	if prefix == "" {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value %q", domain.ErrInvalidResponse, s)
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value %q", domain.ErrInvalidResponse, s)
	}
	return decimal.NewFromFloat(f), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
