package view

import (
	"context"
	"fmt"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDatePtr formats an optional date, rendering nil as a dash.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return FormatDate(*t)
}

// FormatDays renders a day count relative to today.
func FormatDays(days int) string {
	if days < 0 {
		return fmt.Sprintf("%dd late", -days)
	}

	return fmt.Sprintf("%dd", days)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
