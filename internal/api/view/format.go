package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Funcs is the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"bytes": FormatBytes,
		"money": FormatMoney,
		"date":  FormatDate,
		"badge": BadgeClass,
	}
}

// FormatBytes renders a size with binary units and two decimals.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KB", "MB", "GB"}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}

// FormatMoney renders "CUR 1,234.00".
func FormatMoney(currency string, amount float64) string {
	return printer.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
}

// FormatDate renders a backend timestamp, or returns it unchanged when it
// cannot be parsed.
func FormatDate(raw string) string {
	if raw == "" {
		return "-"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006 15:04")
		}
	}
	return raw
}

// BadgeClass maps a batch or payment status onto a badge colour class.
func BadgeClass(status string) string {
	switch strings.ToLower(status) {
	case "done", "success", "processed":
		return "badge-green"
	case "fail", "failed", "error":
		return "badge-red"
	case "processing", "pending", "queued":
		return "badge-blue"
	default:
		return "badge-muted"
	}
}
