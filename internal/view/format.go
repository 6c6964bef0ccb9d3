package view

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPoints renders n with locale grouping separators, e.g. 12,345.
func FormatPoints(n int) string {
	return printer.Sprintf("%d", n)
}

// ParseSelection converts a submitted selector value into a tournament id.
// An empty or non-numeric value is a null selection.
func ParseSelection(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
