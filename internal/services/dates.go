package services

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var dateParserConfig = &dateparser.Configuration{
	DefaultTimezone: time.UTC,
	StrictParsing:   true,
}

// ParseEventDate turns caller text into a UTC time. ISO forms without a zone
// are read as UTC. Anything else goes through the natural-language parser in
// strict mode, which needs a day, a month and a year. Text that yields no date
// is an ErrValidation.
func ParseEventDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, validationError("date is required")
	}

	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}

	dt, err := dateparser.Parse(dateParserConfig, text)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, validationError("date %q is not a recognizable date", text)
	}
	return dt.Time.UTC(), nil
}
