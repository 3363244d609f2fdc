package twig

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// numberFormatFilter formats a number with comma thousands separators and the
// number of decimals given as argument (default 0).
func numberFormatFilter(value interface{}, args ...interface{}) (interface{}, error) {
	decimals := 0
	if len(args) > 0 {
		d := toNumber(args[0])
		if math.IsNaN(d) || d < 0 {
			return nil, fmt.Errorf("number_format decimals must be a non-negative number, got %v", args[0])
		}
		decimals = int(d)
	}

	n := toNumber(value)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return formatNumber(n), nil
	}

	result := fmt.Sprintf("%.*f", decimals, n)
	intPart, decPart, _ := strings.Cut(result, ".")

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if decPart != "" {
		b.WriteByte('.')
		b.WriteString(decPart)
	}
	return b.String(), nil
}

// formatFilter treats the value as a printf pattern applied to the argument.
func formatFilter(value interface{}, args ...interface{}) (interface{}, error) {
	pattern := FormatValue(value)
	if len(args) == 0 {
		return pattern, nil
	}
	arg := args[0]
	if f, ok := arg.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) && strings.Contains(pattern, "%d") {
		// Template numbers are float64; %d needs an integer
		arg = int64(f)
	}
	return fmt.Sprintf(pattern, arg), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006 15:04:05",
}

// parseDate reads a time.Time, a Unix timestamp in seconds or a date string.
func parseDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("cannot parse nil as date")
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("cannot parse nil time pointer")
		}
		return *v, nil
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("could not parse date string: %s", v)
	}

	if f, ok := toFloat64(value); ok {
		return time.Unix(int64(f), 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %T as date", value)
}

// dateDirectives maps the date format characters of twig templates to Go
// layout elements.
var dateDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'n': "1",
	'M': "Jan",
	'F': "January",
	'd': "02",
	'j': "2",
	'D': "Mon",
	'l': "Monday",
	'H': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
	'T': "MST",
	'P': "-07:00",
	'O': "-0700",
}

// formatDate renders t with a twig date format. Each directive is formatted on
// its own; other characters, and any character after a backslash, are copied
// as they are.
func formatDate(t time.Time, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			i++
			b.WriteByte(format[i])
			continue
		}
		if layout, ok := dateDirectives[c]; ok {
			b.WriteString(t.Format(layout))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// dateFilter formats a date, by default as "January 2, 2006 15:04".
func dateFilter(value interface{}, args ...interface{}) (interface{}, error) {
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	format := "F j, Y H:i"
	if len(args) > 0 {
		format = FormatValue(args[0])
	}
	return formatDate(t, format), nil
}
