package twig

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterFunc transforms the value on its left. args holds the value of the
// optional argument, |name(arg).
type FilterFunc func(value interface{}, args ...interface{}) (interface{}, error)

var builtinFilters = map[string]FilterFunc{
	"default":    defaultFilter,
	"upper":      upperFilter,
	"lower":      lowerFilter,
	"capitalize": capitalizeFilter,
	"title":      titleFilter,
	"trim":       trimFilter,
	"length":     lengthFilter,
	"abs":        absFilter,
	"round":      roundFilter,
	"escape":     escapeFilter,
	"e":          escapeFilter,
	"raw":        rawFilter,
	"join":       joinFilter,
	"first":      firstFilter,
	"last":       lastFilter,
	"reverse":    reverseFilter,
	"url_encode": urlEncodeFilter,

	"number_format": numberFormatFilter,
	"format":        formatFilter,
	"date":          dateFilter,
}

// defaultFilters returns a fresh copy of the built-in filter set.
func defaultFilters() map[string]FilterFunc {
	filters := make(map[string]FilterFunc, len(builtinFilters))
	for name, fn := range builtinFilters {
		filters[name] = fn
	}
	return filters
}

// defaultFilter returns its argument when the value is nil, false, an empty
// string or an empty collection. Zero is kept. An undefined variable directly
// in front of |default counts as nil.
func defaultFilter(value interface{}, args ...interface{}) (interface{}, error) {
	var fallback interface{} = ""
	if len(args) > 0 {
		fallback = args[0]
	}

	if value == nil {
		return fallback, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		if !rv.Bool() {
			return fallback, nil
		}
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		if rv.Len() == 0 {
			return fallback, nil
		}
	}
	return value, nil
}

func upperFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return strings.ToUpper(FormatValue(value)), nil
}

func lowerFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return strings.ToLower(FormatValue(value)), nil
}

// capitalizeFilter uppercases the first character and lowercases the rest.
func capitalizeFilter(value interface{}, args ...interface{}) (interface{}, error) {
	s := FormatValue(value)
	if s == "" {
		return s, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:]), nil
}

// titleFilter capitalizes every word.
func titleFilter(value interface{}, args ...interface{}) (interface{}, error) {
	var b strings.Builder
	startOfWord := true
	for _, r := range FormatValue(value) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String(), nil
}

// trimFilter strips surrounding whitespace, or the characters of its argument.
func trimFilter(value interface{}, args ...interface{}) (interface{}, error) {
	s := FormatValue(value)
	if len(args) > 0 {
		return strings.Trim(s, FormatValue(args[0])), nil
	}
	return strings.TrimSpace(s), nil
}

// lengthFilter counts the characters of a string or the elements of a collection.
func lengthFilter(value interface{}, args ...interface{}) (interface{}, error) {
	if value == nil {
		return 0, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), nil
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	default:
		return utf8.RuneCountInString(FormatValue(value)), nil
	}
}

func absFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return math.Abs(toNumber(value)), nil
}

// roundFilter rounds half away from zero to the number of decimals given as
// argument (default 0).
func roundFilter(value interface{}, args ...interface{}) (interface{}, error) {
	precision := 0.0
	if len(args) > 0 {
		precision = toNumber(args[0])
		if math.IsNaN(precision) || precision < 0 {
			return nil, fmt.Errorf("round precision must be a non-negative number, got %v", args[0])
		}
	}
	n := toNumber(value)
	scale := math.Pow(10, math.Floor(precision))
	return math.Round(n*scale) / scale, nil
}

func escapeFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return html.EscapeString(FormatValue(value)), nil
}

// rawFilter marks output as already safe. Output is never escaped implicitly,
// so it returns the value unchanged.
func rawFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return value, nil
}

// joinFilter joins the elements of a sequence with the argument as glue.
func joinFilter(value interface{}, args ...interface{}) (interface{}, error) {
	glue := ""
	if len(args) > 0 {
		glue = FormatValue(args[0])
	}
	if value == nil {
		return "", nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, glue), nil
	case reflect.String:
		return value, nil
	default:
		return nil, fmt.Errorf("join requires a sequence, got %T", value)
	}
}

// firstFilter returns the first element of a sequence or the first character
// of a string. Empty input yields nil.
func firstFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return pickElement(value, "first", func(n int) int { return 0 })
}

func lastFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return pickElement(value, "last", func(n int) int { return n - 1 })
}

func pickElement(value interface{}, name string, index func(n int) int) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		runes := []rune(rv.String())
		if len(runes) == 0 {
			return nil, nil
		}
		return string(runes[index(len(runes))]), nil
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, nil
		}
		return rv.Index(index(rv.Len())).Interface(), nil
	default:
		return nil, fmt.Errorf("%s requires a string or sequence, got %T", name, value)
	}
}

// reverseFilter reverses a string or returns a reversed copy of a sequence.
func reverseFilter(value interface{}, args ...interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make([]interface{}, n)
		for i := 0; i < n; i++ {
			out[n-1-i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		runes := []rune(FormatValue(value))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	}
}

func urlEncodeFilter(value interface{}, args ...interface{}) (interface{}, error) {
	return url.QueryEscape(FormatValue(value)), nil
}
