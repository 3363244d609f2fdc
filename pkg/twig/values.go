package twig

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	// Longest numeric prefix, as accepted by the arithmetic operators
	leadingNumberRegex = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	// Whole-value number, as accepted by *
	wholeNumberRegex = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)$`)
)

// FormatValue converts a value to its output text. nil renders as the empty
// string and numbers render like 3, 2.5, NaN, Infinity.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toFloat64 converts Go numeric types to float64.
func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// toNumber is the lenient conversion used by + - / %: the longest numeric
// prefix of the value's text, NaN when there is none.
func toNumber(value interface{}) float64 {
	if f, ok := toFloat64(value); ok {
		return f
	}
	text := strings.TrimLeftFunc(FormatValue(value), unicode.IsSpace)
	m := leadingNumberRegex.FindString(text)
	if m == "" {
		return math.NaN()
	}
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// toNumberStrict is the whole-value conversion used by *: booleans are 0 or 1,
// nil and blank strings are 0, any other non-numeric text is NaN.
func toNumberStrict(value interface{}) float64 {
	if f, ok := toFloat64(value); ok {
		return f
	}
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if !wholeNumberRegex.MatchString(s) {
			return math.NaN()
		}
		f, _ := strconv.ParseFloat(s, 64)
		return f
	default:
		return math.NaN()
	}
}

// truthy reports whether a value selects a branch. nil, false, zero, NaN, the
// empty string and empty collections are false.
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	default:
		return true
	}
}

// loopItem is one iteration of a for block.
type loopItem struct {
	key   interface{}
	value interface{}
}

// iterate returns the items a for block walks over. Slices and arrays yield
// their index and element, maps their entries in key order.
func iterate(value interface{}) ([]loopItem, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]loopItem, rv.Len())
		for i := range items {
			items[i] = loopItem{key: i, value: rv.Index(i).Interface()}
		}
		return items, nil

	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return FormatValue(keys[i].Interface()) < FormatValue(keys[j].Interface())
		})
		items := make([]loopItem, len(keys))
		for i, k := range keys {
			items[i] = loopItem{key: k.Interface(), value: rv.MapIndex(k).Interface()}
		}
		return items, nil

	default:
		return nil, fmt.Errorf("cannot iterate over %T", value)
	}
}
