package internal

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Scope is the read-only data context branches resolve paths against.
// Each iteration of an each branch renders against a derived scope that
// binds the iteration's value (and optionally key) without mutating or
// sharing the outer scope.
type Scope interface {
	// ResolveSteps looks up a pre-parsed property path.
	// Returns the value and true if found, or nil and false if not.
	// Paths are parsed once at compile time; render only resolves.
	ResolveSteps(steps []PathStep) (any, bool)

	// Derive creates a child scope with the given bindings layered over
	// this scope. The child is exclusively owned by its caller.
	Derive(bindings map[string]any) Scope
}

// PathStep is a single segment of a parsed property path: either a map
// key or a collection index.
type PathStep struct {
	Key     string
	Index   int
	IsIndex bool
}

// ParsePath splits a property path like "a.b[0].c" into steps.
// Returns nil and false if the path is empty or malformed.
func ParsePath(path string) ([]PathStep, bool) {
	if path == "" {
		return nil, false
	}

	var steps []PathStep
	rest := path
	for len(rest) > 0 {
		switch rest[0] {
		case CharDot:
			if len(steps) == 0 {
				return nil, false
			}
			rest = rest[1:]
			if rest == "" {
				return nil, false
			}
		case CharBracketOpen:
			end := strings.IndexByte(rest, CharBracketEnd)
			if end < 0 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, false
			}
			steps = append(steps, PathStep{Index: idx, IsIndex: true})
			rest = rest[end+1:]
		default:
			end := len(rest)
			for i := 0; i < len(rest); i++ {
				if rest[i] == CharDot || rest[i] == CharBracketOpen {
					end = i
					break
				}
			}
			key := rest[:end]
			if !isIdentifier(key) {
				return nil, false
			}
			steps = append(steps, PathStep{Key: key})
			rest = rest[end:]
		}
	}

	if len(steps) == 0 {
		return nil, false
	}
	return steps, true
}

// isIdentifier reports whether s is a valid path segment identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
		digit := ch >= '0' && ch <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit {
			return false
		}
	}
	return true
}

// LookupSteps walks the given steps into a value.
// Returns the value and true, or nil and false on any miss.
func LookupSteps(v any, steps []PathStep) (any, bool) {
	current := v
	for _, step := range steps {
		if current == nil {
			return nil, false
		}

		if step.IsIndex {
			next, ok := lookupIndex(current, step.Index)
			if !ok {
				return nil, false
			}
			current = next
			continue
		}

		next, ok := lookupKey(current, step.Key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// lookupKey resolves one key step into maps.
func lookupKey(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	}
	return nil, false
}

// lookupIndex resolves one index step into slices and arrays.
func lookupIndex(v any, idx int) (any, bool) {
	if s, ok := v.([]any); ok {
		if idx >= len(s) {
			return nil, false
		}
		return s[idx], true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}

// Pair is one key/value entry produced when iterating a collection.
type Pair struct {
	Key   any
	Value any
}

// Pairs enumerates a collection into ordered key/value pairs.
// Slices and arrays pair index with element, in index order. Maps with
// string keys pair key with entry, in sorted key order so iteration is
// deterministic. Anything else (including nil) yields no pairs.
func Pairs(v any) []Pair {
	if v == nil {
		return nil
	}

	switch c := v.(type) {
	case []any:
		pairs := make([]Pair, len(c))
		for i, elem := range c {
			pairs[i] = Pair{Key: i, Value: elem}
		}
		return pairs
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: c[k]}
		}
		return pairs
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		pairs := make([]Pair, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			pairs[i] = Pair{Key: i, Value: rv.Index(i).Interface()}
		}
		return pairs
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: byKey[k].Interface()}
		}
		return pairs
	}
	return nil
}

// IsTruthy boolean-coerces a resolved value:
// nil -> false, bool -> itself, string -> non-empty,
// numbers -> non-zero, slices/maps -> non-empty.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return len(val) > 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() > 0
		case reflect.Ptr, reflect.Interface:
			return !rv.IsNil()
		default:
			return true
		}
	}
}

// ToNumber attempts to coerce a value to float64. Numeric strings are
// accepted so a decoded numeric literal can compare against a value the
// scope stored as text.
func ToNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), FloatBitSize64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatScalar renders a scalar value (string, number, bool) as output
// text. Returns false for anything non-scalar so callers can leave the
// placeholder verbatim.
func FormatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int8:
		return strconv.FormatInt(int64(val), IntBase10), true
	case int16:
		return strconv.FormatInt(int64(val), IntBase10), true
	case int32:
		return strconv.FormatInt(int64(val), IntBase10), true
	case int64:
		return strconv.FormatInt(val, IntBase10), true
	case uint:
		return strconv.FormatUint(uint64(val), IntBase10), true
	case uint64:
		return strconv.FormatUint(val, IntBase10), true
	case float32:
		return strconv.FormatFloat(float64(val), FloatFormatFlag, FloatPrecisionAll, FloatBitSize64), true
	case float64:
		return strconv.FormatFloat(val, FloatFormatFlag, FloatPrecisionAll, FloatBitSize64), true
	default:
		return "", false
	}
}
