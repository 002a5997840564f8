package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	String Kind = iota
	Number
	Integer
)

// Field declares one required input. Min/Max only apply to Integer fields.
type Field struct {
	Name string
	Kind Kind
	Min  *int64
	Max  *int64
}

func Str(name string) Field { return Field{Name: name, Kind: String} }
func Num(name string) Field { return Field{Name: name, Kind: Number} }

func Int(name string, min, max *int64) Field {
	return Field{Name: name, Kind: Integer, Min: min, Max: max}
}

func Bound(n int64) *int64 { return &n }

// Schema is an ordered list of required fields. Keys not declared are rejected.
type Schema []Field

// Values holds validated input: string, json.Number (Number) or int64 (Integer).
type Values map[string]any

type ValidationError struct {
	Field  string
	Reason string // required|empty|number|integer|unsafe|min|max|unknown
	msg    string
}

func (e *ValidationError) Error() string { return e.msg }

var validate = validator.New()

func invalid(field, reason, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, msg: fmt.Sprintf(format, args...)}
}

// Validate checks in against the schema. The first failing field, in declared
// order, is reported; unknown keys are checked after all declared fields.
func (s Schema) Validate(in map[string]string) (Values, error) {
	out := make(Values, len(s))
	for _, f := range s {
		raw, ok := in[f.Name]
		if !ok {
			return nil, invalid(f.Name, "required", "%q is required", f.Name)
		}
		if raw == "" {
			return nil, invalid(f.Name, "empty", "%q is not allowed to be empty", f.Name)
		}
		switch f.Kind {
		case String:
			out[f.Name] = raw
		case Number:
			num, ok := decimal(raw)
			if !ok {
				return nil, invalid(f.Name, "number", "%q must be a number", f.Name)
			}
			out[f.Name] = num
		case Integer:
			n, err := f.integer(raw)
			if err != nil {
				return nil, err
			}
			out[f.Name] = n
		}
	}

	if len(in) > len(s) {
		var unknown []string
		for k := range in {
			if !s.has(k) {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, invalid(unknown[0], "unknown", "%q is not allowed", unknown[0])
		}
	}
	return out, nil
}

// integer accepts whole numbers, including decimals with a zero fraction
// ("10.0"), that fit in an int64 and sit within the field bounds.
func (f Field) integer(raw string) (int64, error) {
	num, ok := decimal(raw)
	if !ok {
		return 0, invalid(f.Name, "number", "%q must be a number", f.Name)
	}
	whole, frac, _ := strings.Cut(string(num), ".")
	if strings.Trim(frac, "0") != "" {
		return 0, invalid(f.Name, "integer", "%q must be an integer", f.Name)
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, invalid(f.Name, "unsafe", "%q must be a safe number", f.Name)
	}
	if f.Min != nil && validate.Var(n, "gte="+strconv.FormatInt(*f.Min, 10)) != nil {
		return 0, invalid(f.Name, "min", "%q must be greater than or equal to %d", f.Name, *f.Min)
	}
	if f.Max != nil && validate.Var(n, "lte="+strconv.FormatInt(*f.Max, 10)) != nil {
		return 0, invalid(f.Name, "max", "%q must be less than or equal to %d", f.Name, *f.Max)
	}
	return n, nil
}

func (s Schema) has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

// decimal accepts plain decimal notation only; hex, exponents, NaN and Inf
// are rejected. The text is kept as is so long digit strings bind without
// losing precision.
func decimal(raw string) (json.Number, bool) {
	s := strings.TrimSpace(raw)
	if validate.Var(s, "numeric") != nil {
		return "", false
	}
	return json.Number(s), true
}
