package solver

import (
	"context"
	"maps"
	"strconv"

	"github.com/placerlab/placer/pkg/errors"
)

// ErrorKey labels the row returned for a failed call.
const ErrorKey = "Error"

// Field is one row of a parameter or result list. For parameters, Value is
// the default and Optional reports whether the parameter may be omitted.
type Field struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Optional bool   `json:"optional,omitempty"`
}

// Solver is a placement algorithm bound to layout files.
type Solver interface {
	Name() string

	// Params lists the accepted parameters with their defaults.
	Params() []Field

	// Estimate validates params and predicts the cost of Solve. It must not
	// write output.
	Estimate(ctx context.Context, input, output string, params Params) ([]Field, error)

	// Solve writes the result layout to output and reports result rows.
	Solve(ctx context.Context, input, output string, params Params) ([]Field, error)
}

// Params maps parameter names to their string-encoded values.
type Params map[string]string

// Clone returns a copy of p.
func (p Params) Clone() Params { return maps.Clone(p) }

// Int returns the integer value of key, or def when key is absent or empty.
func (p Params) Int(key string, def int) (int, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidParam, "%s: %q is not an integer", key, s)
	}
	return v, nil
}

// RequiredInt is Int for parameters without a default.
func (p Params) RequiredInt(key string) (int, error) {
	if s, ok := p[key]; !ok || s == "" {
		return 0, errors.New(errors.ErrCodeInvalidParam, "No %s", key)
	}
	return p.Int(key, 0)
}

// Defaults collects the non-empty defaults of a parameter list.
func Defaults(fields []Field) Params {
	p := make(Params, len(fields))
	for _, f := range fields {
		if f.Value != "" {
			p[f.Key] = f.Value
		}
	}
	return p
}

// Merge returns the defaults of fields overridden by the non-empty values
// of p. Keys not listed in fields are kept.
func Merge(fields []Field, p Params) Params {
	out := Defaults(fields)
	for k, v := range p {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ErrorRows converts err into the single-row failure result.
func ErrorRows(err error) []Field {
	return []Field{{Key: ErrorKey, Value: errors.UserMessage(err)}}
}

// Failed reports whether rows is a failure result and returns its message.
func Failed(rows []Field) (string, bool) {
	for _, r := range rows {
		if r.Key == ErrorKey {
			return r.Value, true
		}
	}
	return "", false
}

// Lookup returns the value of the first row labelled key.
func Lookup(rows []Field, key string) (string, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r.Value, true
		}
	}
	return "", false
}
