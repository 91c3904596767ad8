// Package endpoint turns API endpoint descriptions from the docs spec into
// documentation pages.
package endpoint

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/spec"
)

// ErrRejected marks an endpoint that is well formed but not documentable.
// Rejected endpoints are skipped, not reported as failures.
var ErrRejected = stderrors.New("endpoint rejected")

// Accepted HTTP methods and parameter types.
var (
	Methods        = []string{"GET", "POST"}
	ParameterTypes = []string{"string", "boolean", "integer"}
)

// Method badge colours.
const (
	ColourPost = "#FF6E26"
	ColourGet  = "#46AF00"
)

// Endpoint is the payload of a page entry.
type Endpoint struct {
	Route       string
	Method      string
	Short       string
	Description string
	Privileged  bool
	Parameters  []Parameter
}

// Parameter is a single endpoint input.
type Parameter struct {
	Name     string
	Type     string
	Info     string
	Optional bool
}

// String renders the parameter as a markdown entry.
func (p Parameter) String() string {
	extra := ""
	if p.Optional {
		extra = " **optional**"
	}
	return fmt.Sprintf("`%s`%s *%s*  \n%s\n", p.Name, extra, p.Type, p.Info)
}

// Parse reads an endpoint from a page payload. The keys route, method,
// short, description and privileged are required; parameters is an optional
// mapping from parameter name to {type, info, optional}.
func Parse(payload spec.Map) (Endpoint, error) {
	var (
		e   Endpoint
		err error
	)
	if e.Route, err = scalar(payload, "route"); err != nil {
		return Endpoint{}, err
	}
	if err := errors.ValidateRoute(e.Route); err != nil {
		return Endpoint{}, err
	}
	if e.Method, err = scalar(payload, "method"); err != nil {
		return Endpoint{}, err
	}
	if e.Short, err = scalar(payload, "short"); err != nil {
		return Endpoint{}, err
	}
	if e.Description, err = scalar(payload, "description"); err != nil {
		return Endpoint{}, err
	}
	if e.Privileged, err = flag(payload, "privileged"); err != nil {
		return Endpoint{}, err
	}

	raw, ok := payload.Get("parameters")
	if !ok || raw == nil {
		return e, nil
	}
	params, ok := raw.(spec.Map)
	if !ok {
		return Endpoint{}, errors.New(errors.ErrCodeInvalidSpec, "endpoint %s: parameters must be a mapping", e.Route)
	}
	for _, entry := range params {
		fields, ok := entry.Value.(spec.Map)
		if !ok {
			return Endpoint{}, errors.New(errors.ErrCodeInvalidSpec, "endpoint %s: parameter %q must be a mapping", e.Route, entry.Key)
		}
		p := Parameter{Name: entry.Key}
		if p.Type, err = scalar(fields, "type"); err != nil {
			return Endpoint{}, fmt.Errorf("endpoint %s: parameter %q: %w", e.Route, entry.Key, err)
		}
		if p.Info, err = scalar(fields, "info"); err != nil {
			return Endpoint{}, fmt.Errorf("endpoint %s: parameter %q: %w", e.Route, entry.Key, err)
		}
		if p.Optional, err = flag(fields, "optional"); err != nil {
			return Endpoint{}, fmt.Errorf("endpoint %s: parameter %q: %w", e.Route, entry.Key, err)
		}
		e.Parameters = append(e.Parameters, p)
	}
	return e, nil
}

// Validate reports whether the endpoint may be documented. The returned
// error wraps ErrRejected.
func (e Endpoint) Validate() error {
	if !slices.Contains(Methods, e.Method) {
		return fmt.Errorf("%w: method %q", ErrRejected, e.Method)
	}
	for _, p := range e.Parameters {
		if !slices.Contains(ParameterTypes, p.Type) {
			return fmt.Errorf("%w: parameter %q has type %q", ErrRejected, p.Name, p.Type)
		}
	}
	return nil
}

// Slug is the last segment of the route.
func (e Endpoint) Slug() string {
	return e.Route[strings.LastIndex(e.Route, "/")+1:]
}

// Colour is the badge colour for the method.
func (e Endpoint) Colour() string {
	if e.Method == "POST" {
		return ColourPost
	}
	return ColourGet
}

func scalar(m spec.Map, key string) (string, error) {
	v, ok := m.Get(key)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidSpec, "missing required key %q", key)
	}
	switch v := v.(type) {
	case spec.Map, []any, nil:
		return "", errors.New(errors.ErrCodeInvalidSpec, "key %q must be a scalar", key)
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

func flag(m spec.Map, key string) (bool, error) {
	if !m.Has(key) {
		return false, errors.New(errors.ErrCodeInvalidSpec, "missing required key %q", key)
	}
	b, ok := m.Bool(key)
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidSpec, "key %q must be a boolean", key)
	}
	return b, nil
}
