// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/ext"
)

// Variables available to expressions.
const (
	MethodVar = "method"
	URLVar    = "url"
	SchemeVar = "scheme"
	HostVar   = "host"
	PathVar   = "path"
	HeaderVar = "header"
)

// ErrNotBool is returned when an expression does not produce a boolean.
var ErrNotBool = errors.New("expression does not produce a bool")

// Predicate is a compiled CEL expression evaluated against outgoing requests.
//
// Expressions see the request through the variables method, url, scheme, host,
// path, and header.  The header variable maps canonical header names to their
// first value.  For example:
//
//	method == "GET" && host.endsWith(".example.com")
type Predicate struct {
	expression string
	program    cel.Program
}

// Compile parses and checks a CEL expression, which must produce a bool.
func Compile(expression string) (*Predicate, error) {
	env, err := cel.NewEnv(
		cel.Variable(MethodVar, cel.StringType),
		cel.Variable(URLVar, cel.StringType),
		cel.Variable(SchemeVar, cel.StringType),
		cel.Variable(HostVar, cel.StringType),
		cel.Variable(PathVar, cel.StringType),
		cel.Variable(HeaderVar, cel.MapType(cel.StringType, cel.StringType)),
		ext.Strings(),
	)

	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("cel compile: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(types.BoolType) {
		return nil, fmt.Errorf("cel compile: %w: %s", ErrNotBool, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("cel program: %w", err)
	}

	return &Predicate{
		expression: expression,
		program:    prg,
	}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expression
}

func activation(r *http.Request) map[string]interface{} {
	header := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			header[http.CanonicalHeaderKey(name)] = values[0]
		}
	}

	a := map[string]interface{}{
		MethodVar: r.Method,
		URLVar:    "",
		SchemeVar: "",
		HostVar:   r.Host,
		PathVar:   "",
		HeaderVar: header,
	}

	if r.URL != nil {
		a[URLVar] = r.URL.String()
		a[SchemeVar] = r.URL.Scheme
		a[PathVar] = r.URL.Path
		if len(r.URL.Host) > 0 {
			a[HostVar] = r.URL.Hostname()
		}
	}

	return a
}

// Match evaluates this predicate against a request.
func (p *Predicate) Match(r *http.Request) (bool, error) {
	out, _, err := p.program.ContextEval(r.Context(), activation(r))
	if err != nil {
		return false, fmt.Errorf("cel eval: %w", err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, ErrNotBool
	}

	return b, nil
}
