// Package eql parses the entity query language used by the editor and the
// test bridge. Queries combine ALL(), EXACT(...), and CONTAINS(...) terms
// with !, &, |, and parentheses, and compile down to component filters.
package eql

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/types"
)

// Resolver maps a component name from a query to its registered metadata.
type Resolver func(name string) (types.ComponentMetadata, error)

type eqlOperator int

const (
	opAnd eqlOperator = iota
	opOr
)

var operatorMap = map[string]eqlOperator{"&": opAnd, "|": opOr}

func (o *eqlOperator) Capture(s []string) error {
	if len(s) == 0 {
		return eris.New("invalid operator")
	}
	operator, ok := operatorMap[s[0]]
	if !ok {
		return eris.New("invalid operator")
	}
	*o = operator
	return nil
}

type eqlComponent struct {
	Name string `@Ident`
}

type eqlAll struct{}

func (a *eqlAll) Capture(values []string) error {
	if values[0] == "ALL" && values[1] == "(" && values[2] == ")" {
		*a = eqlAll{}
	}
	return nil
}

type eqlNot struct {
	SubExpression *eqlValue `"!" @@`
}

type eqlExact struct {
	Components []*eqlComponent `"EXACT" "(" (@@",")* @@ ")"`
}

type eqlContains struct {
	Components []*eqlComponent `"CONTAINS" "(" (@@",")* @@ ")"`
}

type eqlValue struct {
	All           *eqlAll      `@("ALL" "(" ")")`
	Exact         *eqlExact    `| @@`
	Contains      *eqlContains `| @@`
	Not           *eqlNot      `| @@`
	Subexpression *eqlTerm     `| "(" @@ ")"`
}

type eqlFactor struct {
	Base *eqlValue `@@`
}

type eqlOpFactor struct {
	Operator eqlOperator `@("&" | "|")`
	Factor   *eqlFactor  `@@`
}

type eqlTerm struct {
	Left  *eqlFactor     `@@`
	Right []*eqlOpFactor `@@*`
}

func (o eqlOperator) String() string {
	if o == opAnd {
		return "&"
	}
	return "|"
}

func componentList(comps []*eqlComponent) string {
	names := make([]string, len(comps))
	for i, comp := range comps {
		names[i] = comp.Name
	}
	return strings.Join(names, ", ")
}

func (v *eqlValue) String() string {
	switch {
	case v.All != nil:
		return "ALL()"
	case v.Exact != nil:
		return "EXACT(" + componentList(v.Exact.Components) + ")"
	case v.Contains != nil:
		return "CONTAINS(" + componentList(v.Contains.Components) + ")"
	case v.Not != nil:
		return "!(" + v.Not.SubExpression.String() + ")"
	case v.Subexpression != nil:
		return "(" + v.Subexpression.String() + ")"
	default:
		return ""
	}
}

func (t *eqlTerm) String() string {
	out := []string{t.Left.Base.String()}
	for _, r := range t.Right {
		out = append(out, fmt.Sprintf("%s %s", r.Operator, r.Factor.Base))
	}
	return strings.Join(out, " ")
}

var parser = participle.MustBuild[eqlTerm]()

func resolveComponents(comps []*eqlComponent, resolve Resolver) ([]types.Component, error) {
	out := make([]types.Component, 0, len(comps))
	for _, comp := range comps {
		md, err := resolve(comp.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "unknown component %q", comp.Name)
		}
		out = append(out, md)
	}
	return out, nil
}

func valueToFilter(value *eqlValue, resolve Resolver) (filter.ComponentFilter, error) {
	switch {
	case value.Not != nil:
		inner, err := valueToFilter(value.Not.SubExpression, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Not(inner), nil
	case value.Exact != nil:
		if len(value.Exact.Components) == 0 {
			return nil, eris.New("EXACT cannot have zero parameters")
		}
		comps, err := resolveComponents(value.Exact.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Exact(comps...), nil
	case value.Contains != nil:
		if len(value.Contains.Components) == 0 {
			return nil, eris.New("CONTAINS cannot have zero parameters")
		}
		comps, err := resolveComponents(value.Contains.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Contains(comps...), nil
	case value.All != nil:
		return filter.All(), nil
	case value.Subexpression != nil:
		return termToFilter(value.Subexpression, resolve)
	default:
		return nil, eris.New("malformed query expression")
	}
}

func termToFilter(term *eqlTerm, resolve Resolver) (filter.ComponentFilter, error) {
	if term.Left == nil {
		return nil, eris.New("not enough values in expression")
	}
	acc, err := valueToFilter(term.Left.Base, resolve)
	if err != nil {
		return nil, err
	}
	for _, opFactor := range term.Right {
		next, err := valueToFilter(opFactor.Factor.Base, resolve)
		if err != nil {
			return nil, err
		}
		switch opFactor.Operator {
		case opAnd:
			acc = filter.And(acc, next)
		case opOr:
			acc = filter.Or(acc, next)
		default:
			return nil, eris.New("invalid operator")
		}
	}
	return acc, nil
}

// Parse compiles the query text into a component filter, resolving component
// names through the given resolver.
func Parse(query string, resolve Resolver) (filter.ComponentFilter, error) {
	term, err := parser.ParseString("", query)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse query %q", query)
	}
	return termToFilter(term, resolve)
}
