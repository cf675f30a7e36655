// Package filterexpr turns AND-only CEL filter strings and "key dir, key dir"
// order strings into typed query parameters, validated against a whitelist.
package filterexpr

import (
	"errors"
	"fmt"
)

// Query is implemented by list requests carrying raw filter and order_by text.
type Query interface {
	GetFilter() string
	GetOrderBy() string
}

// Kind is the literal type a filter field accepts.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindTimestamp Kind = "timestamp"
)

// Op is a comparison allowed in a filter.
type Op string

const (
	OpEQ  Op = "=="
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// FilterField whitelists the operators of one filter identifier. Ops maps
// each operator to the params struct field that receives its literal.
type FilterField struct {
	Kind Kind
	Ops  map[Op]string
}

// OrderField maps an order key to its SQL column expression.
type OrderField struct {
	Expr string
}

// OrderSchema lists the sortable keys and the default ordering.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             map[string]OrderField
}

// ResourceSchema groups the filter and order rules of one list endpoint.
type ResourceSchema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

// Bind fills params from the query filter and returns the parsed ordering.
func Bind[Q Query, P any](q Q, params *P, schema ResourceSchema) (Order, error) {
	if params == nil {
		return Order{}, errors.New("params must not be nil")
	}
	preds, err := ParseFilter(q.GetFilter(), schema.Filter)
	if err != nil {
		return Order{}, fmt.Errorf("filter: %w", err)
	}
	if err := Apply(params, preds, schema.Filter); err != nil {
		return Order{}, fmt.Errorf("filter: %w", err)
	}
	order, err := ParseOrder(q.GetOrderBy(), schema.Order)
	if err != nil {
		return Order{}, fmt.Errorf("order_by: %w", err)
	}
	return order, nil
}
