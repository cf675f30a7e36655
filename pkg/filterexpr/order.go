package filterexpr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Term is one order key and its direction.
type Term struct {
	Key  string
	Desc bool
}

// Order always carries two distinct keys so paging is stable.
type Order struct {
	Primary   Term
	Secondary Term
}

// ParseOrder parses "key [asc|desc][, key [asc|desc]]". Missing keys fall
// back to the schema defaults.
func ParseOrder(raw string, schema OrderSchema) (Order, error) {
	if err := schema.validate(); err != nil {
		return Order{}, err
	}
	fallback := Term{Key: schema.FallbackKey, Desc: schema.FallbackDesc}
	order := Order{
		Primary:   Term{Key: schema.DefaultPrimary, Desc: schema.DefaultPrimaryDesc},
		Secondary: fallback,
	}

	segments := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(segments) == 0 {
		return order, nil
	}
	if len(segments) > 2 {
		return Order{}, errors.New("at most two keys may be given")
	}

	terms := make([]Term, 0, len(segments))
	for _, seg := range segments {
		term, err := parseTerm(seg, schema)
		if err != nil {
			return Order{}, err
		}
		if lo.ContainsBy(terms, func(t Term) bool { return t.Key == term.Key }) {
			return Order{}, fmt.Errorf("duplicate order key %q", term.Key)
		}
		terms = append(terms, term)
	}

	order.Primary = terms[0]
	if len(terms) == 2 {
		order.Secondary = terms[1]
	}
	if order.Secondary.Key == order.Primary.Key {
		keys := lo.Keys(schema.Fields)
		slices.Sort(keys)
		other, ok := lo.Find(keys, func(k string) bool { return k != order.Primary.Key })
		if !ok {
			return Order{}, errors.New("schema needs two distinct keys for a stable order")
		}
		order.Secondary = Term{Key: other}
	}
	return order, nil
}

func parseTerm(seg string, schema OrderSchema) (Term, error) {
	parts := strings.Fields(seg)
	term := Term{Key: parts[0]}
	if _, ok := schema.Fields[term.Key]; !ok {
		return Term{}, fmt.Errorf("field %q cannot be used for ordering", term.Key)
	}
	switch len(parts) {
	case 1:
	case 2:
		switch strings.ToLower(parts[1]) {
		case "asc":
		case "desc":
			term.Desc = true
		default:
			return Term{}, fmt.Errorf("invalid direction %q for field %q", parts[1], term.Key)
		}
	default:
		return Term{}, fmt.Errorf("invalid order segment %q", seg)
	}
	return term, nil
}

func (s OrderSchema) validate() error {
	if s.DefaultPrimary == "" || s.FallbackKey == "" {
		return errors.New("order schema needs a default primary and a fallback key")
	}
	for _, key := range []string{s.DefaultPrimary, s.FallbackKey} {
		if _, ok := s.Fields[key]; !ok {
			return fmt.Errorf("order key %q missing from schema fields", key)
		}
	}
	return nil
}

// Column returns the SQL expression for key, or key itself.
func (s OrderSchema) Column(key string) string {
	if f, ok := s.Fields[key]; ok && f.Expr != "" {
		return f.Expr
	}
	return key
}
