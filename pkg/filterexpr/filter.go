package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Predicate is one comparison of a filter.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

var comparisons = map[string]Op{
	"_==_": OpEQ,
	"_>_":  OpGT,
	"_>=_": OpGTE,
	"_<_":  OpLT,
	"_<=_": OpLTE,
}

// ParseFilter parses filter and checks every comparison against fields.
// Only && may join comparisons.
func ParseFilter(filter string, fields map[string]FilterField) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(fields) == 0 {
		return nil, errors.New("no filterable fields")
	}

	env, err := newEnv(fields)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Parse(filter)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", iss.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("convert ast: %w", err)
	}

	var preds []Predicate
	err = eachConjunct(parsed.GetExpr(), func(expr *exprpb.Expr) error {
		pred, err := predicateOf(expr)
		if err != nil {
			return err
		}
		rule, ok := fields[pred.Field]
		if !ok {
			return fmt.Errorf("field %q is not allowed", pred.Field)
		}
		if _, ok := rule.Ops[pred.Op]; !ok {
			return fmt.Errorf("operator %q is not allowed for field %q", pred.Op, pred.Field)
		}
		if err := checkLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", pred.Field, err)
		}
		preds = append(preds, pred)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preds, nil
}

// Apply writes each predicate's literal into the params field its rule
// names. params must point to a struct.
func Apply(params any, preds []Predicate, fields map[string]FilterField) error {
	rv := reflect.ValueOf(params)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.New("params must be a non-nil pointer to a struct")
	}
	dest := rv.Elem()
	for _, pred := range preds {
		name := fields[pred.Field].Ops[pred.Op]
		field := dest.FieldByName(name)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("%s has no settable field %q", dest.Type(), name)
		}
		if err := assign(field, pred.Value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

func newEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := []cel.EnvOption{cel.CrossTypeNumericComparisons(true)}
	for name, rule := range fields {
		var typ *cel.Type
		switch rule.Kind {
		case KindString:
			typ = cel.StringType
		case KindNumber:
			typ = cel.DoubleType
		case KindTimestamp:
			typ = cel.TimestampType
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %q", name, rule.Kind)
		}
		opts = append(opts, cel.Variable(name, typ))
	}
	return cel.NewEnv(opts...)
}

// eachConjunct flattens nested && calls.
func eachConjunct(expr *exprpb.Expr, fn func(*exprpb.Expr) error) error {
	if expr == nil {
		return errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return fn(expr)
	}
	switch call.Function {
	case "_&&_":
		for _, arg := range call.Args {
			if err := eachConjunct(arg, fn); err != nil {
				return err
			}
		}
		return nil
	case "_||_", "!_", "_?_:_":
		return fmt.Errorf("operator %q is not supported, only AND is allowed", call.Function)
	default:
		return fn(expr)
	}
}

func predicateOf(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("expected a comparison")
	}

	var (
		op          Op
		left, right *exprpb.Expr
	)
	switch {
	case comparisons[call.Function] != "":
		op = comparisons[call.Function]
		if call.Target != nil || len(call.Args) != 2 {
			return Predicate{}, fmt.Errorf("%s expects two operands", op)
		}
		left, right = call.Args[0], call.Args[1]
	case call.Function == "@in" || call.Function == "_in_":
		op = OpIN
		if len(call.Args) != 2 {
			return Predicate{}, errors.New("in expects two operands")
		}
		left, right = call.Args[0], call.Args[1]
	case call.Function == "startsWith":
		op = OpSW
		if call.Target == nil || len(call.Args) != 1 {
			return Predicate{}, errors.New("startsWith is called as field.startsWith('prefix')")
		}
		left, right = call.Target, call.Args[0]
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}

	ident := left.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left operand must be a field name")
	}
	value, err := literalOf(right)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

// literalOf returns a string, float64, []string or time.Time.
func literalOf(expr *exprpb.Expr) (any, error) {
	if c := expr.GetConstExpr(); c != nil {
		switch v := c.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return v.StringValue, nil
		case *exprpb.Constant_Int64Value:
			return float64(v.Int64Value), nil
		case *exprpb.Constant_Uint64Value:
			return float64(v.Uint64Value), nil
		case *exprpb.Constant_DoubleValue:
			return v.DoubleValue, nil
		}
		return nil, fmt.Errorf("unsupported literal %T", c.ConstantKind)
	}

	if list := expr.GetListExpr(); list != nil {
		out := make([]string, 0, len(list.GetElements()))
		for i, elem := range list.GetElements() {
			s := elem.GetConstExpr().GetStringValue()
			if _, ok := elem.GetConstExpr().GetConstantKind().(*exprpb.Constant_StringValue); !ok {
				return nil, fmt.Errorf("list element %d must be a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" && len(call.Args) == 1 {
		raw := call.Args[0].GetConstExpr().GetStringValue()
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q is not RFC3339", raw)
		}
		return ts, nil
	}

	return nil, errors.New("right operand must be a literal, a list of strings or timestamp('...')")
}

func checkLiteral(kind Kind, op Op, value any) error {
	switch kind {
	case KindString:
		if op != OpIN {
			if _, ok := value.(string); !ok {
				return errors.New("expected a string")
			}
			return nil
		}
		list, ok := value.([]string)
		if !ok || len(list) == 0 {
			return errors.New("expected a non-empty list of strings")
		}
		for _, item := range list {
			if item == "" {
				return errors.New("list must not contain empty strings")
			}
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return errors.New("expected a number")
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return errors.New("expected timestamp('...')")
		}
	default:
		return fmt.Errorf("unsupported kind %q", kind)
	}
	return nil
}

func assign(field reflect.Value, value any) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("cannot store a string in %s", field.Type())
		}
		field.SetString(v)
	case []string:
		if field.Type() != reflect.TypeOf([]string(nil)) {
			return fmt.Errorf("cannot store a string list in %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	case time.Time:
		if field.Type() != reflect.TypeOf(time.Time{}) {
			return fmt.Errorf("cannot store a timestamp in %s", field.Type())
		}
		field.Set(reflect.ValueOf(v))
	case float64:
		return assignNumber(field, v)
	default:
		return fmt.Errorf("unsupported literal %T", value)
	}
	return nil
}

func assignNumber(field reflect.Value, v float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(v)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v != math.Trunc(v) {
			return fmt.Errorf("%v is not an integer", v)
		}
		if v >= math.MaxInt64 || v < math.MinInt64 || field.OverflowInt(int64(v)) {
			return fmt.Errorf("%v overflows %s", v, field.Type())
		}
		field.SetInt(int64(v))
		return nil
	default:
		return fmt.Errorf("cannot store a number in %s", field.Type())
	}
}
