package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// fromDB turns a scanned column value into its JSON form. Drivers disagree
// on bools (sqlite returns integers) and text (bytes or strings), so the
// column type decides.
func fromDB(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	switch col.Type {
	case field.TypeTime:
		switch v := value.(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano), nil
		case string:
			return v, nil
		}
	case field.TypeBool:
		return toBool(value)
	case field.TypeInt, field.TypeInt64, field.TypeInt32:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	case field.TypeString:
		return fmt.Sprint(value), nil
	}
	return value, nil
}

// fromJSON turns a decoded payload value back into a driver argument.
func fromJSON(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.Type {
	case field.TypeTime:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", value)
		}
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case field.TypeBool:
		return toBool(value)
	case field.TypeInt, field.TypeInt64, field.TypeInt32:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	case field.TypeString:
		if n, ok := value.(json.Number); ok {
			return n.String(), nil
		}
		return fmt.Sprint(value), nil
	}
	return value, nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case json.Number:
		i, err := v.Int64()
		return i != 0, err
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported int type %T", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported float type %T", value)
	}
}
