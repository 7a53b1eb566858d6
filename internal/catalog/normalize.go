package catalog

import (
	"encoding/json"
	"fmt"
)

// MissingArgumentError reports a required field that was absent or null.
type MissingArgumentError struct {
	Operation string
	Field     string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Operation, e.Field)
}

// Arguments is a normalized argument set. Once produced it satisfies its
// OperationDefinition exactly; downstream components trust it without
// re-validating.
type Arguments map[string]interface{}

// String returns a string argument, or empty when unset.
func (a Arguments) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns an integer argument, or zero when unset.
func (a Arguments) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Normalize validates raw caller arguments against a definition, applies
// defaults and clamps integer ranges. Enum values outside the allowed set
// pass through uninterpreted.
func Normalize(def OperationDefinition, raw map[string]interface{}) (Arguments, error) {
	args := make(Arguments, len(def.Parameters))

	for _, p := range def.Parameters {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, &MissingArgumentError{Operation: def.Name, Field: p.Name}
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}

		switch p.Type {
		case TypeInteger:
			n, err := toInt(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %s %w", def.Name, p.Name, err)
			}
			args[p.Name] = clamp(p, n)
		case TypeString:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%s: %s must be a string", def.Name, p.Name)
			}
			args[p.Name] = s
		default:
			args[p.Name] = v
		}
	}

	return args, nil
}

// clamp bounds n into [Min, Max] for range-limited parameters. A
// non-positive value falls back to the default when one exists, so
// limit=0 means "use the default" rather than an error.
func clamp(p Parameter, n int) int {
	if p.Max == 0 {
		return n
	}
	if n <= 0 {
		if d, ok := p.Default.(int); ok {
			return d
		}
		return p.Min
	}
	if n < p.Min {
		return p.Min
	}
	if n > p.Max {
		return p.Max
	}
	return n
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}
