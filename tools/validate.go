package tools

import (
	"fmt"
	"strings"
)

// validateArguments checks args against the descriptor schema: required
// fields first (first missing field wins), then runtime types, then enum
// membership. Unknown extra fields are ignored.
func validateArguments(schema Schema, args map[string]any) error {
	for _, field := range schema.Required {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required argument %q", field)
		}
	}
	for name, prop := range schema.Properties {
		value, present := args[name]
		if !present {
			continue
		}
		if prop.Type != "" && !matchesType(prop.Type, value) {
			return fmt.Errorf("argument %q must be of type %s", name, prop.Type)
		}
		if len(prop.Enum) > 0 && !enumContains(prop.Enum, value) {
			return fmt.Errorf("argument %q must be one of [%s]", name, formatEnum(prop.Enum))
		}
	}
	return nil
}

func matchesType(declared string, value any) bool {
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		_, ok := asFloat(value)
		return ok
	case "integer":
		f, ok := asFloat(value)
		return ok && f == float64(int64(f))
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	default:
		// Unknown declared types pass; the schema is permissive.
		return true
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func enumContains(allowed []any, value any) bool {
	for _, a := range allowed {
		if equalsLoose(a, value) {
			return true
		}
	}
	return false
}

// equalsLoose compares enum members across the numeric representations JSON
// decoding can produce.
func equalsLoose(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return a == b
}

func formatEnum(allowed []any) string {
	parts := make([]string, 0, len(allowed))
	for _, a := range allowed {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, ", ")
}
