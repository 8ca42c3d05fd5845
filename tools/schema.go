package tools

import (
	"github.com/invopop/jsonschema"
)

// GenerateSchema derives a parameter Schema from a Go struct type. Field
// descriptions come from jsonschema_description tags; optional fields use
// omitempty. The result is flattened to the single-level property shape the
// provider projections expect.
func GenerateSchema[T any]() Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	var v T
	reflected := reflector.Reflect(v)

	out := Schema{Type: "object", Properties: map[string]Property{}}
	if reflected.Properties != nil {
		for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop := Property{
				Type:        pair.Value.Type,
				Description: pair.Value.Description,
			}
			if len(pair.Value.Enum) > 0 {
				prop.Enum = append([]any(nil), pair.Value.Enum...)
			}
			out.Properties[pair.Key] = prop
		}
	}
	out.Required = append([]string(nil), reflected.Required...)
	return out
}
