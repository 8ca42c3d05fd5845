package tools

// Mode selects how a tool call is fulfilled.
type Mode string

const (
	// ModeMock returns the descriptor's canned MockResponse.
	ModeMock Mode = "mock"
	// ModeBuiltin dispatches to a handler from the built-in library.
	ModeBuiltin Mode = "builtin"
	// ModeInternal dispatches to a handler registered by the host application.
	ModeInternal Mode = "internal"
	// ModeHTTP is recognised only so registration can reject it with guidance.
	ModeHTTP Mode = "http"
)

// Property describes a single parameter in a tool's schema.
type Property struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Schema is the permissive object schema attached to a descriptor.
// Unknown extra arguments are ignored at validation time.
type Schema struct {
	Type       string              `json:"type" yaml:"type"`
	Properties map[string]Property `json:"properties" yaml:"properties"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

// Descriptor is a named, schema-described capability a model may invoke.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
	Mode        Mode   `json:"mode"`
	// MockResponse is returned verbatim for ModeMock descriptors.
	MockResponse any `json:"mockResponse,omitempty"`
	// Handler is the handler table key for ModeBuiltin/ModeInternal descriptors.
	Handler string `json:"handler,omitempty"`
}

// Clone returns a deep copy so callers never hold live catalog references.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Parameters = d.Parameters.Clone()
	return out
}

// Clone deep-copies the schema including enum slices.
func (s Schema) Clone() Schema {
	out := Schema{Type: s.Type}
	if s.Properties != nil {
		out.Properties = make(map[string]Property, len(s.Properties))
		for name, p := range s.Properties {
			cp := p
			if p.Enum != nil {
				cp.Enum = append([]any(nil), p.Enum...)
			}
			out.Properties[name] = cp
		}
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

// asMap renders the schema in plain JSON-object form for provider projections.
func (s Schema) asMap() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = append([]any(nil), p.Enum...)
		}
		props[name] = prop
	}
	out := map[string]any{
		"type":       s.Type,
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}
