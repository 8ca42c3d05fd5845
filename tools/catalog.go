package tools

import (
	"fmt"
	"strings"
)

// Providers understood by ProjectForProvider. openai, ollama and anthropic
// consume the flat function-tool shape; the anthropic adapter re-translates
// it into SDK params at its own boundary. gemini wraps each tool in its own
// functionDeclarations list.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Catalog is a validated registry of tool descriptors. It is populated once
// at startup/reload and read-only during request processing.
type Catalog struct {
	byName map[string]Descriptor
	order  []string
}

func NewCatalog() *Catalog {
	return &Catalog{byName: map[string]Descriptor{}}
}

// Register validates and stores a defensive copy of the descriptor.
// Re-registering an existing name replaces the prior entry in place.
// Registration defects are operator-fixable configuration errors and are
// returned synchronously rather than routed around.
func (c *Catalog) Register(d Descriptor) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("tool name is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("tool %q: description is required", d.Name)
	}
	if d.Parameters.Type == "" || d.Parameters.Properties == nil {
		return fmt.Errorf("tool %q: parameter schema is required", d.Name)
	}
	switch d.Mode {
	case ModeMock, ModeBuiltin, ModeInternal:
	case ModeHTTP:
		return fmt.Errorf("tool %q: http tools are not supported yet; use mock, builtin, or internal mode", d.Name)
	default:
		return fmt.Errorf("tool %q: unrecognised execution mode %q", d.Name, d.Mode)
	}

	if _, exists := c.byName[d.Name]; !exists {
		c.order = append(c.order, d.Name)
	}
	c.byName[d.Name] = d.Clone()
	return nil
}

// Get returns a copy of the named descriptor.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	d, ok := c.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.Clone(), true
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// List returns descriptor copies in registration order.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name].Clone())
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.byName)
}

// ProjectForProvider renders the tool list in the given provider's wire shape.
// An empty or nil allowed set means every tool, in registration order; a
// non-empty set filters to those names while preserving catalog order.
func (c *Catalog) ProjectForProvider(providerID string, allowed []string) ([]map[string]any, error) {
	allowedSet := map[string]struct{}{}
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}
	selected := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		if len(allowedSet) > 0 {
			if _, ok := allowedSet[name]; !ok {
				continue
			}
		}
		selected = append(selected, c.byName[name])
	}

	switch providerID {
	case ProviderOpenAI, ProviderOllama, ProviderAnthropic:
		out := make([]map[string]any, 0, len(selected))
		for _, d := range selected {
			out = append(out, map[string]any{
				"type": "function",
				"function": map[string]any{
					"name":        d.Name,
					"description": d.Description,
					"parameters":  d.Parameters.asMap(),
				},
			})
		}
		return out, nil
	case ProviderGemini:
		// One single-element functionDeclarations wrapper per tool, matching
		// the upstream SDK examples this shape was lifted from.
		out := make([]map[string]any, 0, len(selected))
		for _, d := range selected {
			out = append(out, map[string]any{
				"functionDeclarations": []map[string]any{{
					"name":        d.Name,
					"description": d.Description,
					"parameters":  d.Parameters.asMap(),
				}},
			})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q: expected one of openai, ollama, anthropic, gemini", providerID)
	}
}
