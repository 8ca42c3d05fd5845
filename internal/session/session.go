// Package session loads configured tools into a catalog/handler pair and
// exposes the iteration and timeout policy.
package session

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/tools"
)

// Policy defaults applied when the config block leaves them unset.
const (
	DefaultMaxIterations = 5
	DefaultTimeout       = 30 * time.Second
)

// Pair is one immutable catalog/handler generation. Reload builds a fresh
// pair and swaps it in atomically so in-flight loops never observe a
// half-updated registry.
type Pair struct {
	Catalog  *tools.Catalog
	Handlers *tools.HandlerTable
}

// Manager owns the active pair and the session policy.
type Manager struct {
	cfg    config.ToolsConfig
	logger *slog.Logger
	pair   atomic.Pointer[Pair]
}

func NewManager(cfg config.ToolsConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{cfg: cfg, logger: logger}
	m.pair.Store(&Pair{Catalog: tools.NewCatalog(), Handlers: tools.NewHandlerTable()})
	return m
}

// LoadTools resolves each configured registry entry against the fixed
// built-in library, applies description overrides, and swaps the resulting
// pair in. With the tools block disabled, the registry is not loaded at
// all, so Enabled reports false and no loop activates. Unknown names are
// skipped with a warning; deprecated inline fields warn but do not fail
// loading. Returns the number of tools loaded. Registration defects
// surface as errors since they are operator-fixable.
func (m *Manager) LoadTools() (int, error) {
	if !m.cfg.Enabled {
		m.pair.Store(&Pair{Catalog: tools.NewCatalog(), Handlers: tools.NewHandlerTable()})
		m.logger.Info("tools disabled in configuration; registry not loaded")
		return 0, nil
	}

	library := map[string]tools.Descriptor{}
	for _, d := range tools.Library() {
		library[d.Name] = d
	}

	catalog := tools.NewCatalog()
	handlers := tools.NewHandlerTable()
	loaded := 0
	for _, entry := range m.cfg.Registry {
		if entry.HasDeprecatedFields() {
			m.logger.Warn("tool registry entry uses deprecated inline descriptor fields",
				"tool", entry.Name)
		}
		descriptor, ok := library[entry.Name]
		if !ok {
			m.logger.Warn("skipping unknown tool in registry", "tool", entry.Name)
			continue
		}
		if entry.Description != "" {
			descriptor.Description = entry.Description
		}
		if err := catalog.Register(descriptor); err != nil {
			return loaded, err
		}
		loaded++
	}

	m.pair.Store(&Pair{Catalog: catalog, Handlers: handlers})
	m.logger.Info("tool registry loaded", "count", loaded)
	return loaded, nil
}

// Catalog returns the current catalog generation.
func (m *Manager) Catalog() *tools.Catalog {
	return m.pair.Load().Catalog
}

// Handlers returns the current handler table generation.
func (m *Manager) Handlers() *tools.HandlerTable {
	return m.pair.Load().Handlers
}

// Invoker returns an invoker bound to the current pair and the configured
// per-call timeout.
func (m *Manager) Invoker() *tools.Invoker {
	p := m.pair.Load()
	return tools.NewInvoker(p.Catalog, p.Handlers, m.DefaultTimeout())
}

// Enabled reports whether at least one tool is loaded.
func (m *Manager) Enabled() bool {
	return m.Catalog().Len() > 0
}

// MaxIterations returns the configured ceiling or the default.
func (m *Manager) MaxIterations() int {
	if m.cfg.MaxIterations > 0 {
		return m.cfg.MaxIterations
	}
	return DefaultMaxIterations
}

// DefaultTimeout returns the configured per-call timeout or the default.
func (m *Manager) DefaultTimeout() time.Duration {
	if m.cfg.DefaultTimeoutMS > 0 {
		return time.Duration(m.cfg.DefaultTimeoutMS) * time.Millisecond
	}
	return DefaultTimeout
}

// Global reports whether tool access applies to every conversation handler
// by default, versus only handlers that opt in.
func (m *Manager) Global() bool {
	return m.cfg.ApplyGlobally
}
