// Package config loads environment settings and the YAML tool
// configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Env stores environment-driven settings.
type Env struct {
	// ConfigPath is the path to the YAML configuration file.
	ConfigPath string `env:"TOOLCALL_CONFIG" envDefault:"config.yaml"`
	// LogLevel sets the logger level.
	LogLevel string `env:"TOOLCALL_LOG_LEVEL" envDefault:"info"`
	// OpenAIAPIKey authenticates the openai provider.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	// OpenAIBaseURL overrides the openai endpoint.
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	// OllamaBaseURL points at an OpenAI-compatible Ollama endpoint.
	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`
	// GeminiAPIKey authenticates the gemini provider.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// GeminiBaseURL overrides the gemini endpoint.
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	// AnthropicAPIKey authenticates the anthropic provider (read by the SDK).
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
}

// LoadEnv parses environment variables into Env.
func LoadEnv() (Env, error) {
	return env.ParseAs[Env]()
}

// File is the top-level YAML configuration.
type File struct {
	Tools     ToolsConfig      `yaml:"tools"`
	Responses []ResponseConfig `yaml:"responses"`
}

// ToolsConfig is the block the session manager is constructed from.
type ToolsConfig struct {
	Enabled          bool            `yaml:"enabled"`
	ApplyGlobally    bool            `yaml:"apply_globally"`
	MaxIterations    int             `yaml:"max_iterations"`
	DefaultTimeoutMS int             `yaml:"default_timeout_ms"`
	Registry         []RegistryEntry `yaml:"registry"`
}

// RegistryEntry selects one tool from the fixed built-in library by name,
// with an optional description override.
type RegistryEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Legacy inline descriptor fields. Their presence triggers a
	// deprecation warning but does not fail loading.
	Type         string         `yaml:"type"`
	Parameters   map[string]any `yaml:"parameters"`
	MockResponse map[string]any `yaml:"mock_response"`
}

// HasDeprecatedFields reports whether the entry still carries inline
// descriptor fields from the pre-library configuration shape.
func (e RegistryEntry) HasDeprecatedFields() bool {
	return e.Type != "" || e.Parameters != nil || e.MockResponse != nil
}

// ResponseConfig describes one conversation handler. A handler without a
// tools block never activates the tool loop.
type ResponseConfig struct {
	Name  string         `yaml:"name"`
	Tools *ResponseTools `yaml:"tools"`
}

// ResponseTools is a handler's per-response tool policy.
type ResponseTools struct {
	Enabled       bool     `yaml:"enabled"`
	AllowedTools  []string `yaml:"allowed_tools"`
	MaxIterations int      `yaml:"max_iterations"`
}

// Parse decodes YAML bytes into File.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}

// LoadFile reads and parses the YAML configuration at path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}
