package provider

import (
	"context"
	"net/http"

	"github.com/petasbytes/go-toolcall/tools"
)

// Ollama talks to an OpenAI-compatible Ollama endpoint (the /v1 surface),
// so it shares the chat-completions translation with the OpenAI adapter.
type Ollama struct {
	inner *OpenAI
}

func NewOllama(baseURL string, client *http.Client) *Ollama {
	return &Ollama{inner: NewOpenAI("", baseURL, client)}
}

func (o *Ollama) Name() string { return tools.ProviderOllama }

func (o *Ollama) Complete(ctx context.Context, req Request) (Reply, error) {
	return o.inner.complete(ctx, req, o.Name())
}
