package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/petasbytes/go-toolcall/internal/capability"
	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/internal/driver"
	"github.com/petasbytes/go-toolcall/internal/probe"
	"github.com/petasbytes/go-toolcall/internal/provider"
	"github.com/petasbytes/go-toolcall/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	list := flag.Bool("list", false, "print the loaded tool catalog and exit")
	query := flag.String("query", "", "run one probe conversation with this query")
	providerID := flag.String("provider", "ollama", "provider to use: openai, ollama, gemini, anthropic")
	model := flag.String("model", "", "model identifier for the chosen provider")
	flag.Parse()

	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, envCfg.LogLevel)

	fileCfg, err := config.LoadFile(envCfg.ConfigPath)
	if err != nil {
		return err
	}

	mgr := session.NewManager(fileCfg.Tools, logger)
	loaded, err := mgr.LoadTools()
	if err != nil {
		return err
	}
	if loaded == 0 {
		logger.Warn("no tools loaded; the conversation loop will not activate")
	}

	providers := provider.NewRegistry()
	providers.Register(provider.NewOpenAI(envCfg.OpenAIAPIKey, envCfg.OpenAIBaseURL, nil))
	providers.Register(provider.NewOllama(envCfg.OllamaBaseURL, nil))
	providers.Register(provider.NewGemini(envCfg.GeminiAPIKey, envCfg.GeminiBaseURL, nil))
	providers.Register(provider.NewAnthropic(envCfg.AnthropicAPIKey))

	d := driver.New(providers, mgr, logger)
	tracker := capability.NewTracker(0, 0, 0)
	// One probe per second with a small burst keeps synthetic runs from
	// hammering a provider.
	runner := probe.NewRunner(d, mgr, tracker, rate.NewLimiter(rate.Limit(1), 3), logger)

	if *list {
		return printJSON(runner.ListTools())
	}
	if *query == "" {
		flag.Usage()
		return fmt.Errorf("either -list or -query is required")
	}
	if *model == "" {
		return fmt.Errorf("-model is required with -query")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		cancel()
	}()

	trace, err := runner.Run(ctx, probe.Request{
		Query:    *query,
		Provider: *providerID,
		Model:    *model,
	})
	if err != nil {
		return err
	}
	return printJSON(trace)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
