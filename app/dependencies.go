package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/reasoning-gateway/config"
	"github.com/upb/reasoning-gateway/internal/observability"
	"github.com/upb/reasoning-gateway/services/providers"
	"github.com/upb/reasoning-gateway/services/providers/anthropic"
	"github.com/upb/reasoning-gateway/services/providers/deepseek"
	"github.com/upb/reasoning-gateway/services/providers/gateway"
	"github.com/upb/reasoning-gateway/services/providers/gemini"
	"github.com/upb/reasoning-gateway/services/providers/openai"
	"github.com/upb/reasoning-gateway/services/reasoning"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Provider routing
	Registry   *providers.Registry
	Allowlist  *providers.Allowlist
	Candidates []providers.ModelIdentity

	// Services
	Reasoning *reasoning.Service
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initRouting(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize routing: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initProviders registers an adapter for every configured provider
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry := providers.NewRegistry()

	if cfg.Providers.OpenAI.APIKey != "" {
		if err := registry.Register(openai.NewAdapter(adapterConfig(cfg.Providers.OpenAI))); err != nil {
			return err
		}
		d.Logger.Info("registered OpenAI provider")
	}

	if cfg.Providers.Anthropic.APIKey != "" {
		if err := registry.Register(anthropic.NewAdapter(adapterConfig(cfg.Providers.Anthropic))); err != nil {
			return err
		}
		d.Logger.Info("registered Anthropic provider")
	}

	if cfg.Providers.Gemini.APIKey != "" {
		if err := registry.Register(gemini.NewAdapter(adapterConfig(cfg.Providers.Gemini))); err != nil {
			return err
		}
		d.Logger.Info("registered Gemini provider")
	}

	if cfg.Providers.DeepSeek.APIKey != "" {
		if err := registry.Register(deepseek.NewAdapter(adapterConfig(cfg.Providers.DeepSeek))); err != nil {
			return err
		}
		d.Logger.Info("registered DeepSeek provider")
	}

	if cfg.Providers.Gateway.BaseURL != "" {
		gatewayAdapter, err := gateway.NewAdapter(adapterConfig(cfg.Providers.Gateway))
		if err != nil {
			return err
		}
		if err := registry.Register(gatewayAdapter); err != nil {
			return err
		}
		d.Logger.Info("registered inhouse gateway provider")
	}

	if registry.Len() == 0 {
		d.Logger.Warn("no LLM providers configured")
	}

	d.Registry = registry
	return nil
}

// initRouting builds the allowlist, the candidate sequence, and the
// reasoning service on top of the registry
func (d *Dependencies) initRouting(cfg *config.Config) error {
	d.Allowlist = providers.NewAllowlist(cfg.Routing.AllowedModels)

	candidates := make([]providers.ModelIdentity, 0, len(cfg.Routing.ModelPriority))
	for _, qualified := range cfg.Routing.ModelPriority {
		identity, err := providers.ParseQualifiedName(qualified)
		if err != nil {
			return fmt.Errorf("invalid model in priority list: %w", err)
		}
		candidates = append(candidates, identity)
	}
	d.Candidates = candidates

	d.Reasoning = reasoning.NewService(
		d.Registry,
		d.Allowlist,
		reasoning.Config{AttemptTimeout: cfg.Routing.AttemptTimeout},
		d.Logger,
		observability.NewZapSink(d.Logger),
	)

	d.Logger.Info("routing initialized",
		zap.Strings("model_priority", cfg.Routing.ModelPriority),
		zap.Strings("allowed_models", d.Allowlist.QualifiedNames()),
		zap.Duration("attempt_timeout", cfg.Routing.AttemptTimeout))
	return nil
}

// adapterConfig maps one provider's env-level settings onto the shared
// adapter configuration
func adapterConfig(p config.ProviderConfig) providers.AdapterConfig {
	return providers.AdapterConfig{
		APIKey:     p.APIKey,
		BaseURL:    p.BaseURL,
		Timeout:    p.Timeout,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close() error {
	d.Logger.Info("shutting down dependencies")

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
