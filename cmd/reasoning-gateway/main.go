package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/upb/reasoning-gateway/app"
	"github.com/upb/reasoning-gateway/config"
	"github.com/upb/reasoning-gateway/internal/observability"
	"github.com/upb/reasoning-gateway/internal/trace"
	"github.com/upb/reasoning-gateway/services/providers"
)

func main() {
	systemPrompt := flag.String("system", "You are a precise reasoning assistant.", "system prompt")
	userPrompt := flag.String("user", "", "user prompt (required)")
	jsonOutput := flag.Bool("json", false, "request JSON output mode")
	flag.Parse()

	if *userPrompt == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := app.NewDependencies(cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire dependencies", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt, err := providers.NewPrompt(*systemPrompt, *userPrompt)
	if err != nil {
		logger.Fatal("invalid prompt", zap.Error(err))
	}
	if *jsonOutput {
		prompt.Format = providers.FormatJSON
	}

	tc := trace.NewMission()
	result, err := deps.Reasoning.Reason(ctx, prompt, deps.Candidates, tc)
	if err != nil {
		logger.Fatal("reasoning failed",
			zap.String("correlation_id", tc.CorrelationID),
			zap.Error(err))
	}

	usage := result.TotalUsage()
	logger.Info("reasoning succeeded",
		zap.String("correlation_id", tc.CorrelationID),
		zap.String("model", result.Response.Model.QualifiedName()),
		zap.Int("attempts", len(result.Attempts)),
		zap.Int("total_tokens", usage.TotalTokens))

	fmt.Println(result.Response.Content)
}
