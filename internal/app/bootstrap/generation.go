package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/wolfman30/ohc-assist/internal/assistant"
	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Provider names accepted by GENERATION_PROVIDER.
const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
	ProviderNone    = "none"
)

// BuildLLMClient returns the provider client named by cfg, or nil when the
// provider is disabled or missing credentials. closeFn releases provider
// resources and is never nil.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (llm generation.LLMClient, model string, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	if cfg == nil {
		return nil, "", closeFn, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.GenerationProvider)); provider {
	case ProviderGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			logger.Warn("GEMINI_API_KEY not set; serving fallback content only")
			return nil, "", closeFn, nil
		}
		client, err := generation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, "", closeFn, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		logger.Info("using gemini generation backend", "model", cfg.GeminiModelID)
		return client, cfg.GeminiModelID, client.Close, nil

	case ProviderBedrock:
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			logger.Warn("BEDROCK_MODEL_ID not set; serving fallback content only")
			return nil, "", closeFn, nil
		}
		if loadAWS == nil {
			return nil, "", closeFn, fmt.Errorf("bootstrap: bedrock requires an AWS loader")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, "", closeFn, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		logger.Info("using bedrock generation backend", "model", cfg.BedrockModelID, "region", awsCfg.Region)
		return generation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), cfg.BedrockModelID, closeFn, nil

	case ProviderNone, "":
		logger.Info("generation disabled; serving fallback content only")
		return nil, "", closeFn, nil

	default:
		return nil, "", closeFn, fmt.Errorf("bootstrap: unknown generation provider %q", provider)
	}
}

// BuildGenerator wraps the configured provider in a grounded generation
// client. A nil Generator means every request is answered from fallback
// content.
func BuildGenerator(ctx context.Context, cfg *appconfig.Config, facts knowledge.CompanyFacts, loadAWS AWSLoader, logger *logging.Logger) (assistant.Generator, func() error, error) {
	llm, model, closeFn, err := BuildLLMClient(ctx, cfg, loadAWS, logger)
	if err != nil || llm == nil {
		return nil, closeFn, err
	}
	return generation.NewClient(llm, facts, generation.Options{
		Model:       model,
		Temperature: cfg.GenerationTemperature,
		MaxTokens:   int32(cfg.GenerationMaxTokens),
	}), closeFn, nil
}
