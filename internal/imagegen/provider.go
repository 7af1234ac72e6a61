package imagegen

import (
	"context"
	"fmt"
	"strings"

	"lyricreel/internal/config"
	"lyricreel/internal/services"
	"lyricreel/internal/services/imageapi"
	"lyricreel/internal/services/imagen"
)

// Provider renders one prompt to encoded image bytes.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// offline providers render locally and are not paced.
type offline interface {
	Offline() bool
}

// credentialEnv names the environment fallback for each remote provider.
var credentialEnv = map[string]string{
	config.ProviderOpenAI: "OPENAI_API_KEY",
	config.ProviderGrok:   "XAI_API_KEY",
	config.ProviderGemini: "GEMINI_API_KEY",
}

// NewProvider builds the provider called name, falling back to the configured
// default when name is empty. apiKey overrides the configured credential.
func NewProvider(ctx context.Context, cfg *config.Config, name, apiKey string) (Provider, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = cfg.Images.Provider
	}
	apiKey = strings.TrimSpace(apiKey)

	switch name {
	case config.ProviderPlaceholder:
		return NewPlaceholder(cfg.Video.Width, cfg.Video.Height), nil
	case config.ProviderOpenAI, config.ProviderGrok:
		api, _ := cfg.ImageAPIFor(name)
		if apiKey == "" {
			apiKey = api.APIKey
		}
		if apiKey == "" {
			return nil, missingKey(name)
		}
		n := 0
		if name == config.ProviderOpenAI {
			n = 1
		}
		client := imageapi.NewClient(imageapi.Config{
			Name:                   name,
			APIKey:                 apiKey,
			BaseURL:                api.BaseURL,
			Model:                  api.Model,
			Size:                   api.Size,
			Quality:                api.Quality,
			N:                      n,
			TimeoutSeconds:         api.TimeoutSeconds,
			DownloadTimeoutSeconds: cfg.Images.DownloadTimeoutSeconds,
		}, imageapi.WithRetryMaxAttempts(cfg.Images.MaxAttempts))
		return client, nil
	case config.ProviderGemini:
		if apiKey == "" {
			apiKey = cfg.Images.Gemini.APIKey
		}
		if apiKey == "" {
			return nil, missingKey(name)
		}
		client, err := imagen.NewClient(ctx, imagen.Config{
			APIKey:      apiKey,
			Model:       cfg.Images.Gemini.Model,
			AspectRatio: cfg.Images.Gemini.AspectRatio,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "images", "create gemini client", "", err)
		}
		return client, nil
	default:
		return nil, services.Wrap(
			services.ErrValidation,
			"images",
			"select provider",
			fmt.Sprintf("unknown provider %q (choose one of %s)", name, strings.Join(config.Providers(), ", ")),
			nil,
		)
	}
}

func missingKey(provider string) error {
	return services.Wrap(
		services.ErrConfiguration,
		"images",
		"resolve credentials",
		fmt.Sprintf("%s requires an API key (pass --api-key, set %s, or configure images.%s.api_key)", provider, credentialEnv[provider], provider),
		nil,
	)
}
