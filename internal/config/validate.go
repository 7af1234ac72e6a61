package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Validate ensures the configuration is usable. Credentials are checked when
// a provider is built, since most commands never talk to an image API.
func (c *Config) Validate() error {
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// Providers lists the accepted values for images.provider.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderGrok, ProviderGemini, ProviderPlaceholder}
}

func (c *Config) validateImages() error {
	if !slices.Contains(Providers(), c.Images.Provider) {
		return fmt.Errorf("images.provider must be one of %v, got %q", Providers(), c.Images.Provider)
	}
	if c.Images.RequestIntervalSeconds < 0 {
		return errors.New("images.request_interval_seconds must be >= 0")
	}
	for name, api := range map[string]ImageAPI{"openai": c.Images.OpenAI, "grok": c.Images.Grok} {
		parsed, err := url.Parse(api.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("images.%s.base_url must be an absolute URL, got %q", name, api.BaseURL)
		}
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("video.width and video.height must be positive, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return fmt.Errorf("video.width and video.height must be even for yuv420p, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return errors.New("video.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
