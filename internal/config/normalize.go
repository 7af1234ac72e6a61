package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePrompts(); err != nil {
		return err
	}
	c.normalizeImages()
	c.normalizeVideo()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePrompts() error {
	c.Prompts.BaseStyle = strings.TrimSpace(c.Prompts.BaseStyle)
	if c.Prompts.BaseStyle == "" {
		c.Prompts.BaseStyle = defaultBaseStyle
	}
	if style := strings.TrimSpace(c.Prompts.StyleFile); style != "" {
		expanded, err := expandPath(style)
		if err != nil {
			return fmt.Errorf("prompts.style_file: %w", err)
		}
		c.Prompts.StyleFile = expanded
	}
	return nil
}

func (c *Config) normalizeImages() {
	c.Images.Provider = strings.ToLower(strings.TrimSpace(c.Images.Provider))
	if c.Images.Provider == "" {
		c.Images.Provider = defaultImageProvider
	}
	if c.Images.MaxAttempts <= 0 {
		c.Images.MaxAttempts = defaultImageMaxAttempts
	}
	if c.Images.DownloadTimeoutSeconds <= 0 {
		c.Images.DownloadTimeoutSeconds = defaultDownloadTimeoutSeconds
	}

	normalizeImageAPI(&c.Images.OpenAI, defaultOpenAIBaseURL, defaultOpenAIModel, defaultOpenAITimeoutSeconds)
	normalizeImageAPI(&c.Images.Grok, defaultGrokBaseURL, defaultGrokModel, defaultGrokTimeoutSeconds)
	if c.Images.OpenAI.APIKey == "" {
		c.Images.OpenAI.APIKey = lookupEnv("OPENAI_API_KEY")
	}
	if c.Images.Grok.APIKey == "" {
		c.Images.Grok.APIKey = lookupEnv("XAI_API_KEY")
	}

	c.Images.Gemini.APIKey = strings.TrimSpace(c.Images.Gemini.APIKey)
	if c.Images.Gemini.APIKey == "" {
		c.Images.Gemini.APIKey = lookupEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	c.Images.Gemini.Model = strings.TrimSpace(c.Images.Gemini.Model)
	if c.Images.Gemini.Model == "" {
		c.Images.Gemini.Model = defaultGeminiModel
	}
	c.Images.Gemini.AspectRatio = strings.TrimSpace(c.Images.Gemini.AspectRatio)
	if c.Images.Gemini.AspectRatio == "" {
		c.Images.Gemini.AspectRatio = defaultGeminiAspectRatio
	}
}

func normalizeImageAPI(api *ImageAPI, baseURL, model string, timeout int) {
	api.APIKey = strings.TrimSpace(api.APIKey)
	api.BaseURL = strings.TrimRight(strings.TrimSpace(api.BaseURL), "/")
	if api.BaseURL == "" {
		api.BaseURL = baseURL
	}
	api.Model = strings.TrimSpace(api.Model)
	if api.Model == "" {
		api.Model = model
	}
	api.Size = strings.TrimSpace(api.Size)
	if api.Size == "" {
		api.Size = defaultImageSize
	}
	api.Quality = strings.TrimSpace(api.Quality)
	if api.Quality == "" {
		api.Quality = defaultImageQuality
	}
	if api.TimeoutSeconds <= 0 {
		api.TimeoutSeconds = timeout
	}
}

func (c *Config) normalizeVideo() {
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	if c.Video.FFmpegBinary == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	c.Video.FFprobeBinary = strings.TrimSpace(c.Video.FFprobeBinary)
	if c.Video.FFprobeBinary == "" {
		c.Video.FFprobeBinary = defaultFFprobeBinary
	}
	c.Video.VideoCodec = strings.TrimSpace(c.Video.VideoCodec)
	if c.Video.VideoCodec == "" {
		c.Video.VideoCodec = defaultVideoCodec
	}
	c.Video.Preset = strings.TrimSpace(c.Video.Preset)
	if c.Video.Preset == "" {
		c.Video.Preset = defaultVideoPreset
	}
	c.Video.AudioCodec = strings.TrimSpace(c.Video.AudioCodec)
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = defaultAudioCodec
	}
	c.Video.AudioBitrate = strings.TrimSpace(c.Video.AudioBitrate)
	if c.Video.AudioBitrate == "" {
		c.Video.AudioBitrate = defaultAudioBitrate
	}
	c.Video.OutputFile = strings.TrimSpace(c.Video.OutputFile)
	if c.Video.OutputFile == "" {
		c.Video.OutputFile = defaultOutputFile
	}
}

func (c *Config) normalizeHistory() error {
	if path := strings.TrimSpace(c.History.Path); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
		c.History.Path = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if level := lookupEnv("LYRICREEL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
