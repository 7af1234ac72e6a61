package config

// Image provider names.
const (
	ProviderOpenAI      = "openai"
	ProviderGrok        = "grok"
	ProviderGemini      = "gemini"
	ProviderPlaceholder = "placeholder"
)

const (
	defaultStateDir               = "~/.local/share/lyricreel"
	defaultLogDir                 = "~/.local/share/lyricreel/logs"
	defaultBaseStyle              = "photorealistic, cinematic"
	defaultImageProvider          = ProviderOpenAI
	defaultRequestIntervalSeconds = 2
	defaultImageMaxAttempts       = 3
	defaultDownloadTimeoutSeconds = 30
	defaultOpenAIBaseURL          = "https://api.openai.com/v1"
	defaultOpenAIModel            = "dall-e-3"
	defaultOpenAITimeoutSeconds   = 90
	defaultGrokBaseURL            = "https://api.x.ai/v1"
	defaultGrokModel              = "grok-vision"
	defaultGrokTimeoutSeconds     = 60
	defaultImageSize              = "1792x1024"
	defaultImageQuality           = "hd"
	defaultGeminiModel            = "imagen-3.0-generate-002"
	defaultGeminiAspectRatio      = "16:9"
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFprobeBinary          = "ffprobe"
	defaultVideoWidth             = 1920
	defaultVideoHeight            = 1080
	defaultVideoCodec             = "libx264"
	defaultVideoPreset            = "slow"
	defaultVideoCRF               = 18
	defaultAudioCodec             = "aac"
	defaultAudioBitrate           = "320k"
	defaultOutputFile             = "output_HD.mp4"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Prompts: Prompts{
			BaseStyle: defaultBaseStyle,
		},
		Images: Images{
			Provider:               defaultImageProvider,
			RequestIntervalSeconds: defaultRequestIntervalSeconds,
			MaxAttempts:            defaultImageMaxAttempts,
			DownloadTimeoutSeconds: defaultDownloadTimeoutSeconds,
			OpenAI: ImageAPI{
				BaseURL:        defaultOpenAIBaseURL,
				Model:          defaultOpenAIModel,
				Size:           defaultImageSize,
				Quality:        defaultImageQuality,
				TimeoutSeconds: defaultOpenAITimeoutSeconds,
			},
			Grok: ImageAPI{
				BaseURL:        defaultGrokBaseURL,
				Model:          defaultGrokModel,
				Size:           defaultImageSize,
				Quality:        defaultImageQuality,
				TimeoutSeconds: defaultGrokTimeoutSeconds,
			},
			Gemini: Gemini{
				Model:       defaultGeminiModel,
				AspectRatio: defaultGeminiAspectRatio,
			},
		},
		Video: Video{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Width:         defaultVideoWidth,
			Height:        defaultVideoHeight,
			VideoCodec:    defaultVideoCodec,
			Preset:        defaultVideoPreset,
			CRF:           defaultVideoCRF,
			AudioCodec:    defaultAudioCodec,
			AudioBitrate:  defaultAudioBitrate,
			OutputFile:    defaultOutputFile,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
