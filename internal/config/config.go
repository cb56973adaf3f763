package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Stages      StagesConfig      `yaml:"stages"`
	Speech      SpeechConfig      `yaml:"speech"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Network     NetworkConfig     `yaml:"network"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Secrets     Secrets           `yaml:"-"`
}

type PathsConfig struct {
	Workspace string `yaml:"workspace"`
	Output    string `yaml:"output"`
	Inbox     string `yaml:"inbox"`
	HistoryDB string `yaml:"history_db"`
}

// StagesConfig toggles the optional stages. Extraction, visual composition
// and muxing are always present.
type StagesConfig struct {
	Speech      bool `yaml:"speech"`
	VoiceEffect bool `yaml:"voice_effect"`
	Subtitles   bool `yaml:"subtitles"`
	Script      bool `yaml:"script"`
}

type SpeechConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
	Voice string `yaml:"voice"`
}

type SummarizerConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type FFmpegConfig struct {
	Binary         string `yaml:"binary"`
	Encoder        string `yaml:"encoder"`
	Preset         string `yaml:"preset"`
	VideoBitrate   string `yaml:"video_bitrate"`
	AudioCodec     string `yaml:"audio_codec"`
	AudioBitrate   string `yaml:"audio_bitrate"`
	VoiceFilter    string `yaml:"voice_filter"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	FPS            int    `yaml:"fps"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type NetworkConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	RetryAttempts  int `yaml:"retry_attempts"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	EffectWorkers int `yaml:"effect_workers"`
}

// Secrets are read from the environment, never from the YAML file.
type Secrets struct {
	DashScopeAPIKey string
	DeepSeekAPIKey  string
	GeminiAPIKeys   []string
}

// Load reads the YAML file at path, loads an optional .env next to the
// working directory, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.Secrets = secretsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func secretsFromEnv() Secrets {
	var keys []string
	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return Secrets{
		DashScopeAPIKey: strings.TrimSpace(os.Getenv("DASHSCOPE_API_KEY")),
		DeepSeekAPIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		GeminiAPIKeys:   keys,
	}
}

func (c *Config) Validate() error {
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Stages.Speech && c.Speech.URL == "" {
		return fmt.Errorf("speech.url is required when stages.speech is enabled")
	}
	if c.Stages.Subtitles && !c.Stages.Speech {
		return fmt.Errorf("stages.subtitles requires stages.speech")
	}
	if c.Stages.VoiceEffect && !c.Stages.Speech {
		return fmt.Errorf("stages.voice_effect requires stages.speech")
	}

	switch strings.ToLower(c.Summarizer.Provider) {
	case "":
		c.Summarizer.Provider = "openai"
	case "openai", "gemini":
		c.Summarizer.Provider = strings.ToLower(c.Summarizer.Provider)
	default:
		return fmt.Errorf("summarizer.provider must be openai or gemini, got %q", c.Summarizer.Provider)
	}

	if c.Paths.Workspace == "" {
		c.Paths.Workspace = "data/temp"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.HistoryDB == "" {
		c.Paths.HistoryDB = "data/history.db"
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "qwen-tts"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "Serena"
	}
	if c.Summarizer.Model == "" {
		if c.Summarizer.Provider == "gemini" {
			c.Summarizer.Model = "gemini-2.5-flash"
		} else {
			c.Summarizer.Model = "deepseek-chat"
		}
	}
	if c.Summarizer.BaseURL == "" && c.Summarizer.Provider == "openai" {
		c.Summarizer.BaseURL = "https://api.deepseek.com"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.Encoder == "" {
		c.FFmpeg.Encoder = "libx264"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "192k"
	}
	if c.FFmpeg.VoiceFilter == "" {
		c.FFmpeg.VoiceFilter = "asetrate=30000, aresample=22050, atempo=1"
	}
	if c.FFmpeg.Width == 0 {
		c.FFmpeg.Width = 720
	}
	if c.FFmpeg.Height == 0 {
		c.FFmpeg.Height = 1280
	}
	if c.FFmpeg.FPS == 0 {
		c.FFmpeg.FPS = 30
	}
	if c.FFmpeg.TimeoutSeconds == 0 {
		c.FFmpeg.TimeoutSeconds = 600
	}
	if c.Network.TimeoutSeconds == 0 {
		c.Network.TimeoutSeconds = 30
	}
	if c.Network.RetryAttempts == 0 {
		c.Network.RetryAttempts = 3
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.EffectWorkers == 0 {
		c.Performance.EffectWorkers = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	return nil
}
