package config

import "fmt"

type Config struct {
	Groq        GroqConfig        `yaml:"groq"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Paths       PathsConfig       `yaml:"paths"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// GroqConfig points at an OpenAI-compatible transcription endpoint.
type GroqConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Language   string `yaml:"language"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type FFmpegConfig struct {
	BinaryPath   string   `yaml:"binary_path"`
	ProbePath    string   `yaml:"probe_path"`
	SearchPaths  []string `yaml:"search_paths"`
	AudioBitrate string   `yaml:"audio_bitrate"`
	ChunkBitrate string   `yaml:"chunk_bitrate"`
	SampleRate   int      `yaml:"sample_rate"`
}

// ChunkingConfig bounds the payloads sent to the transcription API.
type ChunkingConfig struct {
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
	MinChunkMs       int64 `yaml:"min_chunk_ms"`
}

type PathsConfig struct {
	Input      string `yaml:"input"`
	Processing string `yaml:"processing"`
	Output     string `yaml:"output"`
	Archived   string `yaml:"archived"`
	Temp       string `yaml:"temp"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// DefaultSearchPaths are checked for ffmpeg when it is not on PATH.
var DefaultSearchPaths = []string{
	"/usr/bin",
	"/usr/local/bin",
	"/app/.apt/usr/bin",
	"/home/appuser/.apt/usr/bin",
}

func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return fmt.Errorf("groq.api_key is required (or set GROQ_API_KEY)")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required (or set GOOGLE_API_KEY)")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Chunking.MaxFileSizeBytes < 0 {
		return fmt.Errorf("chunking.max_file_size_bytes must be positive")
	}
	if c.Chunking.MinChunkMs < 0 {
		return fmt.Errorf("chunking.min_chunk_ms must be positive")
	}

	if c.Groq.BaseURL == "" {
		c.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Groq.Model == "" {
		c.Groq.Model = "whisper-large-v3-turbo"
	}
	if c.Groq.Language == "" {
		c.Groq.Language = "pt"
	}
	if c.Groq.TimeoutSec == 0 {
		c.Groq.TimeoutSec = 600
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if len(c.FFmpeg.SearchPaths) == 0 {
		c.FFmpeg.SearchPaths = DefaultSearchPaths
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "64k"
	}
	if c.FFmpeg.ChunkBitrate == "" {
		c.FFmpeg.ChunkBitrate = "64k"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Chunking.MaxFileSizeBytes == 0 {
		c.Chunking.MaxFileSizeBytes = 25 * 1024 * 1024
	}
	if c.Chunking.MinChunkMs == 0 {
		c.Chunking.MinChunkMs = 100
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 1024
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = "file:data/secretary.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
