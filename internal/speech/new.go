package speech

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// Options configures an OpenAI-compatible transcription endpoint
// (Groq by default).
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type implClient struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

// New creates a Client for the given endpoint.
func New(opts Options, log logger.Logger) Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	model := opts.Model
	if model == "" {
		model = "whisper-large-v3-turbo"
	}

	return &implClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: log,
	}
}
