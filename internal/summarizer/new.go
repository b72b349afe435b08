package summarizer

import (
	"sync"

	"github.com/nguyentantai21042004/video-secretary/internal/logger"
)

const defaultModel = "gemini-2.5-flash"

type implSummarizer struct {
	apiKeys []string
	model   string
	gen     generator
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) Summarizer {
	return newWithGenerator(apiKeys, model, geminiGenerator{}, log)
}

func newWithGenerator(apiKeys []string, model string, gen generator, log logger.Logger) *implSummarizer {
	if model == "" {
		model = defaultModel
	}
	return &implSummarizer{
		apiKeys: apiKeys,
		model:   model,
		gen:     gen,
		logger:  log,
	}
}
