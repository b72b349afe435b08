package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const summaryPrompt = `Como professor de português, analise o conteúdo do arquivo em anexo e faça um texto destacando os principais pontos, com um tom profissional.

Conteúdo original:
%s

Análise prévia:
- Número de sentenças: %d
- Palavras-chave mais frequentes: %s

O resumo deve:
1. Ter um tom profissional e formal
2. Destacar os pontos-chave do texto original
3. Ser estruturado em tópicos claros
4. Usar a seguinte formatação:
   - Tópicos principais sem marcadores
   - Subtópicos com • (ex: • Subtópico)
   - Sub-subtópicos com dois espaços e • (ex:   • Sub-subtópico)
5. Manter uma estrutura hierárquica clara
6. NÃO usar asteriscos (**) ou hashtags (###) na formatação

Por favor, formate o resumo de maneira clara e legível, seguindo estritamente as regras de formatação acima.`

// Summarize analyses the transcript and asks Gemini for a structured summary.
// Keys are rotated on rate limit errors; any other error is returned as is.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	a := Analyze(transcript)
	s.logger.Debug(ctx, "Transcript analysis: %d sentences, keywords %v", a.Sentences, a.Keywords)
	prompt := buildPrompt(transcript, a)

	var lastErr error
	for range len(s.apiKeys) {
		idx, key := s.key()

		text, err := s.gen.Generate(ctx, key, s.model, prompt)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", err
		}

		s.logger.Info(ctx, "Summary generated (%d chars)", len(text))
		return strings.TrimSpace(text), nil
	}

	return "", fmt.Errorf("%w: %v", ErrKeysExhausted, lastErr)
}

func buildPrompt(transcript string, a Analysis) string {
	return fmt.Sprintf(summaryPrompt, transcript, a.Sentences, strings.Join(a.Keywords, ", "))
}

func (s *implSummarizer) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateKey advances past idx unless another caller already did.
func (s *implSummarizer) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}
