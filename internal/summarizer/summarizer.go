package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/ai"
	"github.com/spigell/lexnorm/internal/logger"
)

// DefaultPrompt is used when neither the constructor nor the caller supplies a template.
const DefaultPrompt = `Please create a comprehensive summary of the following course content.
Focus on:
1. Key learning objectives
2. Main topics covered
3. Skills and competencies addressed
4. Target audience/level
5. Practical applications

Course Content:`

var ErrSummaryGenerationFailed = errors.New("summary generation failed")

type Summarizer struct {
	completer ai.Completer
	prompt    string
	logger    *zap.Logger
}

// New returns a summarizer using prompt as its default template. An empty prompt selects DefaultPrompt.
func New(completer ai.Completer, prompt string, l *zap.Logger) *Summarizer {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return &Summarizer{
		completer: completer,
		prompt:    prompt,
		logger:    logger.WithComponent(l, "summarizer"),
	}
}

// Summarize sends "{template}\n\n{content}" once and returns the completion unmodified.
// A non-empty customPrompt replaces the default template.
func (s *Summarizer) Summarize(ctx context.Context, content, customPrompt string) (string, error) {
	template := s.prompt
	if strings.TrimSpace(customPrompt) != "" {
		template = customPrompt
	}

	s.logger.Debug("requesting summary",
		zap.Bool("custom_prompt", template != s.prompt),
		zap.Int("content_length", utf8.RuneCountInString(content)),
	)

	summary, err := s.completer.Complete(ctx, template+"\n\n"+content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummaryGenerationFailed, err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("%w: completion service returned empty text", ErrSummaryGenerationFailed)
	}

	s.logger.Debug("summary generated", zap.Int("summary_length", utf8.RuneCountInString(summary)))

	return summary, nil
}
