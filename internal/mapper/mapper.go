package mapper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/ai"
	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/model"
	"github.com/spigell/lexnorm/internal/store"
	"github.com/spigell/lexnorm/internal/utils"
)

const (
	NoResultsGapAnalysis = "No mapping results available"
	NoOverallGapAnalysis = "No overall gap analysis available"
)

var (
	ErrNoStandardsAvailable = errors.New("no occupational standards available")
	// ErrMalformedResponse and ErrCandidateSkipped are only logged, Map degrades instead of failing.
	ErrMalformedResponse = errors.New("malformed mapping response")
	ErrCandidateSkipped  = errors.New("mapping candidate skipped")
)

// Catalog resolves candidates against the authoritative standards. Both lookups return
// the first record in catalog order, or store.ErrNotFound.
type Catalog interface {
	FindExact(ctx context.Context, nosCode, pcCode string) (*model.Standard, error)
	FindByNOS(ctx context.Context, nosCode string) (*model.Standard, error)
}

type Request struct {
	Summary   string
	Standards []model.Standard
	// CustomPrompt replaces the configured template when non-empty.
	CustomPrompt string
	// Model switches the completion model for this call when the completer supports it.
	Model string
}

type Result struct {
	Matches            []model.ResolvedMatch
	OverallConfidence  float64
	OverallGapAnalysis string
	// CandidateCount is the number of candidates the completion service returned.
	CandidateCount int
	Skipped        int
}

type Mapper struct {
	completer ai.Completer
	catalog   Catalog
	prompt    string
	maxLogLen int
	logger    *zap.Logger
}

// New returns a mapper. An empty prompt selects DefaultPrompt.
func New(completer ai.Completer, catalog Catalog, prompt string, maxLogLen int, l *zap.Logger) *Mapper {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return &Mapper{
		completer: completer,
		catalog:   catalog,
		prompt:    prompt,
		maxLogLen: maxLogLen,
		logger:    logger.WithComponent(l, "mapper"),
	}
}

// Map asks the completion service to match summary against req.Standards and links every
// proposed match back to the catalog. Unusable completion output yields an empty result.
func (m *Mapper) Map(ctx context.Context, req Request) (*Result, error) {
	if len(req.Standards) == 0 {
		return nil, ErrNoStandardsAvailable
	}

	template := m.prompt
	if strings.TrimSpace(req.CustomPrompt) != "" {
		template = req.CustomPrompt
	}
	prompt := buildPrompt(template, req.Summary, req.Standards)

	m.logger.Debug("requesting mapping",
		zap.Int("standards", len(req.Standards)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("model", req.Model),
	)

	raw, err := ai.ForModel(m.completer, req.Model).Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("mapping completion: %w", err)
	}

	m.logger.Debug("mapping response received", zap.String("response", utils.TruncateForLog(raw, m.maxLogLen)))

	parsed, err := parseResponse(raw)
	if err != nil {
		m.logger.Warn("mapping response not usable",
			zap.Error(fmt.Errorf("%w: %v", ErrMalformedResponse, err)),
			zap.String("response", utils.TruncateForLog(raw, m.maxLogLen)),
		)
		return emptyResult(), nil
	}

	return m.reconcile(ctx, parsed), nil
}

func emptyResult() *Result {
	return &Result{
		Matches:            []model.ResolvedMatch{},
		OverallGapAnalysis: NoResultsGapAnalysis,
	}
}

// reconcile resolves each candidate independently. The confidence mean is taken over every
// returned candidate, resolved or not.
func (m *Mapper) reconcile(ctx context.Context, parsed parsedResponse) *Result {
	if len(parsed.candidates) == 0 {
		return emptyResult()
	}

	result := &Result{
		Matches:        make([]model.ResolvedMatch, 0, len(parsed.candidates)),
		CandidateCount: len(parsed.candidates),
	}
	if parsed.shape == shapeMappingsObject && strings.TrimSpace(parsed.overallGap) != "" {
		result.OverallGapAnalysis = parsed.overallGap
	}

	var total float64
	for i, raw := range parsed.candidates {
		l := m.logger.With(zap.Int("candidate", i), zap.Stringer("shape", parsed.shape))

		candidate, err := decodeCandidate(raw)
		if err != nil {
			l.Warn("mapping candidate skipped", zap.Error(fmt.Errorf("%w: %v", ErrCandidateSkipped, err)))
			result.Skipped++
			continue
		}
		if parsed.shape == shapeMappingsObject {
			candidate.OverallGapAnalysis = parsed.overallGap
		}

		total += candidate.ConfidenceScore

		if result.OverallGapAnalysis == "" && strings.TrimSpace(candidate.OverallGapAnalysis) != "" {
			result.OverallGapAnalysis = candidate.OverallGapAnalysis
		}

		if strings.TrimSpace(candidate.NOSCode) == "" {
			result.Skipped++
			continue
		}

		standard, err := m.resolve(ctx, candidate)
		if err != nil {
			l.Warn("mapping candidate skipped",
				zap.String("nos_code", candidate.NOSCode),
				zap.String("pc_code", candidate.PCCode),
				zap.Error(fmt.Errorf("%w: %v", ErrCandidateSkipped, err)),
			)
			result.Skipped++
			continue
		}

		result.Matches = append(result.Matches, model.ResolvedMatch{
			Standard:        *standard,
			ConfidenceScore: candidate.ConfidenceScore,
			Reasoning:       candidate.Reasoning,
			GapAnalysis:     candidate.GapAnalysis,
		})
	}

	result.OverallConfidence = total / float64(result.CandidateCount)
	if result.OverallGapAnalysis == "" {
		result.OverallGapAnalysis = NoOverallGapAnalysis
	}

	m.logger.Info("mapping reconciled",
		zap.Int("candidates", result.CandidateCount),
		zap.Int("resolved", len(result.Matches)),
		zap.Int("skipped", result.Skipped),
		zap.Float64("overall_confidence", result.OverallConfidence),
	)

	return result
}

// resolve tries the exact (nos_code, pc_code) pair first and degrades to nos_code alone.
func (m *Mapper) resolve(ctx context.Context, candidate model.MatchCandidate) (*model.Standard, error) {
	standard, err := m.catalog.FindExact(ctx, candidate.NOSCode, candidate.PCCode)
	if err == nil {
		return standard, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("exact lookup: %w", err)
	}

	standard, err = m.catalog.FindByNOS(ctx, candidate.NOSCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("nos code %q is not in the catalog", candidate.NOSCode)
		}
		return nil, fmt.Errorf("nos lookup: %w", err)
	}
	return standard, nil
}

func decodeCandidate(raw any) (model.MatchCandidate, error) {
	var candidate model.MatchCandidate

	if _, ok := raw.(map[string]any); !ok {
		return candidate, fmt.Errorf("candidate is %T, not an object", raw)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &candidate,
	})
	if err != nil {
		return candidate, err
	}

	if err := decoder.Decode(raw); err != nil {
		return model.MatchCandidate{}, err
	}

	return candidate, nil
}
