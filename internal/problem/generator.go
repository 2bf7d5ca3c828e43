package problem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/datadrill/internal/llm"
)

// GenerationFailedMessage is shown to the user whenever generation fails.
const GenerationFailedMessage = "Failed to generate a new problem. Please try again."

// ErrGenerationFailed matches every generation failure via errors.Is.
var ErrGenerationFailed = errors.New(GenerationFailedMessage)

// GenerationError carries the cause of a failed generation.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return GenerationFailedMessage }

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// Generator produces problem sets.
type Generator interface {
	Generate(ctx context.Context, c Category, d Difficulty) (*ProblemSet, error)
}

// Config controls LLMGenerator.
type Config struct {
	// Validators run in order; the first failure rejects the set.
	Validators []Validator

	// Attempts bounds regeneration after a retryable validation failure.
	Attempts int

	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		Validators:  []Validator{&StructuralValidator{}, &DisplayValidator{}},
		Attempts:    2,
		MaxTokens:   8192,
		Temperature: 0.9,
	}
}

// LLMGenerator asks a model for a problem set in ProblemSchema form.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

func New(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMGenerator {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// Generate returns a validated problem set. Every failure is a
// *GenerationError.
func (g *LLMGenerator) Generate(ctx context.Context, c Category, d Difficulty) (*ProblemSet, error) {
	if !c.Valid() || !d.Valid() {
		return nil, &GenerationError{Err: fmt.Errorf("unsupported task %q/%q", c, d)}
	}
	ctx = llm.WithPurpose(ctx, "problem-gen")

	var lastErr error
	for attempt := 1; attempt <= g.config.Attempts; attempt++ {
		p, err := g.generateOnce(ctx, c, d)
		if err == nil {
			g.logger.Debug("problem generated",
				zap.String("category", string(c)),
				zap.String("difficulty", string(d)),
				zap.Int("records", len(p.Records)),
				zap.Int("fields", len(p.Fields)),
			)
			return p, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			break
		}
		g.logger.Debug("problem rejected", zap.Int("attempt", attempt), zap.Error(err))
	}

	g.logger.Warn("problem generation failed",
		zap.String("category", string(c)),
		zap.String("difficulty", string(d)),
		zap.Error(lastErr),
	)
	return nil, &GenerationError{Err: lastErr}
}

func (g *LLMGenerator) generateOnce(ctx context.Context, c Category, d Difficulty) (*ProblemSet, error) {
	req := llm.UserRequest(systemPrompt, buildUserMessage(c, d))
	req.Schema = ProblemSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	var p ProblemSet
	if err := json.Unmarshal(resp.Content, &p); err != nil {
		return nil, fmt.Errorf("parse problem set: %w", err)
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(&p); verr != nil {
			return nil, verr
		}
	}
	return &p, nil
}
