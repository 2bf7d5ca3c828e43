package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/llm"
	"github.com/abhisek/datadrill/internal/problem"
)

// Info names the exercise a result belongs to.
type Info struct {
	Category   problem.Category
	Difficulty problem.Difficulty
}

// Collaborator writes the two commentary texts for a graded result.
// Implementations must be safe for concurrent use.
type Collaborator interface {
	Feedback(ctx context.Context, res *grading.Result, info Info) (string, error)
	AnalyzeMistakes(ctx context.Context, res *grading.Result) (string, error)
}

var errEmptyAnswer = errors.New("model returned empty text")

// LLMCollaborator asks a model for plain-text commentary.
type LLMCollaborator struct {
	provider  llm.Provider
	maxTokens int
}

func NewLLMCollaborator(provider llm.Provider) *LLMCollaborator {
	return &LLMCollaborator{provider: provider, maxTokens: 1024}
}

func (c *LLMCollaborator) Feedback(ctx context.Context, res *grading.Result, info Info) (string, error) {
	ctx = llm.WithPurpose(ctx, "feedback")
	return c.ask(ctx, feedbackSystemPrompt, buildFeedbackMessage(res, info))
}

// AnalyzeMistakes answers NoMistakes without a model call when res has no
// errors.
func (c *LLMCollaborator) AnalyzeMistakes(ctx context.Context, res *grading.Result) (string, error) {
	if len(res.Errors) == 0 {
		return NoMistakes, nil
	}
	ctx = llm.WithPurpose(ctx, "mistake-analysis")
	return c.ask(ctx, analysisSystemPrompt, buildAnalysisMessage(res))
}

// ask makes one model call. Commentary is never retried: a failed call
// settles its field with the placeholder.
func (c *LLMCollaborator) ask(ctx context.Context, system, prompt string) (string, error) {
	ctx = llm.SingleAttempt(ctx)
	req := llm.UserRequest(system, prompt)
	req.MaxTokens = c.maxTokens

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errEmptyAnswer
	}
	return text, nil
}
