package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/llm"
	"github.com/abhisek/datadrill/internal/problem"
)

func sevenMistakes() *grading.Result {
	records := make([][]string, 7)
	grid := make([]map[string]string, 7)
	for i := range records {
		records[i] = []string{"正"}
		grid[i] = map[string]string{"値": "誤"}
	}
	res := grading.GradeAt(records, []string{"値"}, grid, 125, time.Date(2026, 5, 1, 14, 5, 0, 0, time.Local))
	return res
}

func TestLLMCollaborator_FeedbackPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("  ミスを減らすためにダブルチェックを心がけましょう。\n"))
	c := NewLLMCollaborator(mock)

	res := sevenMistakes()
	text, err := c.Feedback(context.Background(), res, Info{Category: problem.SalesData, Difficulty: problem.Hard})
	require.NoError(t, err)
	assert.Equal(t, "ミスを減らすためにダブルチェックを心がけましょう。", text)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0].Schema)
	prompt := calls[0].Messages[0].Content
	assert.Contains(t, prompt, "業務の種類: sales data")
	assert.Contains(t, prompt, "難易度: hard")
	assert.Contains(t, prompt, "正答率: 0.00%")
	assert.Contains(t, prompt, "入力時間: 125 秒")
	assert.Contains(t, prompt, "全項目数: 7")
	assert.Contains(t, prompt, "ミスした箇所の数: 7")
	assert.Contains(t, prompt, "- 行 1, 項目 「値」: 入力「誤」, 正解「正」")
	assert.Contains(t, prompt, "- 行 5, 項目 「値」")
	assert.NotContains(t, prompt, "- 行 6,", "only the first five mistakes are quoted")
}

func TestLLMCollaborator_AnalysisPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("**ミスの傾向**\n同じ誤りが続いています。"))
	c := NewLLMCollaborator(mock)

	_, err := c.AnalyzeMistakes(context.Background(), sevenMistakes())
	require.NoError(t, err)

	prompt := mock.Calls()[0].Messages[0].Content
	assert.Contains(t, prompt, "実施時刻: 14:05")
	assert.Equal(t, 7, strings.Count(prompt, "{ row: "))
	assert.Contains(t, prompt, `{ row: 7, field: "値", userInput: "誤", correctAnswer: "正" }`)
	assert.Contains(t, mock.Calls()[0].System, "**今後の対策**")
}

func TestLLMCollaborator_NoMistakesSkipsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	c := NewLLMCollaborator(mock)

	res := grading.Grade([][]string{{"a"}}, []string{"x"}, []map[string]string{{"x": "a"}}, 1)
	text, err := c.AnalyzeMistakes(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, NoMistakes, text)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLLMCollaborator_Errors(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("   "), llm.MockResponse{Err: &llm.ErrRateLimit{}})
	c := NewLLMCollaborator(mock)
	res := sevenMistakes()

	_, err := c.Feedback(context.Background(), res, Info{})
	assert.ErrorIs(t, err, errEmptyAnswer)

	_, err = c.AnalyzeMistakes(context.Background(), res)
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

func TestLLMCollaborator_PurposeLabels(t *testing.T) {
	var purposes []string
	p := purposeRecorder{inner: llm.NewMockProvider(llm.MockText("a"), llm.MockText("b")), seen: &purposes}
	c := NewLLMCollaborator(p)
	res := sevenMistakes()

	_, _ = c.Feedback(context.Background(), res, Info{})
	_, _ = c.AnalyzeMistakes(context.Background(), res)
	assert.Equal(t, []string{"feedback", "mistake-analysis"}, purposes)
}

type purposeRecorder struct {
	inner llm.Provider
	seen  *[]string
}

func (p purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = append(*p.seen, llm.PurposeFrom(ctx))
	return p.inner.Generate(ctx, req)
}

func (p purposeRecorder) ModelID() string { return p.inner.ModelID() }

func TestEnrich_CommentaryIsNotRetried(t *testing.T) {
	// An empty mock queue fails every call as unavailable, which the retry
	// decorator would otherwise retry.
	mock := llm.NewMockProvider()
	provider := llm.WithRetry(mock, llm.DefaultConfig().Retry)

	res := resultWithErrors()
	New(NewLLMCollaborator(provider)).Enrich(context.Background(), res, info, nil).Wait()

	assert.Equal(t, 2, mock.CallCount(), "one model call per field")
	fb, _ := res.Feedback()
	ma, _ := res.MistakeAnalysis()
	assert.Equal(t, FeedbackFailed, fb)
	assert.Equal(t, AnalysisFailed, ma)
}
