package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/datadrill/internal/store"
)

func seedAuditLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, e := range []store.LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "problem-gen", InputTokens: 1200, OutputTokens: 800, LatencyMs: 900, Success: true, RequestBody: `{"q":1}`},
		{Provider: "openai", Model: "mystery-model", Purpose: "feedback", InputTokens: 10, OutputTokens: 5, LatencyMs: 40, ErrorMessage: "boom"},
	} {
		require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, e))
	}
	return path
}

func TestLLMList(t *testing.T) {
	db := seedAuditLog(t)

	out, err := runRoot(t, "llm", "list", "--db", db, "--purpose=")
	require.NoError(t, err)
	for _, want := range []string{"Purpose", "problem-gen", "feedback", "claude-haiku-4-5", "✓", "✗"} {
		assert.Contains(t, out, want)
	}

	out, err = runRoot(t, "llm", "list", "--db", db, "--purpose", "feedback")
	require.NoError(t, err)
	assert.Contains(t, out, "mystery-model")
	assert.NotContains(t, out, "problem-gen")
}

func TestLLMList_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	out, err := runRoot(t, "llm", "list", "--db", db, "--purpose=")
	require.NoError(t, err)
	assert.Equal(t, "No model calls recorded.\n", out)
}

func TestLLMView(t *testing.T) {
	db := seedAuditLog(t)

	out, err := runRoot(t, "llm", "view", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "anthropic")
	assert.Contains(t, out, "1200 in / 800 out")
	assert.Contains(t, out, `{"q":1}`)
	assert.Contains(t, out, "(not captured)")

	_, err = runRoot(t, "llm", "view", "99", "--db", db)
	assert.ErrorContains(t, err, "event 99 not found")

	_, err = runRoot(t, "llm", "view", "x", "--db", db)
	assert.ErrorContains(t, err, "invalid ID")
}

func TestLLMStats(t *testing.T) {
	db := seedAuditLog(t)

	out, err := runRoot(t, "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage by purpose")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mystery-model")
	// 1200 input at $1/MTok plus 800 output at $5/MTok.
	assert.Contains(t, out, "$0.0052")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0052", formatCost(0.0052))
	assert.Equal(t, "$1.25", formatCost(1.25))
}
