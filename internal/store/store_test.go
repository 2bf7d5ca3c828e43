package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode stays "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileDatabaseIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "feedback", Success: true,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrateCreatesIndexes(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.DB().Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name NOT LIKE 'sqlite_%' ORDER BY name`, llmEventsTable)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"llmrequestevent_model", "llmrequestevent_purpose", "llmrequestevent_timestamp"}, names)

	// A second migration over the same tables is a no-op.
	require.NoError(t, s.migrate(context.Background()))
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo().(*eventRepo)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	events := []LLMRequestEventData{
		{Provider: "gemini-2.5-flash", Model: "gemini-2.5-flash", Purpose: "problem-gen", InputTokens: 300, OutputTokens: 900, LatencyMs: 2100, Success: true, RequestBody: "[user]\nmake a table", ResponseBody: `{"instructions":"x"}`},
		{Provider: "gemini-2.5-flash", Model: "gemini-2.5-flash", Purpose: "feedback", InputTokens: 200, OutputTokens: 80, LatencyMs: 700, Success: true},
		{Provider: "gemini-2.5-flash", Model: "gemini-2.5-flash", Purpose: "mistake-analysis", LatencyMs: 30000, Success: false, ErrorMessage: "deadline exceeded"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "mistake-analysis", all[0].Purpose, "newest first")
	assert.Equal(t, "problem-gen", all[2].Purpose)
	assert.Equal(t, base.Add(time.Minute), all[2].Timestamp)
	assert.False(t, all[0].Success)
	assert.Equal(t, "deadline exceeded", all[0].ErrorMessage)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	feedback, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "feedback"})
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, 80, feedback[0].OutputTokens)

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "[user]\nmake a table", got.RequestBody)
	assert.Equal(t, `{"instructions":"x"}`, got.ResponseBody)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(model, purpose string, in, out int, latency int64, ok bool) {
		t.Helper()
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: model, Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: latency, Success: ok,
		}))
	}
	add("gemini-2.5-flash", "feedback", 100, 50, 400, true)
	add("gemini-2.5-flash", "feedback", 120, 60, 600, true)
	add("gemini-2.5-flash", "problem-gen", 300, 900, 2000, true)
	add("gpt-4o-mini", "problem-gen", 0, 0, 100, false)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PurposeUsage{
		{Purpose: "feedback", Calls: 2, Failures: 0, InputTokens: 220, OutputTokens: 110, AvgLatencyMs: 500},
		{Purpose: "problem-gen", Calls: 2, Failures: 1, InputTokens: 300, OutputTokens: 900, AvgLatencyMs: 1050},
	}, byPurpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModelUsage{
		{Model: "gemini-2.5-flash", Calls: 3, InputTokens: 520, OutputTokens: 1010},
	}, byModel)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("DATADRILL_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "explicit", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "explicit"))

	t.Setenv("DATADRILL_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "datadrill", "datadrill.db"), p)
}
