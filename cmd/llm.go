package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/datadrill/internal/llm"
	"github.com/abhisek/datadrill/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the log of model calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withAuditLog(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No model calls recorded.")
				return nil
			}

			t := grid("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
			for _, e := range events {
				t.Row(strconv.Itoa(e.ID), e.Timestamp.Local().Format(timeLayout), e.Purpose,
					truncate(e.Model, 28), strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens),
					strconv.FormatInt(e.LatencyMs, 10), mark(e.Success))
			}
			return render(cmd.OutOrStdout(), t)
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one model call with its request and response bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withAuditLog(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("event %d not found", id)
			}
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}

			w := cmd.OutOrStdout()
			meta := table.New().Border(lipgloss.HiddenBorder()).
				Row("ID", strconv.Itoa(e.ID)).
				Row("Time", e.Timestamp.Local().Format(timeLayout)).
				Row("Provider", e.Provider).
				Row("Model", e.Model).
				Row("Purpose", e.Purpose).
				Row("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)).
				Row("Latency", fmt.Sprintf("%dms", e.LatencyMs)).
				Row("Success", strconv.FormatBool(e.Success))
			if e.ErrorMessage != "" {
				meta.Row("Error", e.ErrorMessage)
			}
			if err := render(w, meta); err != nil {
				return err
			}
			body(w, "REQUEST", e.RequestBody)
			body(w, "RESPONSE", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withAuditLog(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Fprintln(w, "No model calls recorded.")
				return nil
			}

			var calls, in, out int
			usage := grid("Purpose", "Calls", "Failed", "Input", "Output", "Avg Ms")
			for _, u := range byPurpose {
				usage.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.Failures),
					strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.Itoa(u.AvgLatencyMs))
				calls += u.Calls
				in += u.InputTokens
				out += u.OutputTokens
			}
			usage.Row("TOTAL", strconv.Itoa(calls), "", strconv.Itoa(in), strconv.Itoa(out), "")
			fmt.Fprintln(w, "Usage by purpose")
			if err := render(w, usage); err != nil {
				return err
			}

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			return renderCost(w, byModel)
		})
	},
}

// renderCost prices each model's usage. Models without known pricing show
// "?" and make the total partial.
func renderCost(w io.Writer, usage []store.ModelUsage) error {
	if len(usage) == 0 {
		return nil
	}
	var (
		total   float64
		unknown []string
	)
	t := grid("Model", "Calls", "Input", "Output", "Cost")
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, u.Model)
		}
		t.Row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
	}
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	t.Row(label, "", "", "", formatCost(total))

	fmt.Fprintln(w, "\nEstimated cost (USD)")
	if err := render(w, t); err != nil {
		return err
	}
	if len(unknown) > 0 {
		fmt.Fprintf(w, "Pricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
	return nil
}

// grid is a plain bordered table with a header row.
func grid(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers(headers...)
}

func render(w io.Writer, t *table.Table) error {
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func body(w io.Writer, title, text string) {
	if text == "" {
		text = "(not captured)"
	}
	rule := strings.Repeat("─", 60)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, title, rule, text)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// withAuditLog opens the database holding the model call log for the
// duration of fn.
func withAuditLog(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.EventRepo())
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (problem-gen, feedback, mistake-analysis)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
