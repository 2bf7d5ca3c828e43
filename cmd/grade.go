package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/server"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a TSV answer against a TSV key",
	Long: `Grade compares two tab-separated files whose first row names the fields.
The key's header decides which fields are graded; the input's columns are
matched by name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answerPath, _ := cmd.Flags().GetString("answer")
		inputPath, _ := cmd.Flags().GetString("input")
		elapsed, _ := cmd.Flags().GetDuration("elapsed")
		asJSON, _ := cmd.Flags().GetBool("json")

		key, err := readTable(answerPath)
		if err != nil {
			return err
		}
		input, err := readTable(inputPath)
		if err != nil {
			return err
		}

		res := grading.Grade(key.Rows, key.Fields, input.Grid(), int(elapsed/time.Second))

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(server.NewResultView(res))
		}
		_, err = fmt.Fprintln(out, report.Text(res))
		return err
	},
}

func readTable(path string) (*report.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := report.ParseTSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

func init() {
	gradeCmd.Flags().String("answer", "", "TSV file with the correct records")
	gradeCmd.Flags().String("input", "", "TSV file with the typed records")
	gradeCmd.Flags().Duration("elapsed", 0, "Time taken, e.g. 95s")
	gradeCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = gradeCmd.MarkFlagRequired("answer")
	_ = gradeCmd.MarkFlagRequired("input")
}
