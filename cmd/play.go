package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a drill right away",
	Long:  "Generate a problem for the given category and difficulty and open it in the TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("task")
		level, _ := cmd.Flags().GetString("difficulty")

		c, err := problem.ParseCategory(task)
		if err != nil {
			return err
		}
		d, err := problem.ParseDifficulty(level)
		if err != nil {
			return err
		}
		return runApp(cmd, home.WithSelection(c, d))
	},
}

func init() {
	playCmd.Flags().StringP("task", "t", string(problem.CustomerList),
		"Category (customer_list, product_list, sales_data, invoice_info)")
	playCmd.Flags().StringP("difficulty", "d", string(problem.Easy), "Difficulty (easy, medium, hard)")
}
