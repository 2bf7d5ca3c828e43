package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/datadrill/internal/app"
	"github.com/abhisek/datadrill/internal/screens/home"
)

// runApp builds the session and launches the TUI.
func runApp(cmd *cobra.Command, opts ...home.Option) error {
	feed := app.NewFeed()
	d, err := buildDeps(cmd, true, feed.Hook)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), d.machine, feed, opts...)
}
