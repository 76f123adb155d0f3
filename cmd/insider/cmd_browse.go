package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"insider/cmd/insider/browse"
	"insider/internal/session"
)

// browseCmd launches the full-screen TUI
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse schools interactively",
	Long: `Open the full-screen school browser.

Starts at the login screen unless a stored token exists, in which case the
school list opens immediately while the token is validated in the
background. If the server rejects the token you are returned to the login
screen.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Keep this long-lived process in step with logins and logouts done by
	// other insider invocations sharing the state directory.
	if watcher, err := session.NewTokenWatcher(current.session); err == nil {
		if err := watcher.Start(cmd.Context()); err == nil {
			defer watcher.Stop()
		}
	}

	model := browse.New(browse.Deps{
		Client:   current.client,
		Session:  current.session,
		Guard:    current.guard,
		Cache:    current.cache,
		CacheTTL: current.cfg.GetCacheTTL(),
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser exited with an error: %w", err)
	}
	return nil
}
