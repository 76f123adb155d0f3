package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"insider/internal/api"
	"insider/internal/config"
	"insider/internal/session"
	"insider/internal/store"
)

// app is the shared wiring behind every command: one config, one API client,
// one session store. Built once in the root command's PersistentPreRunE.
type app struct {
	cfg     *config.Config
	client  *api.Client
	tokens  *session.TokenStore
	session *session.Store
	guard   *session.Guard
	cache   *store.Cache
}

var current *app

func wireApp(cfg *config.Config) error {
	tokens := session.NewTokenStore(cfg.StateDir())
	client := api.NewClient(cfg.API.BaseURL, tokens, &http.Client{Timeout: cfg.GetAPITimeout()})
	sess := session.NewStore(client, tokens)

	cache, err := store.Open(cfg.StateDir())
	if err != nil {
		// Browsing degrades gracefully without the cache.
		fmt.Fprintf(os.Stderr, "warning: school cache unavailable: %v\n", err)
		cache = nil
	}

	current = &app{
		cfg:     cfg,
		client:  client,
		tokens:  tokens,
		session: sess,
		guard:   session.NewGuard(sess),
		cache:   cache,
	}
	return nil
}

func closeApp() {
	if current == nil {
		return
	}
	current.session.Close()
	if current.cache != nil {
		_ = current.cache.Close()
	}
	current = nil
}

// guarded wraps a command handler behind the session guard: commands run
// optimistically when a token is present, and are refused with a login hint
// when it is not.
func guarded(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return current.guard.Protect(func(ctx context.Context) error {
			return run(cmd, args)
		})(cmd.Context())
	}
}

// promptLine reads one line from stdin, prompting on stderr so output stays
// pipeable.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// requireValue returns the flag value, prompting for it when empty.
func requireValue(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	v, err := promptLine(prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("a value is required")
	}
	return v, nil
}
