package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"insider/internal/config"
	"insider/internal/session"
)

// wireTestApp points the global app at a throwaway state directory.
func wireTestApp(t *testing.T) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.State.Dir = t.TempDir()
	cfg.API.BaseURL = "http://127.0.0.1:1"
	if err := wireApp(cfg); err != nil {
		t.Fatalf("wireApp failed: %v", err)
	}
	t.Cleanup(closeApp)
}

func TestRootCmd_RegistersAllCommands(t *testing.T) {
	expected := []string{
		"login", "logout", "signup", "auth", "account", "password",
		"schools", "review", "prefs", "report", "browse",
	}
	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestGuarded_RefusesWithoutToken(t *testing.T) {
	wireTestApp(t)

	ran := false
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := guarded(func(cmd *cobra.Command, args []string) error {
		ran = true
		return nil
	})(cmd, nil)

	if !errors.Is(err, session.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if ran {
		t.Error("guarded action ran without a token")
	}
}

func TestGuarded_RunsWithToken(t *testing.T) {
	wireTestApp(t)

	if err := current.tokens.Save("abc", ""); err != nil {
		t.Fatal(err)
	}

	ran := false
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := guarded(func(cmd *cobra.Command, args []string) error {
		ran = true
		return nil
	})(cmd, nil)

	if err != nil {
		t.Fatalf("guarded action failed: %v", err)
	}
	if !ran {
		t.Error("guarded action did not run despite a stored token")
	}
}

func TestWireApp_CacheIsOptional(t *testing.T) {
	wireTestApp(t)

	if current.cache == nil {
		t.Error("cache should open in a writable state dir")
	}
	if current.session == nil || current.guard == nil {
		t.Error("session wiring incomplete")
	}
}
