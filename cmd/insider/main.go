// insider is the command-line client for Athletic Insider, the collegiate
// athletics review platform. It talks to the public REST API, keeps the
// bearer token under ~/.insider/, and offers both one-shot commands and a
// full-screen browsing TUI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"insider/internal/config"
	"insider/internal/logging"
)

var (
	// Global flags
	verbose    bool
	apiURL     string
	stateDir   string
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "insider",
	Short: "Athletic Insider - collegiate athletics reviews from the terminal",
	Long: `insider is the terminal client for Athletic Insider.

Browse schools and their athletic programs, read and submit reviews with
per-category ratings, set preference weights for recommendations, and manage
your account. Your login is kept in ~/.insider/ between runs, so commands
stay authenticated until you log out or the token expires.

Run 'insider browse' for the interactive full-screen interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the screen; logging to stderr would corrupt it.
		if cmd.Name() == "browse" {
			return initApp(true)
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig = zap.NewDevelopmentConfig()
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return initApp(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		closeApp()
		logging.CloseAll()
	},
}

// initApp loads config and wires the shared application state.
func initApp(debug bool) error {
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if stateDir != "" {
		cfg.State.Dir = stateDir
	}
	if debug {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.StateDir(), logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	logging.Boot("insider starting, api=%s state=%s", cfg.API.BaseURL, cfg.StateDir())

	return wireApp(cfg)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (or set INSIDER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (default: ~/.insider)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.insider/config.yaml)")

	authCmd.AddCommand(authStatusCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountPasswordCmd)
	accountCmd.AddCommand(accountPictureCmd)
	passwordCmd.AddCommand(passwordForgotCmd)
	passwordCmd.AddCommand(passwordResetCmd)
	schoolsCmd.AddCommand(schoolsListCmd)
	schoolsCmd.AddCommand(schoolsShowCmd)
	schoolsCmd.AddCommand(schoolsSummaryCmd)
	schoolsCmd.AddCommand(schoolsFilterCmd)
	schoolsCmd.AddCommand(schoolsRecommendCmd)
	schoolsCmd.AddCommand(schoolsSyncCmd)
	reviewCmd.AddCommand(reviewSubmitCmd)
	reviewCmd.AddCommand(reviewMineCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewVoteCmd)
	prefsCmd.AddCommand(prefsSubmitCmd)
	prefsCmd.AddCommand(prefsShowCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(schoolsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
