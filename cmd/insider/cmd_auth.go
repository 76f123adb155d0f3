package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"insider/internal/api"
	"insider/internal/logging"
	"insider/internal/session"
)

var (
	loginEmail    string
	loginPassword string

	signupFirst    string
	signupLast     string
	signupEmail    string
	signupPassword string
	signupTransfer string
)

// loginCmd authenticates against the Athletic Insider API
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Athletic Insider",
	Long: `Log in with your Athletic Insider email and password.

The issued token is stored in the state directory (default ~/.insider/) and
used by every subsequent command until you run 'insider logout' or the
server rejects it.`,
	RunE: runLogin,
}

// logoutCmd clears the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored token",
	RunE:  runLogout,
}

// signupCmd registers a new account
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new Athletic Insider account",
	Long: `Create a new account and log in with it.

Transfer type describes where you are in the recruiting process:
  high_school - currently in high school
  transfer    - transferring from another college program
  graduate    - graduate transfer`,
	RunE: runSignup,
}

// authCmd groups authentication inspection commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect authentication state",
}

// authStatusCmd shows the stored token's state
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	Long: `Show whether a token is stored and, if so, what the server says about it.

The token's expiry is decoded locally for display; the server remains the
authority on whether the session is valid.`,
	RunE: runAuthStatus,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, err := requireValue(loginEmail, "Email: ")
	if err != nil {
		return err
	}
	password, err := requireValue(loginPassword, "Password: ")
	if err != nil {
		return err
	}

	resp, err := current.client.Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := current.tokens.Save(resp.Access, resp.Refresh); err != nil {
		return fmt.Errorf("login succeeded but the token could not be stored: %w", err)
	}
	logging.Session("login ok for %s", email)

	// Validate immediately so 'auth status' and the session agree.
	if err := current.session.FetchUser(cmd.Context()); err != nil {
		fmt.Printf("Logged in as %s %s (session not yet validated: %v)\n", resp.FirstName, resp.LastName, err)
		return nil
	}

	fmt.Printf("Logged in as %s %s\n", resp.FirstName, resp.LastName)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := current.session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	first, err := requireValue(signupFirst, "First name: ")
	if err != nil {
		return err
	}
	last, err := requireValue(signupLast, "Last name: ")
	if err != nil {
		return err
	}
	email, err := requireValue(signupEmail, "Email: ")
	if err != nil {
		return err
	}
	password, err := requireValue(signupPassword, "Password: ")
	if err != nil {
		return err
	}

	_, err = current.client.Signup(cmd.Context(), api.SignupRequest{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Password:     password,
		TransferType: signupTransfer,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Printf("Account created for %s. Logging in...\n", email)

	resp, err := current.client.Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	if err := current.tokens.Save(resp.Access, resp.Refresh); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s %s\n", resp.FirstName, resp.LastName)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	token := current.tokens.Token()
	if token == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("Token: stored")
	if claims, err := session.DecodeClaims(token); err == nil && claims.ExpiresAt != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining > 0 {
			fmt.Printf("Expires: %s (in %s)\n",
				claims.ExpiresAt.Format(time.RFC1123), remaining.Round(time.Minute))
		} else {
			fmt.Printf("Expires: %s (expired)\n", claims.ExpiresAt.Format(time.RFC1123))
		}
	}

	if err := current.session.FetchUser(cmd.Context()); err != nil {
		fmt.Printf("Server check: failed (%v)\n", err)
		return nil
	}

	snap := current.session.Snapshot()
	if snap.IsLoggedIn && snap.User != nil {
		fmt.Printf("Logged in as: %s %s <%s>\n", snap.User.FirstName, snap.User.LastName, snap.User.Email)
	} else {
		fmt.Println("Server check: token rejected")
	}
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")

	signupCmd.Flags().StringVar(&signupFirst, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&signupLast, "last-name", "", "Last name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (prompted if omitted)")
	signupCmd.Flags().StringVar(&signupTransfer, "transfer-type", "", "high_school, transfer or graduate")
}
