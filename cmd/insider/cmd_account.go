package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"insider/internal/api"
	"insider/internal/session"
)

var (
	updateFirst    string
	updateLast     string
	updateEmail    string
	updateTransfer string

	passwordCurrent string
	passwordNew     string

	forgotEmail string
	resetToken  string
	resetNew    string
)

// accountCmd groups profile management commands
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account and profile",
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE:  guarded(runAccountShow),
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass are changed;
everything else keeps its current value.`,
	RunE: guarded(runAccountUpdate),
}

var accountPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE:  guarded(runAccountPassword),
}

var accountPictureCmd = &cobra.Command{
	Use:   "picture [filename]",
	Short: "Choose a preset profile picture",
	Long: `Choose one of the preset profile pictures, profile_picture1.png through
profile_picture5.png. Run without arguments to see the current choice.`,
	Args: cobra.MaximumNArgs(1),
	RunE: guarded(runAccountPicture),
}

// passwordCmd groups the logged-out password recovery flow
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Recover a forgotten password",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Request a password reset email",
	RunE:  runPasswordForgot,
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Complete a password reset with the emailed token",
	RunE:  runPasswordReset,
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	user, err := current.client.CurrentUser(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Name:           %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("Email:          %s\n", user.Email)
	if user.TransferType != "" {
		fmt.Printf("Transfer type:  %s\n", user.TransferType)
	}
	fmt.Printf("Verified:       %v\n", user.IsSchoolVerified)
	picture := user.ProfilePicture
	if picture == "" {
		picture = session.DefaultProfilePicture + " (default)"
	}
	fmt.Printf("Picture:        %s\n", picture)
	return nil
}

func runAccountUpdate(cmd *cobra.Command, args []string) error {
	update := api.UserUpdate{}
	changed := false
	set := func(dst **string, flag string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = &value
			changed = true
		}
	}
	set(&update.FirstName, "first-name", updateFirst)
	set(&update.LastName, "last-name", updateLast)
	set(&update.Email, "email", updateEmail)
	set(&update.TransferType, "transfer-type", updateTransfer)

	if !changed {
		return fmt.Errorf("nothing to update: pass at least one of --first-name, --last-name, --email, --transfer-type")
	}

	user, err := current.client.UpdateUser(cmd.Context(), update)
	if err != nil {
		return err
	}

	// Keep the session's view of the user current.
	_ = current.session.FetchUser(cmd.Context())

	fmt.Printf("Profile updated: %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	return nil
}

func runAccountPassword(cmd *cobra.Command, args []string) error {
	currentPw, err := requireValue(passwordCurrent, "Current password: ")
	if err != nil {
		return err
	}
	newPw, err := requireValue(passwordNew, "New password: ")
	if err != nil {
		return err
	}

	if err := current.client.ChangePassword(cmd.Context(), currentPw, newPw); err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	fmt.Println("Password changed.")
	return nil
}

func runAccountPicture(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		snap := current.session.Snapshot()
		fmt.Printf("Current picture: %s\n", snap.ProfilePic)
		fmt.Println("Available: profile_picture1.png ... profile_picture5.png")
		return nil
	}

	if err := current.session.UpdateProfilePic(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("picture update failed: %w", err)
	}
	fmt.Printf("Picture set to %s\n", args[0])
	return nil
}

func runPasswordForgot(cmd *cobra.Command, args []string) error {
	email, err := requireValue(forgotEmail, "Email: ")
	if err != nil {
		return err
	}
	if err := current.client.ForgotPassword(cmd.Context(), email); err != nil {
		return err
	}
	fmt.Println("If that address has an account, a reset email is on its way.")
	return nil
}

func runPasswordReset(cmd *cobra.Command, args []string) error {
	token, err := requireValue(resetToken, "Reset token: ")
	if err != nil {
		return err
	}
	newPw, err := requireValue(resetNew, "New password: ")
	if err != nil {
		return err
	}
	if err := current.client.ResetPassword(cmd.Context(), token, newPw); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	fmt.Println("Password reset. You can log in with the new password now.")
	return nil
}

func init() {
	accountUpdateCmd.Flags().StringVar(&updateFirst, "first-name", "", "New first name")
	accountUpdateCmd.Flags().StringVar(&updateLast, "last-name", "", "New last name")
	accountUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "New email")
	accountUpdateCmd.Flags().StringVar(&updateTransfer, "transfer-type", "", "high_school, transfer or graduate")

	accountPasswordCmd.Flags().StringVar(&passwordCurrent, "current", "", "Current password (prompted if omitted)")
	accountPasswordCmd.Flags().StringVar(&passwordNew, "new", "", "New password (prompted if omitted)")

	passwordForgotCmd.Flags().StringVar(&forgotEmail, "email", "", "Account email")
	passwordResetCmd.Flags().StringVar(&resetToken, "token", "", "Token from the reset email")
	passwordResetCmd.Flags().StringVar(&resetNew, "new", "", "New password (prompted if omitted)")
}
