package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"insider/internal/api"
)

var submitPrefs api.Preferences

// prefsCmd groups preference commands
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage recommendation preferences",
	Long: `Manage the preference weights behind 'insider schools recommend'.

Each weight says how much a review category matters to you, 1-10. The
recommendation engine scores schools by their review averages weighted with
these values.`,
}

var prefsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Save your preference weights",
	RunE:  guarded(runPrefsSubmit),
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your stored preferences",
	RunE:  guarded(runPrefsShow),
}

func runPrefsSubmit(cmd *cobra.Command, args []string) error {
	if submitPrefs.Sport == "" {
		return fmt.Errorf("--sport is required")
	}
	weights := map[string]int{
		"--head-coach":          submitPrefs.HeadCoach,
		"--assistant-coaches":   submitPrefs.AssistantCoaches,
		"--team-culture":        submitPrefs.TeamCulture,
		"--campus-life":         submitPrefs.CampusLife,
		"--facilities":          submitPrefs.AthleticFacilities,
		"--athletic-department": submitPrefs.AthleticDepartment,
		"--player-development":  submitPrefs.PlayerDevelopment,
		"--nil":                 submitPrefs.NILOpportunity,
	}
	for flag, v := range weights {
		if v < 1 || v > 10 {
			return fmt.Errorf("%s must be between 1 and 10", flag)
		}
	}

	saved, err := current.client.SubmitPreferences(cmd.Context(), submitPrefs)
	if err != nil {
		return fmt.Errorf("saving preferences failed: %w", err)
	}

	fmt.Printf("Preferences saved for %s.\n", saved.Sport)
	return nil
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	prefs, err := current.client.UserPreferences(cmd.Context())
	if err != nil {
		return err
	}
	if len(prefs) == 0 {
		fmt.Println("No preferences on file. Run 'insider prefs submit' first.")
		return nil
	}

	p := prefs[0]
	fmt.Printf("Sport: %s\n\n", p.Sport)
	fmt.Printf("Head coach:           %2d\n", p.HeadCoach)
	fmt.Printf("Assistant coaches:    %2d\n", p.AssistantCoaches)
	fmt.Printf("Team culture:         %2d\n", p.TeamCulture)
	fmt.Printf("Campus life:          %2d\n", p.CampusLife)
	fmt.Printf("Athletic facilities:  %2d\n", p.AthleticFacilities)
	fmt.Printf("Athletic department:  %2d\n", p.AthleticDepartment)
	fmt.Printf("Player development:   %2d\n", p.PlayerDevelopment)
	fmt.Printf("NIL opportunity:      %2d\n", p.NILOpportunity)
	return nil
}

func init() {
	prefsSubmitCmd.Flags().StringVar(&submitPrefs.Sport, "sport", "", "Sport: mbb, wbb or fb")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.HeadCoach, "head-coach", 0, "Head coach weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.AssistantCoaches, "assistant-coaches", 0, "Assistant coaches weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.TeamCulture, "team-culture", 0, "Team culture weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.CampusLife, "campus-life", 0, "Campus life weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.AthleticFacilities, "facilities", 0, "Athletic facilities weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.AthleticDepartment, "athletic-department", 0, "Athletic department weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.PlayerDevelopment, "player-development", 0, "Player development weight 1-10")
	prefsSubmitCmd.Flags().IntVar(&submitPrefs.NILOpportunity, "nil", 0, "NIL opportunity weight 1-10")
}
