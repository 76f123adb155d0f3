package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"insider/internal/api"
)

var (
	submitReview api.Review

	voteHelpful   bool
	voteUnhelpful bool

	reviewListSport string
)

// reviewCmd groups review commands
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Submit and browse program reviews",
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit [school-id]",
	Short: "Submit a review for a school's program",
	Long: `Submit a review for one school and sport. All eight category ratings
are required, on a 1-10 scale:

  --head-coach, --assistant-coaches, --team-culture, --campus-life,
  --facilities, --athletic-department, --player-development, --nil`,
	Args: cobra.ExactArgs(1),
	RunE: guarded(runReviewSubmit),
}

var reviewMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own reviews",
	RunE:  guarded(runReviewMine),
}

var reviewListCmd = &cobra.Command{
	Use:   "list [school-id]",
	Short: "List reviews for a school",
	Args:  cobra.ExactArgs(1),
	RunE:  guarded(runReviewList),
}

var reviewVoteCmd = &cobra.Command{
	Use:   "vote [review-id]",
	Short: "Vote a review helpful or unhelpful",
	Long: `Vote on a review with --helpful or --unhelpful. Casting the same vote
again removes it; casting the other vote switches it.`,
	Args: cobra.ExactArgs(1),
	RunE: guarded(runReviewVote),
}

func runReviewSubmit(cmd *cobra.Command, args []string) error {
	schoolID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid school id %q", args[0])
	}
	submitReview.School = schoolID

	if submitReview.Sport == "" {
		return fmt.Errorf("--sport is required")
	}
	ratings := map[string]int{
		"--head-coach":          submitReview.HeadCoach,
		"--assistant-coaches":   submitReview.AssistantCoaches,
		"--team-culture":        submitReview.TeamCulture,
		"--campus-life":         submitReview.CampusLife,
		"--facilities":          submitReview.AthleticFacilities,
		"--athletic-department": submitReview.AthleticDepartment,
		"--player-development":  submitReview.PlayerDevelopment,
		"--nil":                 submitReview.NILOpportunity,
	}
	for flag, v := range ratings {
		if v < 1 || v > 10 {
			return fmt.Errorf("%s must be between 1 and 10", flag)
		}
	}

	created, err := current.client.CreateReview(cmd.Context(), submitReview)
	if err != nil {
		return fmt.Errorf("review submission failed: %w", err)
	}

	fmt.Printf("Review submitted (id %s).\n", created.ReviewID)
	return nil
}

func runReviewMine(cmd *cobra.Command, args []string) error {
	reviews, err := current.client.MyReviews(cmd.Context())
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("You have not submitted any reviews.")
		return nil
	}
	for _, r := range reviews {
		printReview(r)
	}
	return nil
}

func runReviewList(cmd *cobra.Command, args []string) error {
	schoolID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid school id %q", args[0])
	}

	reviews, err := current.client.SchoolReviews(cmd.Context(), schoolID, reviewListSport)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("No reviews yet for this school.")
		return nil
	}
	for _, r := range reviews {
		printReview(r)
	}
	return nil
}

func runReviewVote(cmd *cobra.Command, args []string) error {
	if voteHelpful == voteUnhelpful {
		return fmt.Errorf("pass exactly one of --helpful or --unhelpful")
	}
	vote := 0
	if voteHelpful {
		vote = 1
	}

	resp, err := current.client.VoteReview(cmd.Context(), args[0], vote)
	if err != nil {
		return err
	}

	if resp.Vote == nil {
		fmt.Println("Vote removed.")
	} else if *resp.Vote == 1 {
		fmt.Println("Marked helpful.")
	} else {
		fmt.Println("Marked unhelpful.")
	}
	fmt.Printf("Now %d helpful / %d unhelpful.\n", resp.HelpfulCount, resp.UnhelpfulCount)
	return nil
}

func printReview(r api.Review) {
	fmt.Printf("%s  %s under %s\n", r.ReviewID, strings.ToUpper(r.Sport), r.HeadCoachName)
	fmt.Printf("  coach %d/10  assistants %d/10  culture %d/10  campus %d/10\n",
		r.HeadCoach, r.AssistantCoaches, r.TeamCulture, r.CampusLife)
	fmt.Printf("  facilities %d/10  department %d/10  development %d/10  nil %d/10\n",
		r.AthleticFacilities, r.AthleticDepartment, r.PlayerDevelopment, r.NILOpportunity)
	if r.ReviewMessage != "" {
		fmt.Printf("  %s\n", r.ReviewMessage)
	}
	if r.HelpfulCount > 0 || r.UnhelpfulCount > 0 {
		fmt.Printf("  (%d helpful, %d unhelpful)\n", r.HelpfulCount, r.UnhelpfulCount)
	}
	fmt.Println()
}

func init() {
	reviewSubmitCmd.Flags().StringVar(&submitReview.Sport, "sport", "", "Sport: mbb, wbb or fb")
	reviewSubmitCmd.Flags().StringVar(&submitReview.HeadCoachName, "coach", "", "Head coach name")
	reviewSubmitCmd.Flags().StringVar(&submitReview.ReviewMessage, "message", "", "Free-form review text")
	reviewSubmitCmd.Flags().IntVar(&submitReview.HeadCoach, "head-coach", 0, "Head coach rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.AssistantCoaches, "assistant-coaches", 0, "Assistant coaches rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.TeamCulture, "team-culture", 0, "Team culture rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.CampusLife, "campus-life", 0, "Campus life rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.AthleticFacilities, "facilities", 0, "Athletic facilities rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.AthleticDepartment, "athletic-department", 0, "Athletic department rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.PlayerDevelopment, "player-development", 0, "Player development rating 1-10")
	reviewSubmitCmd.Flags().IntVar(&submitReview.NILOpportunity, "nil", 0, "NIL opportunity rating 1-10")

	reviewListCmd.Flags().StringVar(&reviewListSport, "sport", "", "Sport to list reviews for")

	reviewVoteCmd.Flags().BoolVar(&voteHelpful, "helpful", false, "Vote helpful")
	reviewVoteCmd.Flags().BoolVar(&voteUnhelpful, "unhelpful", false, "Vote unhelpful")
}
