package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"insider/internal/api"
	"insider/internal/logging"
	"insider/internal/schools"
)

var (
	listName       string
	listSport      string
	listConference string
	listSort       string
	listPage       int
	listRefresh    bool

	summarySport string

	filterFlags api.SchoolFilter
)

// schoolsCmd groups school browsing commands
var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "Browse schools and their athletic programs",
}

var schoolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schools",
	Long: `List schools, ten per page, with local filtering.

The list is served from the local cache when it is fresh; pass --refresh to
force a sync with the server. Filtering and paging happen locally, so they
work even when the API is unreachable.`,
	RunE: runSchoolsList,
}

var schoolsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one school in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchoolsShow,
}

var schoolsSummaryCmd = &cobra.Command{
	Use:   "summary [id]",
	Short: "Show the generated review summary for a school",
	Long: `Show the AI-generated digest of a school's reviews for one sport.
The summary is produced server-side from the full review set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchoolsSummary,
}

var schoolsFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Search schools by coach and minimum ratings",
	Long: `Run the server-side school search. Rating flags are minimum thresholds
on a 1-10 scale; schools whose reviews average below a threshold are
excluded. Requires login.`,
	RunE: guarded(runSchoolsFilter),
}

var schoolsRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show schools recommended for your preferences",
	RunE:  guarded(runSchoolsRecommend),
}

var schoolsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local school cache",
	RunE:  runSchoolsSync,
}

// loadSchools serves the school list cache-first. A fresh cache avoids the
// network entirely; a stale or empty one triggers a sync, falling back to
// whatever is cached when the API is unreachable.
func loadSchools(ctx context.Context, forceRefresh bool) ([]api.School, error) {
	cache := current.cache

	if cache != nil && !forceRefresh && !cache.Stale(current.cfg.GetCacheTTL()) {
		cached, err := cache.LoadSchools()
		if err == nil && len(cached) > 0 {
			logging.Cache("serving %d schools from cache", len(cached))
			return cached, nil
		}
	}

	fresh, err := current.client.Schools(ctx)
	if err != nil {
		if cache != nil {
			if cached, cacheErr := cache.LoadSchools(); cacheErr == nil && len(cached) > 0 {
				fmt.Printf("(API unreachable, showing cached data: %v)\n\n", err)
				return cached, nil
			}
		}
		return nil, err
	}

	if cache != nil {
		if err := cache.SaveSchools(fresh); err != nil {
			logging.CacheWarn("cache write failed: %v", err)
		}
	}
	return fresh, nil
}

func runSchoolsList(cmd *cobra.Command, args []string) error {
	all, err := loadSchools(cmd.Context(), listRefresh)
	if err != nil {
		return err
	}

	page := schools.Select(all, schools.Query{
		Name:       listName,
		Sport:      listSport,
		Conference: listConference,
		SortBy:     listSort,
		Page:       listPage,
	})

	if page.Total == 0 {
		fmt.Println("No schools match.")
		return nil
	}

	for _, s := range page.Schools {
		printSchoolLine(s)
	}
	fmt.Printf("\nPage %d of %d (%d schools)\n", page.Number, page.TotalPages, page.Total)
	return nil
}

func printSchoolLine(s api.School) {
	sports := strings.Join(schools.SportsOf(s), ", ")
	if sports == "" {
		sports = "-"
	}
	fmt.Printf("%4d  %-40s %-16s %s\n", s.ID, s.SchoolName, s.Conference, sports)
}

func runSchoolsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid school id %q", args[0])
	}

	school, err := current.client.School(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", school.SchoolName)
	fmt.Printf("Conference: %s\n", school.Conference)
	if school.Location != "" {
		fmt.Printf("Location:   %s\n", school.Location)
	}
	if len(school.AvailableSports) > 0 {
		fmt.Printf("Sports:     %s\n", strings.Join(school.AvailableSports, ", "))
	} else if codes := schools.SportsOf(*school); len(codes) > 0 {
		fmt.Printf("Sports:     %s\n", strings.Join(codes, ", "))
	}
	if len(school.Reviews) > 0 {
		fmt.Printf("Reviews:    %d\n", len(school.Reviews))
	}
	return nil
}

func runSchoolsSummary(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid school id %q", args[0])
	}

	summary, err := current.client.ReviewSummary(cmd.Context(), id, summarySport)
	if err != nil {
		return err
	}
	if summary.Summary == "" {
		fmt.Println("No summary available yet for this school and sport.")
		return nil
	}

	rendered, err := glamour.Render(summary.Summary, "auto")
	if err != nil {
		// Plain text is better than no text.
		fmt.Println(summary.Summary)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func runSchoolsFilter(cmd *cobra.Command, args []string) error {
	results, err := current.client.FilterSchools(cmd.Context(), filterFlags)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No schools match.")
		return nil
	}
	for _, s := range results {
		printSchoolLine(s)
	}
	fmt.Printf("\n%d schools\n", len(results))
	return nil
}

func runSchoolsRecommend(cmd *cobra.Command, args []string) error {
	recs, err := current.client.Recommendations(cmd.Context())
	if err != nil {
		return err
	}
	if recs.NoPreferences {
		fmt.Println("No preferences on file. Run 'insider prefs submit' first.")
		return nil
	}
	if len(recs.Recommendations) == 0 {
		fmt.Println("No recommendations yet.")
		return nil
	}
	for i, s := range recs.Recommendations {
		fmt.Printf("%2d. ", i+1)
		printSchoolLine(s)
	}
	return nil
}

func runSchoolsSync(cmd *cobra.Command, args []string) error {
	fresh, err := current.client.Schools(cmd.Context())
	if err != nil {
		return err
	}
	if current.cache == nil {
		return fmt.Errorf("school cache unavailable")
	}
	if err := current.cache.SaveSchools(fresh); err != nil {
		return err
	}
	fmt.Printf("Synced %d schools.\n", len(fresh))
	return nil
}

func init() {
	schoolsListCmd.Flags().StringVar(&listName, "name", "", "Filter by school name (substring)")
	schoolsListCmd.Flags().StringVar(&listSport, "sport", "", "Filter by sport: mbb, wbb or fb")
	schoolsListCmd.Flags().StringVar(&listConference, "conference", "", "Filter by conference")
	schoolsListCmd.Flags().StringVar(&listSort, "sort", "name", "Sort by 'name' or 'reviews'")
	schoolsListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	schoolsListCmd.Flags().BoolVar(&listRefresh, "refresh", false, "Force a sync before listing")

	schoolsSummaryCmd.Flags().StringVar(&summarySport, "sport", "", "Sport to summarize (mbb, wbb, fb)")

	schoolsFilterCmd.Flags().StringVar(&filterFlags.SchoolName, "name", "", "School name")
	schoolsFilterCmd.Flags().StringVar(&filterFlags.Coach, "coach", "", "Head coach name")
	schoolsFilterCmd.Flags().StringVar(&filterFlags.Sport, "sport", "", "Sport (mbb, wbb, fb)")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.HeadCoach, "head-coach", 0, "Minimum head coach rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.AssistantCoaches, "assistant-coaches", 0, "Minimum assistant coaches rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.TeamCulture, "team-culture", 0, "Minimum team culture rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.CampusLife, "campus-life", 0, "Minimum campus life rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.AthleticFacilities, "facilities", 0, "Minimum athletic facilities rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.AthleticDepartment, "athletic-department", 0, "Minimum athletic department rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.PlayerDevelopment, "player-development", 0, "Minimum player development rating")
	schoolsFilterCmd.Flags().IntVar(&filterFlags.NILOpportunity, "nil", 0, "Minimum NIL opportunity rating")
}
