package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/store"
)

// resultSource is satisfied by the API client and by localResults.
type resultSource interface {
	UserResults(ctx context.Context, userID string, page, limit int) (*evaluator.ResultPage, error)
	UserStats(ctx context.Context, userID string) (*evaluator.UserStats, error)
	Result(ctx context.Context, id string) (*evaluator.ResultRecord, error)
}

// localResults reads results saved by `take --offline`.
type localResults struct {
	repo store.ResultRepo
}

func (l localResults) UserResults(ctx context.Context, userID string, page, limit int) (*evaluator.ResultPage, error) {
	return l.repo.ListByUser(ctx, userID, page, limit)
}

func (l localResults) UserStats(ctx context.Context, userID string) (*evaluator.UserStats, error) {
	return l.repo.Stats(ctx, userID)
}

func (l localResults) Result(ctx context.Context, id string) (*evaluator.ResultRecord, error) {
	return l.repo.Get(ctx, id)
}

// openResults picks the API or the local database per --local. The
// returned closer releases the logger and the store.
func openResults(cmd *cobra.Command) (resultSource, func(), error) {
	log, closeLog := newLogger(os.Stderr, false)
	if local, _ := cmd.Flags().GetBool("local"); !local {
		return newClient(log), closeLog, nil
	}
	st, err := openStore()
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return localResults{repo: st.ResultRepo()}, func() { st.Close(); closeLog() }, nil
}

// resultsUser is the signed-in user, or the offline owner with --local.
func resultsUser(cmd *cobra.Command) (auth.Identity, error) {
	user, err := requireUser(cmd.Context())
	if err != nil {
		if local, _ := cmd.Flags().GetBool("local"); local {
			return auth.Identity{Loaded: true, UserID: offlineUser}, nil
		}
	}
	return user, err
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse saved results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your saved results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		user, err := resultsUser(cmd)
		if err != nil {
			return err
		}
		src, closeSrc, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer closeSrc()

		res, err := src.UserResults(cmd.Context(), user.UserID, page, limit)
		if err != nil {
			return err
		}
		if len(res.Results) == 0 {
			fmt.Println("No results yet. Take a test with `jeeace take`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPLETED\tTEST\tSCORE\tPERCENT\tTIME")
		for _, r := range res.Results {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID,
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				truncate(testLabel(r), 30),
				formatScore(r.Results),
				formatPercent(r.Results),
				formatDuration(r.TimeTaken),
			)
		}
		w.Flush()

		p := res.Pagination
		fmt.Printf("\nPage %d of %d (%d results)\n", p.CurrentPage, max(p.TotalPages, 1), p.TotalResults)
		return nil
	},
}

var resultsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over your results",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := resultsUser(cmd)
		if err != nil {
			return err
		}
		src, closeSrc, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer closeSrc()

		st, err := src.UserStats(cmd.Context(), user.UserID)
		if err != nil {
			return err
		}
		if st.TotalTests == 0 {
			fmt.Println("No results yet. Take a test with `jeeace take`.")
			return nil
		}

		fmt.Printf("Tests taken:      %d\n", st.TotalTests)
		fmt.Printf("Average score:    %.1f%%\n", st.AverageScore)
		fmt.Printf("Best score:       %.1f%%\n", st.BestScore)
		fmt.Printf("Questions seen:   %d\n", st.TotalQuestions)
		fmt.Printf("Time spent:       %s\n", formatDuration(st.TotalTimeTaken))

		if len(st.SubjectPerformance) > 0 {
			fmt.Println("\nBy subject")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, sp := range st.SubjectPerformance {
				fmt.Fprintf(w, "  %s\t%.1f%%\t%d tests\n", sp.Subject, sp.AverageScore, sp.TestCount)
			}
			w.Flush()
		}
		if len(st.RecentTests) > 0 {
			fmt.Println("\nRecent")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, rt := range st.RecentTests {
				fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n",
					rt.CompletedAt.Local().Format("2006-01-02"), rt.TestName, rt.Score)
			}
			w.Flush()
		}
		return nil
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one result in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, closeSrc, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer closeSrc()

		r, err := src.Result(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", testLabel(*r))
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Completed:  %s\n", r.CompletedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Subjects:   %s\n", strings.Join(r.Subjects, ", "))
		fmt.Printf("Score:      %s (%s)\n", formatScore(r.Results), formatPercent(r.Results))
		fmt.Printf("Time:       %s of %d min\n", formatDuration(r.TimeTaken), r.TimeLimit)
		if res := r.Results; res != nil {
			fmt.Printf("Answers:    %d correct, %d incorrect, %d unattempted\n",
				res.CorrectCount, res.IncorrectCount, res.UnattemptedCount)
			if len(res.Details) > 0 {
				fmt.Println()
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "#\tYOURS\tCORRECT\tMARKS")
				for i, d := range res.Details {
					yours := d.UserAnswer
					if yours == "" {
						yours = "-"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%+g\n", i+1, yours, d.CorrectAnswer, d.Marks)
				}
				w.Flush()
			}
		}
		return nil
	},
}

func testLabel(r evaluator.ResultRecord) string {
	if r.TestName != "" {
		return r.TestName
	}
	if len(r.Subjects) > 0 {
		return strings.Join(r.Subjects, ", ")
	}
	return r.TestID
}

func formatScore(r *evaluator.Result) string {
	if r == nil {
		return "-"
	}
	max := r.MaxScore
	if max == 0 {
		max = float64(r.Total * 4)
	}
	return fmt.Sprintf("%g/%g", r.Score, max)
}

func formatPercent(r *evaluator.Result) string {
	if r == nil || r.Percentage == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(*r.Percentage))
}

// formatDuration renders seconds as 1h02m03s, 2m03s or 45s.
func formatDuration(secs int) string {
	h, m, s := secs/3600, secs%3600/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func init() {
	resultsCmd.PersistentFlags().Bool("local", false, "Read results saved by take --offline")
	resultsListCmd.Flags().Int("page", 1, "Page number")
	resultsListCmd.Flags().Int("limit", 10, "Results per page")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsStatsCmd)
	resultsCmd.AddCommand(resultsShowCmd)
}
