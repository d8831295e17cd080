package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print time per category for a user",
	Long: `Print the aggregated statistics a user sees in the bot.

Examples:
  tempowise stats --telegram-id 12345                # this week
  tempowise stats --telegram-id 12345 --period day   # today
  tempowise stats --telegram-id 12345 --json         # machine readable`,
	RunE: runStats,
}

var (
	statsTelegramID int64
	statsPeriod     string
	statsJSON       bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int64Var(&statsTelegramID, "telegram-id", 0, "Telegram user ID")
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: day, week, month")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON instead of a table")
	_ = statsCmd.MarkFlagRequired("telegram-id")
}

func runStats(cmd *cobra.Command, args []string) error {
	period, err := stats.ParsePeriod(statsPeriod)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	user, err := a.users.FindByTelegramID(ctx, statsTelegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user with telegram id %d", statsTelegramID)
		}
		return err
	}

	summary, err := a.services(nil).Stats.Summary(ctx, user, period, time.Now().In(a.loc))
	if err != nil {
		return err
	}
	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(cmd.OutOrStdout(), user, summary)
	return nil
}

func printSummary(w io.Writer, user *model.User, s stats.Summary) {
	fmt.Fprintf(w, "Stats for %s, %s since %s\n\n", displayName(user), s.Period, s.Start.Format("2006-01-02"))
	if len(s.TimeByCategory) == 0 {
		fmt.Fprintln(w, "No data.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tHOURS\tSHARE")
	share := make(map[string]float64, len(s.CategoryDistribution))
	for _, slice := range s.CategoryDistribution {
		share[slice.Name] = slice.Percent
	}
	for _, c := range s.TimeByCategory {
		fmt.Fprintf(tw, "%s\t%d\t%.0f%%\n", c.Name, c.Hours, share[c.Name])
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUCKET\tHOURS")
	for _, p := range s.ProductivityTrend {
		fmt.Fprintf(tw, "%s\t%.1f\n", p.Label, p.Hours)
	}
	_ = tw.Flush()
}

func displayName(user *model.User) string {
	switch {
	case user.Username != "":
		return "@" + user.Username
	case user.FirstName != "":
		return user.FirstName
	default:
		return fmt.Sprintf("user %d", user.TelegramID)
	}
}
