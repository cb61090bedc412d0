package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/internal/wellness/stats"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, streaks and today's scheduled exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.filter()
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				overview, err := service.Overview(ctx, f)
				if err != nil {
					return err
				}

				out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(out, "Today:\t%s (%s)\n", overview.Today.Format(time.DateOnly), overview.Today.Weekday())
				fmt.Fprintf(out, "Scheduled:\t%s\n", overview.TodaysExercise)
				fmt.Fprintf(out, "Sessions:\t%d\n", overview.Totals.Sessions)
				fmt.Fprintf(out, "Hours exercised:\t%.1f\n", overview.Totals.HoursExercised)
				fmt.Fprintf(out, "Miles travelled:\t%.1f\n", overview.Totals.MilesTravelled)
				fmt.Fprintf(out, "Reps completed:\t%d\n", overview.Totals.RepsCompleted)
				fmt.Fprintf(out, "Current streak:\t%s\n", days(overview.Streak.Current))
				fmt.Fprintf(out, "Longest streak:\t%s\n", days(overview.Streak.Longest))
				if err := out.Flush(); err != nil {
					return err
				}

				if overview.NeedsNudge {
					fmt.Fprintln(cmd.OutOrStdout(), "No current streak. Time to get back on the horse!")
				}
				if overview.Quote != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%q - %s\n", overview.Quote.Quote, overview.Quote.Author)
				}
				return nil
			})
		},
	}
	filters.register(cmd)
	return cmd
}

func newStreakCmd(a *app) *cobra.Command {
	var (
		users    []string
		lastDays int
	)
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show current and longest streak with the latest calendar days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				calendar, err := service.Calendar(ctx, activity.Filter{Users: users})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %s\n", days(calendar.Streak.Current))
				fmt.Fprintf(cmd.OutOrStdout(), "Longest streak: %s\n", days(calendar.Streak.Longest))

				calendarDays := calendar.Days
				if lastDays > 0 && len(calendarDays) > lastDays {
					calendarDays = calendarDays[len(calendarDays)-lastDays:]
				}
				if len(calendarDays) == 0 {
					return nil
				}

				out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(out, "DATE\tDAY\tACTIVE\tSTREAK")
				for _, d := range calendarDays {
					active := "-"
					if d.IsActive {
						active = "yes"
					}
					fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", d.Date.Format(time.DateOnly), d.Date.Weekday().String()[:3], active, d.StreakLength)
				}
				return out.Flush()
			})
		},
	}
	cmd.Flags().StringArrayVar(&users, "user", nil, "User to include (repeatable)")
	cmd.Flags().IntVar(&lastDays, "days", 14, "Number of latest calendar days to print (0 for all)")
	return cmd
}

func newHeatmapCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		year    int
		week    int
	)
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show sessions per ISO week and weekday",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (year == 0) != (week == 0) {
				return fmt.Errorf("--year and --week must be set together")
			}
			f, err := filters.filter()
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(out, "WEEK\t%s\tTOTAL\n", strings.Join(weekdayHeader(), "\t"))

				if year != 0 {
					row, err := service.Week(ctx, f, year, week)
					if err != nil {
						return err
					}
					printWeekRow(out, row.Label, row.Counts, row.Total)
					return out.Flush()
				}

				frequency, err := service.Frequency(ctx, f)
				if err != nil {
					return err
				}
				total := 0
				for _, row := range frequency.Weeks {
					printWeekRow(out, row.Label, row.Counts, row.Total)
					total += row.Total
				}
				printWeekRow(out, "Overall", frequency.Overall, total)
				return out.Flush()
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "ISO year of a single week")
	cmd.Flags().IntVar(&week, "week", 0, "ISO week number of a single week")
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List app users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				users, err := service.Users(ctx)
				if err != nil {
					return err
				}
				for _, u := range users {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			})
		},
	}
}

func weekdayHeader() []string {
	header := make([]string, 0, 7)
	for _, d := range stats.Weekdays {
		header = append(header, strings.ToUpper(d[:3]))
	}
	return header
}

func printWeekRow(out *tabwriter.Writer, label string, counts [7]int, total int) {
	cells := make([]string, 0, len(counts))
	for _, c := range counts {
		cells = append(cells, fmt.Sprint(c))
	}
	fmt.Fprintf(out, "%s\t%s\t%d\n", label, strings.Join(cells, "\t"), total)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
