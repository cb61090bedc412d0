package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/internal/wellness/entry"
	"github.com/2beens/wellnesstracker/pkg"

	"github.com/spf13/cobra"
)

func newLogCmd(a *app) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Append an activity, weight or target weight entry",
	}
	logCmd.AddCommand(
		newLogActivityCmd(a),
		newLogWeightCmd(a),
		newLogTargetCmd(a),
	)
	return logCmd
}

func newLogActivityCmd(a *app) *cobra.Command {
	var sub entry.ActivitySubmission
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Log an exercise session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				if sub.Date == "" {
					sub.Date = service.Today().Format(time.DateOnly)
				}
				logged, err := service.LogActivity(ctx, sub)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %s at %s\n",
					logged.ExerciseType, logged.User, logged.Timestamp.Format(entry.TimestampLayout))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sub.User, "user", "", "User name")
	cmd.Flags().StringVar(&sub.ExerciseType, "type", "", "Exercise type")
	cmd.Flags().StringVar(&sub.Date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&sub.MoodPrior, "mood-before", "", "Mood before the session")
	cmd.Flags().StringVar(&sub.MoodAfter, "mood-after", "", "Mood after the session")
	cmd.Flags().Float64Var(&sub.DurationMinutes, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&sub.Intensity, "intensity", "", "Intensity label")
	cmd.Flags().StringVar(&sub.Weather, "weather", "", "Optional weather")
	cmd.Flags().Float64Var(&sub.DistanceMiles, "distance", 0, "Optional distance in miles")
	cmd.Flags().StringVar(&sub.BodyPart, "body-part", "", "Optional strength body part")
	cmd.Flags().IntVar(&sub.Reps, "reps", 0, "Optional strength reps")
	cmd.Flags().StringVar(&sub.Tags, "tags", "", "Optional tags")
	cmd.Flags().StringVar(&sub.Notes, "notes", "", "Optional notes")
	return cmd
}

func newLogWeightCmd(a *app) *cobra.Command {
	var sub entry.WeightSubmission
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Log the current weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				values, err := service.LogWeight(ctx, sub)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged weight: %s\n", strings.Join(values, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sub.User, "user", "", "User name")
	cmd.Flags().Float64Var(&sub.Weight, "weight", 0, "Current weight")
	return cmd
}

func newLogTargetCmd(a *app) *cobra.Command {
	var sub entry.TargetSubmission
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Set a target weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				values, err := service.SetTarget(ctx, sub)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Target set: %s\n", strings.Join(values, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sub.User, "user", "", "User name")
	cmd.Flags().Float64Var(&sub.TargetWeight, "weight", 0, "Target weight")
	cmd.Flags().StringVar(&sub.TargetDate, "date", "", "Target date YYYY-MM-DD")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered activity records as parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.filter()
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, service *dashboard.Service) error {
				data, err := service.ExportParquet(ctx, f)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(data), outPath)
				return nil
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&outPath, "out", "activities.parquet", "Output file")
	return cmd
}

func newHashTokenCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash of an entry token, for WELLNESS_ENTRY_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := pkg.HashSecret(args[0], cost)
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", pkg.DefaultSecretCost, "bcrypt cost")
	return cmd
}
