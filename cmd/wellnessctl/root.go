package main

import (
	"context"
	"os"

	"github.com/2beens/wellnesstracker/internal"
	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/logging"
	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	env        string
	configPath string
	logLevel   string

	// openService returns the dashboard service and a func releasing what it holds.
	openService func(ctx context.Context) (*dashboard.Service, func(), error)
}

func (a *app) openConfiguredService(ctx context.Context) (*dashboard.Service, func(), error) {
	cfg, err := config.Load(a.env, a.configPath)
	if err != nil {
		return nil, nil, err
	}
	googleCredentials, err := internal.GoogleCredentialsFromEnv()
	if err != nil {
		return nil, nil, err
	}

	st, dbPool, err := internal.OpenStore(ctx, internal.OpenStoreParams{
		Config:            cfg,
		GoogleCredentials: googleCredentials,
	})
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if dbPool != nil {
			dbPool.Close()
		}
	}

	service, err := internal.NewDashboardService(cfg, st, nil)
	if err != nil {
		release()
		return nil, nil, err
	}
	return service, release, nil
}

func (a *app) withService(cmd *cobra.Command, run func(context.Context, *dashboard.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	service, release, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer release()
	return run(ctx, service)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wellnessctl",
		Short:         "wellnessctl reads and logs wellness activities from your terminal",
		Long:          "wellnessctl shows the wellness dashboard (totals, streaks, heatmaps) and appends activity and weight entries to the wellness spreadsheet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetLevel(logging.GetLevel(a.logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(
		newSummaryCmd(a),
		newStreakCmd(a),
		newHeatmapCmd(a),
		newUsersCmd(a),
		newLogCmd(a),
		newExportCmd(a),
		newHashTokenCmd(),
	)
	return rootCmd
}

// filterFlags are the dashboard filters shared by the read commands.
type filterFlags struct {
	exerciseType string
	users        []string
	isoYear      string
	isoWeek      string
	monthFrom    string
	monthTo      string
	dateFrom     string
	dateTo       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.exerciseType, "type", "", "Exercise type (Cycling, Strength, Yoga, Running, Meditation, Hiking)")
	cmd.Flags().StringArrayVar(&f.users, "user", nil, "User to include (repeatable)")
	cmd.Flags().StringVar(&f.isoYear, "iso-year", "", "ISO year, with --iso-week")
	cmd.Flags().StringVar(&f.isoWeek, "iso-week", "", "ISO week number, with --iso-year")
	cmd.Flags().StringVar(&f.monthFrom, "month-from", "", "First month YYYY-MM, with --month-to")
	cmd.Flags().StringVar(&f.monthTo, "month-to", "", "Last month YYYY-MM")
	cmd.Flags().StringVar(&f.dateFrom, "from", "", "First day YYYY-MM-DD, with --to")
	cmd.Flags().StringVar(&f.dateTo, "to", "", "Last day YYYY-MM-DD")
}

func (f *filterFlags) filter() (activity.Filter, error) {
	return dashboard.FilterParams{
		ExerciseType: f.exerciseType,
		Users:        f.users,
		ISOYear:      f.isoYear,
		ISOWeek:      f.isoWeek,
		MonthFrom:    f.monthFrom,
		MonthTo:      f.monthTo,
		DateFrom:     f.dateFrom,
		DateTo:       f.dateTo,
	}.Filter()
}
