package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/volunteerhub/internal/bootstrap"
	"github.com/yigit/volunteerhub/internal/config"
	"github.com/yigit/volunteerhub/internal/seed"
)

// App holds what every command needs
type App struct {
	ctx    context.Context
	cfg    *config.Config
	logger zerolog.Logger
	deps   *bootstrap.Dependencies
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volunteerhub",
		Short: "VolunteerHub maintenance CLI",
		Long:  `Administrative tasks for VolunteerHub: migrations, scheduled jobs and demo data.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.deps != nil {
				app.deps.Close()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML configuration file")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(completeEventsCmd())
	rootCmd.AddCommand(resetInterestsCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func initApp(ctx context.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app = &App{ctx: ctx, cfg: cfg, logger: lgr}
	return nil
}

// services connects to the database and wires the application services once
func (a *App) services() (*bootstrap.Dependencies, error) {
	if a.deps != nil {
		return a.deps, nil
	}
	deps, err := bootstrap.BuildDependencies(a.ctx, a.cfg, a.logger, false)
	if err != nil {
		return nil, err
	}
	a.deps = deps
	return deps, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := bootstrap.ConnectDatabase(app.ctx, app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := bootstrap.RunMigrations(app.ctx, app.cfg, database, app.logger)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s)\n", applied)
			return nil
		},
	}
}

func completeEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete-events",
		Short: "Mark elapsed events with at least one participant as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.services()
			if err != nil {
				return err
			}
			n, err := deps.Services.Completion.CompleteElapsedEvents(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to complete events: %w", err)
			}
			fmt.Printf("Marked %d event(s) as completed\n", n)
			return nil
		},
	}
}

func resetInterestsCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset-interests",
		Short: "Clear the interests of every volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to reset interests without --yes")
			}
			deps, err := app.services()
			if err != nil {
				return err
			}
			n, err := deps.Services.Volunteer.ResetInterests(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to reset interests: %w", err)
			}
			fmt.Printf("Reset interests of %d volunteer(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm the reset")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create demo accounts and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.services()
			if err != nil {
				return err
			}
			now, err := bootstrap.NewClock(app.cfg)
			if err != nil {
				return err
			}
			err = seed.CreateDemoData(app.ctx, seed.Services{
				Auth:  deps.Services.Auth,
				Event: deps.Services.Event,
			}, now, app.logger)
			if err != nil {
				return err
			}
			fmt.Printf("Demo data ready. Log in as %s or %s with password %q\n",
				seed.ManagerEmail, seed.VolunteerEmail, seed.DemoPassword)
			return nil
		},
	}
}
