package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apphttp "github.com/beemarshall/core/internal/adapters/http"
	"github.com/beemarshall/core/internal/adapters/repository"
	"github.com/beemarshall/core/internal/application/services"
	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/config"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/infrastructure/scheduler"
	"github.com/beemarshall/core/internal/infrastructure/server"
)

var migrationsPath string

// NewRootCommand creates the root command with all subcommands attached
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "beemarshall",
		Short: "Apiary management service",
		Long:  "BeeMarshall manages apiary sites, scheduled beekeeping tasks, action history and seasonal planning.",
	}

	root.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "path to migration files")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newPromoteOverdueCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// bootstrap loads configuration and connects to the database.
func bootstrap() (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, log, db, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()

			if err := db.Migrate(migrationsPath); err != nil {
				return err
			}

			siteRepo := repository.NewSiteRepository(db, log)
			taskRepo := repository.NewScheduledTaskRepository(db, log)
			actionRepo := repository.NewActionRepository(db, log)
			catalogRepo := repository.NewTaskCatalogRepository(db, log)
			complianceRepo := repository.NewComplianceRepository(db, log)

			if err := catalogRepo.Seed(cmd.Context(), entities.DefaultTaskCatalog); err != nil {
				return fmt.Errorf("failed to seed task catalog: %w", err)
			}

			siteService := services.NewSiteService(siteRepo, log)
			schedulingService := services.NewSchedulingService(taskRepo, siteRepo, catalogRepo, log)
			suggestionService := services.NewSuggestionService(siteRepo, catalogRepo, log)
			calendarService := services.NewCalendarService(taskRepo, siteRepo, catalogRepo, log)
			actionService := services.NewActionService(actionRepo, siteRepo, catalogRepo, log)
			catalogService := services.NewCatalogService(catalogRepo, actionRepo, log)
			complianceService := services.NewComplianceService(complianceRepo, log)

			srv := server.New(cfg, log, db, server.Handlers{
				Sites:      apphttp.NewSiteHandler(siteService, log),
				Scheduling: apphttp.NewSchedulingHandler(schedulingService, log),
				Actions:    apphttp.NewActionHandler(actionService, log),
				Catalog:    apphttp.NewCatalogHandler(catalogService, log),
				Planning:   apphttp.NewPlanningHandler(suggestionService, calendarService, log),
				Compliance: apphttp.NewComplianceHandler(complianceService, log),
			})

			sched := scheduler.New(cfg.Scheduler, schedulingService, complianceService, taskRepo, log)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				sched.Stop()
				return err
			case sig := <-quit:
				log.Infow("shutdown signal received", "signal", sig.String())
			}

			sched.Stop()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()
			return db.Migrate(migrationsPath)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()
			return db.MigrateDown(migrationsPath)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()

			version, dirty, err := db.MigrationVersion(migrationsPath)
			if err != nil {
				return err
			}
			fmt.Printf("version: %d, dirty: %t\n", version, dirty)
			return nil
		},
	})

	return migrate
}

func newPromoteOverdueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-overdue",
		Short: "Escalate overdue scheduled tasks to urgent across all tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()
			defer log.Sync()

			siteRepo := repository.NewSiteRepository(db, log)
			taskRepo := repository.NewScheduledTaskRepository(db, log)
			catalogRepo := repository.NewTaskCatalogRepository(db, log)
			complianceRepo := repository.NewComplianceRepository(db, log)
			schedulingService := services.NewSchedulingService(taskRepo, siteRepo, catalogRepo, log)
			complianceService := services.NewComplianceService(complianceRepo, log)

			sched := scheduler.New(cfg.Scheduler, schedulingService, complianceService, taskRepo, log)
			total, err := sched.PromoteAllTenants(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("promoted %d tasks\n", total)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the application version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("unknown")
				return
			}
			fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}
