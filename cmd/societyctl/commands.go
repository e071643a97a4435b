package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"society-be-svc/internal/auth"
	"society-be-svc/internal/config"
	"society-be-svc/internal/database"
	"society-be-svc/internal/notification"
	"society-be-svc/internal/repository"
	"society-be-svc/internal/scheduler"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
)

// env is what every command needs: configuration, a logger and an open database
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.Database
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.WithError(err).Error("Failed to close database connection")
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.db.AutoMigrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var req service.AdminAccountRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.db.AutoMigrate(); err != nil {
				return err
			}

			dispatcher := notification.NewDispatcher(notification.NewSender(&e.cfg.Email, e.log), e.log, 1)
			defer dispatcher.Close()

			authService := service.NewAuthService(
				e.db.DB,
				repository.NewUserRepository(e.db.DB),
				repository.NewFlatRepository(e.db.DB),
				auth.NewJWTManager(&e.cfg.JWT),
				dispatcher,
				service.NopDashboardCache{},
				e.log,
			)

			admin, err := authService.BootstrapAdmin(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with id %d.\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "admin display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "admin phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func sweepOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark past-due pending bills overdue once",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			db := e.db.DB
			flatRepo := repository.NewFlatRepository(db)
			userRepo := repository.NewUserRepository(db)
			dispatcher := notification.NewDispatcher(notification.NewSender(&e.cfg.Email, e.log), e.log, 1)
			defer dispatcher.Close()

			maintenanceService := service.NewMaintenanceService(
				db,
				repository.NewMaintenanceRepository(db),
				flatRepo,
				userRepo,
				repository.NewDashboardRepository(db),
				dispatcher,
				service.NopDashboardCache{},
				e.log,
			)

			sweeper := scheduler.NewOverdueScheduler(maintenanceService, repository.NewSchedulerLogRepository(db), e.log, e.cfg.Scheduler.OverdueCronExpression)
			documentID := sweeper.RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Overdue sweep finished, run %s.\n", documentID)
			return nil
		},
	}
}
