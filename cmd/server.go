package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcosfaria19/clarohub-sub000/internal/api"
	"github.com/marcosfaria19/clarohub-sub000/internal/config"
	"github.com/marcosfaria19/clarohub-sub000/internal/container"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/repository"
	"github.com/marcosfaria19/clarohub-sub000/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Claro Flow API server.
The server listens on the configured host and port and exposes the
REST endpoints for spreadsheet ingestion, task claiming and transitions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyServerFlags(cmd, cfg)

		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		api.SetLogger(logger)

		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		projectRepo := repository.NewProjectRepository(ctr.DB())
		assignmentRepo := repository.NewAssignmentRepository(ctr.DB())
		taskRepo := repository.NewTaskRepository(ctr.DB())
		historyRepo := repository.NewHistoryRepository(ctr.DB())

		projectSvc := service.NewProjectService(projectRepo, assignmentRepo, taskRepo, defaultSortFromConfig(cfg))
		taskSvc := service.NewTaskService(taskRepo, historyRepo, projectRepo, projectSvc, ctr.Hub())
		ingestSvc := service.NewIngestService(ctr.ParserRegistry(), projectRepo, assignmentRepo, taskRepo, ctr.Hub())

		router := api.SetupRoutes(cfg, ctr.DB(), ctr.Hub(), api.Controllers{
			Projects: api.NewProjectController(projectSvc),
			Tasks:    api.NewTaskController(taskSvc),
			Uploads:  api.NewUploadController(ingestSvc),
		})

		// Hot-reload log level and default claim ordering when the config
		// file changes.
		if configPath != "" {
			if watcher, werr := config.NewWatcher(configPath); werr == nil {
				watcher.OnChange(func(next *config.Config) {
					if level, perr := logrus.ParseLevel(next.Log.Level); perr == nil {
						api.SetLoggerLevel(level)
						logger.WithField("level", next.Log.Level).Info("log level reloaded")
					}
					projectSvc.SetDefaultSort(defaultSortFromConfig(next))
					logger.Info("default sort order reloaded")
				})
				watcher.Start()
				defer watcher.Stop()
			} else {
				logger.WithError(werr).Warn("config watcher unavailable")
			}
		}

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("failed to start server")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Fatal("server forced to shutdown")
		}

		logger.Info("server exited")
		return nil
	},
}

// applyServerFlags lets --host/--port override the configured listener
// address when explicitly set on the command line.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		if host, err := cmd.Flags().GetString("host"); err == nil {
			cfg.Server.Host = host
		}
	}
	if cmd.Flags().Changed("port") {
		if port, err := cmd.Flags().GetInt("port"); err == nil {
			cfg.Server.Port = port
		}
	}
}

// defaultSortFromConfig translates the configured fallback claim
// ordering, dropping entries with unknown field names.
func defaultSortFromConfig(cfg *config.Config) []model.SortField {
	var out []model.SortField
	for _, entry := range cfg.Flow.DefaultSort {
		field := model.SortField{Field: entry.Field, Direction: entry.Direction}
		if _, ok := field.Column(); !ok {
			continue
		}
		out = append(out, field)
	}
	return out
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
