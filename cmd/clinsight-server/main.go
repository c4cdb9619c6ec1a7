package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinsight/clinsight/internal/config"
	"github.com/clinsight/clinsight/internal/domain/assessment"
	"github.com/clinsight/clinsight/internal/domain/report"
	"github.com/clinsight/clinsight/internal/domain/risk"
	"github.com/clinsight/clinsight/internal/domain/substance"
	"github.com/clinsight/clinsight/internal/platform/db"
	"github.com/clinsight/clinsight/internal/platform/evidence"
	"github.com/clinsight/clinsight/internal/platform/mcptools"
	"github.com/clinsight/clinsight/internal/platform/middleware"
)

var startTime = time.Now()

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinsight-server",
		Short: "Clinical assessment scoring and risk-aggregation server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(screenCmd())
	rootCmd.AddCommand(mcpCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func screenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screen",
		Short: "Run a population risk screening and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			app, err := buildServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			rep, err := app.risks.ScreenPopulation(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Screened %d patient(s), coverage %.1f%% (source: %s)\n\n",
				rep.SuccessfullyAnalyzed, rep.CoveragePercentage, rep.DataSource)
			fmt.Printf("%-12s %-10s %-10s %s\n", "PATIENT", "COMPOSITE", "LEVEL", "ATTENTION")
			for _, p := range rep.Results {
				attention := ""
				if p.NeedsAttention {
					attention = "yes"
				}
				fmt.Printf("%-12s %-10.2f %-10s %s\n", p.PatientID, p.CompositeScore, p.RiskLevel, attention)
			}
			for id, msg := range rep.AnalysisErrors {
				fmt.Printf("ERROR %s: %s\n", id, msg)
			}
			return nil
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve assessment tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the MCP transport, so logs go to stderr.
			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			app, err := buildServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			s := mcptools.New(mcptools.Deps{
				Assessments: app.assessments,
				Substances:  app.substances,
				Risks:       app.risks,
				Health:      healthFunc(app.pool, cfg),
				Name:        cfg.MCPServerName,
				Version:     cfg.MCPServerVersion,
			})

			logger.Info().Str("name", cfg.MCPServerName).Msg("starting MCP stdio server")
			return mcptools.ServeStdio(s)
		},
	}
}

// appServices holds everything the commands wire together. The pool is nil
// when DATA_SOURCE=synthetic.
type appServices struct {
	pool        *pgxpool.Pool
	assessments *assessment.Service
	substances  *substance.Service
	risks       *risk.Service
	reports     *report.Service
	protocol    *config.Protocol
}

func (a *appServices) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// buildServices wires the data sources per DATA_SOURCE: "real" uses Postgres
// only, "synthetic" uses the demo cohort only, and "auto" uses Postgres with
// the demo cohort as a fallback when queries fail.
func buildServices(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*appServices, error) {
	protocol := config.DefaultProtocol()
	if cfg.ProtocolFile != "" {
		p, err := config.LoadProtocol(cfg.ProtocolFile)
		if err != nil {
			return nil, fmt.Errorf("load protocol file: %w", err)
		}
		protocol = p
		logger.Info().Str("path", cfg.ProtocolFile).Msg("loaded scoring protocol")
	}

	var pool *pgxpool.Pool
	var assessPrimary, assessFallback assessment.Source
	var subPrimary, subFallback substance.Source

	switch cfg.DataSource {
	case "synthetic":
		assessPrimary = assessment.NewSyntheticSource()
		subPrimary = substance.NewSyntheticSource()
	case "real", "auto":
		p, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		pool = p
		logger.Info().Msg("connected to database")

		assessPrimary = assessment.NewSourcePG(pool)
		subPrimary = substance.NewSourcePG(pool)
		if cfg.DataSource == "auto" {
			assessFallback = assessment.NewSyntheticSource()
			subFallback = substance.NewSyntheticSource()
		}
	}

	scorer := assessment.NewScorer(protocol)
	assessments := assessment.NewService(assessPrimary, assessFallback, scorer, logger)
	substances := substance.NewService(subPrimary, subFallback, logger)
	risks := risk.NewService(assessments, substances, protocol, logger)

	evidenceClient := evidence.NewClient(cfg.EvidenceURL, cfg.EvidenceTimeout, logger)
	reports := report.NewService(assessments, risks, evidenceClient, protocol, logger)

	return &appServices{
		pool:        pool,
		assessments: assessments,
		substances:  substances,
		risks:       risks,
		reports:     reports,
		protocol:    protocol,
	}, nil
}

// healthFunc builds the status payload shared by /healthz and the MCP
// health_check tool.
func healthFunc(pool *pgxpool.Pool, cfg *config.Config) mcptools.HealthFunc {
	return func(ctx context.Context) (interface{}, error) {
		payload := map[string]interface{}{
			"status":         "healthy",
			"data_source":    cfg.DataSource,
			"version":        cfg.MCPServerVersion,
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
		}

		if pool == nil {
			payload["database"] = "not configured"
			return payload, nil
		}

		if err := db.Ping(ctx, pool); err != nil {
			payload["status"] = "unhealthy"
			payload["database"] = err.Error()
			return payload, nil
		}
		payload["database"] = "reachable"
		payload["pool"] = db.GetPoolStats(pool)

		probes := []db.TableProbe{
			db.ProbeTable(ctx, pool, "assessment_response"),
			db.ProbeTable(ctx, pool, "substance_history"),
		}
		payload["tables"] = probes
		for _, p := range probes {
			if !p.OK {
				payload["status"] = "degraded"
			}
		}
		return payload, nil
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	app, err := buildServices(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer app.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	health := healthFunc(app.pool, cfg)
	e.GET("/healthz", func(c echo.Context) error {
		payload, err := health(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(http.StatusOK, payload)
	})

	apiV1 := e.Group("/api/v1")
	assessment.NewHandler(app.assessments).RegisterRoutes(apiV1)
	substance.NewHandler(app.substances).RegisterRoutes(apiV1)
	risk.NewHandler(app.risks).RegisterRoutes(apiV1)
	report.NewHandler(app.reports).RegisterRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("data_source", cfg.DataSource).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
