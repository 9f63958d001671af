package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	authpostgres "github.com/frahmantamala/peer-recognition/internal/auth/postgres"
	"github.com/frahmantamala/peer-recognition/internal/comment"
	commentpostgres "github.com/frahmantamala/peer-recognition/internal/comment/postgres"
	"github.com/frahmantamala/peer-recognition/internal/core/events"
	"github.com/frahmantamala/peer-recognition/internal/engagement"
	engagementpostgres "github.com/frahmantamala/peer-recognition/internal/engagement/postgres"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
	ledgerpostgres "github.com/frahmantamala/peer-recognition/internal/ledger/postgres"
	"github.com/frahmantamala/peer-recognition/internal/points"
	pointspostgres "github.com/frahmantamala/peer-recognition/internal/points/postgres"
	"github.com/frahmantamala/peer-recognition/internal/post"
	postpostgres "github.com/frahmantamala/peer-recognition/internal/post/postgres"
	"github.com/frahmantamala/peer-recognition/internal/transport/rest"
	"github.com/frahmantamala/peer-recognition/internal/transport/swagger"
	"github.com/frahmantamala/peer-recognition/internal/user"
	userpostgres "github.com/frahmantamala/peer-recognition/internal/user/postgres"
	"github.com/frahmantamala/peer-recognition/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	// The OpenAPI contract is part of the deploy artifact; refuse to boot
	// with a broken one.
	if err := swagger.ValidateSpec(context.Background(), config.Server.OpenAPIPath); err != nil {
		return nil, err
	}

	sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}

	bus := events.NewEventBus(lg)
	registerAuditSubscribers(bus, lg)

	ledgerRepo := ledgerpostgres.NewLedgerRepository(gormDB)
	ledgerService := ledger.NewService(ledgerRepo, bus, lg)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authpostgres.NewAuthRepository(gormDB)
	authService := auth.NewService(authRepo, ledgerService, tokens, config.Security.BCryptCost, lg)

	userRepo := userpostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, config.Security.BCryptCost, lg)

	postRepo := postpostgres.NewPostRepository(gormDB)
	postService := post.NewService(postRepo, ledgerService, lg)

	commentRepo := commentpostgres.NewCommentRepository(gormDB)
	commentService := comment.NewService(commentRepo, postRepo, ledgerService, lg)

	engagementRepo := engagementpostgres.NewEngagementRepository(gormDB)
	engagementService := engagement.NewService(engagementRepo, lg)

	pointsRepo := pointspostgres.NewPointsRepository(gormDB)
	pointsService := points.NewService(pointsRepo, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB.DB, rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Post:       post.NewHandler(postService),
		Comment:    comment.NewHandler(commentService),
		Engagement: engagement.NewHandler(engagementService),
		Points:     points.NewHandler(pointsService, ledgerService),
	}, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     sqlDB,
		Router: router,
	}, nil
}

// registerAuditSubscribers logs every ledger event as a structured audit
// line. Asynchronous on purpose: audit logging never slows a request.
func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.Info("ledger audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
	bus.Subscribe(events.EventRecognitionCreated, audit)
	bus.Subscribe(events.EventPointsAdjusted, audit)
}

// initDB opens the pgx-backed connection pool shared by gorm and the
// health checker.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
