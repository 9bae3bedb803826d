package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/pythonvista/intelligent-libary-sub000/app/echo-server/metrics"
	"github.com/pythonvista/intelligent-libary-sub000/app/echo-server/router"
	"github.com/pythonvista/intelligent-libary-sub000/business/account"
	"github.com/pythonvista/intelligent-libary-sub000/business/catalog"
	"github.com/pythonvista/intelligent-libary-sub000/business/experiment"
	"github.com/pythonvista/intelligent-libary-sub000/business/lending"
	"github.com/pythonvista/intelligent-libary-sub000/business/recommend"
	"github.com/pythonvista/intelligent-libary-sub000/internal/middleware"
	psqlRepo "github.com/pythonvista/intelligent-libary-sub000/internal/repository/postgres"
	redisRepo "github.com/pythonvista/intelligent-libary-sub000/internal/repository/redis"
	"github.com/pythonvista/intelligent-libary-sub000/internal/repository/scoring"
	"github.com/pythonvista/intelligent-libary-sub000/internal/rest"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/config"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/database"
	redisdb "github.com/pythonvista/intelligent-libary-sub000/pkg/database/redis"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Intelligent Library API", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	logger.Info("Redis connected successfully")

	// Init scoring backend client
	scoringRepo := scoring.NewScoringRepository(
		scoring.ScoringConfig{
			ScoringBaseURL:           cfg.Scoring.BaseURL,
			ScoringBasicAuthUsername: cfg.Scoring.BasicAuthUsername,
			ScoringBasicAuthPassword: cfg.Scoring.BasicAuthPassword,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	bookRepo := psqlRepo.NewBookRepository(db)
	loanRepo := psqlRepo.NewLoanRepository(db)
	eventRepo := psqlRepo.NewExperimentEventRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)
	experimentStore := redisRepo.NewExperimentStore(redisClient)
	trendingCache := redisRepo.NewTrendingCache(redisClient)

	// Init recommendation engine
	recoCfg := recommend.Config{
		Weights: recommend.HybridWeights{
			Collaborative: cfg.Recommend.WeightCollaborative,
			Factor:        cfg.Recommend.WeightNMF,
			Content:       cfg.Recommend.WeightContent,
		},
		HistoryLimit:   cfg.Recommend.HistoryLimit,
		MaxCandidates:  cfg.Recommend.MaxCandidates,
		DefaultLimit:   cfg.Recommend.DefaultLimit,
		ScoringTimeout: time.Duration(cfg.Scoring.TimeoutMs) * time.Millisecond,
		ExploreSeed:    cfg.Recommend.ExploreSeed,
	}
	remoteScoring := recommend.NewRemoteScoring(scoringRepo)
	localScoring := recommend.NewLocalHeuristicScoring(recoCfg.Weights, recoCfg.ExploreSeed)

	// Init service
	accountService := account.NewAccountService(userRepo, validate, sessionRepo)
	catalogService := catalog.NewCatalogService(bookRepo)
	lendingService := lending.NewLendingService(loanRepo, bookRepo)
	recommendService := recommend.NewService(loanRepo, bookRepo, remoteScoring, localScoring, trendingCache, recoCfg)
	tracker := experiment.NewTracker(eventRepo, experimentStore)

	// Init handler
	accountHandler := rest.NewAccountHandler(accountService)
	bookHandler := rest.NewBookHandler(catalogService)
	lendingHandler := rest.NewLendingHandler(lendingService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	experimentHandler := rest.NewExperimentHandler(tracker)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.TraceMiddleware())

	// Prometheus endpoint
	metrics.Init()
	metrics.Register(e)

	// Healthcheck
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithSession(sessionRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAccountRoutes(api, accountHandler, authRequired, adminOnly)
	router.SetupBookRoutes(api, bookHandler, authRequired, adminOnly)
	router.SetLoansRoutes(api, lendingHandler, authRequired)
	router.SetRecommendationRoutes(api, recommendHandler, experimentHandler, authRequired)
	router.SetExperimentAdminRoutes(api, experimentHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}
