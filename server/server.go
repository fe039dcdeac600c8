package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portalserver/database"
	"portalserver/docparse"
	"portalserver/internal/config"
	"portalserver/llm"
	"portalserver/maps"
	"portalserver/server/handlers"
	"portalserver/server/middleware"
	"portalserver/server/services"
	"portalserver/websearch"
)

// Server HTTP-сервер портала со всеми зависимостями
type Server struct {
	config *config.Config
	logger *slog.Logger
	engine *gin.Engine
	db     *sql.DB

	authService *services.AuthService
	httpServer  *http.Server
}

// NewServer собирает сервер: база, клиенты внешних сервисов, сервисы,
// обработчики и маршруты.
func NewServer(cfg *config.Config) (*Server, error) {
	logger := NewLogger(parseLogLevel(cfg.LogLevel))

	db, err := database.Open(cfg.DatabasePath, database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: 1 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	productDB, err := database.NewProductDB(db)
	if err != nil {
		return nil, err
	}
	manufacturerDB, err := database.NewManufacturerDB(db)
	if err != nil {
		return nil, err
	}
	orderDB, err := database.NewOrderDB(db)
	if err != nil {
		return nil, err
	}
	taskDB, err := database.NewTaskDB(db)
	if err != nil {
		return nil, err
	}
	userDB, err := database.NewUserDB(db)
	if err != nil {
		return nil, err
	}

	// Клиенты внешних сервисов
	var verifier *websearch.Verifier
	if cfg.WebSearch.Enabled {
		verifier = websearch.NewVerifier(websearch.NewClient(websearch.Config{
			BaseURL:         cfg.WebSearch.BaseURL,
			Timeout:         cfg.WebSearch.Timeout,
			CacheTTL:        cfg.WebSearch.CacheTTL,
			RateLimitPerSec: cfg.WebSearch.RateLimitPerSec,
			MaxResults:      10,
		}))
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.Chat.APIKey,
		Model:   cfg.Chat.Model,
		BaseURL: cfg.Chat.BaseURL,
		Timeout: cfg.Chat.Timeout,
	})

	mapsClient := maps.NewClient(maps.Config{
		APIKey:   cfg.Maps.APIKey,
		BaseURL:  cfg.Maps.BaseURL,
		Timeout:  cfg.Maps.Timeout,
		CacheTTL: cfg.Maps.CacheTTL,
	})

	docClient := docparse.NewClient(docparse.Config{
		BaseURL: cfg.DocParse.BaseURL,
		APIKey:  cfg.DocParse.APIKey,
		Timeout: cfg.DocParse.Timeout,
	})

	// Сервисы
	authService := services.NewAuthService(userDB, cfg.JWTSecret, cfg.TokenTTL, logger)
	productService := services.NewProductService(productDB, logger)
	// При выключенном веб-поиске сервис получает nil и отвечает 502 на проверку
	var manufacturerService *services.ManufacturerService
	if verifier != nil {
		manufacturerService = services.NewManufacturerService(manufacturerDB, verifier, logger)
	} else {
		manufacturerService = services.NewManufacturerService(manufacturerDB, nil, logger)
	}
	orderService := services.NewOrderService(orderDB, logger)
	taskService := services.NewTaskService(taskDB, logger)
	exportService := services.NewExportService(productDB, manufacturerDB, orderDB, taskDB)
	chatService := services.NewChatService(llmClient, services.ChatConfig{
		RequestsPerMin:   cfg.Chat.RequestsPerMin,
		SnapshotCacheTTL: cfg.Chat.SnapshotCacheTTL,
	}, productDB, manufacturerDB, orderDB, taskDB, nil, logger)
	distanceService := services.NewDistanceService(mapsClient, logger)

	// Обработчики
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, exportService)
	manufacturerHandler := handlers.NewManufacturerHandler(manufacturerService, exportService)
	orderHandler := handlers.NewOrderHandler(orderService, exportService)
	taskHandler := handlers.NewTaskHandler(taskService, exportService)
	chatHandler := handlers.NewChatHandler(chatService)
	distanceHandler := handlers.NewDistanceHandler(distanceService)
	documentHandler := handlers.NewDocumentHandler(docClient)

	// Маршруты
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(logger),
		middleware.GinRequestIDMiddleware(),
		middleware.GinLoggerMiddleware(logger),
		middleware.GinCORSMiddleware(),
		middleware.GinGzipMiddleware(),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/api/auth/login", authHandler.Login)

	api := engine.Group("/api", middleware.GinAuthMiddleware(cfg.JWTSecret))

	registerRecordRoutes(api.Group("/products"), recordRoutes{
		list: productHandler.List, get: productHandler.Get,
		create: productHandler.Create, update: productHandler.Update,
		delete: productHandler.Delete, suggest: productHandler.Suggest,
		export: productHandler.Export,
	})
	manufacturers := api.Group("/manufacturers")
	registerRecordRoutes(manufacturers, recordRoutes{
		list: manufacturerHandler.List, get: manufacturerHandler.Get,
		create: manufacturerHandler.Create, update: manufacturerHandler.Update,
		delete: manufacturerHandler.Delete, suggest: manufacturerHandler.Suggest,
		export: manufacturerHandler.Export,
	})
	manufacturers.POST("/:id/verify", manufacturerHandler.Verify)
	registerRecordRoutes(api.Group("/orders"), recordRoutes{
		list: orderHandler.List, get: orderHandler.Get,
		create: orderHandler.Create, update: orderHandler.Update,
		delete: orderHandler.Delete, suggest: orderHandler.Suggest,
		export: orderHandler.Export,
	})
	registerRecordRoutes(api.Group("/tasks"), recordRoutes{
		list: taskHandler.List, get: taskHandler.Get,
		create: taskHandler.Create, update: taskHandler.Update,
		delete: taskHandler.Delete, suggest: taskHandler.Suggest,
		export: taskHandler.Export,
	})

	api.POST("/chat", chatHandler.Ask)
	api.GET("/distance", distanceHandler.Lookup)
	api.POST("/documents/extract", documentHandler.Extract)

	return &Server{
		config:      cfg,
		logger:      logger,
		engine:      engine,
		db:          db,
		authService: authService,
	}, nil
}

// recordRoutes набор обработчиков CRUD-маршрутов одного вида записей
type recordRoutes struct {
	list, get, create, update, delete, suggest, export gin.HandlerFunc
}

// registerRecordRoutes регистрирует одинаковый набор маршрутов для вида записей
func registerRecordRoutes(group *gin.RouterGroup, r recordRoutes) {
	group.GET("", r.list)
	group.POST("", r.create)
	group.GET("/suggest", r.suggest)
	group.GET("/export", r.export)
	group.GET("/:id", r.get)
	group.PUT("/:id", r.update)
	group.DELETE("/:id", r.delete)
}

// Start запускает сервер и блокируется до остановки через Shutdown
func (s *Server) Start(ctx context.Context) error {
	// Учетная запись администратора при первом старте
	if err := s.authService.EnsureAdmin(ctx, s.config.AdminUsername, s.config.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("server starting", "port", s.config.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер и закрывает базу
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("http shutdown failed: %w", err)
		}
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("database close failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// parseLogLevel переводит строковый уровень логирования в slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
