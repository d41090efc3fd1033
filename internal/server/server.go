package server

import (
	"fmt"
	"net/http"
	"time"

	"catalog-admin/internal/config"
	custommiddleware "catalog-admin/internal/middleware"
	"catalog-admin/internal/service"
	"catalog-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server is a local stand-in for the remote admin API
type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	catalog service.CatalogService
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authService, err := service.NewAuthService(
		cfg.Admin.Username,
		cfg.Admin.Password,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.Expiry)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	catalog := service.NewCatalogService()

	authHandler := transport.NewAuthHandler(authService, logger)
	productHandler := transport.NewProductHandler(catalog, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	authHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		catalog: catalog,
	}, nil
}

// Catalog exposes the in-memory store, mainly for seeding
func (s *Server) Catalog() service.CatalogService {
	return s.catalog
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	s.logger.Sync()
	return nil
}
