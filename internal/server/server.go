package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spy-mission/apiserver/config"
	"github.com/spy-mission/apiserver/internal/db"
	"github.com/spy-mission/apiserver/internal/handlers"
	"github.com/spy-mission/apiserver/internal/mq"
	"github.com/spy-mission/apiserver/internal/services"
	"github.com/spy-mission/apiserver/internal/storage"
	"github.com/spy-mission/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pictureStorage, localDir, err := buildStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := buildBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	events := services.NewEventPublisher(broker)
	userRepo := store.NewUserRepository(dbConn)
	userService := services.NewUserService(userRepo, pictureStorage, events)
	pictureService := services.NewProfilePictureService(userRepo, pictureStorage, events, cfg.Uploads.MaxBytes)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		handlers.AccountRouter(r, userService)
		handlers.ProfilePictureRouter(r, pictureService)
		handlers.CipherRouter(r)
	})
	if localDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(localDir)))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 3001
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// buildStorage selects the object storage backend and ensures its bucket or
// content directory exists. The second return is the local content directory
// when the local backend is active, used for static file serving.
func buildStorage(ctx context.Context, cfg config.Config) (*storage.Storage, string, error) {
	var backend storage.ObjectStorage
	localDir := ""

	switch cfg.Storage.Backend {
	case "", "local":
		client, err := storage.NewLocalClient(cfg.Uploads)
		if err != nil {
			return nil, "", err
		}
		backend = client
		localDir = client.Dir()
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, "", err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, "", err
		}
		backend = client
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, "", err
	}
	return storage.NewStorage(backend), localDir, nil
}

// buildBroker selects the optional event broker; "none" disables events.
func buildBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
