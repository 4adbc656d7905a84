// Package server implements the hushbox HTTP server. It stores
// client-encrypted secret envelopes and enforces their lifecycle: expiry,
// one-time consumption, PIN gating and burning. Plaintext and encryption
// keys never reach this package; everything it persists is ciphertext the
// clients sealed before upload.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/hushbox/hushbox/server/logger"
	"github.com/hushbox/hushbox/server/store"
)

// Server is the hushbox HTTP server.
type Server struct {
	config  *Config
	logger  logger.Logger
	store   store.Store
	service *SecretService
	sweeper *sweeper
	router  *gin.Engine
	http    *http.Server
}

// New creates a Server from the given configuration.
func New(config *Config) (*Server, error) {
	l := logger.NewLogger(config.LogLevel)

	st, err := openStore(config.Store)
	if err != nil {
		return nil, err
	}

	service := NewSecretService(st, l)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(logger.NewGinWriter(l, config.LogRequests)))

	corsConfig := cors.DefaultConfig()
	if len(config.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = config.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(requestIDMiddleware())
	router.Use(bodyLimitMiddleware(config.MaxBodyBytes))

	if config.RateLimit.Enabled {
		rl, err := newRateLimiter(config.RateLimit)
		if err != nil {
			st.Close()
			return nil, errors.Wrap(err, "build rate limiter")
		}
		router.Use(rateLimitMiddleware(rl))
	}

	newSecretHandler(service, l).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		config:  config,
		logger:  l,
		store:   st,
		service: service,
		sweeper: newSweeper(service, l, config.SweepInterval),
		router:  router,
		http: &http.Server{
			Addr:    config.GetListenAddress(),
			Handler: router,
		},
	}, nil
}

func openStore(config StoreConfig) (store.Store, error) {
	switch config.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(config.Path)
	default:
		return nil, fmt.Errorf("unknown store.backend %q", config.Backend)
	}
}

// Start runs the expiry sweeper and serves HTTP until Stop is called.
func (s *Server) Start() error {
	s.sweeper.start()
	s.logger.Infof("Hushbox server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve http")
	}
	return nil
}

// Stop gracefully shuts down the HTTP listener, halts the sweeper and
// closes the store.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.sweeper.stop()

	var firstErr error
	if err := s.http.Shutdown(ctx); err != nil {
		firstErr = errors.Wrap(err, "shutdown http server")
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "close store")
	}
	return firstErr
}

// Router exposes the HTTP handler for in-process tests.
func (s *Server) Router() http.Handler {
	return s.router
}
