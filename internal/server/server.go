// Package server exposes the screenshot, icon and theme pipelines over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/internal/config"
	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIFactory builds a Figma API for a token sent with a request. bearer is true when
// the token came in an Authorization header.
type APIFactory func(token string, bearer bool) figmabridge.API

// Options holds the dependencies of a Server.
type Options struct {
	Config  *config.Config
	Service *figmabridge.Service // its API may be nil when no server token is configured
	Store   *storage.Store       // nil disables /api/assets and the files route
	Logger  *logrus.Logger
	OAuth   *figma.OAuthConfig // nil disables /api/auth/figma
	NewAPI  APIFactory         // nil disables per-request tokens
}

// Server is the HTTP front end.
type Server struct {
	cfg     *config.Config
	svc     *figmabridge.Service
	store   *storage.Store
	logger  *logrus.Logger
	oauth   *figma.OAuthConfig
	newAPI  APIFactory
	hasAPI  bool
	engine  *gin.Engine
	limiter *ipLimiter
}

// New builds the router.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	s := &Server{
		cfg:    opts.Config,
		svc:    opts.Service,
		store:  opts.Store,
		logger: logger,
		oauth:  opts.OAuth,
		newAPI: opts.NewAPI,
		hasAPI: opts.Service != nil && opts.Service.API != nil,
	}
	if s.cfg.Server.RateLimit > 0 {
		s.limiter = newIPLimiter(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst)
	}

	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger())

	r.GET("/health", s.health)

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(s.rateLimit())
	}
	api.POST("/screenshot", s.screenshot)
	api.POST("/icons", s.icons)
	api.POST("/theme", s.theme)
	api.GET("/assets", s.assets)
	api.GET("/auth/figma", s.authStart)
	api.GET("/auth/figma/callback", s.authCallback)

	if s.store != nil {
		r.Static(s.cfg.Storage.URLPrefix, s.store.Dir())
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})

	return r
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// service returns the service to run a request with: a per-request client when the
// caller sent its own token, the shared one otherwise. ok is false when neither exists.
func (s *Server) service(c *gin.Context) (*figmabridge.Service, bool) {
	if s.newAPI != nil {
		if token := c.GetHeader("X-Figma-Token"); token != "" {
			return s.svc.WithAPI(s.newAPI(token, false)), true
		}
		if auth := c.GetHeader("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			return s.svc.WithAPI(s.newAPI(strings.TrimSpace(auth[7:]), true)), true
		}
	}
	return s.svc, s.hasAPI
}
