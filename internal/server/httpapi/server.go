// Package httpapi exposes the account and task services over HTTP. It is a
// thin layer: parse the request, call a service, translate the typed failure
// into a status code. No business rules live here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annagruz/taskvault/internal/logging"
	"github.com/annagruz/taskvault/internal/server/identity"
	"github.com/annagruz/taskvault/internal/server/services"
)

// shutdownTimeout bounds the drain of in-flight requests on stop.
const shutdownTimeout = 5 * time.Second

// Server wires the HTTP routes to the services.
type Server struct {
	addr     string
	engine   *gin.Engine
	resolver *identity.Resolver
	accounts *services.AccountService
	tasks    *services.TaskService
	logger   logging.Logger
}

func NewServer(
	addr string,
	resolver *identity.Resolver,
	accounts *services.AccountService,
	tasks *services.TaskService,
	logger logging.Logger,
) *Server {
	s := &Server{
		addr:     addr,
		resolver: resolver,
		accounts: accounts,
		tasks:    tasks,
		logger:   logger.With("component", "http"),
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	engine.POST("/users", s.createAccount)
	engine.POST("/users/login", s.login)
	engine.GET("/users/:id/avatar", s.getAvatar)

	authed := engine.Group("/", s.requireAuth())
	authed.POST("/users/logout", s.logout)
	authed.POST("/users/logoutAll", s.logoutAll)
	authed.GET("/users/me", s.getProfile)
	authed.PATCH("/users/me", s.updateProfile)
	authed.DELETE("/users/me", s.deleteAccount)
	authed.PUT("/users/me/avatar", s.setAvatar)
	authed.DELETE("/users/me/avatar", s.removeAvatar)

	authed.POST("/tasks", s.createTask)
	authed.GET("/tasks", s.listTasks)
	authed.GET("/tasks/:id", s.getTask)
	authed.PATCH("/tasks/:id", s.updateTask)
	authed.DELETE("/tasks/:id", s.deleteTask)

	return engine
}

// Handler exposes the routing tree, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
