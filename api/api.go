// Package api wires the HTTP surface of the server: session handling,
// authentication, user administration and per-user settings.
package api

import (
	"fmt"
	"net/http"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/auth"
	"github.com/vaaskel/vaaskel/api/handler"
	"github.com/vaaskel/vaaskel/config"
	"github.com/vaaskel/vaaskel/service"
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	authProvider *auth.Provider
	handler      *handler.Handler
}

func New(cfg *config.Config, users *service.UserService, settings *service.SettingsService, sharedCache *gocache.Cache[[]byte]) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return &Server{
		cfg:          cfg,
		ginEngine:    gin.Default(),
		authProvider: auth.New(users),
		handler:      handler.New(users, settings, sharedCache, time.Duration(cfg.Cache.TTL)*time.Second),
	}, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.Session.Key))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("vaaskel_session", store))
}

func (s *Server) setupRoutes() {
	s.setupSession()
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))

	s.ginEngine.POST("/auth/login", s.authProvider.Login)

	protected := s.ginEngine.Group("/")
	protected.Use(s.authProvider.RequireAuth())

	protected.POST("/auth/logout", s.authProvider.Logout)
	protected.GET("/auth/me", s.authProvider.Me)

	api := protected.Group("/api")
	api.GET("/settings", s.handler.GetSettings)
	api.PUT("/settings/theme", s.handler.UpdateTheme)

	admin := api.Group("/users")
	admin.Use(s.authProvider.RequireAdmin())
	admin.GET("", s.handler.ListUsers)
	admin.POST("", s.handler.CreateUser)
	admin.GET("/:id", s.handler.GetUser)
	admin.PUT("/:id", s.handler.UpdateUser)
	admin.POST("/:id/password", s.handler.ResetPassword)
	admin.GET("/:id/roles", s.handler.GetRoles)
	admin.PUT("/:id/roles", s.handler.SetRoles)
}

func (s *Server) Run() error {
	s.setupRoutes()

	return s.ginEngine.Run(s.cfg.Listen)
}
