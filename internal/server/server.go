package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/docs"
	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/config"
	"github.com/emilythestrangee/yatube/internal/database"
	"github.com/emilythestrangee/yatube/internal/handlers"
	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/middleware"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/service"
	"github.com/emilythestrangee/yatube/internal/storage"
	"github.com/emilythestrangee/yatube/internal/views"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	pages   cache.Cache
	images  storage.ImageStore
	svc     *service.Services
	handler *handlers.Handler
	limiter *middleware.IPRateLimiter
}

// New wires repositories, services and handlers over the given collaborators.
func New(cfg *config.Config, db database.Service, pages cache.Cache, images storage.ImageStore) *Server {
	repos := repository.New(db.GetDB())
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	svc := service.New(repos, images, pages, tokens)

	return &Server{
		cfg:     cfg,
		db:      db,
		pages:   pages,
		images:  images,
		svc:     svc,
		handler: handlers.NewHandler(svc, db),
		limiter: middleware.NewIPRateLimiter(cfg.LoginRatePerMinute),
	}
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config, db database.Service, pages cache.Cache, images storage.ImageStore) (*http.Server, error) {
	router, err := New(cfg, db, pages, images).RegisterRoutes()
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     logger.StdLog(),
	}

	logger.Info("server configured", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() (*gin.Engine, error) {
	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	// ClientIP feeds the login rate limiter, so forwarding headers only count
	// when they come from a configured proxy.
	if err := r.SetTrustedProxies(s.cfg.TrustedProxyList()); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(handlers.ServerError),
		otelgin.Middleware(s.cfg.ServiceName),
	)

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	r.Use(middleware.Identify(s.svc.Accounts))

	r.NoRoute(handlers.NotFound)

	// Health check endpoint
	r.GET("/health", s.handler.Health.Check)

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if s.images != nil {
		r.Static("/media", s.images.Root())
	}

	h := s.handler
	login := middleware.LoginRequired()

	r.GET("/", middleware.CachePage(s.pages, s.cfg.IndexCacheTTL), h.Post.Index)
	r.GET("/group/:slug/", h.Post.Group)
	r.GET("/new/", login, h.Post.NewForm)
	r.POST("/new/", login, h.Post.Create)
	r.GET("/follow/", login, h.Post.Follow)

	about := r.Group("/about")
	{
		about.GET("/author/", h.About.Author)
		about.GET("/tech/", h.About.Tech)
	}

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(s.limiter))
	{
		authGroup.GET("/signup/", h.Auth.SignupForm)
		authGroup.POST("/signup/", h.Auth.Signup)
		authGroup.GET("/login/", h.Auth.LoginForm)
		authGroup.POST("/login/", h.Auth.Login)
		authGroup.GET("/logout/", h.Auth.Logout)
		authGroup.POST("/token", h.Auth.Token)
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/groups", h.Admin.ListGroups)
		admin.POST("/groups", h.Admin.CreateGroup)
		admin.DELETE("/posts/:id", h.Admin.DeletePost)
		admin.POST("/cache/clear", h.Admin.ClearCache)
	}

	r.GET("/:username/", h.User.Profile)
	r.GET("/:username/follow/", login, h.User.Follow)
	r.GET("/:username/unfollow/", login, h.User.Unfollow)
	r.GET("/:username/:post_id/", h.Post.Detail)
	r.GET("/:username/:post_id/edit/", login, h.Post.EditForm)
	r.POST("/:username/:post_id/edit/", login, h.Post.Update)
	r.GET("/:username/:post_id/comment/", login, h.Comment.Show)
	r.POST("/:username/:post_id/comment/", login, h.Comment.Create)

	return r, nil
}
