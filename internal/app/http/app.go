package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"contractor_site/internal/domain/access"
	mw "contractor_site/internal/middleware"
	httprouters "contractor_site/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Options struct {
	Host          string
	Port          string
	CORSOrigins   []string
	Timeout       time.Duration
	SessionSecret string
	// UploadsDir is served under UploadsPrefix when files are stored locally.
	UploadsPrefix string
	UploadsDir    string
}

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	resolver mw.SessionResolver
	opts     Options

	// base is the parent of every request context. Stop cancels it so
	// long-lived streams end before the graceful shutdown starts waiting.
	base       context.Context
	cancelBase context.CancelFunc
}

func New(ctx context.Context, log *slog.Logger, opts Options, routers *httprouters.Routers, resolver mw.SessionResolver) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = routers.Validator()

	e.Use(middleware.Recover())

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(opts.SessionSecret))))
	e.Use(mw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Warn("statsviz not registered", slog.String("error", err.Error()))
	}

	base, cancel := context.WithCancel(ctx)

	return &Server{
		m:          mux,
		log:        log,
		e:          e,
		routers:    routers,
		resolver:   resolver,
		opts:       opts,
		base:       base,
		cancelBase: cancel,
	}
}

// Echo exposes the router, mostly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	// echo's Shutdown only stops e.Server, so configure that one.
	srv := s.e.Server
	srv.Addr = s.addr()
	srv.ReadHeaderTimeout = s.opts.Timeout
	srv.BaseContext = func(net.Listener) context.Context { return s.base }

	if err := s.e.StartServer(srv); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	s.cancelBase()

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefully: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	if s.opts.UploadsDir != "" {
		s.e.Static(s.opts.UploadsPrefix, s.opts.UploadsDir)
	}

	api := s.e.Group("/api/v1", mw.Session(s.resolver))
	{
		api.GET("/gallery", r.ListGallery)
		api.GET("/gallery/:id/compare", r.Comparison)
		api.GET("/blog", r.ListBlog)
		api.GET("/blog/:slug", r.GetBlogPost)
		api.POST("/leads", r.CaptureLead)
		api.POST("/leads/validate", r.ValidateLeadStep)
		api.GET("/changes", r.StreamChanges)
		api.GET("/media/display", r.DisplayURL)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", r.SignUp)
			authGroup.POST("/signin", r.SignIn)
			authGroup.POST("/refresh", r.Refresh)
			authGroup.POST("/signout", r.SignOut, mw.RequireSession)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/shell", r.Shell)
			admin.GET("/overview", r.AdminOverview, mw.RequireTab(access.TabOverview))
			admin.POST("/media", r.UploadMedia, mw.RequireTab(access.TabGallery, access.TabBlog))

			galleryGroup := admin.Group("/gallery", mw.RequireTab(access.TabGallery))
			{
				galleryGroup.GET("", r.ListProjects)
				galleryGroup.POST("", r.SaveProject)
				galleryGroup.POST("/reorder", r.ReorderProjects)
				galleryGroup.PUT("/order", r.ApplyOrder)
				galleryGroup.POST("/images", r.UploadProjectImages)
				galleryGroup.GET("/:id", r.GetProject)
				galleryGroup.PUT("/:id", r.SaveProject)
				galleryGroup.DELETE("/:id", r.DeleteProject)
			}

			blogGroup := admin.Group("/blog", mw.RequireTab(access.TabBlog))
			{
				blogGroup.GET("", r.ListPosts)
				blogGroup.POST("", r.CreatePost)
				blogGroup.GET("/:id", r.GetPost)
				blogGroup.PUT("/:id", r.UpdatePost)
				blogGroup.POST("/:id/publish", r.PublishPost)
				blogGroup.POST("/:id/archive", r.ArchivePost)
				blogGroup.DELETE("/:id", r.DeletePost)
			}

			leadGroup := admin.Group("/leads", mw.RequireTab(access.TabLeads))
			{
				leadGroup.GET("", r.ListLeads)
			}

			userGroup := admin.Group("/users", mw.RequireTab(access.TabUsers))
			{
				userGroup.GET("", r.ListUsers)
				userGroup.POST("/:id/roles", r.GrantRole)
				userGroup.DELETE("/:id/roles/:role", r.RevokeRole)
			}
		}
	}
}
