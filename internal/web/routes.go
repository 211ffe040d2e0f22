package web

import (
	"net/http" // Status codes

	"github.com/gin-contrib/cors" // CORS for the JSON endpoints
	"github.com/gin-gonic/gin"    // Gin web framework

	"royal_site/internal/middleware" // Session, guards, rate limiting
)

// legacyPaths maps the paths of the previous site to the current routes
var legacyPaths = map[string]string{
	"/homepage":            "/",
	"/royalmenu":           "/menu",
	"/menuview":            "/admin/menu",
	"/addmenu":             "/admin/menu/new",
	"/editmenu":            "/admin/menu",
	"/reservationview":     "/admin/reservations",
	"/editreservation":     "/admin/reservations",
	"/userlogin":           "/login",
	"/myroyalreservations": "/my-reservations",
}

// Router builds the gin engine serving the whole site
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(s.metrics), middleware.Session(s.sessions))
	r.SetHTMLTemplate(s.tmpl)

	limited := s.rateLimit()
	requireLogin := middleware.RequireLogin(s.sessions)

	// Public pages
	r.GET("/", s.HomeHandler())
	r.POST("/reservations", limited, s.CreateReservationHandler())
	r.GET("/menu", s.MenuHandler())

	// Identity
	r.GET("/login", s.LoginPageHandler())
	r.POST("/login", limited, s.LoginHandler())
	r.POST("/signup", limited, s.SignupHandler())
	r.POST("/logout", s.LogoutHandler())

	// User reservations (login required)
	mine := r.Group("/my-reservations", requireLogin)
	mine.GET("", s.MyReservationsHandler())
	mine.POST("/:id/cancel", s.CancelMyReservationHandler())

	// Admin panel
	open := len(s.cfg.AdminEmails) == 0
	admin := r.Group("/admin", middleware.AdminOnly(s.sessions, open, s.forbidden))
	admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/menu") })
	admin.GET("/menu", s.AdminMenuListHandler())
	admin.GET("/menu/new", s.AdminMenuNewHandler())
	admin.POST("/menu", s.AdminMenuCreateHandler())
	admin.GET("/menu/:id/edit", s.AdminMenuEditHandler())
	admin.POST("/menu/:id", s.AdminMenuUpdateHandler())
	admin.POST("/menu/:id/delete", s.AdminMenuDeleteHandler())
	admin.GET("/reservations", s.AdminReservationListHandler())
	admin.GET("/reservations/:id/edit", s.AdminReservationEditHandler())
	admin.POST("/reservations/:id", s.AdminReservationUpdateHandler())
	admin.POST("/reservations/:id/delete", s.AdminReservationDeleteHandler())

	// JSON endpoints
	api := r.Group("", s.cors()...)
	api.GET("/session/status", s.SessionStatusHandler())
	if s.metrics != nil {
		api.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	for from, to := range legacyPaths {
		target := to
		r.GET(from, func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, target) })
	}

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, navUser, "Page not found.")
	})
	return r
}

// rateLimit returns the per-IP limiter, or a pass-through when none is configured
func (s *Server) rateLimit() gin.HandlerFunc {
	if s.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(s.limiter)
}

// cors allows the configured origins to read the JSON endpoints
func (s *Server) cors() []gin.HandlerFunc {
	if len(s.cfg.CORSOrigins) == 0 {
		return nil // Same origin only
	}
	return []gin.HandlerFunc{cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Accept"},
		AllowCredentials: true,
	})}
}
