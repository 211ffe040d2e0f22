package web

import (
	"embed"         // Embedded templates
	"html/template" // Page rendering
	"time"          // Clock

	"royal_site/internal/backend"    // Restaurant backend
	"royal_site/internal/config"     // Configuration
	"royal_site/internal/metrics"    // Metrics
	"royal_site/internal/middleware" // Rate limiting
	"royal_site/internal/session"    // Sessions
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the collaborators of the web tier
type Deps struct {
	Config       *config.Config             // Configuration
	Menu         backend.MenuService        // Menu catalog
	Reservations backend.ReservationService // Reservations
	Auth         backend.AuthService        // Login and signup
	Sessions     *session.Manager           // Session cookie and store
	Metrics      *metrics.Collector         // Optional, nil disables
	Limiter      *middleware.RateLimiter    // Optional, nil disables rate limiting
	Now          func() time.Time           // Clock, time.Now when nil
}

// Server renders the restaurant site
type Server struct {
	cfg          *config.Config             // Configuration
	menu         backend.MenuService        // Menu catalog
	reservations backend.ReservationService // Reservations
	auth         backend.AuthService        // Login and signup
	sessions     *session.Manager           // Session cookie and store
	metrics      *metrics.Collector         // Optional metrics
	limiter      *middleware.RateLimiter    // Optional rate limiter
	now          func() time.Time           // Clock
	tmpl         *template.Template         // Parsed pages
	secure       bool                       // Secure flag of the flash cookie
}

// NewServer parses the templates and returns a ready server
func NewServer(d Deps) (*Server, error) {
	s := &Server{
		cfg:          d.Config,
		menu:         d.Menu,
		reservations: d.Reservations,
		auth:         d.Auth,
		sessions:     d.Sessions,
		metrics:      d.Metrics,
		limiter:      d.Limiter,
		now:          d.Now,
		secure:       d.Config.IsProd,
	}
	registerValidators()
	if s.now == nil {
		s.now = time.Now
	}
	tmpl, err := template.New("site").Funcs(s.funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl
	return s, nil
}

// location of "today" and local midnight
func (s *Server) location() *time.Location {
	if s.cfg.Location == nil {
		return time.Local
	}
	return s.cfg.Location
}
