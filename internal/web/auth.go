package web

import (
	"net/http" // Status codes
	"strings"  // Input trimming

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/backend" // Restaurant backend
	"royal_site/internal/domain"  // Session types
	"royal_site/internal/session" // Sessions
)

// Login form modes
const (
	modeLogin  = "login"
	modeSignup = "signup"
)

// Messages of the identity forms
const (
	msgLoginMissing  = "Please fill in all login fields."
	msgSignupMissing = "Please fill in all signup fields."
)

// LoginRequest is the posted login form
type LoginRequest struct {
	Email    string `form:"email" binding:"required,notblank"` // Login email
	Password string `form:"password" binding:"required"`       // Password, forwarded as typed
}

// SignupRequest is the posted signup form
type SignupRequest struct {
	Name     string `form:"name" binding:"required,notblank"` // Display name
	Email    string `form:"email" binding:"required,email"`   // Login email
	Password string `form:"password" binding:"required"`      // Password, forwarded as typed
}

// LoginPageHandler renders the two-mode identity form
func (s *Server) LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.Current(c).Authenticated() {
			redirect(c, "/") // Already logged in
			return
		}
		mode := modeLogin
		if c.Query("mode") == modeSignup {
			mode = modeSignup
		}
		s.renderLogin(c, http.StatusOK, mode, gin.H{})
	}
}

// LoginHandler forwards the credentials to the backend and starts a session
func (s *Server) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			s.renderLogin(c, http.StatusBadRequest, modeLogin, gin.H{"Error": msgLoginMissing, "Email": req.Email})
			return
		}
		req.Email = strings.TrimSpace(req.Email)

		res, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			status, msg := http.StatusBadGateway, backend.Message(err, "Login failed. Please try again.")
			if backend.IsUnauthorized(err) {
				status, msg = http.StatusUnauthorized, "Invalid email or password."
			}
			s.metrics.ObserveAuth("login_failed")
			s.renderLogin(c, status, modeLogin, gin.H{"Error": msg, "Email": req.Email})
			return
		}

		userType := domain.UserTypeUser
		if s.cfg.IsAdminEmail(res.User.Email) {
			userType = domain.UserTypeAdmin
		}
		if _, err := s.sessions.Login(c, res.User, userType, res.Token); err != nil {
			logrus.WithError(err).Error("Failed to store the session")
			s.renderLogin(c, http.StatusInternalServerError, modeLogin, gin.H{"Error": "Login failed. Please try again.", "Email": req.Email})
			return
		}

		target := s.sessions.TakeRedirect(c)
		if target == "" {
			target = "/"
		}
		redirect(c, target)
	}
}

// SignupHandler creates an account and switches the form back to login
func (s *Server) SignupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBind(&req); err != nil {
			s.renderLogin(c, http.StatusBadRequest, modeSignup, gin.H{
				"Error": bindError(err, msgSignupMissing, msgSignupMissing),
				"Name":  req.Name,
				"Email": req.Email,
			})
			return
		}
		req.Name = strings.TrimSpace(req.Name)

		if err := s.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
			status, msg := http.StatusBadGateway, backend.Message(err, "Sign up failed.")
			if backend.IsConflict(err) {
				status, msg = http.StatusConflict, "User exists already, please login instead."
			}
			s.renderLogin(c, status, modeSignup, gin.H{"Error": msg, "Name": req.Name, "Email": req.Email})
			return
		}

		logrus.WithField("email", req.Email).Info("User signed up")
		s.metrics.ObserveAuth("signup")
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Sign up successful!"})
		redirect(c, "/login")
	}
}

// LogoutHandler ends the session
func (s *Server) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.sessions.Logout(c); err != nil {
			logrus.WithError(err).Error("Failed to remove the session")
		}
		redirect(c, "/")
	}
}

// SessionStatusHandler reports the session state for open tabs
func (s *Server) SessionStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		sess := session.Current(c)
		if !sess.Authenticated() {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"name":          sess.User.DisplayName(),
			"userType":      sess.UserType,
		})
	}
}

func (s *Server) renderLogin(c *gin.Context, status int, mode string, data gin.H) {
	for _, k := range []string{"Error", "Name", "Email"} {
		if _, ok := data[k]; !ok {
			data[k] = ""
		}
	}
	data["Title"] = "Login"
	data["Mode"] = mode
	s.render(c, status, "login.html", navUser, "/login", data)
}
