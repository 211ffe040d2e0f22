package web

import (
	"html/template" // Template functions
	"net/http"      // Status codes
	"strconv"       // Guest labels

	"github.com/gin-gonic/gin" // Gin web framework

	"royal_site/internal/domain"  // Display helpers
	"royal_site/internal/session" // Current session
)

// displayDateLayout formats reservation dates in lists
const displayDateLayout = "Mon, 02 Jan 2006"

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"price": func(n domain.Number) string { return n.String() },
		"badge": domain.BadgeColor,
		"day": func(d domain.Date) string {
			if d.IsZero() {
				return "—"
			}
			return d.In(s.location()).Format(displayDateLayout)
		},
		"slotLabel": slotLabel,
		"guestLabel": func(g domain.GuestCount) string {
			if int(g) >= domain.MaxGuestsSentinel {
				return "More than 10"
			}
			return strconv.Itoa(int(g))
		},
	}
}

// slotLabel returns the human label of a time slot, or the raw value
func slotLabel(v string) string {
	for _, ts := range domain.TimeSlots {
		if ts.Value == v {
			return ts.Label
		}
	}
	return v
}

// render adds the layout data (navbar, session, flash) and renders name
func (s *Server) render(c *gin.Context, status int, name, variant, active string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := session.Current(c)
	data["Nav"] = navbar(variant, active)
	data["Authenticated"] = sess.Authenticated()
	data["IsAdmin"] = sess.IsAdmin()
	if sess.Authenticated() {
		data["UserName"] = sess.User.DisplayName()
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = s.takeFlash(c)
	}
	data["BottomLinks"] = bottomLinks
	data["Year"] = s.now().In(s.location()).Year()
	c.HTML(status, name, data)
}

// renderError shows the error page inside the given navbar variant
func (s *Server) renderError(c *gin.Context, status int, variant, message string) {
	s.render(c, status, "error.html", variant, "", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// forbidden is the page logged in non-admins get on admin views
func (s *Server) forbidden(c *gin.Context) {
	s.renderError(c, http.StatusForbidden, navUser, "This area is reserved for restaurant staff.")
}

// redirect answers a form post with 303 See Other
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
