package web

import (
	"encoding/base64" // Cookie-safe encoding
	"encoding/json"   // Flash payload
	"net/http"        // Cookie attributes

	"github.com/gin-gonic/gin" // Gin web framework
)

const flashCookie = "royal_flash"

// Flash kinds
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Local state overlays carried by a flash
const (
	overlayCancelled = "cancelled" // Show the reservation as Cancelled
	overlayRemoved   = "removed"   // Hide the reservation
)

// guestBannerDismiss is how long the booking banner stays up
const guestBannerDismiss = 5000

// Flash is a one-shot message shown on the next page
type Flash struct {
	Kind      string `json:"k"`           // success or error
	Title     string `json:"t,omitempty"` // Optional bold heading
	Message   string `json:"m"`           // Body text
	DismissMs int    `json:"d,omitempty"` // Auto dismiss after this many milliseconds, 0 keeps it
	Overlay   string `json:"o,omitempty"` // cancelled or removed
	ID        string `json:"i,omitempty"` // Record the overlay applies to
}

// setFlash stores f for the next request
func (s *Server) setFlash(c *gin.Context, f Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", s.secure, true)
}

// takeFlash reads and clears the pending flash, nil when there is none
func (s *Server) takeFlash(c *gin.Context) *Flash {
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", s.secure, true)
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
