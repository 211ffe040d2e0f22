package web

import (
	"net/http" // Status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/backend" // Error classification
	"royal_site/internal/domain"  // Reservation form
	"royal_site/internal/session" // Current session
)

// featuredCount is how many dishes the home page shows
const featuredCount = 4

// Messages of the guest booking form
const (
	msgBookingFailed  = "Failed to make reservation. Please try again."
	msgSlotTaken      = "This time slot is already booked. Please choose another slot or date."
	msgBookingTitle   = "Reservation Successful!"
	msgBookingSuccess = "We've received your booking request and will confirm shortly."
	msgMenuLoadFailed = "Failed to load menu. Please try again later."
)

// HomeHandler renders the landing page with the featured dishes and the guest form
func (s *Server) HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		form := domain.NewReservationForm()
		if sess := session.Current(c); sess.Authenticated() {
			form.Name = sess.User.Name // Prefill from the logged in user
			form.Email = sess.User.Email
		}
		s.renderHome(c, http.StatusOK, form, "")
	}
}

// CreateReservationHandler books a table from the guest form
func (s *Server) CreateReservationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var form domain.ReservationForm
		if err := c.ShouldBind(&form); err != nil {
			s.renderHome(c, http.StatusBadRequest, form, bindError(err, domain.ErrMissingFields.Error(), domain.ErrInvalidGuests.Error()))
			return
		}
		loc := s.location()
		if err := form.Validate(s.now(), loc); err != nil {
			s.renderHome(c, http.StatusUnprocessableEntity, form, err.Error())
			return
		}
		payload, err := form.Payload(loc)
		if err != nil {
			s.renderHome(c, http.StatusUnprocessableEntity, form, err.Error())
			return
		}
		if sess := session.Current(c); sess.Authenticated() {
			payload.User = sess.User.ID // Link the booking to its owner
		}
		if err := s.reservations.CreateReservation(c.Request.Context(), payload); err != nil {
			logrus.WithFields(logrus.Fields{
				"email":     payload.Email,    // Guest email
				"date":      payload.Date,     // Requested day
				"time_slot": payload.TimeSlot, // Requested slot
				"error":     err,              // Backend failure
			}).Error("Reservation failed")
			if backend.IsConflict(err) {
				s.renderHome(c, http.StatusConflict, form, msgSlotTaken)
				return
			}
			s.renderHome(c, http.StatusBadGateway, form, msgBookingFailed)
			return
		}
		logrus.WithFields(logrus.Fields{
			"date":      payload.Date,     // Booked day
			"time_slot": payload.TimeSlot, // Booked slot
			"guests":    payload.Guests,   // Party size
		}).Info("Reservation created")
		s.setFlash(c, Flash{Kind: flashSuccess, Title: msgBookingTitle, Message: msgBookingSuccess, DismissMs: guestBannerDismiss})
		redirect(c, "/#reservation")
	}
}

// renderHome fetches the featured dishes and renders the home page around form
func (s *Server) renderHome(c *gin.Context, status int, form domain.ReservationForm, reservationError string) {
	var menuError string
	items, err := s.menu.ListMenu(c.Request.Context())
	if err != nil {
		menuError = msgMenuLoadFailed
	}
	s.render(c, status, "home.html", navUser, "/", gin.H{
		"Title":            "Banerjee Royals",
		"Featured":         domain.FeaturedItems(items, s.cfg.FeaturedCategories, featuredCount),
		"MenuError":        menuError,
		"Form":             form,
		"ReservationError": reservationError,
		"TimeSlots":        domain.TimeSlots,
		"GuestOptions":     domain.GuestOptions(),
		"MinDate":          domain.Today(s.now(), s.location()).Format(domain.DateLayout),
	})
}
