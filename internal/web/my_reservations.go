package web

import (
	"net/http" // Status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/backend" // Restaurant backend
	"royal_site/internal/domain"  // Reservations
	"royal_site/internal/session" // Current session
)

// MyReservationsHandler lists the logged in user's own reservations, oldest
// day first. A reservation cancelled on the previous request is shown as
// Cancelled even if the backend list is stale.
func (s *Server) MyReservationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		flash := s.takeFlash(c)
		items, err := s.reservations.ListReservationsForUser(c.Request.Context(), sess.Owner())
		status := http.StatusOK
		var listError string
		if err != nil {
			status = http.StatusBadGateway
			listError = backend.Message(err, "No Reservations found")
		}
		if flash != nil && flash.Overlay == overlayCancelled {
			items = domain.MarkCancelled(items, flash.ID)
		}
		s.render(c, status, "my_reservations.html", navUser, "/my-reservations", gin.H{
			"Title":     "My Reservations",
			"Items":     items,
			"ListError": listError,
			"Flash":     flash,
		})
	}
}

// CancelMyReservationHandler cancels one of the user's reservations. The id
// must belong to the session user.
func (s *Server) CancelMyReservationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		id := c.Param("id")
		ctx := c.Request.Context()

		items, err := s.reservations.ListReservationsForUser(ctx, sess.Owner())
		if err != nil {
			s.setFlash(c, Flash{Kind: flashError, Message: backend.Message(err, "Failed to cancel reservation.")})
			redirect(c, "/my-reservations")
			return
		}
		r, ok := domain.FindReservation(items, id)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"user_id": sess.User.ID, // Who asked
				"id":      id,           // Reservation they do not own
			}).Warn("Cancel of a reservation outside the user's list")
			s.setFlash(c, Flash{Kind: flashError, Message: "Reservation not found."})
			redirect(c, "/my-reservations")
			return
		}
		if r.IsCancelled() {
			redirect(c, "/my-reservations")
			return
		}
		if err := s.reservations.CancelReservation(ctx, id); err != nil {
			s.setFlash(c, Flash{Kind: flashError, Message: backend.Message(err, "Failed to cancel reservation.")})
			redirect(c, "/my-reservations")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": sess.User.ID, // Owner
			"id":      id,           // Reservation
		}).Info("Reservation cancelled")
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Reservation cancelled.", Overlay: overlayCancelled, ID: id})
		redirect(c, "/my-reservations")
	}
}
