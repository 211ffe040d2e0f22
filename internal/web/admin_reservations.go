package web

import (
	"errors"   // Error inspection
	"net/http" // Status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/backend" // Restaurant backend
	"royal_site/internal/domain"  // Reservations
)

const msgReservationsLoadFailed = "Failed to load reservations. Please try again later."

// AdminReservationListHandler lists every reservation. A reservation removed
// on the previous request stays hidden even if the backend still returns it.
func (s *Server) AdminReservationListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		flash := s.takeFlash(c)
		items, err := s.reservations.ListReservations(c.Request.Context())
		status := http.StatusOK
		var listError string
		if err != nil {
			status = http.StatusBadGateway
			listError = msgReservationsLoadFailed
		}
		if flash != nil && flash.Overlay == overlayRemoved {
			items = domain.Without(items, flash.ID)
		}
		s.render(c, status, "admin_reservations.html", navAdmin, "/admin/reservations", gin.H{
			"Title":     "Reservations",
			"Items":     items,
			"ListError": listError,
			"Flash":     flash,
		})
	}
}

// AdminReservationEditHandler shows the edit form for one reservation
func (s *Server) AdminReservationEditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		r, err := s.reservations.GetReservation(c.Request.Context(), id)
		if errors.Is(err, backend.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, navAdmin, "Reservation not found.")
			return
		}
		if err != nil {
			s.renderError(c, http.StatusBadGateway, navAdmin, msgReservationsLoadFailed)
			return
		}
		s.renderReservationForm(c, http.StatusOK, id, domain.EditFormFrom(r, s.location()), "")
	}
}

// AdminReservationUpdateHandler sends the edited fields, status included
func (s *Server) AdminReservationUpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var form domain.ReservationEditForm
		if err := c.ShouldBind(&form); err != nil {
			s.renderReservationForm(c, http.StatusBadRequest, id, form, bindError(err, domain.ErrMissingFields.Error(), domain.ErrInvalidGuests.Error()))
			return
		}
		if err := form.Validate(); err != nil {
			s.renderReservationForm(c, http.StatusUnprocessableEntity, id, form, err.Error())
			return
		}
		update, err := form.Update(s.location())
		if err != nil {
			s.renderReservationForm(c, http.StatusUnprocessableEntity, id, form, err.Error())
			return
		}
		if err := s.reservations.UpdateReservation(c.Request.Context(), id, update); err != nil {
			logrus.WithFields(logrus.Fields{
				"id":    id,  // Reservation
				"error": err, // Backend failure
			}).Error("Failed to update reservation")
			s.renderReservationForm(c, http.StatusBadGateway, id, form, backend.Message(err, "Failed to update reservation."))
			return
		}
		logrus.WithFields(logrus.Fields{
			"id":     id,            // Reservation
			"status": update.Status, // New status
		}).Info("Reservation updated")
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Reservation updated."})
		redirect(c, "/admin/reservations")
	}
}

// AdminReservationDeleteHandler hard deletes a reservation
func (s *Server) AdminReservationDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.reservations.DeleteReservation(c.Request.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{
				"id":    id,  // Reservation
				"error": err, // Backend failure
			}).Error("Failed to delete reservation")
			s.setFlash(c, Flash{Kind: flashError, Message: backend.Message(err, "Failed to cancel reservation.")})
			redirect(c, "/admin/reservations")
			return
		}
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Reservation removed.", Overlay: overlayRemoved, ID: id})
		redirect(c, "/admin/reservations")
	}
}

func (s *Server) renderReservationForm(c *gin.Context, status int, id string, form domain.ReservationEditForm, formError string) {
	s.render(c, status, "admin_reservation_form.html", navAdmin, "/admin/reservations", gin.H{
		"Title":         "Edit Reservation",
		"Action":        "/admin/reservations/" + id,
		"Form":          form,
		"FormError":     formError,
		"TimeSlots":     domain.TimeSlots,
		"KnownSlot":     slotLabel(form.TimeSlot) != form.TimeSlot,
		"StatusOptions": domain.StatusOptions,
	})
}
