package backend

import (
	"context"       // Request scoping
	"encoding/json" // Raw responses
	"fmt"           // Error wrapping
	"net/http"      // HTTP methods
	"net/url"       // Path escaping

	"github.com/sirupsen/logrus" // Logging of fallbacks

	"royal_site/internal/domain" // Reservations
)

// ReservationService is the reservation resource of the backend
type ReservationService interface {
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	ListReservationsForUser(ctx context.Context, owner domain.Owner) ([]domain.Reservation, error)
	CreateReservation(ctx context.Context, p domain.ReservationPayload) error
	UpdateReservation(ctx context.Context, id string, u domain.ReservationUpdate) error
	CancelReservation(ctx context.Context, id string) error
	DeleteReservation(ctx context.Context, id string) error
}

var _ ReservationService = (*Client)(nil)

const reservationPath = "/reservation"

// ListReservations fetches every reservation (GET /reservation)
func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return c.listReservations(ctx, "reservation.list", reservationPath)
}

// GetReservation finds one reservation in the collection
func (c *Client) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	items, err := c.ListReservations(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}
	r, ok := domain.FindReservation(items, id)
	if !ok {
		return domain.Reservation{}, ErrNotFound
	}
	return r, nil
}

// ListReservationsForUser returns only the reservations of owner, sorted by
// date then time slot. With a user id the scoped endpoint is tried first; on
// any failure the whole collection is fetched. Both paths are filtered by
// ownership because the backend is not guaranteed to scope its answer.
func (c *Client) ListReservationsForUser(ctx context.Context, owner domain.Owner) ([]domain.Reservation, error) {
	if owner.IsZero() {
		return []domain.Reservation{}, nil // Nothing identifies the user
	}
	if owner.ID != "" {
		path := reservationPath + "/user/" + url.PathEscape(owner.ID)
		items, err := c.listReservations(ctx, "reservation.list_user", path)
		if err == nil {
			return domain.SortByDateAndSlot(domain.FilterOwned(items, owner)), nil
		}
		logrus.WithFields(logrus.Fields{
			"user_id": owner.ID, // Session user
			"error":   err,      // Why the scoped fetch failed
		}).Warn("Scoped reservation fetch failed, falling back to the full list")
	}
	items, err := c.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortByDateAndSlot(domain.FilterOwned(items, owner)), nil
}

// CreateReservation books a table (POST /reservation/add). New bookings are always Pending.
func (c *Client) CreateReservation(ctx context.Context, p domain.ReservationPayload) error {
	p.Status = domain.StatusPending
	return c.do(ctx, "reservation.create", http.MethodPost, reservationPath+"/add", p, nil)
}

// UpdateReservation sends an admin partial update (PATCH /reservation/:id)
func (c *Client) UpdateReservation(ctx context.Context, id string, u domain.ReservationUpdate) error {
	return c.do(ctx, "reservation.update", http.MethodPatch, reservationPath+"/"+url.PathEscape(id), u, nil)
}

// CancelReservation sets the status to Cancelled (PATCH /reservation/:id)
func (c *Client) CancelReservation(ctx context.Context, id string) error {
	body := map[string]string{"status": domain.StatusCancelled}
	return c.do(ctx, "reservation.cancel", http.MethodPatch, reservationPath+"/"+url.PathEscape(id), body, nil)
}

// DeleteReservation hard deletes a reservation (DELETE /reservation/:id)
func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	return c.do(ctx, "reservation.delete", http.MethodDelete, reservationPath+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) listReservations(ctx context.Context, op, path string) ([]domain.Reservation, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[domain.Reservation](raw, "reservations")
	if err != nil {
		return nil, fmt.Errorf("%s: decode reservations: %w", op, err)
	}
	return items, nil
}
