package domain

import (
	"encoding/json" // JSON decoding of polymorphic fields
	"errors"        // Sentinel validation errors
	"sort"          // Ordering of reservation lists
	"strconv"       // Guest option labels
	"strings"       // String manipulation
	"time"          // Reservation dates

	"github.com/sirupsen/logrus" // Logging of unreadable records
)

// Reservation statuses. Any status may be set from any other.
const (
	StatusPending   = "Pending"   // Default status of a new booking
	StatusConfirmed = "Confirmed" // Accepted by the restaurant
	StatusCancelled = "Cancelled" // Cancelled by the guest or staff
)

// StatusOptions lists the status domain in form order
var StatusOptions = []string{StatusPending, StatusConfirmed, StatusCancelled}

// DateLayout is the layout of HTML date inputs
const DateLayout = "2006-01-02"

// MaxGuestsSentinel is the guest count meaning "more than 10 people"
const MaxGuestsSentinel = 11

// Validation errors of the reservation forms
var (
	ErrMissingFields   = errors.New("Please fill in all required fields.")
	ErrInvalidEmail    = errors.New("Please enter a valid email address.")
	ErrInvalidDate     = errors.New("Please enter a valid date.")
	ErrPastDate        = errors.New("Please choose today or a later date.")
	ErrInvalidTimeSlot = errors.New("Please choose one of the available time slots.")
	ErrInvalidGuests   = errors.New("Please choose at least one guest.")
	ErrInvalidStatus   = errors.New("Please choose a valid status.")
)

// TimeSlot is a fixed seating window
type TimeSlot struct {
	Value string // Label sent to the backend, e.g. 18:00-20:00
	Label string // Human readable label
}

// TimeSlots lists the seating windows offered to guests
var TimeSlots = []TimeSlot{
	{Value: "11:00-13:00", Label: "11:00 AM - 1:00 PM"},
	{Value: "13:00-15:00", Label: "1:00 PM - 3:00 PM"},
	{Value: "18:00-20:00", Label: "6:00 PM - 8:00 PM"},
	{Value: "20:00-22:00", Label: "8:00 PM - 10:00 PM"},
}

// DefaultTimeSlot is preselected on the guest form
const DefaultTimeSlot = "18:00-20:00"

// DefaultGuests is preselected on the guest form
const DefaultGuests = 2

// GuestOption is one entry of the guest count select
type GuestOption struct {
	Value int    // Guest count, 11 meaning more than 10
	Label string // Human readable label
}

// GuestOptions returns 1..10 followed by the "more than 10" sentinel
func GuestOptions() []GuestOption {
	opts := make([]GuestOption, 0, MaxGuestsSentinel)
	for n := 1; n < MaxGuestsSentinel; n++ {
		label := strconv.Itoa(n) + " people"
		if n == 1 {
			label = "1 person"
		}
		opts = append(opts, GuestOption{Value: n, Label: label})
	}
	return append(opts, GuestOption{Value: MaxGuestsSentinel, Label: "More than 10 people"})
}

// Date is a reservation date that tolerates the formats the backend returns
type Date struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339 timestamps, plain dates, "" and null.
// Anything else decodes as a zero date so one bad record never hides the rest.
func (d *Date) UnmarshalJSON(data []byte) error {
	d.Time = time.Time{}
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		logrus.WithField("date", string(data)).Warn("Unreadable reservation date, showing it undated")
		return nil
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			d.Time = t
			return nil
		}
	}
	logrus.WithField("date", *s).Warn("Unreadable reservation date, showing it undated")
	return nil
}

// MarshalJSON writes the date as RFC 3339, zero dates as null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// GuestCount is a guest number the backend may send as a number or a string
type GuestCount int

// UnmarshalJSON accepts 4, "4", "" and null
func (g *GuestCount) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*g = GuestCount(n)
	return nil
}

// UserRef is the owning user of a reservation. The backend sends either the bare
// user id or a populated user object.
type UserRef struct {
	ID        string // User identifier
	Name      string // Populated name
	Email     string // Populated email
	Populated bool   // True when the backend sent an object
}

// UnmarshalJSON accepts a string id or an object
func (u *UserRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*u = UserRef{ID: id}
		return nil
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	*u = UserRef{ID: user.ID, Name: user.Name, Email: user.Email, Populated: true}
	return nil
}

// MarshalJSON writes the reference back in the shape it was received
func (u UserRef) MarshalJSON() ([]byte, error) {
	if !u.Populated {
		return json.Marshal(u.ID)
	}
	return json.Marshal(map[string]string{"_id": u.ID, "name": u.Name, "email": u.Email})
}

// Reservation represents a table booking
type Reservation struct {
	ID             string     `json:"_id,omitempty"`            // Backend identifier
	Name           string     `json:"name"`                     // Guest name
	Phone          string     `json:"phone"`                    // Contact phone
	Email          string     `json:"email"`                    // Contact email
	Date           Date       `json:"date"`                     // Booking day
	TimeSlot       string     `json:"timeSlot"`                 // Seating window label
	Guests         GuestCount `json:"guests"`                   // Number of guests
	SpecialRequest string     `json:"specialRequest,omitempty"` // Optional free text
	Status         string     `json:"status"`                   // Pending, Confirmed or Cancelled
	User           *UserRef   `json:"user,omitempty"`           // Optional owner
}

// IsCancelled reports whether the booking is cancelled
func (r Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// OwnerDisplay falls back through the nested user fields
func (r Reservation) OwnerDisplay() string {
	if r.User == nil || !r.User.Populated {
		return "—"
	}
	if r.User.Name != "" {
		return r.User.Name
	}
	if r.User.Email != "" {
		return r.User.Email
	}
	return "—"
}

// LocalDay returns the booking day in loc, formatted for a date input
func (r Reservation) LocalDay(loc *time.Location) string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.In(loc).Format(DateLayout)
}

// OwnedBy reports whether the reservation belongs to owner. With a user id the
// owning reference decides, falling back to email when the record carries none.
// With only an email the record email or the nested user email must match.
func (r Reservation) OwnedBy(owner Owner) bool {
	email := strings.TrimSpace(owner.Email)
	if owner.ID != "" {
		if r.User != nil && !r.User.Populated {
			return r.User.ID == owner.ID // Bare id reference
		}
		if r.User != nil && r.User.ID != "" {
			return r.User.ID == owner.ID // Populated object with id
		}
		return email != "" && strings.EqualFold(r.Email, email)
	}
	if email == "" {
		return false // Nothing identifies the owner, never show others
	}
	if strings.EqualFold(r.Email, email) {
		return true
	}
	return r.User != nil && r.User.Email != "" && strings.EqualFold(r.User.Email, email)
}

// FilterOwned keeps only the reservations of owner
func FilterOwned(items []Reservation, owner Owner) []Reservation {
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		if r.OwnedBy(owner) {
			out = append(out, r)
		}
	}
	return out
}

// SortByDateAndSlot orders reservations by date ascending, then by time slot.
// Records without a date go last. The input slice is not modified.
func SortByDateAndSlot(items []Reservation) []Reservation {
	out := append([]Reservation(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return b.Date.IsZero()
		}
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		return a.TimeSlot < b.TimeSlot
	})
	return out
}

// FindReservation returns the reservation with the given identifier
func FindReservation(items []Reservation, id string) (Reservation, bool) {
	for _, r := range items {
		if r.ID == id {
			return r, true
		}
	}
	return Reservation{}, false
}

// MarkCancelled returns a copy of items with reservation id set to Cancelled
func MarkCancelled(items []Reservation, id string) []Reservation {
	out := append([]Reservation(nil), items...)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = StatusCancelled
		}
	}
	return out
}

// Without returns a copy of items lacking reservation id
func Without(items []Reservation, id string) []Reservation {
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// BadgeColor maps a status to its badge color
func BadgeColor(status string) string {
	switch status {
	case StatusConfirmed:
		return "green"
	case StatusPending:
		return "yellow"
	case StatusCancelled:
		return "red"
	default:
		return "gray"
	}
}

// LocalMidnight parses a YYYY-MM-DD day as midnight in loc
func LocalMidnight(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Today returns local midnight of the day containing now
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ReservationForm holds the fields of the guest booking form. Presence and
// ranges are checked by the binding tags, Validate adds the calendar rules.
type ReservationForm struct {
	Name           string `form:"name" binding:"required,notblank"`       // Guest name
	Phone          string `form:"phone" binding:"required,notblank"`      // Contact phone
	Email          string `form:"email" binding:"required,email"`         // Contact email
	Date           string `form:"date" binding:"required"`                // YYYY-MM-DD
	TimeSlot       string `form:"timeSlot" binding:"required"`            // Seating window
	Guests         int    `form:"guests" binding:"required,min=1,max=11"` // Guest count, 11 for more than 10
	SpecialRequest string `form:"specialRequest"`                         // Optional free text
}

// NewReservationForm returns the guest form with its defaults
func NewReservationForm() ReservationForm {
	return ReservationForm{TimeSlot: DefaultTimeSlot, Guests: DefaultGuests}
}

// Validate checks the day and the slot: no past days, only offered slots
func (f ReservationForm) Validate(now time.Time, loc *time.Location) error {
	day, err := LocalMidnight(f.Date, loc)
	if err != nil {
		return err
	}
	if day.Before(Today(now, loc)) {
		return ErrPastDate
	}
	if !validTimeSlot(f.TimeSlot) {
		return ErrInvalidTimeSlot
	}
	return nil
}

// ReservationPayload is the body of a reservation create request
type ReservationPayload struct {
	Name           string `json:"name"`           // Guest name
	Phone          string `json:"phone"`          // Contact phone
	Email          string `json:"email"`          // Contact email
	Date           string `json:"date"`           // Local midnight, RFC 3339
	TimeSlot       string `json:"timeSlot"`       // Seating window
	Guests         int    `json:"guests"`         // Guest count
	SpecialRequest string `json:"specialRequest"` // Optional free text
	Status         string `json:"status"`         // Always Pending on create
	User           string `json:"user,omitempty"` // Owning user id when logged in
}

// Payload normalises a validated form into a create request
func (f ReservationForm) Payload(loc *time.Location) (ReservationPayload, error) {
	day, err := LocalMidnight(f.Date, loc)
	if err != nil {
		return ReservationPayload{}, err
	}
	return ReservationPayload{
		Name:           strings.TrimSpace(f.Name),
		Phone:          strings.TrimSpace(f.Phone),
		Email:          strings.TrimSpace(f.Email),
		Date:           day.Format(time.RFC3339),
		TimeSlot:       f.TimeSlot,
		Guests:         f.Guests,
		SpecialRequest: strings.TrimSpace(f.SpecialRequest),
		Status:         StatusPending,
	}, nil
}

// ReservationEditForm holds the fields of the admin edit form. Staff may pick
// past days, free-form slots and parties of any size.
type ReservationEditForm struct {
	Name           string `form:"name" binding:"required,notblank"`                            // Guest name
	Phone          string `form:"phone" binding:"required,notblank"`                           // Contact phone
	Email          string `form:"email" binding:"required,email"`                              // Contact email
	Date           string `form:"date" binding:"required"`                                     // YYYY-MM-DD
	TimeSlot       string `form:"timeSlot" binding:"required,notblank"`                        // Seating window, free-form
	Guests         int    `form:"guests" binding:"required,min=1"`                             // Guest count
	SpecialRequest string `form:"specialRequest"`                                              // Optional free text
	Status         string `form:"status" binding:"required,oneof=Pending Confirmed Cancelled"` // Any status of the domain
}

// EditFormFrom pre-fills the admin edit form from a fetched reservation
func EditFormFrom(r Reservation, loc *time.Location) ReservationEditForm {
	status := r.Status
	if status == "" {
		status = StatusPending
	}
	return ReservationEditForm{
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		Date:           r.LocalDay(loc),
		TimeSlot:       r.TimeSlot,
		Guests:         int(r.Guests),
		SpecialRequest: r.SpecialRequest,
		Status:         status,
	}
}

// Validate checks that the day is a calendar date
func (f ReservationEditForm) Validate() error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(f.Date)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ReservationUpdate is the body of an admin partial update
type ReservationUpdate struct {
	Name           string `json:"name"`           // Guest name
	Phone          string `json:"phone"`          // Contact phone
	Email          string `json:"email"`          // Contact email
	Date           string `json:"date"`           // Local midnight, RFC 3339
	TimeSlot       string `json:"timeSlot"`       // Seating window
	Guests         int    `json:"guests"`         // Guest count
	SpecialRequest string `json:"specialRequest"` // Optional free text
	Status         string `json:"status"`         // New status
}

// Update converts a validated admin form into a partial update body
func (f ReservationEditForm) Update(loc *time.Location) (ReservationUpdate, error) {
	day, err := LocalMidnight(f.Date, loc)
	if err != nil {
		return ReservationUpdate{}, err
	}
	return ReservationUpdate{
		Name:           strings.TrimSpace(f.Name),
		Phone:          strings.TrimSpace(f.Phone),
		Email:          strings.TrimSpace(f.Email),
		Date:           day.Format(time.RFC3339),
		TimeSlot:       strings.TrimSpace(f.TimeSlot),
		Guests:         f.Guests,
		SpecialRequest: strings.TrimSpace(f.SpecialRequest),
		Status:         f.Status,
	}, nil
}

func validTimeSlot(v string) bool {
	for _, ts := range TimeSlots {
		if ts.Value == v {
			return true
		}
	}
	return false
}
