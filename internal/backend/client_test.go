package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royal_site/internal/domain"
	"royal_site/internal/metrics"
)

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeBackend answers each "METHOD /path" with a canned status and body.
type fakeBackend struct {
	mu        sync.Mutex
	routes    map[string]func(w http.ResponseWriter)
	requests  []recorded
	server    *httptest.Server
	collector *metrics.Collector
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter){}, collector: metrics.New("test")}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{Method: r.Method, Path: r.URL.Path}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, rec)
		h, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			http.Error(w, `{"message":"no route"}`, http.StatusNotFound)
			return
		}
		h(w)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) on(method, path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[method+" "+path] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (fb *fakeBackend) calls() []recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recorded(nil), fb.requests...)
}

func (fb *fakeBackend) client() *Client {
	return NewClient(fb.server.URL, 2*time.Second, fb.collector)
}

func TestListMenu(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[{"_id":"m1","name":"Biryani","price":"350","category":"Main Course","vegType":"Non-Veg"}]}`)

	items, err := fb.client().ListMenu(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, domain.Number(350), items[0].Price)
}

func TestListMenuEmptyEnvelope(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"message":"ok"}`)

	items, err := fb.client().ListMenu(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListsSurviveUnreadableRecords(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[{"_id":"m1","name":"Thali","price":"Rs 250"},{"_id":"m2","name":"Lassi","price":80}]}`)
	fb.on("GET", "/reservation", 200, `{"reservations":[
		{"_id":"r1","email":"me@x.com","date":"May 2, 2024","timeSlot":"13:00-15:00","status":"Pending"},
		{"_id":"r2","email":"me@x.com","date":"2024-05-01","timeSlot":"18:00-20:00","status":"Pending"}
	]}`)
	c := fb.client()

	menu, err := c.ListMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, domain.Number(0), menu[0].Price)
	assert.Equal(t, domain.Number(80), menu[1].Price)

	all, err := c.ListReservations(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := c.ListReservationsForUser(context.Background(), domain.Owner{Email: "me@x.com"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "r2", mine[0].ID)
	assert.True(t, mine[1].Date.IsZero(), "the unreadable date is shown undated")
}

func TestMenuWrites(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST", "/menu/add", 201, `{"message":"created"}`)
	fb.on("PATCH", "/menu/m1", 200, `{}`)
	fb.on("DELETE", "/menu/m1", 200, ``)
	c := fb.client()
	item := domain.MenuItem{Name: "Lassi", Description: "Sweet", Price: 80, Image: "i", Category: "Beverage", VegType: "Veg"}

	require.NoError(t, c.AddMenuItem(context.Background(), item))
	require.NoError(t, c.UpdateMenuItem(context.Background(), "m1", item))
	require.NoError(t, c.DeleteMenuItem(context.Background(), "m1"))

	calls := fb.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "Lassi", calls[0].Body["name"])
	assert.Equal(t, 80.0, calls[0].Body["price"])
	assert.NotContains(t, calls[0].Body, "_id")
	assert.Equal(t, "PATCH", calls[1].Method)
	assert.Equal(t, "/menu/m1", calls[2].Path)
}

func TestGetMenuItemNotFound(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[]}`)

	_, err := fb.client().GetMenuItem(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorClassification(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST", "/userlogin", 401, `{"message":"Invalid credentials"}`)
	fb.on("POST", "/userssignup", 409, `{"message":"User exists"}`)
	fb.on("POST", "/reservation/add", 400, `{"message":"Slot already booked"}`)
	fb.on("PATCH", "/reservation/r1", 500, `not json`)
	c := fb.client()
	ctx := context.Background()

	_, err := c.Login(ctx, "a@x.com", "pw")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsConflict(err))

	err = c.Signup(ctx, "A", "a@x.com", "pw")
	assert.True(t, IsConflict(err))

	err = c.CreateReservation(ctx, domain.ReservationPayload{Name: "A"})
	assert.True(t, IsConflict(err), "message pattern counts as conflict")
	assert.Equal(t, "Slot already booked", Message(err, "fallback"))

	err = c.CancelReservation(ctx, "r1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestTransportErrorIsWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	_, err := c.ListMenu(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "menu.list")
	assert.False(t, IsConflict(err))
	assert.False(t, IsUnauthorized(err))
}

func TestLoginShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantID    string
		wantEmail string
		wantToken string
	}{
		{"nested user with token", `{"user":{"_id":"u1","name":"Ray","email":"ray@x.com"},"token":"t0k"}`, "u1", "ray@x.com", "t0k"},
		{"bare user without email", `{"id":"u2","name":"Ray"}`, "u2", "typed@x.com", ""},
		{"empty body", ``, "", "typed@x.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.on("POST", "/userlogin", 201, tt.body)

			res, err := fb.client().Login(context.Background(), "typed@x.com", "pw")

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, res.User.ID)
			assert.Equal(t, tt.wantEmail, res.User.Email)
			assert.Equal(t, tt.wantToken, res.Token)
			assert.Equal(t, "typed@x.com", fb.calls()[0].Body["email"])
		})
	}
}

func TestCreateReservationForcesPending(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("POST", "/reservation/add", 201, `{"message":"ok"}`)

	err := fb.client().CreateReservation(context.Background(), domain.ReservationPayload{Name: "A. Ray", Guests: 2, Status: domain.StatusConfirmed})

	require.NoError(t, err)
	calls := fb.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Pending", calls[0].Body["status"])
	assert.Equal(t, 2.0, calls[0].Body["guests"])
}

const allReservations = `{"reservations":[
	{"_id":"r1","email":"me@x.com","date":"2024-05-02","timeSlot":"13:00-15:00","status":"Pending"},
	{"_id":"r2","email":"other@x.com","date":"2024-05-01","timeSlot":"18:00-20:00","status":"Pending","user":"u1"},
	{"_id":"r3","email":"ME@x.com","date":"2024-05-01","timeSlot":"11:00-13:00","status":"Confirmed"},
	{"_id":"r4","email":"other@x.com","date":"2024-05-01","timeSlot":"11:00-13:00","status":"Confirmed","user":{"_id":"u9","email":"someone@x.com"}}
]}`

func TestListReservationsForUserScoped(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/reservation/user/u1", 200, allReservations) // a backend that ignores the scope

	items, err := fb.client().ListReservationsForUser(context.Background(), domain.Owner{ID: "u1", Email: "me@x.com"})

	require.NoError(t, err)
	var ids []string
	for _, r := range items {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids)
	assert.Len(t, fb.calls(), 1)
}

func TestListReservationsForUserFallsBack(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/reservation/user/u1", 500, `{"message":"boom"}`)
	fb.on("GET", "/reservation", 200, allReservations)

	items, err := fb.client().ListReservationsForUser(context.Background(), domain.Owner{ID: "u1", Email: "me@x.com"})

	require.NoError(t, err)
	require.Len(t, items, 3)
	calls := fb.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/reservation/user/u1", calls[0].Path)
	assert.Equal(t, "/reservation", calls[1].Path)
}

func TestListReservationsForUserEmailOnly(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/reservation", 200, `[
		{"_id":"a","email":"x@x.com","user":{"_id":"u5","email":"Me@X.com"}},
		{"_id":"b","email":"me@x.com"},
		{"_id":"c","email":"x@x.com"}
	]`)

	items, err := fb.client().ListReservationsForUser(context.Background(), domain.Owner{Email: "me@x.com"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{items[0].ID, items[1].ID})
	assert.Len(t, fb.calls(), 1, "no scoped call without a user id")
}

func TestListReservationsForUserAnonymous(t *testing.T) {
	fb := newFakeBackend(t)
	items, err := fb.client().ListReservationsForUser(context.Background(), domain.Owner{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, fb.calls())
}

func TestReservationWrites(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("PATCH", "/reservation/r1", 200, `{}`)
	fb.on("DELETE", "/reservation/r1", 200, `{}`)
	c := fb.client()
	ctx := context.Background()

	require.NoError(t, c.CancelReservation(ctx, "r1"))
	require.NoError(t, c.UpdateReservation(ctx, "r1", domain.ReservationUpdate{Name: "N", Status: domain.StatusConfirmed, Guests: 3}))
	require.NoError(t, c.DeleteReservation(ctx, "r1"))

	calls := fb.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, map[string]any{"status": "Cancelled"}, calls[0].Body)
	assert.Equal(t, "Confirmed", calls[1].Body["status"])
	assert.Equal(t, "DELETE", calls[2].Method)
}

func TestGetReservation(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/reservation", 200, allReservations)

	r, err := fb.client().GetReservation(context.Background(), "r3")
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", r.Status)

	_, err = fb.client().GetReservation(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
