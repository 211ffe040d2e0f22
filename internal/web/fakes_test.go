package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"royal_site/internal/backend"
	"royal_site/internal/cache"
	"royal_site/internal/config"
	"royal_site/internal/domain"
	"royal_site/internal/metrics"
	"royal_site/internal/session"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// fixedNow is 10:00 on 1 May 2024 in IST
var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, ist)

type fakeMenu struct {
	mu      sync.Mutex
	items   []domain.MenuItem
	err     error
	added   []domain.MenuItem
	updated map[string]domain.MenuItem
	deleted []string
}

func (f *fakeMenu) ListMenu(context.Context) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.MenuItem(nil), f.items...), f.err
}

func (f *fakeMenu) GetMenuItem(ctx context.Context, id string) (domain.MenuItem, error) {
	items, err := f.ListMenu(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	it, ok := domain.FindMenuItem(items, id)
	if !ok {
		return domain.MenuItem{}, backend.ErrNotFound
	}
	return it, nil
}

func (f *fakeMenu) AddMenuItem(_ context.Context, item domain.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, item)
	return f.err
}

func (f *fakeMenu) UpdateMenuItem(_ context.Context, id string, item domain.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]domain.MenuItem{}
	}
	f.updated[id] = item
	return f.err
}

func (f *fakeMenu) DeleteMenuItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

// fakeReservations never changes its list, like a backend whose reads lag behind writes
type fakeReservations struct {
	mu        sync.Mutex
	items     []domain.Reservation
	listErr   error
	createErr error
	created   []domain.ReservationPayload
	updated   map[string]domain.ReservationUpdate
	cancelled []string
	deleted   []string
}

func (f *fakeReservations) ListReservations(context.Context) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Reservation(nil), f.items...), f.listErr
}

func (f *fakeReservations) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	items, err := f.ListReservations(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}
	r, ok := domain.FindReservation(items, id)
	if !ok {
		return domain.Reservation{}, backend.ErrNotFound
	}
	return r, nil
}

func (f *fakeReservations) ListReservationsForUser(ctx context.Context, owner domain.Owner) ([]domain.Reservation, error) {
	items, err := f.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortByDateAndSlot(domain.FilterOwned(items, owner)), nil
}

func (f *fakeReservations) CreateReservation(_ context.Context, p domain.ReservationPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return f.createErr
}

func (f *fakeReservations) UpdateReservation(_ context.Context, id string, u domain.ReservationUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]domain.ReservationUpdate{}
	}
	f.updated[id] = u
	return nil
}

func (f *fakeReservations) CancelReservation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeReservations) DeleteReservation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAuth accepts password "secret" for any email and rejects signups of taken@x.com
type fakeAuth struct {
	users map[string]domain.User
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (backend.LoginResult, error) {
	if password != "secret" {
		return backend.LoginResult{}, &backend.APIError{Op: "auth.login", Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	u, ok := f.users[email]
	if !ok {
		u = domain.User{ID: "id-" + email, Name: "Guest", Email: email}
	}
	return backend.LoginResult{User: u, Token: "tok"}, nil
}

func (f *fakeAuth) Signup(_ context.Context, name, email, password string) error {
	if email == "taken@x.com" {
		return &backend.APIError{Op: "auth.signup", Status: http.StatusBadRequest, Message: "User already exists"}
	}
	return nil
}

type testSite struct {
	menu         *fakeMenu
	reservations *fakeReservations
	auth         *fakeAuth
	cfg          *config.Config
	server       *httptest.Server
	client       *http.Client
}

type siteOption func(*testSite)

func withAdmins(emails ...string) siteOption {
	return func(ts *testSite) { ts.cfg.AdminEmails = emails }
}

func newTestSite(t *testing.T, opts ...siteOption) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ts := &testSite{
		menu:         &fakeMenu{},
		reservations: &fakeReservations{},
		auth:         &fakeAuth{users: map[string]domain.User{}},
		cfg: &config.Config{
			Location:           ist,
			AdminEmails:        []string{"admin@x.com"},
			FeaturedCategories: []string{"Main Course"},
		},
	}
	for _, opt := range opts {
		opt(ts)
	}

	srv, err := NewServer(Deps{
		Config:       ts.cfg,
		Menu:         ts.menu,
		Reservations: ts.reservations,
		Auth:         ts.auth,
		Sessions:     session.NewManager(session.NewRedisStore(cache.New(rdb, "test:")), "secret", time.Hour, false),
		Metrics:      metrics.New("test"),
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	ts.server = httptest.NewServer(srv.Router())
	t.Cleanup(ts.server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	ts.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse // Assert on redirects explicitly
		},
	}
	return ts
}

type page struct {
	Status   int
	Location string
	Body     string
}

func (ts *testSite) get(t *testing.T, path string) page {
	t.Helper()
	resp, err := ts.client.Get(ts.server.URL + path)
	require.NoError(t, err)
	return readPage(t, resp)
}

func (ts *testSite) post(t *testing.T, path string, form url.Values) page {
	t.Helper()
	resp, err := ts.client.PostForm(ts.server.URL+path, form)
	require.NoError(t, err)
	return readPage(t, resp)
}

func (ts *testSite) login(t *testing.T, email string) page {
	t.Helper()
	return ts.post(t, "/login", url.Values{"email": {email}, "password": {"secret"}})
}

func readPage(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}
