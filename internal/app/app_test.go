package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thewell/wellcal/internal/config"
	"github.com/thewell/wellcal/pkg/device"
	"github.com/thewell/wellcal/pkg/kvstore"
)

func testConfig() config.Application {
	cfg := config.Application{Listen: ":0"}
	cfg.Store.Backend = "memory"
	cfg.Ledger.Mode = "counting"
	cfg.Ledger.VoteLock = true
	cfg.Activity.Size = 10
	return cfg
}

func newTestHandler(t *testing.T, cfg config.Application) (http.Handler, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	deps := BuildDependencies(store, cfg)
	r := mux.NewRouter()
	SetupMiddleware(r, deps)
	RegisterRoutes(r, deps)
	return WithCORS(r, cfg), store
}

func TestDeviceIdentity(t *testing.T) {
	var seen string
	handler := deviceIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = device.CurrentId(r.Context())
	}))

	t.Run("should prefer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(device.HeaderName, "from-header")
		req.AddCookie(&http.Cookie{Name: device.CookieName, Value: "from-cookie"})
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "from-header", seen)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("should fall back to cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: device.CookieName, Value: "from-cookie"})

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "from-cookie", seen)
	})

	t.Run("should issue new id cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, device.CookieName, cookies[0].Name)
		assert.Equal(t, seen, cookies[0].Value)
		assert.NotEmpty(t, seen)
	})
}

func TestApplicationRoutes(t *testing.T) {
	t.Run("should book through the api and keep votes per device", func(t *testing.T) {
		// given
		handler, store := newTestHandler(t, testConfig())
		req := httptest.NewRequest("POST", "/api/day/2024-06-10/morning", nil)
		req.Header.Set(device.HeaderName, "tablet")
		rr := httptest.NewRecorder()

		// when
		handler.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		votes, err := store.Get(context.Background(), "myvotes:tablet")
		require.NoError(t, err)
		assert.JSONEq(t, `{"2024-06-10":{"morning":true}}`, votes)

		grid := httptest.NewRecorder()
		handler.ServeHTTP(grid, httptest.NewRequest("GET", "/api/bookings/2024-06/grid", nil))
		assert.Equal(t, http.StatusOK, grid.Code)

		activity := httptest.NewRecorder()
		handler.ServeHTTP(activity, httptest.NewRequest("GET", "/api/activity", nil))
		assert.Contains(t, activity.Body.String(), "Booked morning on 2024-06-10")
	})

	t.Run("should limit mutating requests", func(t *testing.T) {
		// given
		cfg := testConfig()
		cfg.Ledger.VoteLock = false
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 2
		handler, _ := newTestHandler(t, cfg)

		// when
		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("POST", "/api/day/2024-06-10/afternoon", nil)
			req.Header.Set(device.HeaderName, "phone")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}
		read := httptest.NewRecorder()
		readReq := httptest.NewRequest("GET", "/api/day/2024-06-10", nil)
		readReq.Header.Set(device.HeaderName, "phone")
		handler.ServeHTTP(read, readReq)

		// then
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.Equal(t, http.StatusOK, read.Code)
	})

	t.Run("should limit clients without device id", func(t *testing.T) {
		// given
		cfg := testConfig()
		cfg.Ledger.VoteLock = false
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 2
		handler, _ := newTestHandler(t, cfg)

		// when
		codes := make([]int, 0, 5)
		for i := 0; i < 5; i++ {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/day/2024-06-10/afternoon", nil))
			codes = append(codes, rr.Code)
		}

		// then
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests,
			http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	})

	t.Run("should limit per host across device ids", func(t *testing.T) {
		// given
		cfg := testConfig()
		cfg.Ledger.VoteLock = false
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 2
		handler, _ := newTestHandler(t, cfg)

		// when
		codes := make([]int, 0, 3)
		for _, id := range []string{"phone-a", "phone-b", "phone-c"} {
			req := httptest.NewRequest("POST", "/api/day/2024-06-10/afternoon", nil)
			req.Header.Set(device.HeaderName, id)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}
		other := httptest.NewRequest("POST", "/api/day/2024-06-10/afternoon", nil)
		other.RemoteAddr = "198.51.100.7:4321"
		otherRec := httptest.NewRecorder()
		handler.ServeHTTP(otherRec, other)

		// then
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.Equal(t, http.StatusOK, otherRec.Code)
	})

	t.Run("should answer cors preflight for configured origin", func(t *testing.T) {
		cfg := testConfig()
		cfg.Frontend.Origins = []string{"http://localhost:5173"}
		handler, _ := newTestHandler(t, cfg)
		req := httptest.NewRequest("OPTIONS", "/api/day/2024-06-10/morning", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("should open memory store", func(t *testing.T) {
		store, closeStore, err := OpenStore(testConfig())

		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &kvstore.MemoryStore{}, store)
	})

	t.Run("should open and migrate sqlite store", func(t *testing.T) {
		cfg := testConfig()
		cfg.Store.Backend = "sqlite"
		cfg.Store.SQLite.Path = ":memory:"

		store, closeStore, err := OpenStore(cfg)

		require.NoError(t, err)
		defer closeStore()
		require.NoError(t, store.Set(context.Background(), "bookings:2024-06", "{}"))
		keys, err := store.Keys(context.Background(), "bookings:")
		require.NoError(t, err)
		assert.Equal(t, []string{"bookings:2024-06"}, keys)
	})

	t.Run("should reject unknown backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.Store.Backend = "etcd"

		_, _, err := OpenStore(cfg)

		assert.Error(t, err)
	})
}
