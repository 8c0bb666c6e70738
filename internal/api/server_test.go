package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleafu/water/internal/api/handler"
	"github.com/mapleleafu/water/internal/cache"
	"github.com/mapleleafu/water/internal/config"
	"github.com/mapleleafu/water/internal/notifications"
	"github.com/mapleleafu/water/internal/push"
	"github.com/mapleleafu/water/internal/stats"
	"github.com/mapleleafu/water/internal/store"
)

const (
	appSecret  = "app-secret"
	cronSecret = "cron-secret"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type recordingProvider struct {
	mu   sync.Mutex
	sent []push.Message
}

func (p *recordingProvider) Send(_ context.Context, msg push.Message) push.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return push.Result{Outcome: push.Delivered, StatusCode: http.StatusCreated}
}

type testServer struct {
	router   http.Handler
	store    *store.Memory
	provider *recordingProvider
	cache    *cache.Cache
}

// pausingEngine blocks its first GetStats call after the snapshot is
// computed until release is closed.
type pausingEngine struct {
	*stats.Engine
	calls    atomic.Int32
	computed chan struct{}
	release  chan struct{}
}

func (e *pausingEngine) GetStats(ctx context.Context, userID string, goal int) (*stats.Snapshot, error) {
	snap, err := e.Engine.GetStats(ctx, userID, goal)
	if e.calls.Add(1) == 1 {
		close(e.computed)
		<-e.release
	}
	return snap, err
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	return newTestServerWith(t, nil, mutate...)
}

// newTestServerWith optionally wraps the stats engine before wiring it.
func newTestServerWith(t *testing.T, wrap func(*stats.Engine) handler.StatsEngine, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{
		CORSAllowOrigins: []string{"http://localhost:5173"},
		AppSecret:        appSecret,
		CronSecret:       cronSecret,
		VAPIDPublicKey:   "BPublicKey",
		DefaultGoal:      2000,
		DispatchWorkers:  4,
		StatsCacheTTL:    time.Minute,
		CacheEnabled:     true,
	}
	for _, m := range mutate {
		m(cfg)
	}

	clock := func() time.Time { return testNow }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := store.NewMemory()
	mem.SetClock(clock)
	provider := &recordingProvider{}
	engine := stats.NewEngine(mem, time.UTC)
	engine.SetClock(clock)
	var statsEngine handler.StatsEngine = engine
	if wrap != nil {
		statsEngine = wrap(engine)
	}
	c := cache.New(cfg.CacheEnabled)

	h := handler.New(handler.Deps{
		Store:      mem,
		Dispatcher: notifications.NewDispatcher(mem, provider, logger, notifications.WithWorkers(cfg.DispatchWorkers), notifications.WithClock(clock)),
		Stats:      statsEngine,
		Cache:      c,
		Config:     cfg,
		Logger:     logger,
	})
	h.SetClock(clock)

	return &testServer{router: NewRouter(h, cfg), store: mem, provider: provider, cache: c}
}

type call struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func withKey(method, path, body string) call {
	return call{method: method, path: path, body: body, headers: map[string]string{"x-api-key": appSecret}}
}

func withBearer(path string) call {
	return call{method: http.MethodGet, path: path, headers: map[string]string{"Authorization": "Bearer " + cronSecret}}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	} `json:"error"`
}

func (s *testServer) createUser(t *testing.T, name string) store.Subscriber {
	t.Helper()
	rec := s.do(t, withKey(http.MethodPost, "/users", `{"name":"`+name+`"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[store.Subscriber](t, rec)
}

func (s *testServer) subscribe(t *testing.T, userID, endpoint, tz string) {
	t.Helper()
	body := `{"userId":"` + userID + `","endpoint":"` + endpoint + `","keys":{"p256dh":"pk","auth":"ak"},"timezone":"` + tz + `"}`
	rec := s.do(t, withKey(http.MethodPost, "/subscribe", body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_Gates(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		call call
	}{
		{"no api key", call{method: http.MethodGet, path: "/users"}},
		{"wrong api key", call{method: http.MethodGet, path: "/users", headers: map[string]string{"x-api-key": "nope"}}},
		{"no bearer", call{method: http.MethodGet, path: "/trigger-reminders"}},
		{"api key on cron route", call{method: http.MethodGet, path: "/force-reminders", headers: map[string]string{"x-api-key": appSecret}}},
		{"app secret as bearer", call{method: http.MethodGet, path: "/trigger-reminders", headers: map[string]string{"Authorization": "Bearer " + appSecret}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.call)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestRouter_UnconfiguredSecretsDenyEverything(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.AppSecret = ""
		c.CronSecret = ""
	})

	rec := s.do(t, call{method: http.MethodGet, path: "/users", headers: map[string]string{"x-api-key": ""}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, call{method: http.MethodGet, path: "/trigger-reminders", headers: map[string]string{"Authorization": "Bearer "}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, call{method: http.MethodPost, path: "/validate-app-secret", body: `{"secret":"x"}`})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t)

	alice := s.createUser(t, "alice")
	assert.NotEmpty(t, alice.ID)

	rec := s.do(t, withKey(http.MethodPost, "/users", `{"name":"alice"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, withKey(http.MethodPost, "/users", `{"name":""}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	eb := decode[errorBody](t, rec)
	assert.Equal(t, "VALIDATION_FAILED", eb.Error.Code)
	assert.JSONEq(t, `[{"field":"name","message":"is required"}]`, string(eb.Error.Detail))

	rec = s.do(t, withKey(http.MethodPost, "/users", `{`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode[errorBody](t, rec).Error.Code)

	rec = s.do(t, withKey(http.MethodGet, "/users", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]store.Subscriber](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)
}

func TestRouter_SubscribeUpsertsByEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")

	s.subscribe(t, alice.ID, "https://push.example/1", "Europe/Berlin")
	s.subscribe(t, alice.ID, "https://push.example/1", "Asia/Tokyo")
	assert.Equal(t, 1, s.store.SubscriptionCount())

	rec := s.do(t, withKey(http.MethodPost, "/subscribe",
		`{"userId":"ghost","endpoint":"https://push.example/2","keys":{"p256dh":"pk","auth":"ak"}}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, withKey(http.MethodPost, "/subscribe",
		`{"userId":"`+alice.ID+`","endpoint":"https://push.example/3","keys":{"p256dh":"pk","auth":"ak"},"timezone":"Not/AZone"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_StatsCachingAndInvalidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")

	rec := s.do(t, withKey(http.MethodPost, "/log-drink", `{"userId":"`+alice.ID+`","amount":250}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	snap := decode[stats.Snapshot](t, rec)
	assert.Equal(t, 250, snap.TodayTotal)
	assert.Equal(t, 2000, snap.Goal)
	assert.Len(t, snap.Heatmap, stats.WindowDays)
	assert.Equal(t, stats.Preferences{QuietStart: 22, QuietEnd: 8}, snap.Preferences)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	c := withKey(http.MethodGet, "/stats/"+alice.ID, "")
	c.headers["If-None-Match"] = etag
	rec = s.do(t, c)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = s.do(t, withKey(http.MethodPost, "/log-drink", `{"userId":"`+alice.ID+`","amount":300}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 550, decode[stats.Snapshot](t, rec).TodayTotal)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestRouter_DrinkDuringStatsComputationIsNotMaskedByCache(t *testing.T) {
	paused := &pausingEngine{computed: make(chan struct{}), release: make(chan struct{})}
	s := newTestServerWith(t, func(e *stats.Engine) handler.StatsEngine {
		paused.Engine = e
		return paused
	})
	alice := s.createUser(t, "alice")

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, "")) }()
	<-paused.computed

	rec := s.do(t, withKey(http.MethodPost, "/log-drink", `{"userId":"`+alice.ID+`","amount":500}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	close(paused.release)

	rec = <-first
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[stats.Snapshot](t, rec).TodayTotal)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	snap := decode[stats.Snapshot](t, rec)
	assert.Equal(t, 500, snap.TodayTotal)
	assert.Equal(t, 1, snap.TotalLogs)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 500, decode[stats.Snapshot](t, rec).TodayTotal)
}

func TestRouter_StatsErrors(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")

	rec := s.do(t, withKey(http.MethodGet, "/stats/ghost", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID+"?goal=0", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID+"/day/yesterday", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, withKey(http.MethodPost, "/log-drink", `{"userId":"ghost","amount":250}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DayDetail(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")
	s.store.InsertDrinkLog(alice.ID, 300, time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC))
	s.store.InsertDrinkLog(alice.ID, 250, time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC))

	rec := s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID+"/day/2025-06-10", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]stats.DayEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, 250, entries[0].Amount)
	assert.Equal(t, 300, entries[1].Amount)

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID+"/day/2025-01-01", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_PreferencesFlowIntoStats(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")
	s.subscribe(t, alice.ID, "https://push.example/1", "UTC")

	rec := s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, withKey(http.MethodPost, "/preferences", `{"userId":"`+alice.ID+`","quietStart":23,"quietEnd":6}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.do(t, withKey(http.MethodGet, "/stats/"+alice.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stats.Preferences{QuietStart: 23, QuietEnd: 6}, decode[stats.Snapshot](t, rec).Preferences)

	rec = s.do(t, withKey(http.MethodPost, "/preferences", `{"userId":"`+alice.ID+`","quietStart":24,"quietEnd":6}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, withKey(http.MethodPost, "/preferences", `{"userId":"ghost","quietStart":1,"quietEnd":6}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type reminderBody struct {
	Success    bool                    `json:"success"`
	Count      int                     `json:"count"`
	Considered int                     `json:"considered"`
	Sent       int                     `json:"sent"`
	Outcomes   []notifications.Outcome `json:"outcomes"`
}

func TestRouter_TriggerAndForceReminders(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")
	// 12:00 UTC is 21:00 in Tokyo and 05:00 in Los Angeles.
	s.subscribe(t, alice.ID, "https://push.example/tokyo", "Asia/Tokyo")
	s.subscribe(t, alice.ID, "https://push.example/la", "America/Los_Angeles")

	rec := s.do(t, withBearer("/trigger-reminders"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[reminderBody](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 2, body.Considered)
	assert.Equal(t, 1, body.Sent)

	rec = s.do(t, withBearer("/force-reminders"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[reminderBody](t, rec).Sent)
	assert.Len(t, s.provider.sent, 3)
}

func TestRouter_MuteBeatsForce(t *testing.T) {
	s := newTestServer(t)
	alice := s.createUser(t, "alice")
	s.subscribe(t, alice.ID, "https://push.example/1", "UTC")

	rec := s.do(t, withKey(http.MethodPost, "/mute", `{"userId":"`+alice.ID+`","hours":2}`))
	require.Equal(t, http.StatusOK, rec.Code)
	muted := decode[struct {
		MutedUntil time.Time `json:"mutedUntil"`
	}](t, rec)
	assert.True(t, testNow.Add(2*time.Hour).Equal(muted.MutedUntil))

	rec = s.do(t, withBearer("/force-reminders"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[reminderBody](t, rec)
	assert.Equal(t, 0, body.Sent)
	require.Len(t, body.Outcomes, 1)
	assert.Equal(t, notifications.KindSkippedMuted, body.Outcomes[0].Kind)
	assert.Empty(t, s.provider.sent)

	rec = s.do(t, withKey(http.MethodPost, "/mute", `{"userId":"ghost","hours":2}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_OpenRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/validate-app-secret", body: `{"secret":"` + appSecret + `"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())

	rec = s.do(t, call{method: http.MethodPost, path: "/validate-app-secret", body: `{"secret":"wrong"}`})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/vapid-public-key"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"publicKey":"BPublicKey"}`, rec.Body.String())

	for _, path := range []string{"/health", "/health/db", "/health/cache"} {
		rec = s.do(t, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Process-Time"), path)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RateLimitMiddleware(2, time.Minute)(next)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	third := httptest.NewRecorder()
	h.ServeHTTP(third, other)
	assert.Equal(t, http.StatusNoContent, third.Code)
}
