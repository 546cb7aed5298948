package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/featurelens/usage-analytics/internal/adapters/memory"
	"github.com/featurelens/usage-analytics/internal/adapters/security"
	"github.com/featurelens/usage-analytics/internal/application"
)

func newTestRouter(t *testing.T, crossOrigin bool) http.Handler {
	t.Helper()

	signer, err := security.NewEphemeralJWTSigner()
	if err != nil {
		t.Fatalf("init signer: %v", err)
	}

	accounts := memory.NewAccountRepository()
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             24 * time.Hour,
			FailedLoginThreshold: 5,
			LockoutDuration:      30 * time.Minute,
		},
		Accounts: accounts,
		Events:   memory.NewEventRepository(accounts),
		Lockouts: memory.NewLockoutStore(),
		Hasher:   security.NewBcryptHasher(4),
		Signer:   signer,
	})

	sessions := NewSessionWriter(crossOrigin, crossOrigin, 24*time.Hour)
	return NewRouter(NewHandler(service, sessions), RouterOptions{})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAlice(t *testing.T, router http.Handler) (token string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/register",
		`{"username":"alice","password":"password123","age":30,"gender":"Female"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie.Value
		}
	}
	t.Fatalf("register did not set the session cookie")
	return ""
}

func TestRegisterSetsBothCookies(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	rec := doJSON(t, router, http.MethodPost, "/register",
		`{"username":"alice","password":"password123","age":30,"gender":"Female"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var session, profile *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		switch cookie.Name {
		case sessionCookieName:
			session = cookie
		case profileCookieName:
			profile = cookie
		}
	}
	if session == nil || profile == nil {
		t.Fatalf("expected both session and profile cookies")
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be HTTP-only")
	}
	if session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("same-origin deployment must use SameSite=Lax")
	}
	if profile.HttpOnly {
		t.Fatalf("profile cookie must be client-readable")
	}

	var body struct {
		User struct {
			Username string `json:"username"`
			Age      int    `json:"age"`
			Gender   string `json:"gender"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User.Username != "alice" || body.User.Age != 30 || body.User.Gender != "Female" {
		t.Fatalf("unexpected user payload: %+v", body.User)
	}
	if body.Token != "" {
		t.Fatalf("same-origin deployment must not mirror the token into the body")
	}
}

func TestCrossOriginMirrorsTokenAndUsesSameSiteNone(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, true)
	rec := doJSON(t, router, http.MethodPost, "/register",
		`{"username":"alice","password":"password123","age":30,"gender":"Female"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("cross-origin deployment must mirror the token into the body")
	}

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != sessionCookieName {
			continue
		}
		if cookie.SameSite != http.SameSiteNoneMode || !cookie.Secure {
			t.Fatalf("cross-origin session cookie must be SameSite=None and Secure")
		}
	}
}

func TestSessionResolutionPriorityAndFallback(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	token := registerAlice(t, router)

	viaCookie := doJSON(t, router, http.MethodGet, "/analytics", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})
	if viaCookie.Code != http.StatusOK {
		t.Fatalf("cookie session rejected: %d %s", viaCookie.Code, viaCookie.Body.String())
	}

	viaBearer := doJSON(t, router, http.MethodGet, "/analytics", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if viaBearer.Code != http.StatusOK {
		t.Fatalf("bearer session rejected: %d %s", viaBearer.Code, viaBearer.Body.String())
	}

	missing := doJSON(t, router, http.MethodGet, "/analytics", "", nil)
	if missing.Code != http.StatusUnauthorized {
		t.Fatalf("missing token must yield 401, got %d", missing.Code)
	}
	if !strings.Contains(missing.Body.String(), "missing session token") {
		t.Fatalf("missing-token diagnostics lost: %s", missing.Body.String())
	}

	tampered := doJSON(t, router, http.MethodGet, "/analytics", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token+"x")
	})
	if tampered.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token must yield 401, got %d", tampered.Code)
	}
}

func TestProfileCookieIsNotACredential(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodGet, "/analytics", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: profileCookieName, Value: "%7B%22username%22%3A%22alice%22%7D"})
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile cookie must never authenticate, got %d", rec.Code)
	}
}

func TestLoginFailureBodiesAreIdentical(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	registerAlice(t, router)

	unknown := doJSON(t, router, http.MethodPost, "/login", `{"username":"nobody","password":"password123"}`, nil)
	wrongPass := doJSON(t, router, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`, nil)

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("both failure modes must be 401: %d / %d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Fatalf("failure bodies must be identical:\n%s\n%s", unknown.Body.String(), wrongPass.Body.String())
	}
}

func TestRegisterConflict(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/register",
		`{"username":"alice","password":"other","age":22,"gender":"Other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username must yield 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutClearsAllDeliveryChannels(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout returned %d", rec.Code)
	}

	cleared := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			cleared[cookie.Name] = true
		}
	}
	if !cleared[sessionCookieName] || !cleared[profileCookieName] {
		t.Fatalf("logout must expire both cookies, got %v", cleared)
	}

	// A client that discarded its token is unauthenticated again.
	after := doJSON(t, router, http.MethodGet, "/analytics", "", nil)
	if after.Code != http.StatusUnauthorized {
		t.Fatalf("query after logout without a token must yield 401, got %d", after.Code)
	}

	// Logout is idempotent.
	again := doJSON(t, router, http.MethodPost, "/logout", "", nil)
	if again.Code != http.StatusOK {
		t.Fatalf("repeated logout returned %d", again.Code)
	}
}

func TestTrackAndAnalyticsWireShapes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	token := registerAlice(t, router)
	withToken := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}

	empty := doJSON(t, router, http.MethodGet, "/analytics", "", withToken)
	if strings.TrimSpace(empty.Body.String()) != `{"barChartData":[],"lineChartData":[]}` {
		t.Fatalf("empty-log shape wrong: %s", empty.Body.String())
	}

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/track", `{"feature_name":"export_data"}`, withToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("track returned %d: %s", rec.Code, rec.Body.String())
		}
		var click struct {
			ID          string    `json:"id"`
			UserID      string    `json:"userId"`
			FeatureName string    `json:"featureName"`
			Timestamp   time.Time `json:"timestamp"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &click); err != nil {
			t.Fatalf("decode track response: %v", err)
		}
		if click.ID == "" || click.UserID == "" || click.FeatureName != "export_data" || click.Timestamp.IsZero() {
			t.Fatalf("unexpected track payload: %+v", click)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/analytics?feature=export_data", "", withToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics returned %d: %s", rec.Code, rec.Body.String())
	}
	var series struct {
		BarChartData []struct {
			Feature string `json:"feature"`
			Count   int    `json:"count"`
		} `json:"barChartData"`
		LineChartData []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"lineChartData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &series); err != nil {
		t.Fatalf("decode analytics response: %v", err)
	}
	if len(series.BarChartData) != 1 || series.BarChartData[0].Feature != "export_data" || series.BarChartData[0].Count != 2 {
		t.Fatalf("unexpected bar series: %+v", series.BarChartData)
	}
	today := time.Now().UTC().Format("2006-01-02")
	if len(series.LineChartData) != 1 || series.LineChartData[0].Date != today || series.LineChartData[0].Count != 2 {
		t.Fatalf("unexpected line series: %+v", series.LineChartData)
	}
}

func TestTrackRequiresFeatureName(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	token := registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/track", `{"feature_name":""}`, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty feature_name must yield 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "feature_name") {
		t.Fatalf("validation message must name the offending field: %s", rec.Body.String())
	}
}

func TestAnalyticsRejectsUnknownAgeGroup(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, false)
	token := registerAlice(t, router)

	rec := doJSON(t, router, http.MethodGet, "/analytics?ageGroup=13-19", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown ageGroup must yield 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
