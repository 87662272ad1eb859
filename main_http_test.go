package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"anagram/internal/game"
)

const (
	TestWord = "planet"
	TestClue = "Orbits a star"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setupLogging("error", true)
	os.Exit(m.Run())
}

// testApp returns an app with a one-word bank and a clock that never fires
// on its own.
func testApp(t *testing.T) *App {
	t.Helper()
	bank, err := game.NewWordBank([]WordEntry{{Word: TestWord, Clue: TestClue}})
	if err != nil {
		t.Fatalf("NewWordBank: %v", err)
	}
	app := &App{
		Bank:           bank,
		GameConfig:     game.DefaultConfig(),
		Plays:          make(map[string]*play),
		LimiterMap:     make(map[string]*rate.Limiter),
		CookieMaxAge:   time.Hour,
		SessionTimeout: time.Hour,
		StaticCacheAge: 5 * time.Minute,
		TickInterval:   time.Hour,
		RateLimitRPS:   100,
		RateLimitBurst: 1000,
		StartTime:      time.Now(),
	}
	t.Cleanup(func() { app.cleanupExpiredPlays(-time.Hour) })
	return app
}

func doRequest(router http.Handler, method, path, body, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) StateView {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var view StateView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return view
}

func guess(router http.Handler, cookie *http.Cookie, g string) *httptest.ResponseRecorder {
	return doRequest(router, http.MethodPost, RouteGuess, "guess="+g, "application/x-www-form-urlencoded", cookie)
}

func TestHomeHandler(t *testing.T) {
	router := testApp(t).setupRouter()
	w := doRequest(router, http.MethodGet, RouteHome, "", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / returned status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), TestClue) {
		t.Error("home page should show the clue")
	}
	sessionCookie(t, w)
}

func TestStateHandler_FreshGame(t *testing.T) {
	router := testApp(t).setupRouter()
	view := decodeView(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))
	if !view.Active || view.Score != 0 || view.TimeLeft != 60 {
		t.Errorf("fresh state = %+v", view)
	}
	if view.Clue != TestClue || view.WordLength != len(TestWord) || len(view.Tiles) != len(TestWord) {
		t.Errorf("word fields = %+v", view)
	}
	if strings.EqualFold(view.Scrambled, TestWord) {
		t.Errorf("scrambled word %q equals the answer", view.Scrambled)
	}
}

func TestGuessFlow(t *testing.T) {
	router := testApp(t).setupRouter()
	cookie := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))

	tests := []struct {
		guess    string
		feedback game.FeedbackKind
		score    int
	}{
		{"", game.FeedbackEmptyGuess, 0},
		{"pla", game.FeedbackLengthMismatch, 0},
		{"planes", game.FeedbackWrongGuess, 0},
		{"PLANET", game.FeedbackCorrect, 1},
	}
	for _, tt := range tests {
		view := decodeView(t, guess(router, cookie, tt.guess))
		if view.Feedback != string(tt.feedback) || view.Score != tt.score {
			t.Errorf("guess %q: feedback=%q score=%d, want %q %d", tt.guess, view.Feedback, view.Score, tt.feedback, tt.score)
		}
		if view.TimeLeft != 60 {
			t.Errorf("guess %q changed time to %d", tt.guess, view.TimeLeft)
		}
	}
}

func TestGuessHandler_JSONBody(t *testing.T) {
	router := testApp(t).setupRouter()
	cookie := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))
	w := doRequest(router, http.MethodPost, RouteGuess, `{"guess":"Planet"}`, "application/json", cookie)
	if view := decodeView(t, w); view.Score != 1 {
		t.Errorf("score = %d, want 1", view.Score)
	}
}

func TestGuessHandler_BadJSON(t *testing.T) {
	router := testApp(t).setupRouter()
	w := doRequest(router, http.MethodPost, RouteGuess, `{"guess":`, "application/json", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGuessHandler_InvalidMethod(t *testing.T) {
	router := testApp(t).setupRouter()
	w := doRequest(router, http.MethodGet, RouteGuess, "", "", nil)
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("GET %s returned status %d, want 405 or 404", RouteGuess, w.Code)
	}
}

func TestResetAfterGameOver(t *testing.T) {
	app := testApp(t)
	router := app.setupRouter()
	w := doRequest(router, http.MethodGet, RouteState, "", "", nil)
	cookie := sessionCookie(t, w)
	decodeView(t, guess(router, cookie, TestWord))

	p := app.getPlay(cookie.Value)
	p.mu.Lock()
	p.game.End()
	p.mu.Unlock()

	over := decodeView(t, doRequest(router, http.MethodGet, RouteState, "", "", cookie))
	if over.Active || over.FinalMessage != game.ScoreMessage(1) {
		t.Fatalf("state after end = %+v", over)
	}
	if locked := decodeView(t, guess(router, cookie, TestWord)); locked.Score != 1 || locked.Feedback != string(game.FeedbackCorrect) {
		t.Errorf("guess after game over changed state: %+v", locked)
	}

	view := decodeView(t, doRequest(router, http.MethodPost, RouteReset, "", "", cookie))
	if !view.Active || view.Score != 0 || view.TimeLeft != 60 || view.FinalMessage != "" {
		t.Errorf("after reset = %+v", view)
	}
}

func TestStartHandler_RestartsRound(t *testing.T) {
	router := testApp(t).setupRouter()
	cookie := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))
	decodeView(t, guess(router, cookie, TestWord))
	view := decodeView(t, doRequest(router, http.MethodPost, RouteStart, "", "", cookie))
	if !view.Active || view.Score != 0 {
		t.Errorf("after start = %+v", view)
	}
}

// The browser clears its input only when generation changes or lastGuess
// drops back to empty, so plain polls must report both unchanged.
func TestStateView_InputTransitions(t *testing.T) {
	router := testApp(t).setupRouter()
	first := doRequest(router, http.MethodGet, RouteState, "", "", nil)
	cookie := sessionCookie(t, first)
	fresh := decodeView(t, first)

	polled := decodeView(t, doRequest(router, http.MethodGet, RouteState, "", "", cookie))
	if polled.Generation != fresh.Generation || polled.LastGuess != "" {
		t.Errorf("idle poll changed view: %+v -> %+v", fresh, polled)
	}

	wrong := decodeView(t, guess(router, cookie, "planes"))
	if wrong.LastGuess != "planes" {
		t.Fatalf("lastGuess = %q after wrong guess", wrong.LastGuess)
	}
	if again := decodeView(t, doRequest(router, http.MethodGet, RouteState, "", "", cookie)); again.LastGuess != "planes" {
		t.Errorf("poll before the clear task reported lastGuess %q", again.LastGuess)
	}

	restarted := decodeView(t, doRequest(router, http.MethodPost, RouteStart, "", "", cookie))
	if restarted.Generation == fresh.Generation {
		t.Errorf("generation %d unchanged across restart", restarted.Generation)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	router := testApp(t).setupRouter()
	a := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))
	b := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))
	if a.Value == b.Value {
		t.Fatal("two clients share a session")
	}
	decodeView(t, guess(router, a, TestWord))
	if view := decodeView(t, doRequest(router, http.MethodGet, RouteState, "", "", b)); view.Score != 0 {
		t.Errorf("session b score = %d, want 0", view.Score)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := testApp(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 10
	router := gin.New()
	router.Use(app.rateLimitMiddleware())
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 10; i++ {
		w := doRequest(router, http.MethodGet, "/limited", "", "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	w := doRequest(router, http.MethodGet, "/limited", "", "", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("11th request: expected 429 Too Many Requests, got %d", w.Code)
	}
}

func TestHealthzHandler_Fields(t *testing.T) {
	router := testApp(t).setupRouter()
	doRequest(router, http.MethodGet, RouteState, "", "", nil)
	w := doRequest(router, http.MethodGet, RouteHealth, "", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d, want 200", RouteHealth, w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal health response: %v", err)
	}
	for _, field := range []string{"status", "env", "words_loaded", "active_sessions", "uptime", "timestamp"} {
		if _, ok := resp[field]; !ok {
			t.Errorf("Expected '%s' field in health response", field)
		}
	}
	if resp["words_loaded"] != float64(1) || resp["active_sessions"] != float64(1) {
		t.Errorf("health counts = %v / %v", resp["words_loaded"], resp["active_sessions"])
	}
	if resp["env"] != "development" {
		t.Errorf("env = %v, want development", resp["env"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testApp(t).setupRouter()
	const clientID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	tests := []struct {
		name, header string
		keep         bool
	}{
		{"uuid kept", clientID, true},
		{"missing", "", false},
		{"not a uuid", "abc-123", false},
		{"oversized", strings.Repeat("x", 4096), false},
		{"log injection", "id\nlevel=error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			got := w.Header().Get("X-Request-Id")
			if tt.keep {
				if got != clientID {
					t.Errorf("X-Request-Id = %q, want %q", got, clientID)
				}
				return
			}
			if got == tt.header {
				t.Errorf("X-Request-Id echoed untrusted value %q", got)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("generated X-Request-Id %q is not a uuid: %v", got, err)
			}
		})
	}
}

func TestCacheHeaders(t *testing.T) {
	app := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodGet, RouteState, "", "", nil)
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("API Cache-Control = %q, want no-store", cc)
	}

	app.IsProduction = true
	w = doRequest(app.setupRouter(), http.MethodGet, "/static/style.css", "", "", nil)
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "public") {
		t.Errorf("static Cache-Control = %q, want public", cc)
	}
}

func decompressGzip(data []byte) (string, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	return string(out), err
}

func TestGzipMiddleware_CompressesStatic(t *testing.T) {
	router := testApp(t).setupRouter()
	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		want, err := os.ReadFile("." + path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Header().Get("Content-Encoding") != "gzip" {
			t.Errorf("Expected gzip Content-Encoding for %s", path)
			continue
		}
		body, err := decompressGzip(w.Body.Bytes())
		if err != nil || body != string(want) {
			t.Errorf("Failed to decompress gzipped %s: %v", path, err)
		}
	}
}
