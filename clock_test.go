package main

import (
	"net/http"
	"testing"
	"time"

	"anagram/internal/game"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func snapshotOf(p *play) game.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.game.Snapshot()
}

func TestClock_RunsRoundToGameOver(t *testing.T) {
	app := testApp(t)
	app.TickInterval = time.Millisecond
	p := app.getPlay("clock-session-0001")

	waitFor(t, 5*time.Second, func() bool {
		return snapshotOf(p).State == game.StateGameOver
	})
	snap := snapshotOf(p)
	if snap.TimeLeft != 0 {
		t.Errorf("TimeLeft = %d, want 0", snap.TimeLeft)
	}
	p.mu.Lock()
	c := p.clock
	p.mu.Unlock()
	waitFor(t, time.Second, func() bool { return c.ctx.Err() != nil })
}

func TestClock_RestartReplacesTickSource(t *testing.T) {
	app := testApp(t)
	p := app.getPlay("clock-session-0002")

	p.mu.Lock()
	old := p.clock
	p.game.Reset()
	app.startClock(p)
	current := p.clock
	p.mu.Unlock()

	if old == current {
		t.Fatal("restart kept the old clock")
	}
	if old.ctx.Err() == nil {
		t.Error("old clock still running after restart")
	}
	if current.ctx.Err() != nil {
		t.Error("new clock should be running")
	}
	current.stop()
	current.stop()
}

func TestSchedule_ReloadsWordAfterCorrectGuess(t *testing.T) {
	app := testApp(t)
	app.GameConfig.ReloadDelay = 10 * time.Millisecond
	router := app.setupRouter()
	cookie := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))

	view := decodeView(t, guess(router, cookie, TestWord))
	if view.Feedback != string(game.FeedbackCorrect) {
		t.Fatalf("feedback = %q", view.Feedback)
	}
	p := app.getPlay(cookie.Value)
	waitFor(t, 2*time.Second, func() bool {
		return snapshotOf(p).Feedback.Kind == game.FeedbackNone
	})
	if snap := snapshotOf(p); snap.Score != 1 || snap.State != game.StateActive {
		t.Errorf("after reload = %+v", snap)
	}
}

func TestSchedule_StaleTaskIgnoredAfterReset(t *testing.T) {
	app := testApp(t)
	app.GameConfig.ClearDelay = 200 * time.Millisecond
	router := app.setupRouter()
	cookie := sessionCookie(t, doRequest(router, http.MethodGet, RouteState, "", "", nil))

	decodeView(t, guess(router, cookie, "planes"))
	decodeView(t, doRequest(router, http.MethodPost, RouteReset, "", "", cookie))
	time.Sleep(100 * time.Millisecond)
	decodeView(t, guess(router, cookie, "planez"))

	// The first clear task has fired by now; the second has not.
	time.Sleep(150 * time.Millisecond)
	p := app.getPlay(cookie.Value)
	if snap := snapshotOf(p); snap.LastGuess != "planez" {
		t.Errorf("LastGuess = %q, stale clear task applied to the new round", snap.LastGuess)
	}
	waitFor(t, 2*time.Second, func() bool { return snapshotOf(p).LastGuess == "" })
}
