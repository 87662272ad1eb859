package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// homeHandler renders the game page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlay(sessionID)

	p.mu.Lock()
	view := viewOf(p.game.Snapshot())
	p.mu.Unlock()

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Anagram - Unscramble the Word",
		"game":  view,
	})
}

// stateHandler returns the current game state as JSON.
func (app *App) stateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlay(sessionID)

	p.mu.Lock()
	view := viewOf(p.game.Snapshot())
	p.mu.Unlock()

	c.JSON(http.StatusOK, view)
}

// startHandler begins a new round, replacing any round in progress.
func (app *App) startHandler(c *gin.Context) {
	app.restart(c, "start")
}

// resetHandler starts over after a finished round.
func (app *App) resetHandler(c *gin.Context) {
	app.restart(c, "reset")
}

func (app *App) restart(c *gin.Context, action string) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlay(sessionID)

	p.mu.Lock()
	snap := p.game.Reset()
	app.startClock(p)
	p.mu.Unlock()

	l := requestLogger(c.Request.Context())
	l.Info().Str("session", sessionID).Str("action", action).Int("letters", snap.WordLength).Msg("round started")
	c.JSON(http.StatusOK, viewOf(snap))
}

// guessHandler submits a guess for the current word.
func (app *App) guessHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)

	var req guessRequest
	if err := c.ShouldBind(&req); err != nil {
		logWarn("Session %s sent unreadable guess: %v", sessionID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadGuessRequest})
		return
	}

	p := app.getPlay(sessionID)
	p.mu.Lock()
	snap, task := p.game.SubmitGuess(req.Guess)
	app.schedule(p, task)
	p.mu.Unlock()

	l := requestLogger(c.Request.Context())
	l.Info().
		Str("session", sessionID).
		Str("feedback", string(snap.Feedback.Kind)).
		Int("score", snap.Score).
		Int("time_left", snap.TimeLeft).
		Msg("guess")
	c.JSON(http.StatusOK, viewOf(snap))
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded":    app.Bank.Len(),
		"active_sessions": app.activePlays(),
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
