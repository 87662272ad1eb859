package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"anagram/internal/game"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getPlay returns the play for a session, starting a new round if the
// session has none yet.
func (app *App) getPlay(sessionID string) *play {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	if p, ok := app.Plays[sessionID]; ok {
		p.lastAccess = time.Now()
		return p
	}

	p := &play{
		game:       game.NewSession(app.Bank, nil, app.GameConfig),
		lastAccess: time.Now(),
	}
	p.mu.Lock()
	snap := p.game.Start()
	app.startClock(p)
	p.mu.Unlock()

	app.Plays[sessionID] = p
	logInfo("New game for session %s (%d letters)", sessionID, snap.WordLength)
	return p
}

func (app *App) activePlays() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Plays)
}

// cleanupExpiredPlays drops plays not accessed within maxAge and stops their clocks.
func (app *App) cleanupExpiredPlays(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	app.SessionMutex.Lock()
	expired := lo.PickBy(app.Plays, func(_ string, p *play) bool {
		return p.lastAccess.Before(cutoff)
	})
	for id := range expired {
		delete(app.Plays, id)
	}
	app.SessionMutex.Unlock()

	for id, p := range expired {
		p.mu.Lock()
		stopClock(p)
		p.mu.Unlock()
		logInfo("Removed idle session %s", id)
	}
	if len(expired) > 0 {
		logInfo("Session cleanup completed: removed %d sessions", len(expired))
	}
	return len(expired)
}

// runCleanup periodically evicts idle plays until ctx is done.
func (app *App) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanupExpiredPlays(app.SessionTimeout)
		}
	}
}
