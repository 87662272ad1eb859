package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"anagram/internal/game"
)

// clock is the periodic tick source of one play. stop may be called any
// number of times; the underlying cancel runs once.
type clock struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (c *clock) stop() {
	c.once.Do(c.cancel)
}

// startClock replaces the play's tick source with a fresh one bound to the
// current game generation. The caller must hold p.mu.
func (app *App) startClock(p *play) {
	if p.clock != nil {
		p.clock.stop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &clock{ctx: ctx, cancel: cancel}
	p.clock = c
	go app.runClock(p, c, p.game.Generation())
}

// stopClock cancels the play's tick source, if any. The caller must hold p.mu.
func stopClock(p *play) {
	if p.clock != nil {
		p.clock.stop()
	}
}

func (app *App) runClock(p *play, c *clock, generation uint64) {
	ticker := time.NewTicker(app.TickInterval)
	defer ticker.Stop()
	defer c.stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if c.ctx.Err() != nil || p.game.Generation() != generation {
			p.mu.Unlock()
			return
		}
		snap := p.game.Tick()
		p.mu.Unlock()

		if snap.State != game.StateActive {
			logInfo("Round over: score %d", snap.Score)
			return
		}
	}
}

// schedule runs a deferred follow-up of a guess after its delay. Tasks made
// stale by a restart or game over are dropped by the session itself.
func (app *App) schedule(p *play, task *game.Task) {
	if task == nil {
		return
	}
	t := *task
	time.AfterFunc(t.Delay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.game.Run(t); !ok {
			log.Debug().Int("kind", int(t.Kind)).Uint64("generation", t.Generation).Msg("dropped stale task")
		}
	})
}
