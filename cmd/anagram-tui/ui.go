package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"anagram/internal/game"
)

// tickEvent is posted by the clock goroutine once per interval.
type tickEvent struct {
	tcell.EventTime
	generation uint64
}

// taskEvent carries a deferred guess follow-up back to the event loop.
type taskEvent struct {
	tcell.EventTime
	task game.Task
}

// ui owns the session. All session calls happen on the event loop goroutine;
// the clock and deferred tasks only post events.
type ui struct {
	screen       tcell.Screen
	session      *game.Session
	tickInterval time.Duration
	stopTicks    context.CancelFunc
	input        []rune
	sound        *chime
}

func newUI(screen tcell.Screen, session *game.Session, tickInterval time.Duration) *ui {
	return &ui{screen: screen, session: session, tickInterval: tickInterval}
}

// run plays until the user quits and returns the last score.
func (u *ui) run() int {
	u.restart()
	defer u.stopClock()
	for {
		u.draw()
		if !u.handle(u.screen.PollEvent()) {
			return u.session.Score()
		}
	}
}

func (u *ui) restart() {
	u.session.Reset()
	u.input = u.input[:0]
	u.startClock()
}

// startClock replaces the tick source with one bound to the current generation.
func (u *ui) startClock() {
	u.stopClock()
	ctx, cancel := context.WithCancel(context.Background())
	u.stopTicks = cancel
	gen := u.session.Generation()
	go func() {
		ticker := time.NewTicker(u.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ev := &tickEvent{generation: gen}
				ev.SetEventNow()
				_ = u.screen.PostEvent(ev)
			}
		}
	}()
}

func (u *ui) stopClock() {
	if u.stopTicks != nil {
		u.stopTicks()
		u.stopTicks = nil
	}
}

func (u *ui) schedule(task *game.Task) {
	if task == nil {
		return
	}
	t := *task
	time.AfterFunc(t.Delay, func() {
		ev := &taskEvent{task: t}
		ev.SetEventNow()
		_ = u.screen.PostEvent(ev)
	})
}

// handle applies one event and reports whether the loop should continue.
func (u *ui) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tickEvent:
		if ev.generation != u.session.Generation() {
			return true
		}
		if snap := u.session.Tick(); snap.State != game.StateActive {
			u.stopClock()
		}
	case *taskEvent:
		if _, ok := u.session.Run(ev.task); ok {
			u.input = u.input[:0]
		}
	case *tcell.EventKey:
		return u.handleKey(ev)
	}
	return true
}

func (u *ui) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		if !u.session.IsActive() {
			u.restart()
			return true
		}
		snap, task := u.session.SubmitGuess(string(u.input))
		if snap.Feedback.Kind == game.FeedbackCorrect {
			u.sound.play()
		}
		u.schedule(task)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.input) > 0 {
			u.input = u.input[:len(u.input)-1]
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if !u.session.IsActive() {
			if r == 'r' || r == 'R' {
				u.restart()
			}
			return true
		}
		if game.IsLetters(string(r)) && len(u.input) < u.session.Snapshot().WordLength {
			u.input = append(u.input, unicode.ToLower(r))
		}
	}
	return true
}

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleTile     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorNavajoWhite).Bold(true)
	styleTimer    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleCorrect  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWrong    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGameOver = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

func (u *ui) draw() {
	u.screen.Clear()
	snap := u.session.Snapshot()

	u.put(2, 1, "ANAGRAM", styleTitle)
	u.put(2, 2, fmt.Sprintf("Score: %d", snap.Score), tcell.StyleDefault)
	timer := styleTimer
	if snap.TimeLeft <= 10 {
		timer = timer.Bold(true)
	}
	u.put(16, 2, fmt.Sprintf("Time: %ds", snap.TimeLeft), timer)

	x := 2
	for _, t := range game.Tiles(snap.Scrambled) {
		u.put(x, 4, " "+t.Letter+" ", styleTile)
		u.put(x+3, 4, fmt.Sprintf("%d", t.Points), styleDim)
		x += 5
	}
	u.put(2, 6, snap.Clue, tcell.StyleDefault.Italic(true))

	switch snap.State {
	case game.StateActive:
		pad := strings.Repeat("_", max(snap.WordLength-len(u.input), 0))
		u.put(2, 8, "> "+string(u.input)+pad, tcell.StyleDefault)
		style := styleWrong
		if snap.Feedback.Kind == game.FeedbackCorrect {
			style = styleCorrect
		}
		u.put(2, 10, snap.Feedback.Message, style)
		u.put(2, 12, "Enter: submit   Esc: quit", styleDim)
	case game.StateGameOver:
		u.put(2, 8, "Time's up!", styleGameOver)
		u.put(2, 9, fmt.Sprintf("Final score: %d", snap.Score), tcell.StyleDefault)
		u.put(2, 10, snap.FinalMessage, tcell.StyleDefault)
		u.put(2, 12, "r / Enter: play again   Esc: quit", styleDim)
	}
	u.screen.Show()
}

func (u *ui) put(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
