package main

import (
	"sync"
	"time"

	"anagram/internal/game"
	"anagram/internal/types"
)

type (
	WordEntry = types.WordEntry
	WordList  = types.WordList
	StateView = types.StateView
)

// guessRequest accepts the guess from a form post or a JSON body.
type guessRequest struct {
	Guess string `form:"guess" json:"guess"`
}

// play is one browser session's game together with its tick source.
// Every event for the game is applied while holding mu.
type play struct {
	mu         sync.Mutex
	game       *game.Session
	clock      *clock
	lastAccess time.Time
}

// viewOf converts a snapshot to its wire representation.
func viewOf(snap game.Snapshot) StateView {
	return StateView{
		State:        snap.State.String(),
		Active:       snap.State == game.StateActive,
		Score:        snap.Score,
		TimeLeft:     snap.TimeLeft,
		Scrambled:    snap.Scrambled,
		Tiles:        game.Tiles(snap.Scrambled),
		Clue:         snap.Clue,
		WordLength:   snap.WordLength,
		Feedback:     string(snap.Feedback.Kind),
		Message:      snap.Feedback.Message,
		LastGuess:    snap.LastGuess,
		FinalMessage: snap.FinalMessage,
		Generation:   snap.Generation,
	}
}
