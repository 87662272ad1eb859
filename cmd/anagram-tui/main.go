package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"anagram/internal/game"
	"anagram/internal/words"
)

func main() {
	var (
		wordsFile = flag.String("words", "data/words.json", "Word/clue list")
		seconds   = flag.Int("seconds", game.DefaultConfig().RoundSeconds, "Round length in seconds")
		mute      = flag.Bool("mute", false, "Disable sound")
		verbose   = flag.Bool("v", false, "Log word list details")
	)
	flag.Parse()
	setupLogging(*verbose)

	bank, err := words.Load(*wordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load words")
	}

	// Audio and logging both finish before the screen takes over the terminal.
	var sound *chime
	if !*mute {
		sound = newChime()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to init screen")
	}

	cfg := game.DefaultConfig()
	cfg.RoundSeconds = *seconds
	u := newUI(screen, game.NewSession(bank, nil, cfg), time.Second)
	u.sound = sound

	score := u.run()
	screen.Fini()
	fmt.Printf("Final score: %d\n", score)
}

func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
