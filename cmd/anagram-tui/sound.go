package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

const chimeSampleRate = beep.SampleRate(44100)

// chime plays a short tone on a correct guess. A nil chime is silent.
type chime struct{}

func newChime() *chime {
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10)); err != nil {
		// The game runs fine without sound.
		log.Warn().Err(err).Msg("Audio initialization failed")
		return nil
	}
	return &chime{}
}

func (c *chime) play() {
	if c == nil {
		return
	}
	sine, err := generators.SineTone(chimeSampleRate, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(chimeSampleRate.N(80*time.Millisecond), sine))
}
