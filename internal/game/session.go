package game

import (
	"fmt"
	"strings"
	"time"

	"anagram/internal/types"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FeedbackKind classifies the outcome of the last guess.
type FeedbackKind string

const (
	FeedbackNone           FeedbackKind = ""
	FeedbackCorrect        FeedbackKind = "correct"
	FeedbackEmptyGuess     FeedbackKind = "empty_guess"
	FeedbackLengthMismatch FeedbackKind = "length_mismatch"
	FeedbackWrongGuess     FeedbackKind = "wrong_guess"
)

type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// Config holds the timing parameters of a round.
type Config struct {
	RoundSeconds int
	ReloadDelay  time.Duration
	ClearDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RoundSeconds: 60,
		ReloadDelay:  1000 * time.Millisecond,
		ClearDelay:   500 * time.Millisecond,
	}
}

// TaskKind names a deferred follow-up to a guess.
type TaskKind int

const (
	TaskReloadWord TaskKind = iota + 1
	TaskClearInput
)

// Task is a follow-up the caller must run after Delay via Session.Run.
// It is bound to the generation that produced it and does nothing once the
// session has been restarted or ended.
type Task struct {
	Kind       TaskKind
	Delay      time.Duration
	Generation uint64
}

// Snapshot is the observable state of a session after a transition.
type Snapshot struct {
	State        State
	Score        int
	TimeLeft     int
	Scrambled    string
	Clue         string
	WordLength   int
	Feedback     Feedback
	LastGuess    string
	FinalMessage string
	Generation   uint64
}

// Session is one player's game. It is not safe for concurrent use; callers
// deliver events one at a time.
type Session struct {
	bank      *WordBank
	scrambler *Scrambler
	cfg       Config

	state      State
	current    *types.WordEntry
	scrambled  string
	score      int
	timeLeft   int
	feedback   Feedback
	lastGuess  string
	solved     bool
	generation uint64
}

// NewSession returns an idle session. A nil scrambler uses crypto randomness.
func NewSession(bank *WordBank, scrambler *Scrambler, cfg Config) *Session {
	if scrambler == nil {
		scrambler = NewScrambler(nil)
	}
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = DefaultConfig().RoundSeconds
	}
	return &Session{
		bank:      bank,
		scrambler: scrambler,
		cfg:       cfg,
		timeLeft:  cfg.RoundSeconds,
	}
}

// Start begins a fresh round. Starting an active session restarts it.
func (s *Session) Start() Snapshot {
	s.generation++
	s.state = StateActive
	s.score = 0
	s.timeLeft = s.cfg.RoundSeconds
	s.loadWord()
	return s.Snapshot()
}

// Reset starts a new round regardless of the current state.
func (s *Session) Reset() Snapshot {
	return s.Start()
}

// Tick consumes one second. The session ends when time runs out.
func (s *Session) Tick() Snapshot {
	if s.state != StateActive {
		return s.Snapshot()
	}
	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		return s.End()
	}
	return s.Snapshot()
}

// End locks the session; score and time are frozen until the next Start.
func (s *Session) End() Snapshot {
	if s.state != StateActive {
		return s.Snapshot()
	}
	s.generation++
	s.state = StateGameOver
	return s.Snapshot()
}

// SubmitGuess validates and checks a guess. Validation failures are reported
// as feedback and never change score or time. A returned task must be handed
// back to Run after its delay.
func (s *Session) SubmitGuess(raw string) (Snapshot, *Task) {
	if s.state != StateActive || s.solved {
		return s.Snapshot(), nil
	}
	guess := NormalizeGuess(raw)
	s.lastGuess = guess

	if guess == "" {
		s.feedback = Feedback{Kind: FeedbackEmptyGuess, Message: "Please enter a guess!"}
		return s.Snapshot(), nil
	}
	want := len(s.current.Word)
	if len(guess) != want {
		s.feedback = Feedback{Kind: FeedbackLengthMismatch, Message: fmt.Sprintf("Word must be %d letters!", want)}
		return s.Snapshot(), nil
	}
	if strings.EqualFold(guess, s.current.Word) {
		s.score++
		s.solved = true
		s.feedback = Feedback{Kind: FeedbackCorrect, Message: "Correct!"}
		return s.Snapshot(), s.task(TaskReloadWord, s.cfg.ReloadDelay)
	}
	s.feedback = Feedback{Kind: FeedbackWrongGuess, Message: "Try again!"}
	return s.Snapshot(), s.task(TaskClearInput, s.cfg.ClearDelay)
}

// Run applies a deferred task. It reports false, changing nothing, when the
// task is stale or no longer applicable.
func (s *Session) Run(t Task) (Snapshot, bool) {
	if t.Generation != s.generation || s.state != StateActive {
		return s.Snapshot(), false
	}
	switch t.Kind {
	case TaskReloadWord:
		if !s.solved {
			return s.Snapshot(), false
		}
		s.loadWord()
	case TaskClearInput:
		if s.solved {
			return s.Snapshot(), false
		}
		s.lastGuess = ""
	default:
		return s.Snapshot(), false
	}
	return s.Snapshot(), true
}

func (s *Session) task(kind TaskKind, delay time.Duration) *Task {
	return &Task{Kind: kind, Delay: delay, Generation: s.generation}
}

// loadWord installs a new random word and clears per-word state.
func (s *Session) loadWord() {
	entry := s.bank.PickRandom()
	s.current = &entry
	s.scrambled = s.scrambler.Scramble(entry.Word)
	s.feedback = Feedback{}
	s.lastGuess = ""
	s.solved = false
	s.state = StateActive
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Score:      s.score,
		TimeLeft:   s.timeLeft,
		Scrambled:  s.scrambled,
		Feedback:   s.feedback,
		LastGuess:  s.lastGuess,
		Generation: s.generation,
	}
	if s.current != nil {
		snap.Clue = s.current.Clue
		snap.WordLength = len(s.current.Word)
	}
	if s.state == StateGameOver {
		snap.FinalMessage = ScoreMessage(s.score)
	}
	return snap
}

func (s *Session) State() State          { return s.state }
func (s *Session) Score() int            { return s.score }
func (s *Session) TimeLeft() int         { return s.timeLeft }
func (s *Session) ScrambledWord() string { return s.scrambled }
func (s *Session) IsActive() bool        { return s.state == StateActive }
func (s *Session) Generation() uint64    { return s.generation }

func (s *Session) Clue() string {
	if s.current == nil {
		return ""
	}
	return s.current.Clue
}

// FinalMessage returns the score message; ok is false unless the game is over.
func (s *Session) FinalMessage() (msg string, ok bool) {
	if s.state != StateGameOver {
		return "", false
	}
	return ScoreMessage(s.score), true
}

// NormalizeGuess strips everything but letters and lowercases the rest.
func NormalizeGuess(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if isLetter(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
