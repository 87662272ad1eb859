package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"

	"anagram/internal/types"
)

// ErrEmptyWordBank is the configuration error returned when no playable words
// are available. No session may be started without a word bank.
var ErrEmptyWordBank = errors.New("word bank is empty")

// IntN returns a uniform random int in [0, n). n is always > 0.
type IntN func(n int) int

// WordBank is an immutable set of word/clue pairs.
type WordBank struct {
	entries []types.WordEntry
	intN    IntN
}

// NewWordBank canonicalizes the entries to lowercase and validates them.
// Entries with an empty word or non-letter characters are rejected.
func NewWordBank(entries []types.WordEntry) (*WordBank, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyWordBank
	}
	canon := make([]types.WordEntry, 0, len(entries))
	for i, e := range entries {
		w := strings.ToLower(strings.TrimSpace(e.Word))
		if !IsLetters(w) {
			return nil, fmt.Errorf("entry %d: invalid word %q", i, e.Word)
		}
		canon = append(canon, types.WordEntry{Word: w, Clue: strings.TrimSpace(e.Clue)})
	}
	return &WordBank{entries: canon, intN: cryptoIntN}, nil
}

// withRand returns a copy of the bank that draws from intN.
func (b *WordBank) withRand(intN IntN) *WordBank {
	return &WordBank{entries: b.entries, intN: intN}
}

// PickRandom returns a uniformly random entry.
func (b *WordBank) PickRandom() types.WordEntry {
	return b.entries[b.intN(len(b.entries))]
}

func (b *WordBank) Len() int {
	return len(b.entries)
}

// IsLetters reports whether s is non-empty and made only of ASCII letters.
func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func cryptoIntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.IntN(n)
	}
	return int(v.Int64())
}
