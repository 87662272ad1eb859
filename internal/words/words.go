// Package words loads the word/clue list shared by the server and the
// terminal client.
package words

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"anagram/internal/game"
	"anagram/internal/types"
)

// Load reads the word/clue list at path and builds the word bank.
// Invalid and duplicate entries are skipped with a warning; a list with no
// usable entries yields game.ErrEmptyWordBank.
func Load(path string) (*game.WordBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	var wl types.WordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("parse word list %s: %w", path, err)
	}

	bank, err := game.NewWordBank(Usable(wl.Words))
	if err != nil {
		return nil, fmt.Errorf("build word bank from %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("words", bank.Len()).Msg("Loaded word list")
	return bank, nil
}

// Usable drops entries that are not letters-only, lack a clue, or repeat an
// earlier word (case-insensitively). The first occurrence wins.
func Usable(entries []types.WordEntry) []types.WordEntry {
	valid := lo.Filter(entries, func(entry types.WordEntry, _ int) bool {
		if !game.IsLetters(strings.TrimSpace(entry.Word)) {
			log.Warn().Str("word", entry.Word).Msg("Skipping word: letters only")
			return false
		}
		if strings.TrimSpace(entry.Clue) == "" {
			log.Warn().Str("word", entry.Word).Msg("Skipping word: missing clue")
			return false
		}
		return true
	})
	unique := lo.UniqBy(valid, func(entry types.WordEntry) string {
		return strings.ToLower(strings.TrimSpace(entry.Word))
	})
	if dropped := len(valid) - len(unique); dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("Dropped duplicate words")
	}
	return unique
}
