package game

import (
	"strings"

	"github.com/samber/lo"
)

// Scrambler shuffles the letters of a word.
type Scrambler struct {
	intN IntN
}

func NewScrambler(intN IntN) *Scrambler {
	if intN == nil {
		intN = cryptoIntN
	}
	return &Scrambler{intN: intN}
}

// Scramble returns an uppercased permutation of word's letters that differs
// from word whenever some permutation can. Single letters and words made of
// one repeated letter come back unchanged.
func (s *Scrambler) Scramble(word string) string {
	letters := []rune(strings.ToLower(word))
	if len(letters) <= 1 || len(lo.Uniq(letters)) == 1 {
		return strings.ToUpper(word)
	}
	original := string(letters)
	for {
		s.shuffle(letters)
		if string(letters) != original {
			return strings.ToUpper(string(letters))
		}
	}
}

// shuffle is an in-place Fisher-Yates shuffle.
func (s *Scrambler) shuffle(letters []rune) {
	for i := len(letters) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		letters[i], letters[j] = letters[j], letters[i]
	}
}
