package game

import (
	"unicode"

	"github.com/samber/lo"

	"anagram/internal/types"
)

var letterPoints = map[rune]int{
	'A': 1, 'E': 1, 'I': 1, 'O': 1, 'U': 1, 'L': 1, 'N': 1, 'S': 1, 'T': 1, 'R': 1,
	'D': 2, 'G': 2,
	'B': 3, 'C': 3, 'M': 3, 'P': 3,
	'F': 4, 'H': 4, 'V': 4, 'W': 4, 'Y': 4,
	'K': 5,
	'J': 8, 'X': 8,
	'Q': 10, 'Z': 10,
}

// Score message tiers, highest first.
const (
	MessageMaster        = "Incredible! You're an anagram master!"
	MessageExcellent     = "Excellent work! You're really good at this!"
	MessageGreat         = "Great job! You've got solid anagram skills!"
	MessageGood          = "Good effort! Keep practicing!"
	MessageEncouragement = "Don't give up! Try again to improve!"
)

var messageTiers = []struct {
	min     int
	message string
}{
	{20, MessageMaster},
	{15, MessageExcellent},
	{10, MessageGreat},
	{5, MessageGood},
}

// LetterValue returns the tile points of a letter, 0 for anything else.
// Display only: it never affects the session score.
func LetterValue(letter rune) int {
	return letterPoints[unicode.ToUpper(letter)]
}

// ScoreMessage picks the end-of-game message for a final score.
func ScoreMessage(score int) string {
	for _, tier := range messageTiers {
		if score >= tier.min {
			return tier.message
		}
	}
	return MessageEncouragement
}

// Tiles annotates each letter of a scrambled word with its points.
func Tiles(scrambled string) []types.Tile {
	return lo.Map([]rune(scrambled), func(r rune, _ int) types.Tile {
		return types.Tile{Letter: string(r), Points: LetterValue(r)}
	})
}
