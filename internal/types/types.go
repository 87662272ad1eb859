package types

type WordEntry struct {
	Word string `json:"word"`
	Clue string `json:"clue"`
}

type WordList struct {
	Words []WordEntry `json:"words"`
}

type Tile struct {
	Letter string `json:"letter"`
	Points int    `json:"points"`
}

// StateView is the JSON shape of a game snapshot sent to the browser.
type StateView struct {
	State        string `json:"state"`
	Active       bool   `json:"active"`
	Score        int    `json:"score"`
	TimeLeft     int    `json:"timeLeft"`
	Scrambled    string `json:"scrambled"`
	Tiles        []Tile `json:"tiles"`
	Clue         string `json:"clue"`
	WordLength   int    `json:"wordLength"`
	Feedback     string `json:"feedback"`
	Message      string `json:"message"`
	LastGuess    string `json:"lastGuess"`
	FinalMessage string `json:"finalMessage,omitempty"`
	Generation   uint64 `json:"generation"`
}
