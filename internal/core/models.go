package core

// Difficulty names one of the five puzzle-generation tiers; the HTTP layer
// validates and threads it through to the givens carver.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyHard       Difficulty = "hard"
	DifficultyExtreme    Difficulty = "extreme"
	DifficultyImpossible Difficulty = "impossible"
)
