package constants

import "time"

// Grid constants
const (
	GridSize   = 9
	BoxSize    = 3
	TotalCells = 81
	MinGivens  = 17
)

// Solver limits
const (
	SolutionCountLimit = 2
)

// Session
const (
	SessionTokenExpiry = 24 * time.Hour
)

// API version
const APIVersion = "0.1.0"

// Date format
const DateFormat = "2006-01-02"
