package http

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"sudoku-api/internal/board"
	"sudoku-api/internal/core"
	"sudoku-api/internal/engine"
	"sudoku-api/internal/sudoku/dp"
	"sudoku-api/pkg/config"
	"sudoku-api/pkg/constants"
)

var cfg *config.Config

func RegisterRoutes(r *gin.Engine, c *config.Config) {
	cfg = c

	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.GET("/daily", dailyHandler)
		api.GET("/puzzle/:seed", puzzleHandler)
		api.POST("/session/start", sessionStartHandler)
		api.POST("/solve", solveHandler)
		api.POST("/validate", validateBoardHandler)
		api.POST("/custom/validate", customValidateHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

// TodayUTC returns today's UTC date string
func TodayUTC() string {
	return time.Now().UTC().Format(constants.DateFormat)
}

func dailyHandler(c *gin.Context) {
	dateUTC := TodayUTC()

	// Deterministic seed from date
	seed := "D" + dateUTC

	c.JSON(http.StatusOK, gin.H{
		"date_utc": dateUTC,
		"seed":     seed,
	})
}

func puzzleHandler(c *gin.Context) {
	seed := c.Param("seed")
	difficulty := core.Difficulty(c.Query("d"))

	if difficulty == "" {
		difficulty = core.DifficultyMedium
	}

	// Validate difficulty
	if difficulty != core.DifficultyEasy &&
		difficulty != core.DifficultyMedium &&
		difficulty != core.DifficultyHard &&
		difficulty != core.DifficultyExtreme &&
		difficulty != core.DifficultyImpossible {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_difficulty"})
		return
	}

	seedHash := hashSeed(seed)
	fullGrid := dp.GenerateFullGrid(seedHash)
	allPuzzles := dp.CarveGivensWithSubset(fullGrid, seedHash)
	givens := allPuzzles[string(difficulty)]

	// Generate a deterministic puzzle ID from seed + difficulty
	puzzleID := seed + "-" + string(difficulty)

	c.JSON(http.StatusOK, gin.H{
		"puzzle_id":  puzzleID,
		"seed":       seed,
		"difficulty": difficulty,
		"givens":     givens,
	})
}

func hashSeed(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

func hashSolution(grid []int) string {
	h := sha256.New()
	for _, v := range grid {
		h.Write([]byte{byte(v)})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type SessionStartRequest struct {
	Seed       string `json:"seed" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	DeviceID   string `json:"device_id" binding:"required"`
}

func sessionStartHandler(c *gin.Context) {
	var req SessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate difficulty
	difficulty := core.Difficulty(req.Difficulty)
	if difficulty != core.DifficultyEasy &&
		difficulty != core.DifficultyMedium &&
		difficulty != core.DifficultyHard &&
		difficulty != core.DifficultyExtreme &&
		difficulty != core.DifficultyImpossible {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_difficulty"})
		return
	}

	// Generate deterministic puzzle ID
	puzzleID := req.Seed + "-" + req.Difficulty

	// Create session token
	now := time.Now()
	session := SessionToken{
		DeviceID:   req.DeviceID,
		PuzzleID:   puzzleID,
		Seed:       req.Seed,
		Difficulty: req.Difficulty,
		StartedAt:  now,
		ExpiresAt:  now.Add(constants.SessionTokenExpiry),
	}

	token, err := createToken(cfg.JWTSecret, session)
	if err != nil {
		log.Printf("ERROR [sessionStart]: failed to create token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"puzzle_id":  puzzleID,
		"started_at": now.Format(time.RFC3339),
	})
}

// intsToBoard packs a request's []int cell values (0 for empty, 1-9 given)
// into a board.Board. Unlike board.ParseBoard it never rejects a length
// mismatch itself; callers check len(cells) before calling this.
func intsToBoard(cells []int) board.Board {
	var b board.Board
	for i, v := range cells {
		if v >= 1 && v <= 9 {
			b[i] = byte(v)
		}
	}
	return b
}

type SolveRequest struct {
	Token string `json:"token" binding:"required"`
	Board []int  `json:"board" binding:"required"`
}

// solveHandler runs the band-oriented engine against a submitted board and
// reports the solution, whether it is the unique one up to the probe limit,
// and how many guesses the search needed.
func solveHandler(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := verifyToken(cfg.JWTSecret, req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	if len(req.Board) != constants.TotalCells {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board must have 81 cells"})
		return
	}

	b := intsToBoard(req.Board)
	if conflicts := board.FindConflicts(b); len(conflicts) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"solved":    false,
			"reason":    "conflicts",
			"conflicts": conflicts,
		})
		return
	}

	solution, count, guesses := engine.Solve([constants.TotalCells]byte(b), cfg.MaxSolutions)
	if count == 0 {
		c.JSON(http.StatusOK, gin.H{
			"solved": false,
			"reason": "no_solution",
		})
		return
	}

	out := board.Board(solution)
	finalBoard := make([]int, constants.TotalCells)
	for i, v := range out {
		finalBoard[i] = int(v)
	}

	c.JSON(http.StatusOK, gin.H{
		"solved":      true,
		"unique":      count == 1,
		"final_board": finalBoard,
		"guesses":     guesses,
	})
}

// ValidateBoardRequest validates current board state during gameplay
type ValidateBoardRequest struct {
	Token string `json:"token" binding:"required"`
	Board []int  `json:"board" binding:"required"`
}

func validateBoardHandler(c *gin.Context) {
	var req ValidateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := verifyToken(cfg.JWTSecret, req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	if len(req.Board) != constants.TotalCells {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board must have 81 cells"})
		return
	}

	b := intsToBoard(req.Board)

	// Check for conflicts (duplicates in rows/cols/boxes)
	conflicts := board.FindConflicts(b)
	if len(conflicts) > 0 {
		conflictCells := make(map[int]bool)
		for _, conflict := range conflicts {
			conflictCells[conflict.Cell1] = true
			conflictCells[conflict.Cell2] = true
		}
		cellList := make([]int, 0, len(conflictCells))
		for cell := range conflictCells {
			cellList = append(cellList, cell)
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":         false,
			"reason":        "conflicts",
			"message":       "There are conflicting numbers in the puzzle",
			"conflicts":     conflicts,
			"conflictCells": cellList,
		})
		return
	}

	// Check if the board is still solvable from its current state. The
	// engine bails out on boards below MinGivens, so a sparsely-filled
	// in-progress board is treated as solvable by default until it crosses
	// that threshold.
	filled := 0
	for _, v := range b {
		if v != 0 {
			filled++
		}
	}
	if filled >= engine.MinGivens {
		_, count, _ := engine.Solve([constants.TotalCells]byte(b), 1)
		if count == 0 {
			c.JSON(http.StatusOK, gin.H{
				"valid":   false,
				"reason":  "unsolvable",
				"message": "The puzzle cannot be solved from this state - a digit you entered is incorrect",
			})
			return
		}
	}

	// Board is valid and solvable
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"message": "All entries are correct so far!",
	})
}

type CustomValidateRequest struct {
	Givens   []int  `json:"givens" binding:"required"`
	DeviceID string `json:"device_id" binding:"required"`
}

func customValidateHandler(c *gin.Context) {
	var req CustomValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Givens) != constants.TotalCells {
		c.JSON(http.StatusBadRequest, gin.H{"error": "givens must have 81 cells"})
		return
	}

	// Check given count
	givenCount := 0
	for _, v := range req.Givens {
		if v != 0 {
			givenCount++
		}
	}

	if givenCount < constants.MinGivens {
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"reason": "need at least 17 givens",
		})
		return
	}

	b := intsToBoard(req.Givens)

	// Validate: check for conflicts
	if !board.IsValid(b) {
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"reason": "puzzle contains conflicts",
		})
		return
	}

	// Check solvability and uniqueness via the engine
	_, solutions, _ := engine.Solve([constants.TotalCells]byte(b), cfg.MaxSolutions)

	if solutions == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"reason": "puzzle has no solution",
		})
		return
	}

	if solutions > 1 {
		c.JSON(http.StatusOK, gin.H{
			"valid":  true,
			"unique": false,
			"reason": "puzzle has multiple solutions",
		})
		return
	}

	// Generate a unique ID for this custom puzzle
	puzzleHash := hashSolution(req.Givens)
	puzzleID := "custom-" + puzzleHash[:16]

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"unique":    true,
		"puzzle_id": puzzleID,
	})
}
