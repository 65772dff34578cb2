package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sudoku-api/pkg/config"

	"github.com/gin-gonic/gin"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{
		JWTSecret: "test-secret-key",
		SolverConfig: config.SolverConfig{
			MaxSolutions: 2,
			SolveWorkers: 1,
		},
	}
	RegisterRoutes(r, cfg)
	return r
}

func TestHealthHandler(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", response["status"])
	}
	if response["version"] == nil {
		t.Error("Expected version in response")
	}
}

func TestDailyHandler(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/daily", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["seed"] == nil {
		t.Error("Expected seed in response")
	}
	if response["date_utc"] == nil {
		t.Error("Expected date_utc in response")
	}
}

func TestPuzzleHandler(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name       string
		seed       string
		difficulty string
		wantStatus int
	}{
		{"easy", "test-seed-123", "easy", http.StatusOK},
		{"medium", "test-seed-456", "medium", http.StatusOK},
		{"hard", "test-seed-789", "hard", http.StatusOK},
		{"extreme", "test-seed-abc", "extreme", http.StatusOK},
		{"impossible", "test-seed-def", "impossible", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/puzzle/"+tt.seed+"?d="+tt.difficulty, nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			if w.Code == http.StatusOK {
				var response map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				givens, ok := response["givens"].([]interface{})
				if !ok {
					t.Error("Expected givens to be an array")
				} else if len(givens) != 81 {
					t.Errorf("Expected 81 givens, got %d", len(givens))
				}
			}
		})
	}
}

func TestSessionStartHandler(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid session start",
			body: map[string]interface{}{
				"seed":       "test-seed",
				"difficulty": "medium",
				"device_id":  "test-device-123",
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing seed",
			body: map[string]interface{}{
				"difficulty": "medium",
				"device_id":  "test-device-123",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing device_id",
			body: map[string]interface{}{
				"seed":       "test-seed",
				"difficulty": "medium",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodyBytes, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/session/start", bytes.NewBuffer(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var response map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if response["token"] == nil {
					t.Error("Expected token in response")
				}
			}
		})
	}
}

func getValidToken(router *gin.Engine) string {
	body := map[string]interface{}{
		"seed":       "test-seed",
		"difficulty": "medium",
		"device_id":  "test-device-123",
	}
	bodyBytes, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/session/start", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	if token, ok := response["token"].(string); ok {
		return token
	}
	return ""
}

// classicalPuzzle is a well-known 30-given puzzle with a unique solution.
func classicalPuzzle() []int {
	s := "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"
	board := make([]int, 81)
	for i := 0; i < 81 && i < len(s); i++ {
		if s[i] >= '1' && s[i] <= '9' {
			board[i] = int(s[i] - '0')
		}
	}
	return board
}

func TestSolveHandler(t *testing.T) {
	router := setupRouter()
	token := getValidToken(router)
	board := classicalPuzzle()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "valid solve request",
			body:       map[string]interface{}{"token": token, "board": board},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid token",
			body:       map[string]interface{}{"token": "invalid-token", "board": board},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			body:       map[string]interface{}{"board": board},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid board size",
			body:       map[string]interface{}{"token": token, "board": []int{1, 2, 3}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodyBytes, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/solve", bytes.NewBuffer(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSolveHandlerFindsUniqueSolution(t *testing.T) {
	router := setupRouter()
	token := getValidToken(router)
	board := classicalPuzzle()

	body := map[string]interface{}{"token": token, "board": board}
	bodyBytes, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/solve", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["solved"] != true {
		t.Errorf("Expected solved=true, got %v", response["solved"])
	}
	if response["unique"] != true {
		t.Errorf("Expected unique=true, got %v", response["unique"])
	}
	finalBoard, ok := response["final_board"].([]interface{})
	if !ok || len(finalBoard) != 81 {
		t.Errorf("Expected an 81-cell final_board, got %v", response["final_board"])
	}
}

func TestSolveHandlerDetectsConflicts(t *testing.T) {
	router := setupRouter()
	token := getValidToken(router)

	board := make([]int, 81)
	board[0] = 5
	board[1] = 5 // duplicate in row 0

	body := map[string]interface{}{"token": token, "board": board}
	bodyBytes, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/solve", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	if response["solved"] != false {
		t.Errorf("Expected solved=false for a conflicting board, got %v", response["solved"])
	}
	if response["reason"] != "conflicts" {
		t.Errorf("Expected reason=conflicts, got %v", response["reason"])
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func TestValidateBoardHandler(t *testing.T) {
	router := setupRouter()
	token := getValidToken(router)

	validBoard := make([]int, 81)
	validBoard[0] = 5
	validBoard[1] = 3
	validBoard[4] = 7

	conflictBoard := make([]int, 81)
	conflictBoard[0] = 5
	conflictBoard[1] = 5 // duplicate

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantValid  *bool
	}{
		{
			name:       "valid board",
			body:       map[string]interface{}{"token": token, "board": validBoard},
			wantStatus: http.StatusOK,
			wantValid:  boolPtr(true),
		},
		{
			name:       "board with conflicts",
			body:       map[string]interface{}{"token": token, "board": conflictBoard},
			wantStatus: http.StatusOK,
			wantValid:  boolPtr(false),
		},
		{
			name:       "invalid token",
			body:       map[string]interface{}{"token": "invalid-token", "board": validBoard},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodyBytes, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/validate", bytes.NewBuffer(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantValid != nil && w.Code == http.StatusOK {
				var response map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				valid, ok := response["valid"].(bool)
				if !ok {
					t.Error("Expected 'valid' field in response")
				} else if valid != *tt.wantValid {
					t.Errorf("Expected valid=%v, got %v", *tt.wantValid, valid)
				}
			}
		})
	}
}

func TestCustomValidateHandler(t *testing.T) {
	router := setupRouter()

	validGivens := make([]int, 81)
	vals := []int{5, 3, 4, 6, 7, 8, 9, 1, 2, 6, 7, 2, 1, 9, 5, 3, 4, 8}
	for i, v := range vals {
		validGivens[i] = v
	}

	fewGivens := make([]int, 81)
	fewGivens[0] = 5

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantValid  *bool
	}{
		{
			name:       "valid custom puzzle",
			body:       map[string]interface{}{"givens": validGivens, "device_id": "test-device"},
			wantStatus: http.StatusOK,
			wantValid:  boolPtr(true),
		},
		{
			name:       "too few givens",
			body:       map[string]interface{}{"givens": fewGivens, "device_id": "test-device"},
			wantStatus: http.StatusOK,
			wantValid:  boolPtr(false),
		},
		{
			name:       "missing device_id",
			body:       map[string]interface{}{"givens": validGivens},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodyBytes, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/custom/validate", bytes.NewBuffer(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantValid != nil && w.Code == http.StatusOK {
				var response map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				valid, ok := response["valid"].(bool)
				if !ok {
					t.Error("Expected 'valid' field in response")
				} else if valid != *tt.wantValid {
					t.Errorf("Expected valid=%v, got %v. Reason: %v", *tt.wantValid, valid, response["reason"])
				}
			}
		})
	}
}

func TestPuzzleDeterminism(t *testing.T) {
	router := setupRouter()

	seed := "determinism-test-seed"
	difficulty := "medium"

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/api/puzzle/"+seed+"?d="+difficulty, nil)
	router.ServeHTTP(w1, req1)

	var response1 map[string]interface{}
	_ = json.Unmarshal(w1.Body.Bytes(), &response1)
	givens1 := response1["givens"].([]interface{})

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/api/puzzle/"+seed+"?d="+difficulty, nil)
	router.ServeHTTP(w2, req2)

	var response2 map[string]interface{}
	_ = json.Unmarshal(w2.Body.Bytes(), &response2)
	givens2 := response2["givens"].([]interface{})

	for i := 0; i < 81; i++ {
		if givens1[i] != givens2[i] {
			t.Errorf("Puzzle not deterministic at index %d: %v != %v", i, givens1[i], givens2[i])
		}
	}
}

func TestDifferentDifficulties(t *testing.T) {
	router := setupRouter()

	seed := "difficulty-test-seed"
	difficulties := []string{"easy", "medium", "hard", "extreme", "impossible"}
	results := make(map[string]int)

	for _, diff := range difficulties {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/puzzle/"+seed+"?d="+diff, nil)
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		givens := response["givens"].([]interface{})

		count := 0
		for _, v := range givens {
			if v.(float64) != 0 {
				count++
			}
		}
		results[diff] = count
	}

	if results["easy"] <= results["impossible"] {
		t.Errorf("Expected easy (%d givens) to have more givens than impossible (%d givens)",
			results["easy"], results["impossible"])
	}

	t.Logf("Givens by difficulty: %v", results)
}
