package config

import (
	"errors"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"sudoku-api/pkg/constants"
)

type Config struct {
	JWTSecret string
	Port      string

	SolverConfig
}

// SolverConfig holds the solver-tuning knobs shared by the HTTP server and
// the standalone CLI tools (cmd/generate). It loads independently of the
// server's JWT requirement so a batch tool can pick it up without also
// needing a session secret.
type SolverConfig struct {
	// MaxSolutions bounds how many solutions engine.Solve enumerates before
	// stopping; used as the probe limit for /api/solve and
	// /api/custom/validate.
	MaxSolutions int
	// SolveWorkers bounds worker-pool concurrency for cmd/generate's puzzle
	// carving.
	SolveWorkers int
}

// solverOverrides is the shape of the optional YAML file named by
// SOLVER_CONFIG_FILE. Fields left zero in the file don't override the
// environment-derived default.
type solverOverrides struct {
	MaxSolutions int `yaml:"max_solutions"`
	SolveWorkers int `yaml:"solve_workers"`
}

// LoadSolverConfig reads SOLVER_MAX_SOLUTIONS/SOLVER_WORKERS from the
// environment, then applies an optional solver.yaml override file. Callers
// that don't need the full server Config (cmd/generate) can use this
// directly instead of going through Load.
func LoadSolverConfig() (SolverConfig, error) {
	sc := SolverConfig{
		MaxSolutions: getEnvInt("SOLVER_MAX_SOLUTIONS", constants.SolutionCountLimit),
		SolveWorkers: getEnvInt("SOLVER_WORKERS", runtime.NumCPU()),
	}
	if err := sc.applyYAMLOverride(getEnv("SOLVER_CONFIG_FILE", "solver.yaml")); err != nil {
		return sc, err
	}
	return sc, nil
}

// Load loads configuration from environment variables, then applies an
// optional YAML override file for the solver-tuning fields.
// Returns an error if JWT_SECRET is not set or equals "changeme".
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	if jwtSecret == "" {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET environment variable is required but not set")
	}

	if jwtSecret == "changeme" {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET cannot be 'changeme' - please set a secure secret")
	}

	if len(jwtSecret) < 32 {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET must be at least 32 characters long")
	}

	solverCfg, err := LoadSolverConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		JWTSecret:    jwtSecret,
		Port:         getEnv("PORT", "8080"),
		SolverConfig: solverCfg,
	}

	return cfg, nil
}

// applyYAMLOverride merges a solver.yaml file into sc if the file exists.
// A missing file is not an error; a malformed one is.
func (sc *SolverConfig) applyYAMLOverride(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var overrides solverOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}

	if overrides.MaxSolutions > 0 {
		sc.MaxSolutions = overrides.MaxSolutions
	}
	if overrides.SolveWorkers > 0 {
		sc.SolveWorkers = overrides.SolveWorkers
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
