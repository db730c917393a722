package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"seedforge/internal/distribution"
)

// Config holds all application configuration
type Config struct {
	DatabasePath string
	Seed         int64

	// Volume knobs
	OrganizationCount  int
	TeamsPerOrgMin     int
	TeamsPerOrgMax     int
	UsersPerTeamMin    int
	UsersPerTeamMax    int
	ProjectsPerTeamMin int
	ProjectsPerTeamMax int
	TasksPerProjectMin int
	TasksPerProjectMax int

	// Temporal simulation window
	SimulationStart time.Time
	SimulationEnd   time.Time

	// LLM configuration
	LLMEnabled      bool
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	Temperature     float64
	MaxTokens       int
	ParallelWorkers int

	// Optional YAML file overriding the named distribution weights
	DistributionsFile string
}

// Load loads configuration from environment variables with defaults.
// Absence of an LLM credential is equivalent to LLM_ENABLED=false.
func Load() *Config {
	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "output/workspace_seed.sqlite"),
		Seed:         getInt64Env("SEED", 42),

		OrganizationCount:  getIntEnv("NUM_ORGANIZATIONS", 1),
		TeamsPerOrgMin:     getIntEnv("NUM_TEAMS_PER_ORGANIZATION_MIN", 4),
		TeamsPerOrgMax:     getIntEnv("NUM_TEAMS_PER_ORGANIZATION_MAX", 8),
		UsersPerTeamMin:    getIntEnv("NUM_USERS_PER_TEAM_MIN", 3),
		UsersPerTeamMax:    getIntEnv("NUM_USERS_PER_TEAM_MAX", 8),
		ProjectsPerTeamMin: getIntEnv("NUM_PROJECTS_PER_TEAM_MIN", 2),
		ProjectsPerTeamMax: getIntEnv("NUM_PROJECTS_PER_TEAM_MAX", 4),
		TasksPerProjectMin: getIntEnv("NUM_TASKS_PER_PROJECT_MIN", 12),
		TasksPerProjectMax: getIntEnv("NUM_TASKS_PER_PROJECT_MAX", 40),

		SimulationStart: getDateEnv("SIMULATION_START_DATE", "2025-07-01"),
		SimulationEnd:   getDateEnv("SIMULATION_END_DATE", "2026-01-07"),

		LLMEnabled:      getBoolEnv("LLM_ENABLED", true),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		Temperature:     getFloatEnv("OPENAI_TEMPERATURE", 0.7),
		MaxTokens:       getIntEnv("OPENAI_MAX_TOKENS", 500),
		ParallelWorkers: getIntEnv("PARALLEL_WORKERS", 4),

		DistributionsFile: getEnv("DISTRIBUTIONS_FILE", ""),
	}

	// No credential means template-only generation
	if cfg.OpenAIAPIKey == "" {
		cfg.LLMEnabled = false
	}

	return cfg
}

// Validate checks invariants across the loaded values.
func (c *Config) Validate() error {
	if c.OrganizationCount < 1 {
		return fmt.Errorf("NUM_ORGANIZATIONS must be at least 1, got %d", c.OrganizationCount)
	}
	ranges := []struct {
		name     string
		min, max int
	}{
		{"NUM_TEAMS_PER_ORGANIZATION", c.TeamsPerOrgMin, c.TeamsPerOrgMax},
		{"NUM_USERS_PER_TEAM", c.UsersPerTeamMin, c.UsersPerTeamMax},
		{"NUM_PROJECTS_PER_TEAM", c.ProjectsPerTeamMin, c.ProjectsPerTeamMax},
		{"NUM_TASKS_PER_PROJECT", c.TasksPerProjectMin, c.TasksPerProjectMax},
	}
	for _, r := range ranges {
		if r.min < 1 || r.min > r.max {
			return fmt.Errorf("%s_MIN..%s_MAX is not a valid range: %d..%d", r.name, r.name, r.min, r.max)
		}
	}
	if !c.SimulationStart.Before(c.SimulationEnd) {
		return fmt.Errorf("SIMULATION_START_DATE must be before SIMULATION_END_DATE")
	}
	return nil
}

// LoadDistributions loads distribution overrides from a YAML file.
func LoadDistributions(filePath string) (*distribution.Overrides, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read distributions file: %w", err)
	}

	var overrides distribution.Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse distributions YAML: %w", err)
	}

	return &overrides, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDateEnv(key string, defaultValue string) time.Time {
	value := getEnv(key, defaultValue)
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, _ = time.Parse("2006-01-02", defaultValue)
	}
	return parsed
}
