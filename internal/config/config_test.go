package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DatabasePath != "output/workspace_seed.sqlite" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.OrganizationCount != 1 {
		t.Errorf("OrganizationCount = %d, want 1", cfg.OrganizationCount)
	}
	if !cfg.SimulationStart.Before(cfg.SimulationEnd) {
		t.Error("default simulation window is inverted")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration failed validation: %v", err)
	}
}

func TestMissingCredentialDisablesLLM(t *testing.T) {
	t.Setenv("LLM_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	if cfg.LLMEnabled {
		t.Error("expected LLM to be disabled without a credential")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEED", "1234")
	t.Setenv("NUM_TASKS_PER_PROJECT_MIN", "5")
	t.Setenv("NUM_TASKS_PER_PROJECT_MAX", "9")
	t.Setenv("SIMULATION_START_DATE", "2024-01-01")
	t.Setenv("SIMULATION_END_DATE", "2024-06-30")

	cfg := Load()
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.TasksPerProjectMin != 5 || cfg.TasksPerProjectMax != 9 {
		t.Errorf("task range = %d..%d, want 5..9", cfg.TasksPerProjectMin, cfg.TasksPerProjectMax)
	}
	if cfg.SimulationStart.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("SimulationStart = %s", cfg.SimulationStart)
	}
}

func TestValidateRejectsInvertedRanges(t *testing.T) {
	cfg := Load()
	cfg.UsersPerTeamMin = 10
	cfg.UsersPerTeamMax = 3

	if err := cfg.Validate(); err == nil {
		t.Error("expected inverted range to fail validation")
	}
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	cfg := Load()
	cfg.SimulationStart, cfg.SimulationEnd = cfg.SimulationEnd, cfg.SimulationStart

	if err := cfg.Validate(); err == nil {
		t.Error("expected inverted window to fail validation")
	}
}

func TestLoadDistributions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distributions.yaml")
	yaml := `distributions:
  role_mix:
    member: 0.9
    admin: 0.1
rates:
  subtask_rate: 0.2
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	overrides, err := LoadDistributions(path)
	if err != nil {
		t.Fatalf("LoadDistributions failed: %v", err)
	}
	if overrides.Distributions["role_mix"]["member"] != 0.9 {
		t.Errorf("role_mix override not parsed: %+v", overrides.Distributions)
	}
	if overrides.Rates["subtask_rate"] != 0.2 {
		t.Errorf("rate override not parsed: %+v", overrides.Rates)
	}
}

func TestLoadDistributionsMissingFile(t *testing.T) {
	if _, err := LoadDistributions(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
