package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// baseEnv carries just the required credentials; tests extend it.
func baseEnv(extra ...string) []string {
	env := []string{
		"OPENAI_API_KEY=test-key",
		"OPENAI_ENDPOINT=https://example.test/openai/deployments/gpt/chat/completions?api-version=1",
	}
	return append(env, extra...)
}

// absentGlobal returns a path that does not exist, so the host's real
// global config never leaks into a test.
func absentGlobal(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestLoad_defaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(LoadOptions{Env: baseEnv(), GlobalConfigPath: absentGlobal(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Policy != "full" || cfg.Strict {
		t.Errorf("policy/strict = %q/%v, want full/false", cfg.Policy, cfg.Strict)
	}
	if cfg.Timeout != 60*time.Second || cfg.Temperature != 0.7 || cfg.MaxTokens != 800 {
		t.Errorf("defaults = %v/%v/%v", cfg.Timeout, cfg.Temperature, cfg.MaxTokens)
	}
	if !reflect.DeepEqual(cfg.Vocabulary.CPUs, []string{"imx8mm", "imx8mp", "imx93"}) {
		t.Errorf("CPUs = %v", cfg.Vocabulary.CPUs)
	}
	if !reflect.DeepEqual(cfg.Vocabulary.Machines, []string{"ROM-5721", "ROM-5722", "ROM-2820"}) {
		t.Errorf("Machines = %v", cfg.Vocabulary.Machines)
	}
}

func TestLoad_missingCredentials(t *testing.T) {
	t.Parallel()
	_, err := Load(LoadOptions{Env: []string{}, GlobalConfigPath: absentGlobal(t)})
	if err == nil {
		t.Fatal("Load without credentials: expected error")
	}
	_, err = Load(LoadOptions{Env: []string{"OPENAI_API_KEY=k"}, GlobalConfigPath: absentGlobal(t)})
	if err == nil {
		t.Fatal("Load without endpoint: expected error")
	}
}

func TestLoad_repoConfig(t *testing.T) {
	t.Parallel()
	repo := t.TempDir()
	writeConfig(t, filepath.Join(repo, ".riscommit", "config.toml"), `
policy = "minimal"
strict = true
timeout = "90s"
max_tokens = 400
cpus = ["am62x"]
machines = ["RSB-3810"]
`)
	cfg, err := Load(LoadOptions{Env: baseEnv(), RepoPath: repo, GlobalConfigPath: absentGlobal(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Policy != "minimal" || !cfg.Strict {
		t.Errorf("policy/strict = %q/%v", cfg.Policy, cfg.Strict)
	}
	if cfg.Timeout != 90*time.Second || cfg.MaxTokens != 400 {
		t.Errorf("timeout/max_tokens = %v/%v", cfg.Timeout, cfg.MaxTokens)
	}
	if !reflect.DeepEqual(cfg.Vocabulary.CPUs, []string{"am62x"}) {
		t.Errorf("CPUs = %v", cfg.Vocabulary.CPUs)
	}
	if !reflect.DeepEqual(cfg.Vocabulary.Machines, []string{"RSB-3810"}) {
		t.Errorf("Machines = %v", cfg.Vocabulary.Machines)
	}
	// Types not overridden: defaults stay.
	if len(cfg.Vocabulary.Types) != 6 {
		t.Errorf("Types = %v", cfg.Vocabulary.Types)
	}
}

func TestLoad_envOverridesFile(t *testing.T) {
	t.Parallel()
	repo := t.TempDir()
	writeConfig(t, filepath.Join(repo, ".riscommit", "config.toml"), `policy = "minimal"`)
	cfg, err := Load(LoadOptions{
		Env:              baseEnv("RISCOMMIT_POLICY=full", "RISCOMMIT_TIMEOUT=120"),
		RepoPath:         repo,
		GlobalConfigPath: absentGlobal(t),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Policy != "full" {
		t.Errorf("Policy = %q, want env to win over file", cfg.Policy)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want integer seconds parsing", cfg.Timeout)
	}
}

func TestLoad_overridesBeatEnv(t *testing.T) {
	t.Parallel()
	policy := "minimal"
	strict := true
	timeout := 5 * time.Second
	cfg, err := Load(LoadOptions{
		Env:              baseEnv("RISCOMMIT_POLICY=full", "RISCOMMIT_STRICT=no"),
		GlobalConfigPath: absentGlobal(t),
		Overrides:        &Overrides{Policy: &policy, Strict: &strict, Timeout: &timeout},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Policy != "minimal" || !cfg.Strict || cfg.Timeout != 5*time.Second {
		t.Errorf("overrides not applied: %q/%v/%v", cfg.Policy, cfg.Strict, cfg.Timeout)
	}
}

func TestLoad_repoOverridesGlobal(t *testing.T) {
	t.Parallel()
	global := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, global, `remote = "upstream"`)
	repo := t.TempDir()
	writeConfig(t, filepath.Join(repo, ".riscommit", "config.toml"), `remote = "origin"`)
	cfg, err := Load(LoadOptions{Env: baseEnv(), RepoPath: repo, GlobalConfigPath: global})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want repo config to win", cfg.Remote)
	}
}

func TestLoad_endpointFromFileKeyFromEnv(t *testing.T) {
	t.Parallel()
	global := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, global, `endpoint = "https://file.test/chat"`)
	cfg, err := Load(LoadOptions{Env: []string{"OPENAI_API_KEY=k"}, GlobalConfigPath: global})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://file.test/chat" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
}

func TestLoad_invalidValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		env  []string
	}{
		{"bad_timeout", baseEnv("RISCOMMIT_TIMEOUT=soon")},
		{"bad_strict", baseEnv("RISCOMMIT_STRICT=maybe")},
		{"bad_temperature", baseEnv("RISCOMMIT_TEMPERATURE=warm")},
		{"bad_policy", baseEnv("RISCOMMIT_POLICY=aggressive")},
		{"bad_max_tokens", baseEnv("RISCOMMIT_MAX_TOKENS=-1")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(LoadOptions{Env: tt.env, GlobalConfigPath: absentGlobal(t)}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_malformedTOML(t *testing.T) {
	t.Parallel()
	global := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, global, `policy = [unclosed`)
	if _, err := Load(LoadOptions{Env: baseEnv(), GlobalConfigPath: global}); err == nil {
		t.Fatal("Load with malformed TOML: expected error")
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"90", 90 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"-5", 0, true},
		{"-1s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
