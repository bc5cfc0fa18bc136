package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DotDir, "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tier != "balanced" {
		t.Errorf("expected Tier=balanced, got %s", cfg.Tier)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("expected Concurrency=3, got %d", cfg.Concurrency)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.MaxRetries)
	}
	if cfg.CacheBackend != "fs" {
		t.Errorf("expected CacheBackend=fs, got %s", cfg.CacheBackend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Logging.Level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed config")
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DotDir, "config.json")

	cfg := &UserConfig{
		Provider:     "openai",
		OpenAIAPIKey: "k-openai",
		BaseURL:      "http://localhost:8080/v1",
		Tier:         "deep",
		Concurrency:  5,
		Models:       map[string]string{"deep": "o3"},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != "openai" || loaded.OpenAIAPIKey != "k-openai" {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
	if loaded.Tier != "deep" || loaded.Concurrency != 5 {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
	if loaded.ModelOverride("deep") != "o3" {
		t.Errorf("ModelOverride(deep)=%q, want o3", loaded.ModelOverride("deep"))
	}
	if loaded.ModelOverride("fast") != "" {
		t.Errorf("ModelOverride(fast)=%q, want empty", loaded.ModelOverride("fast"))
	}

	// Defaults still fill untouched fields after load
	if loaded.MaxRetries != 3 {
		t.Errorf("expected MaxRetries default 3, got %d", loaded.MaxRetries)
	}
}

func TestFindWorkspaceRoot_PrefersDotDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DotDir), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", DotDir, err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != mustEval(t, root) {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}

func TestFindWorkspaceRoot_FallsBackToGoMod(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	nested := filepath.Join(root, "subdir")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != mustEval(t, root) {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}

func mustEval(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", path, err)
	}
	return resolved
}

func TestUserConfig_ActiveProvider_PriorityAndLegacy(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &UserConfig{
		Provider:     "openai",
		OpenAIAPIKey: "k-openai",
		GeminiAPIKey: "k-gemini",
	}
	provider, key := cfg.ActiveProvider()
	if provider != "openai" || key != "k-openai" {
		t.Fatalf("ActiveProvider=%q/%q, want openai/k-openai", provider, key)
	}

	// Without explicit provider, gemini key wins
	auto := &UserConfig{OpenAIAPIKey: "k-openai", GeminiAPIKey: "k-gemini"}
	provider, key = auto.ActiveProvider()
	if provider != "gemini" || key != "k-gemini" {
		t.Fatalf("ActiveProvider auto=%q/%q, want gemini/k-gemini", provider, key)
	}

	legacy := &UserConfig{APIKey: "k-legacy"}
	provider, key = legacy.ActiveProvider()
	if provider != "gemini" || key != "k-legacy" {
		t.Fatalf("ActiveProvider legacy=%q/%q, want gemini/k-legacy", provider, key)
	}

	empty := &UserConfig{}
	if provider, key = empty.ActiveProvider(); provider != "" || key != "" {
		t.Fatalf("ActiveProvider empty=%q/%q, want empty", provider, key)
	}
}

func TestUserConfig_ActiveProvider_EnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "env-openai")

	cfg := &UserConfig{}
	provider, key := cfg.ActiveProvider()
	if provider != "openai" || key != "env-openai" {
		t.Fatalf("ActiveProvider=%q/%q, want openai/env-openai", provider, key)
	}

	// Explicit provider pulls its own env var
	cfg = &UserConfig{Provider: "openai"}
	provider, key = cfg.ActiveProvider()
	if provider != "openai" || key != "env-openai" {
		t.Fatalf("ActiveProvider explicit=%q/%q, want openai/env-openai", provider, key)
	}
}

func TestUserConfig_Validate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &UserConfig{}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing API key")
	}

	cfg.GeminiAPIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}

	cfg.Provider = "cohere"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid provider")
	}

	cfg.Provider = "gemini"
	cfg.CacheBackend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid cache backend")
	}
}

func TestUserConfig_ResolveDirs(t *testing.T) {
	cfg := &UserConfig{}
	cfg.applyDefaults()

	root := filepath.Join("/", "work", "proj")
	if got := cfg.ResolveCacheDir(root); got != filepath.Join(root, DotDir, "cache") {
		t.Errorf("ResolveCacheDir=%q", got)
	}
	if got := cfg.ResolveOutputDir(root); got != filepath.Join(root, DotDir) {
		t.Errorf("ResolveOutputDir=%q", got)
	}

	cfg.CacheDir = "tmp/cache"
	if got := cfg.ResolveCacheDir(root); got != filepath.Join(root, "tmp", "cache") {
		t.Errorf("ResolveCacheDir relative=%q", got)
	}

	abs := filepath.Join("/", "var", "cache", "superagents")
	cfg.CacheDir = abs
	if got := cfg.ResolveCacheDir(root); got != abs {
		t.Errorf("ResolveCacheDir abs=%q", got)
	}
}
