package app

import (
    "os"
    "path/filepath"
    "testing"
)

// unsetEnv removes key for the duration of the test. An empty but set
// variable still counts as present for the dotenv loader.
func unsetEnv(t *testing.T, key string) {
    t.Helper()
    t.Setenv(key, "")
    if err := os.Unsetenv(key); err != nil {
        t.Fatalf("unset %s: %v", key, err)
    }
}

// LoadEnvFiles reads KEY=VALUE pairs and populates the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    unsetEnv(t, "FOO")
    unsetEnv(t, "BAR")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    content := "\n# sample dotenv file\nFOO=alpha\nBAR=beta\n"
    if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
        t.Fatalf("write dotenv: %v", err)
    }

    if err := LoadEnvFiles(envPath); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }

    if got := os.Getenv("FOO"); got != "alpha" {
        t.Fatalf("FOO=%q, want alpha", got)
    }
    if got := os.Getenv("BAR"); got != "beta" {
        t.Fatalf("BAR=%q, want beta", got)
    }
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    unsetEnv(t, "K")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil { t.Fatalf("write a: %v", err) }
    if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil { t.Fatalf("write b: %v", err) }

    if err := LoadEnvFiles(a, b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
}

// Variables exported in the shell win over dotenv files.
func TestLoadEnvFiles_KeepsExistingEnv(t *testing.T) {
    t.Setenv("LLM_MODEL", "from-shell")
    unsetEnv(t, "LLM_BASE_URL")
    p := filepath.Join(t.TempDir(), ".env")
    if err := os.WriteFile(p, []byte("LLM_MODEL=from-dotenv\nLLM_BASE_URL=http://dotenv.example/v1\n"), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }
    if err := LoadEnvFiles(p); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("LLM_MODEL"); got != "from-shell" {
        t.Fatalf("LLM_MODEL=%q, want from-shell", got)
    }
    if got := os.Getenv("LLM_BASE_URL"); got != "http://dotenv.example/v1" {
        t.Fatalf("LLM_BASE_URL=%q", got)
    }
}

// Missing files are skipped and quoted values are unwrapped.
func TestLoadEnvFiles_MissingAndQuoted(t *testing.T) {
    unsetEnv(t, "LLM_MODEL")
    unsetEnv(t, "SYSTEM_PROMPT")
    dir := t.TempDir()
    p := filepath.Join(dir, ".env")
    if err := os.WriteFile(p, []byte("LLM_MODEL=\"mistral:7b\"\nexport SYSTEM_PROMPT='Be brief.'\n"), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }
    if err := LoadEnvFiles(filepath.Join(dir, "absent.env"), p); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("LLM_MODEL"); got != "mistral:7b" {
        t.Fatalf("LLM_MODEL=%q, want mistral:7b", got)
    }
    if got := os.Getenv("SYSTEM_PROMPT"); got != "Be brief." {
        t.Fatalf("SYSTEM_PROMPT=%q", got)
    }
}
