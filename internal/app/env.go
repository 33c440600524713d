package app

import (
    "errors"
    "fmt"
    "os"
    "strings"

    "github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded by the CLI before flags are resolved.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads dotenv files into the process environment. Variables
// already present in the environment are never overridden, and among the
// files later ones win over earlier ones. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
    // godotenv keeps the first value it sees, so walk the list backwards
    for i := len(paths) - 1; i >= 0; i-- {
        p := strings.TrimSpace(paths[i])
        if p == "" {
            continue
        }
        if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
            continue
        }
        if err := godotenv.Load(p); err != nil {
            return fmt.Errorf("load %s: %w", p, err)
        }
    }
    return nil
}
