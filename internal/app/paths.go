package app

import (
    "os"
    "path/filepath"
)

// writeFile writes data to path, creating missing parent directories.
func writeFile(path string, data []byte) error {
    if dir := filepath.Dir(path); dir != "" {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return err
        }
    }
    return os.WriteFile(path, data, 0o644)
}
