package cache

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"
)

// Entry is one cached model answer.
type Entry struct {
    Model    string    `json:"model"`
    Question string    `json:"question"`
    Answer   string    `json:"answer"`
    SavedAt  time.Time `json:"saved_at"`
}

// AnswerCache stores model answers keyed by a digest of model name and full
// prompt, so the same question over the same snapshot is answered once.
type AnswerCache struct {
    Dir string
    // StrictPerms enforces 0700 on the cache directory and 0600 on files.
    StrictPerms bool
}

func (c *AnswerCache) ensureDir() error {
    if c == nil || c.Dir == "" {
        return errors.New("cache dir not configured")
    }
    perm := os.FileMode(0o755)
    if c.StrictPerms {
        perm = 0o700
    }
    if err := os.MkdirAll(c.Dir, perm); err != nil {
        return err
    }
    // Tighten a pre-existing directory
    if c.StrictPerms {
        if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
            _ = os.Chmod(c.Dir, 0o700)
        }
    }
    return nil
}

// KeyFrom builds a cache key from model and prompt.
func KeyFrom(model string, prompt string) string {
    h := sha256.Sum256([]byte(model + "\n\n" + prompt))
    return hex.EncodeToString(h[:])
}

func (c *AnswerCache) pathFor(key string) string {
    return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached entry for key. A missing or unreadable entry is a
// miss, not an error.
func (c *AnswerCache) Get(_ context.Context, key string) (Entry, bool, error) {
    if err := c.ensureDir(); err != nil {
        return Entry{}, false, err
    }
    p := c.pathFor(key)
    b, err := os.ReadFile(p)
    if err != nil {
        return Entry{}, false, nil
    }
    var e Entry
    if err := json.Unmarshal(b, &e); err != nil || e.Answer == "" {
        return Entry{}, false, nil
    }
    // Touch mtime so age-based purging keeps hot entries
    now := time.Now()
    _ = os.Chtimes(p, now, now)
    return e, true, nil
}

// Save writes e under key, replacing any previous entry.
func (c *AnswerCache) Save(_ context.Context, key string, e Entry) error {
    if err := c.ensureDir(); err != nil {
        return err
    }
    if e.SavedAt.IsZero() {
        e.SavedAt = time.Now().UTC()
    }
    data, err := json.Marshal(e)
    if err != nil {
        return fmt.Errorf("encode entry: %w", err)
    }
    mode := os.FileMode(0o644)
    if c.StrictPerms {
        mode = 0o600
    }
    return os.WriteFile(c.pathFor(key), data, mode)
}
