package cache

import (
    "context"
    "errors"
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestAnswerCache_SaveGet(t *testing.T) {
    tmp := t.TempDir()
    c := &AnswerCache{Dir: tmp}
    key := KeyFrom("model", "prompt")
    if err := c.Save(context.Background(), key, Entry{Model: "model", Question: "q", Answer: "a"}); err != nil {
        t.Fatalf("save: %v", err)
    }
    got, ok, err := c.Get(context.Background(), key)
    if err != nil || !ok {
        t.Fatalf("get: %v ok=%v", err, ok)
    }
    if got.Answer != "a" || got.Question != "q" || got.SavedAt.IsZero() {
        t.Fatalf("unexpected entry: %+v", got)
    }
}

func TestAnswerCache_MissAndCorruptEntry(t *testing.T) {
    tmp := t.TempDir()
    c := &AnswerCache{Dir: tmp}
    if _, ok, err := c.Get(context.Background(), KeyFrom("m", "absent")); ok || err != nil {
        t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
    }
    key := KeyFrom("m", "corrupt")
    if err := os.WriteFile(filepath.Join(tmp, key+".json"), []byte("{not json"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, ok, _ := c.Get(context.Background(), key); ok {
        t.Fatalf("corrupt entry must be a miss")
    }
}

func TestAnswerCache_Unconfigured(t *testing.T) {
    var c *AnswerCache
    if _, _, err := c.Get(context.Background(), "k"); err == nil {
        t.Fatalf("expected error for nil cache")
    }
}

func TestKeyFrom_DependsOnModelAndPrompt(t *testing.T) {
    if KeyFrom("a", "p") == KeyFrom("b", "p") || KeyFrom("a", "p") == KeyFrom("a", "q") {
        t.Fatalf("keys must differ by model and prompt")
    }
    if KeyFrom("a", "p") != KeyFrom("a", "p") {
        t.Fatalf("keys must be stable")
    }
}

func TestPurgeByAge(t *testing.T) {
    tmp := t.TempDir()
    c := &AnswerCache{Dir: tmp}
    oldKey, newKey := KeyFrom("m", "old"), KeyFrom("m", "new")
    for _, k := range []string{oldKey, newKey} {
        if err := c.Save(context.Background(), k, Entry{Answer: "x"}); err != nil {
            t.Fatalf("save: %v", err)
        }
    }
    past := time.Now().Add(-48 * time.Hour)
    if err := os.Chtimes(filepath.Join(tmp, oldKey+".json"), past, past); err != nil {
        t.Fatalf("chtimes: %v", err)
    }
    removed, err := PurgeByAge(context.Background(), tmp, 24*time.Hour)
    if err != nil {
        t.Fatalf("purge: %v", err)
    }
    if removed != 1 {
        t.Fatalf("expected 1 removed, got %d", removed)
    }
    if _, ok, _ := c.Get(context.Background(), oldKey); ok {
        t.Fatalf("old entry should be gone")
    }
    if _, ok, _ := c.Get(context.Background(), newKey); !ok {
        t.Fatalf("fresh entry should remain")
    }
    if n, err := PurgeByAge(context.Background(), filepath.Join(tmp, "missing"), time.Hour); n != 0 || err != nil {
        t.Fatalf("missing dir: n=%d err=%v", n, err)
    }
}

func TestPurgeByAge_CanceledContext(t *testing.T) {
    tmp := t.TempDir()
    c := &AnswerCache{Dir: tmp}
    key := KeyFrom("m", "old")
    if err := c.Save(context.Background(), key, Entry{Answer: "x"}); err != nil {
        t.Fatalf("save: %v", err)
    }
    past := time.Now().Add(-48 * time.Hour)
    if err := os.Chtimes(filepath.Join(tmp, key+".json"), past, past); err != nil {
        t.Fatalf("chtimes: %v", err)
    }
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    removed, err := PurgeByAge(ctx, tmp, time.Hour)
    if !errors.Is(err, context.Canceled) || removed != 0 {
        t.Fatalf("expected canceled purge, got n=%d err=%v", removed, err)
    }
    if _, err := os.Stat(filepath.Join(tmp, key+".json")); err != nil {
        t.Fatalf("entry should survive a canceled purge: %v", err)
    }
}

func TestClearDir(t *testing.T) {
    tmp := filepath.Join(t.TempDir(), "cache")
    c := &AnswerCache{Dir: tmp}
    if err := c.Save(context.Background(), KeyFrom("m", "p"), Entry{Answer: "x"}); err != nil {
        t.Fatalf("save: %v", err)
    }
    if err := ClearDir(tmp); err != nil {
        t.Fatalf("clear: %v", err)
    }
    entries, err := os.ReadDir(tmp)
    if err != nil || len(entries) != 0 {
        t.Fatalf("expected empty dir, got %v %v", entries, err)
    }
    if err := ClearDir(" "); err == nil {
        t.Fatalf("expected error for blank dir")
    }
}
