package intro

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTuning(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	writeTuning(t, path, "movement:\n  speed: 5\n")

	cw, err := WatchConfig(path)
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer cw.Close()

	writeTuning(t, path, "movement:\n  speed: 7\n")

	select {
	case cfg := <-cw.Configs:
		if cfg.Movement.Speed != 7 {
			t.Errorf("reloaded speed: expected 7, got %v", cfg.Movement.Speed)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no config delivered after file write")
	}
}

// Close must never race the run goroutine's sends: a save landing in the
// window between event dequeue and channel send used to panic the process.
func TestWatcherCloseDuringWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	writeTuning(t, path, "movement:\n  speed: 5\n")

	for i := 0; i < 30; i++ {
		cw, err := WatchConfig(path)
		if err != nil {
			t.Fatalf("WatchConfig: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 20; j++ {
				_ = os.WriteFile(path, []byte("movement:\n  speed: 6\n"), 0o644)
			}
		}()

		if err := cw.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		<-done
	}
}

func TestWatcherChannelsCloseAfterClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	writeTuning(t, path, "movement:\n  speed: 5\n")

	cw, err := WatchConfig(path)
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Second Close is a no-op
	if err := cw.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-cw.Configs:
			if !ok {
				return // run goroutine exited and closed its channels
			}
		case <-deadline:
			t.Fatal("Configs still open after Close")
		}
	}
}
