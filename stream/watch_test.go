package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("show:\n  frameRate: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cw, err := NewConfigWatcher(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Config, 1)
	go cw.Run(ctx, func(c Config) {
		select {
		case changes <- c:
		default:
		}
	})

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("show:\n  frameRate: 60\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case c := <-changes:
		if c.Show.FrameRate != 60 {
			t.Fatalf("frame rate = %v, want 60", c.Show.FrameRate)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("config change not delivered")
	}
}
