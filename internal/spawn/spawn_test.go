package spawn

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSpawnDoesNotBlock(t *testing.T) {
	start := time.Now()
	if err := Spawn([]string{"sleep", "5"}); err != nil {
		t.Skipf("sleep not available: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Spawn blocked for %s", elapsed)
	}
}

func TestSpawnMissingExecutable(t *testing.T) {
	start := time.Now()
	err := Spawn([]string{"mwm-definitely-not-a-command"})
	if err == nil {
		t.Error("expected error for missing executable")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Spawn blocked for %s", elapsed)
	}
}

func TestSpawnEmpty(t *testing.T) {
	if err := Spawn(nil); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("err = %v, want ErrEmptyCommand", err)
	}
	if err := Spawn([]string{""}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("err = %v, want ErrEmptyCommand", err)
	}
}

func TestSpawnRunsCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	if err := Spawn([]string{"sh", "-c", "echo hi > " + out}); err != nil {
		t.Skipf("sh not available: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		b, err := os.ReadFile(out)
		if err == nil && string(b) == "hi\n" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("spawned command did not run")
}
