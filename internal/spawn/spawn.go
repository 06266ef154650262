// Package spawn starts detached child processes.
package spawn

import (
	"errors"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/google/uuid"
)

var ErrEmptyCommand = errors.New("empty command")

// Spawn starts argv[0], resolved through $PATH, in a new session so it
// outlives the window manager. It never waits for the child; a goroutine
// reaps it so it does not linger as a zombie.
func Spawn(argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return ErrEmptyCommand
	}

	id := uuid.NewString()
	log := slog.With("package", "spawn", "id", id)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to spawn", "argv", argv, "error", err)
		return err
	}
	log.Debug("Spawned", "argv", argv, "pid", cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		log.Debug("Child exited", "pid", cmd.Process.Pid, "error", err)
	}()

	return nil
}
