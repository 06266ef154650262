package xwm

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ItsNotGoodName/mwm/internal/config"
	"github.com/ItsNotGoodName/mwm/internal/core"
	"github.com/ItsNotGoodName/mwm/internal/script"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
)

// StaticBindings converts the config's bindings. Malformed entries are
// skipped and reported in the returned error.
func StaticBindings(bindings []config.Binding, host script.Host) ([]shortcut.Binding, error) {
	var (
		result []shortcut.Binding
		errs   []error
	)

	for i, b := range bindings {
		mods, sym, err := shortcut.ParseChord(b.Key)
		if err != nil {
			errs = append(errs, fmt.Errorf("bindings[%d]: %w", i, err))
			continue
		}

		action, err := staticAction(b, host)
		if err != nil {
			errs = append(errs, fmt.Errorf("bindings[%d] %s: %w", i, b.Key, err))
			continue
		}

		result = append(result, shortcut.Binding{Mods: mods, Sym: sym, Action: action})
	}

	return result, errors.Join(errs...)
}

func staticAction(b config.Binding, host script.Host) (shortcut.Action, error) {
	if len(b.Spawn) != 0 {
		if b.Action != "" {
			return nil, errors.New("binding has both action and spawn")
		}
		argv := append([]string(nil), b.Spawn...)
		return shortcut.Func{
			Name: "spawn " + strings.Join(argv, " "),
			Fn:   func() error { return host.Spawn(argv) },
		}, nil
	}

	switch b.Action {
	case config.ActionQuit:
		return shortcut.Func{Name: "quit", Fn: func() error {
			host.Quit()
			return nil
		}}, nil
	case config.ActionReload:
		return shortcut.Func{Name: "reload", Fn: func() error {
			host.Reload()
			return nil
		}}, nil
	case "":
		return nil, errors.New("binding has no action or spawn")
	default:
		return nil, fmt.Errorf("unknown action %q", b.Action)
	}
}

// LoadScript runs the script at path. A missing script is not an error and
// returns a nil bridge.
func LoadScript(path string, host script.Host) (*script.Bridge, error) {
	if path == "" {
		return nil, nil
	}

	exists, err := core.FileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Info("No script found", "package", "xwm", "path", path)
		return nil, nil
	}

	return script.Load(path, host)
}
