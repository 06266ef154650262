package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ItsNotGoodName/mwm/internal/bus"
	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	"github.com/ItsNotGoodName/mwm/internal/xwm"
)

type fixture struct {
	router   http.Handler
	hub      *bus.Hub[xwm.Command]
	spawned  [][]string
	spawnErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	noop := func() error { return nil }
	table := shortcut.NewTable(
		shortcut.Binding{Mods: shortcut.Mod1, Sym: keysym.XK_Return, Action: shortcut.Func{Name: "spawn dmenu_run", Fn: noop}},
		shortcut.Binding{Mods: shortcut.Mod1 | shortcut.Shift, Sym: 'q', Action: shortcut.Func{Name: "quit", Fn: noop}},
	)

	f := &fixture{hub: bus.NewHub[xwm.Command]()}
	f.router = NewRouter(New(table, f.hub, func(argv []string) error {
		f.spawned = append(f.spawned, argv)
		return f.spawnErr
	}))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListShortcuts(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/v1/shortcuts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var got []Shortcut
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := []Shortcut{
		{Chord: "Mod1+Return", Mods: "Mod1", Key: "Return", Action: "spawn dmenu_run"},
		{Chord: "Shift+Mod1+q", Mods: "Shift+Mod1", Key: "q", Action: "quit"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shortcuts = %+v, want %+v", got, want)
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		path string
		want xwm.Command
	}{
		{"/v1/quit", xwm.CommandQuit},
		{"/v1/reload", xwm.CommandReload},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t)
			commands, unsub := f.hub.Subscribe()
			defer unsub()

			gotC := make(chan xwm.Command, 1)
			go func() { gotC <- <-commands }()

			rec := f.do(http.MethodPost, tt.path, "")
			if rec.Code != http.StatusAccepted {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}

			select {
			case got := <-gotC:
				if got != tt.want {
					t.Errorf("command = %s, want %s", got, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("command not delivered")
			}
		})
	}
}

func TestSpawn(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/v1/spawn", `{"argv": ["xterm", "-e", "htop"]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if want := [][]string{{"xterm", "-e", "htop"}}; !reflect.DeepEqual(f.spawned, want) {
		t.Errorf("spawned = %v, want %v", f.spawned, want)
	}
}

func TestSpawnErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		spawnErr error
		want     int
	}{
		{"empty argv", `{"argv": []}`, nil, http.StatusUnprocessableEntity},
		{"wrong type", `{"argv": [1]}`, nil, http.StatusUnprocessableEntity},
		{"spawn failure", `{"argv": ["missing"]}`, errors.New("not found"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.spawnErr = tt.spawnErr

			rec := f.do(http.MethodPost, "/v1/spawn", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}
