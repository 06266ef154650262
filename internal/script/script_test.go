package script

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	lua "github.com/yuin/gopher-lua"
)

type testHost struct {
	spawned  [][]string
	spawnErr error
	quits    int
	reloads  int
}

func (h *testHost) Spawn(argv []string) error {
	h.spawned = append(h.spawned, argv)
	return h.spawnErr
}

func (h *testHost) Quit() { h.quits++ }

func (h *testHost) Reload() { h.reloads++ }

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(src), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func load(t *testing.T, src string) (*Bridge, *testHost) {
	t.Helper()
	host := &testHost{}
	b, err := Load(writeScript(t, src), host)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Close)
	return b, host
}

func TestLoadBindings(t *testing.T) {
	b, host := load(t, `
bind({"Mod4"}, "t", function() spawn({"xterm"}) end)

shortcuts = {
	{ mods = {"Mod1"}, key = "Return", spawn = {"dmenu_run"} },
	{ mods = "Mod1+Shift", key = "q", action = quit },
	{ mods = 8, key = "r", action = function() reload() end },
	{ key = "F1", spawn = {"xterm", "-e", "man", "mwm"} },
}
`)

	bindings := b.Bindings()
	want := []struct {
		mods shortcut.Mask
		sym  uint32
	}{
		{shortcut.Mod4, 't'},
		{shortcut.Mod1, uint32(keysym.XK_Return)},
		{shortcut.Mod1 | shortcut.Shift, 'q'},
		{shortcut.Mod1, 'r'},
		{0, uint32(keysym.XK_F1)},
	}
	if len(bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(bindings), len(want))
	}
	for i, w := range want {
		if bindings[i].Mods != w.mods || uint32(bindings[i].Sym) != w.sym {
			t.Errorf("binding %d = %s, want mods %s sym 0x%x", i, bindings[i].Chord(), w.mods, w.sym)
		}
	}

	for _, binding := range bindings {
		if err := binding.Action.Run(); err != nil {
			t.Fatalf("%s: %v", binding, err)
		}
	}

	wantSpawned := [][]string{{"xterm"}, {"dmenu_run"}, {"xterm", "-e", "man", "mwm"}}
	if !reflect.DeepEqual(host.spawned, wantSpawned) {
		t.Errorf("spawned = %v, want %v", host.spawned, wantSpawned)
	}
	if host.quits != 1 || host.reloads != 1 {
		t.Errorf("quits = %d, reloads = %d", host.quits, host.reloads)
	}
}

func TestLoadNoShortcuts(t *testing.T) {
	b, _ := load(t, `local x = 1`)
	if len(b.Bindings()) != 0 {
		t.Errorf("got %d bindings", len(b.Bindings()))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `shortcuts = {`, "failed to load"},
		{"runtime", `error("nope")`, "nope"},
		{"spawn non string", `spawn({"xterm", 42})`, "argv[2]"},
		{"spawn varargs non string", `spawn("xterm", {})`, "string expected"},
		{"spawn empty", `spawn({})`, "argv is empty"},
		{"bind bad mod", `bind({"Hyper"}, "a", function() end)`, "unknown modifier"},
		{"bind bad key", `bind({}, "NotAKey", function() end)`, "unknown key"},
		{"bind no function", `bind({}, "a", 1)`, "function expected"},
		{"shortcuts not table", `shortcuts = 1`, "expected table"},
		{"entry not table", `shortcuts = { "a" }`, "shortcuts[1]"},
		{"entry no action", `shortcuts = { { key = "a" } }`, "missing action"},
		{"entry bad action", `shortcuts = { { key = "a", action = "x" } }`, "action must be a function"},
		{"entry bad spawn", `shortcuts = { { key = "a", spawn = { true } } }`, "argv[1]"},
		{"entry no key", `shortcuts = { { spawn = {"x"} } }`, "key must be a string"},
		{"entry bad mask", `shortcuts = { { mods = 1.5, key = "a", spawn = {"x"} } }`, "invalid modifier mask"},
		{"entry numlock mask", `shortcuts = { { mods = 16, key = "p", spawn = {"x"} } }`, "Mod2 is not a binding modifier"},
		{"bind capslock mask", `bind(2, "p", function() end)`, "Lock is not a binding modifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &testHost{}
			b, err := Load(writeScript(t, tt.src), host)
			if err == nil {
				b.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
			if len(host.spawned) != 0 {
				t.Errorf("spawned %v on failed load", host.spawned)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.lua"), &testHost{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCallbackRestoresStackOnError(t *testing.T) {
	b, _ := load(t, `
bind({}, "a", function() error("boom") end)
bind({}, "b", function() return 1, 2, 3 end)
bind({}, "c", function() local t = nil; return t.x end)
`)

	// Leave something on the stack to make sure it survives.
	b.l.Push(lua.LString("sentinel"))
	before := b.Depth()

	for _, binding := range b.Bindings() {
		err := binding.Action.Run()
		if got := b.Depth(); got != before {
			t.Fatalf("%s: depth %d after call, want %d", binding, got, before)
		}
		if binding.Sym == 'b' && err != nil {
			t.Errorf("%s: unexpected error %v", binding, err)
		}
		if binding.Sym != 'b' && err == nil {
			t.Errorf("%s: expected error", binding)
		}
	}

	if s, ok := b.l.Get(-1).(lua.LString); !ok || s != "sentinel" {
		t.Errorf("top of stack = %v, want sentinel", b.l.Get(-1))
	}

	// The state is still usable after the failures.
	for i := 0; i < 100; i++ {
		if err := b.Bindings()[1].Action.Run(); err != nil {
			t.Fatal(err)
		}
	}
	if got := b.Depth(); got != before {
		t.Errorf("depth %d after repeated calls, want %d", got, before)
	}
}

func TestSpawnFailureIsReturnedToScript(t *testing.T) {
	host := &testHost{spawnErr: errors.New("not found")}
	b, err := Load(writeScript(t, `
bind({}, "a", function()
	local ok, err = spawn("nope")
	if ok then error("expected failure") end
	if err ~= "not found" then error("unexpected " .. tostring(err)) end
end)
`), host)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.Bindings()[0].Action.Run(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(host.spawned, [][]string{{"nope"}}) {
		t.Errorf("spawned = %v", host.spawned)
	}
}

func TestCallbackAfterClose(t *testing.T) {
	host := &testHost{}
	b, err := Load(writeScript(t, `bind({}, "a", function() end)`), host)
	if err != nil {
		t.Fatal(err)
	}
	action := b.Bindings()[0].Action
	b.Close()
	b.Close()

	if err := action.Run(); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestCallbackString(t *testing.T) {
	b, _ := load(t, "\nbind({}, \"a\", function() end)\nshortcuts = { { key = \"q\", action = quit } }\n")
	bindings := b.Bindings()

	if got := bindings[0].Action.String(); !strings.HasSuffix(got, ":2") {
		t.Errorf("String() = %q, want line 2", got)
	}
	if got := bindings[1].Action.String(); got != "lua:builtin" {
		t.Errorf("String() = %q, want lua:builtin", got)
	}
}

func TestBindAfterLoadFails(t *testing.T) {
	b, host := load(t, `
bind({"Mod1"}, "p", function() bind({"Mod1"}, "q", quit) end)
`)

	err := b.Bindings()[0].Action.Run()
	if err == nil || !strings.Contains(err.Error(), "only allowed while the script loads") {
		t.Fatalf("err = %v", err)
	}
	if len(b.Bindings()) != 1 {
		t.Errorf("got %d bindings, want 1", len(b.Bindings()))
	}
	if host.quits != 0 {
		t.Errorf("quits = %d", host.quits)
	}
}
