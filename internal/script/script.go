// Package script runs the user's Lua configuration and turns the bindings it
// registers into shortcut actions.
//
// The script sees these globals:
//
//	spawn(argv)            -- spawn({"xterm", "-e", "htop"}) or spawn("xterm", "-e", "htop")
//	bind(mods, key, fn)    -- bind({"Mod1"}, "Return", function() spawn({"dmenu_run"}) end)
//	quit()
//	reload()
//
// After the file runs, the global `shortcuts` sequence is read. Each entry is
// { mods = ..., key = "p", action = fn } or { mods = ..., key = "p", spawn = {argv} }.
// mods is a list of modifier names, a "Mod1+Shift" string or an integer mask.
// bind() registrations come first, in call order, followed by `shortcuts`.
// bind() only works while the file runs; callbacks that need new bindings
// call reload().
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	lua "github.com/yuin/gopher-lua"
)

var ErrClosed = errors.New("script closed")

// ErrBindAfterLoad is raised by bind() from a callback. The table and the key
// grabs are built once per load, so a later binding could never fire.
var ErrBindAfterLoad = errors.New("bind is only allowed while the script loads, call reload() instead")

// Host is what the script can ask of the window manager.
type Host interface {
	Spawn(argv []string) error
	Quit()
	Reload()
}

// Bridge owns one Lua state and the bindings its script registered.
// It is not safe for concurrent use; callbacks must run on the goroutine that
// dispatches events.
type Bridge struct {
	path     string
	l        *lua.LState
	host     Host
	bindings []shortcut.Binding
	loaded   bool
	closed   bool
}

// Load runs the script at path. On any error the Lua state is closed and no
// bindings are returned.
func Load(path string, host Host) (*Bridge, error) {
	b := &Bridge{
		path: path,
		l:    lua.NewState(),
		host: host,
	}

	b.l.SetGlobal("spawn", b.l.NewFunction(b.luaSpawn))
	b.l.SetGlobal("bind", b.l.NewFunction(b.luaBind))
	b.l.SetGlobal("quit", b.l.NewFunction(b.luaQuit))
	b.l.SetGlobal("reload", b.l.NewFunction(b.luaReload))

	if err := b.load(); err != nil {
		b.Close()
		return nil, err
	}
	b.loaded = true

	return b, nil
}

func (b *Bridge) load() error {
	guard := enter(b.l)
	defer guard.leave()

	if err := b.l.DoFile(b.path); err != nil {
		return fmt.Errorf("failed to load %s: %w", b.path, err)
	}

	switch shortcuts := b.l.GetGlobal("shortcuts").(type) {
	case *lua.LNilType:
	case *lua.LTable:
		for i := 1; i <= shortcuts.Len(); i++ {
			entry, ok := shortcuts.RawGetInt(i).(*lua.LTable)
			if !ok {
				return fmt.Errorf("%s: shortcuts[%d] is %s, expected table", b.path, i, shortcuts.RawGetInt(i).Type())
			}
			binding, err := b.parseEntry(entry)
			if err != nil {
				return fmt.Errorf("%s: shortcuts[%d]: %w", b.path, i, err)
			}
			b.bindings = append(b.bindings, binding)
		}
	default:
		return fmt.Errorf("%s: shortcuts is %s, expected table", b.path, shortcuts.Type())
	}

	return nil
}

func (b *Bridge) parseEntry(entry *lua.LTable) (shortcut.Binding, error) {
	mods, err := parseMods(entry.RawGetString("mods"))
	if err != nil {
		return shortcut.Binding{}, err
	}

	key, ok := entry.RawGetString("key").(lua.LString)
	if !ok {
		return shortcut.Binding{}, errors.New("key must be a string")
	}
	sym, err := keysym.Parse(string(key))
	if err != nil {
		return shortcut.Binding{}, err
	}

	var action shortcut.Action
	switch {
	case entry.RawGetString("action") != lua.LNil:
		fn, ok := entry.RawGetString("action").(*lua.LFunction)
		if !ok {
			return shortcut.Binding{}, errors.New("action must be a function")
		}
		action = b.callback(fn)
	case entry.RawGetString("spawn") != lua.LNil:
		tbl, ok := entry.RawGetString("spawn").(*lua.LTable)
		if !ok {
			return shortcut.Binding{}, errors.New("spawn must be a table of strings")
		}
		argv, err := tableArgv(tbl)
		if err != nil {
			return shortcut.Binding{}, fmt.Errorf("spawn: %w", err)
		}
		action = shortcut.Func{
			Name: "spawn " + strings.Join(argv, " "),
			Fn:   func() error { return b.host.Spawn(argv) },
		}
	default:
		return shortcut.Binding{}, errors.New("missing action or spawn")
	}

	return shortcut.Binding{Mods: mods, Sym: sym, Action: action}, nil
}

// Bindings returns the bindings in registration order.
func (b *Bridge) Bindings() []shortcut.Binding {
	return append([]shortcut.Binding(nil), b.bindings...)
}

// Close releases the Lua state. Callbacks from this bridge fail afterwards.
func (b *Bridge) Close() {
	if b == nil || b.closed {
		return
	}
	b.closed = true
	b.l.Close()
}

func (b *Bridge) luaSpawn(l *lua.LState) int {
	var argv []string
	if tbl, ok := l.Get(1).(*lua.LTable); ok && l.GetTop() == 1 {
		var err error
		argv, err = tableArgv(tbl)
		if err != nil {
			l.ArgError(1, err.Error())
		}
	} else {
		for i := 1; i <= l.GetTop(); i++ {
			s, ok := l.Get(i).(lua.LString)
			if !ok {
				l.ArgError(i, fmt.Sprintf("string expected, got %s", l.Get(i).Type()))
			}
			argv = append(argv, string(s))
		}
		if len(argv) == 0 {
			l.ArgError(1, "argv is empty")
		}
	}

	if err := b.host.Spawn(argv); err != nil {
		l.Push(lua.LFalse)
		l.Push(lua.LString(err.Error()))
		return 2
	}
	l.Push(lua.LTrue)
	return 1
}

func (b *Bridge) luaBind(l *lua.LState) int {
	if b.loaded {
		l.RaiseError("%s", ErrBindAfterLoad.Error())
		return 0
	}
	mods, err := parseMods(l.Get(1))
	if err != nil {
		l.ArgError(1, err.Error())
	}
	sym, err := keysym.Parse(l.CheckString(2))
	if err != nil {
		l.ArgError(2, err.Error())
	}
	fn := l.CheckFunction(3)

	b.bindings = append(b.bindings, shortcut.Binding{
		Mods:   mods,
		Sym:    sym,
		Action: b.callback(fn),
	})
	return 0
}

func (b *Bridge) luaQuit(l *lua.LState) int {
	b.host.Quit()
	return 0
}

func (b *Bridge) luaReload(l *lua.LState) int {
	b.host.Reload()
	return 0
}

// tableArgv converts a Lua sequence of strings to an argument vector.
func tableArgv(tbl *lua.LTable) ([]string, error) {
	n := tbl.Len()
	if n == 0 {
		return nil, errors.New("argv is empty")
	}
	argv := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("argv[%d] is %s, expected string", i, tbl.RawGetInt(i).Type())
		}
		argv = append(argv, string(s))
	}
	return argv, nil
}

func parseMods(v lua.LValue) (shortcut.Mask, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return 0, nil
	case lua.LNumber:
		if v < 0 || v > 0xffff || v != lua.LNumber(int(v)) {
			return 0, fmt.Errorf("invalid modifier mask %v", v)
		}
		mask := shortcut.Mask(uint16(v))
		if err := mask.Validate(); err != nil {
			return 0, err
		}
		return mask, nil
	case lua.LString:
		if v == "" {
			return 0, nil
		}
		return shortcut.ParseMods(strings.Split(string(v), "+"))
	case *lua.LTable:
		var names []string
		for i := 1; i <= v.Len(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				return 0, fmt.Errorf("mods[%d] is %s, expected string", i, v.RawGetInt(i).Type())
			}
			names = append(names, string(s))
		}
		return shortcut.ParseMods(names)
	default:
		return 0, fmt.Errorf("mods is %s, expected table, string or number", v.Type())
	}
}

// callback is a Lua function bound to a key.
type callback struct {
	b  *Bridge
	fn *lua.LFunction
}

func (b *Bridge) callback(fn *lua.LFunction) shortcut.Action {
	return callback{b: b, fn: fn}
}

// Run calls the function with no arguments. A Lua error is returned, never
// raised, and the stack depth is restored on every path.
func (c callback) Run() error {
	if c.b.closed {
		return ErrClosed
	}

	guard := enter(c.b.l)
	defer guard.leave()

	c.b.l.Push(c.fn)
	if err := c.b.l.PCall(0, 0, nil); err != nil {
		slog.Debug("Lua callback failed", "package", "script", "callback", c.String(), "error", err)
		return err
	}
	return nil
}

func (c callback) String() string {
	if c.fn.IsG || c.fn.Proto == nil {
		return "lua:builtin"
	}
	return fmt.Sprintf("lua:%s:%d", c.fn.Proto.SourceName, c.fn.Proto.LineDefined)
}

// stackGuard remembers the Lua stack depth and puts it back on leave.
type stackGuard struct {
	l   *lua.LState
	top int
}

func enter(l *lua.LState) stackGuard {
	return stackGuard{l: l, top: l.GetTop()}
}

func (g stackGuard) leave() {
	if g.l.GetTop() != g.top {
		g.l.SetTop(g.top)
	}
}

// Depth is the current Lua stack depth.
func (b *Bridge) Depth() int {
	return b.l.GetTop()
}
