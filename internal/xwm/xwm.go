// Package xwm is the window manager: it routes map and configure requests
// through unchanged, runs shortcut actions on key presses and keeps the
// decoration bar painted.
package xwm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/mwm/internal/config"
	"github.com/ItsNotGoodName/mwm/internal/decoration"
	"github.com/ItsNotGoodName/mwm/internal/script"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	"github.com/ItsNotGoodName/mwm/internal/spawn"
	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/ItsNotGoodName/mwm/internal/xcursor"
	"github.com/jezek/xgb/xproto"
)

var ErrConnectionClosed = errors.New("connection to x server closed")

// Command is a request from outside the run loop.
type Command int

const (
	CommandQuit Command = iota + 1
	CommandReload
)

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandReload:
		return "reload"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

type Options struct {
	Config     config.Config
	ScriptPath string
	// Spawn launches a detached process, defaults to spawn.Spawn.
	Spawn func(argv []string) error
}

// WM holds all window manager state. Everything except Table is owned by the
// goroutine calling Run.
type WM struct {
	session    *xconn.Session
	conn       xconn.Conn
	cfg        config.Config
	scriptPath string
	spawn      func(argv []string) error

	table  *shortcut.Table
	static []shortcut.Binding
	bridge *script.Bridge

	cursor *xcursor.Cursor
	font   *decoration.Font
	bar    *decoration.Decoration

	quit          bool
	reloadPending bool
}

var _ script.Host = (*WM)(nil)

func New(session *xconn.Session, opts Options) *WM {
	if opts.Spawn == nil {
		opts.Spawn = spawn.Spawn
	}

	return &WM{
		session:    session,
		conn:       session.Conn,
		cfg:        opts.Config,
		scriptPath: opts.ScriptPath,
		spawn:      opts.Spawn,
		table:      shortcut.NewTable(),
	}
}

// Setup installs the cursor, becomes the window manager, grabs the
// shortcut keys and paints the bar.
func (w *WM) Setup() error {
	var cursorID xproto.Cursor
	if w.cfg.Cursor != 0 {
		cursor, err := xcursor.Create(w.conn, w.cfg.Cursor)
		if err != nil {
			slog.Error("Failed to create cursor", "package", "xwm", "shape", w.cfg.Cursor, "error", err)
		} else {
			w.cursor = cursor
			cursorID = cursor.ID()
		}
	}

	if err := w.session.BecomeWM(cursorID); err != nil {
		return err
	}

	static, err := StaticBindings(w.cfg.Bindings, w)
	if err != nil {
		slog.Error("Invalid bindings in config", "package", "xwm", "error", err)
	}
	w.static = static

	bridge, err := LoadScript(w.scriptPath, w)
	if err != nil {
		slog.Error("Failed to load script", "package", "xwm", "error", err)
	}
	w.bridge = bridge

	w.table.Replace(w.bindings())
	if err := w.grab(); err != nil {
		return err
	}

	if !w.cfg.Bar.Disabled {
		if err := w.createBar(); err != nil {
			slog.Error("Failed to create bar", "package", "xwm", "error", err)
		}
	}

	return nil
}

func (w *WM) bindings() []shortcut.Binding {
	bindings := append([]shortcut.Binding(nil), w.static...)
	if w.bridge != nil {
		bindings = append(bindings, w.bridge.Bindings()...)
	}
	return bindings
}

func (w *WM) grab() error {
	var grabs []xconn.Grab
	for _, b := range w.table.Bindings() {
		grabs = append(grabs, xconn.Grab{Mods: uint16(b.Mods), Sym: b.Sym})
	}
	if err := w.session.GrabKeys(grabs, shortcut.IgnoredCombos()); err != nil {
		return fmt.Errorf("failed to grab keys: %w", err)
	}
	return nil
}

func (w *WM) createBar() error {
	cfg := w.cfg.Bar
	screen := w.session.Screen

	var colors [3]uint32
	for i, name := range []string{cfg.Background, cfg.Foreground, cfg.TextBackground} {
		color, err := config.Color(name, screen.WhitePixel, screen.BlackPixel)
		if err != nil {
			return err
		}
		colors[i] = color
	}

	font, err := decoration.OpenFont(w.conn, cfg.Font)
	if err != nil {
		return err
	}

	bar, err := decoration.New(w.conn, screen, decoration.Rect{X: cfg.X, Y: cfg.Y, W: cfg.W, H: cfg.H})
	if err != nil {
		font.Close()
		return err
	}

	bar.DrawRect(decoration.Rect{W: cfg.W, H: cfg.H}, colors[0])
	bar.DrawText(0, 0, cfg.Text, font, colors[1], colors[2])
	// The root may never get an expose for this area.
	bar.Expose()
	w.conn.Flush()

	w.font = font
	w.bar = bar
	return nil
}

// Table is the active shortcut table. It is safe to read from any goroutine.
func (w *WM) Table() *shortcut.Table {
	return w.table
}

// Spawn implements script.Host.
func (w *WM) Spawn(argv []string) error {
	return w.spawn(argv)
}

// Quit implements script.Host. The loop stops after the current event.
func (w *WM) Quit() {
	w.quit = true
}

// Reload implements script.Host. The reload happens after the current event
// so a script callback never closes the state it is running on.
func (w *WM) Reload() {
	w.reloadPending = true
}

func (w *WM) reload() {
	w.reloadPending = false

	bridge, err := LoadScript(w.scriptPath, w)
	if err != nil {
		slog.Error("Failed to reload script, keeping previous bindings", "package", "xwm", "error", err)
		return
	}

	w.bridge.Close()
	w.bridge = bridge
	w.table.Replace(w.bindings())
	if err := w.grab(); err != nil {
		slog.Error("Failed to grab keys after reload", "package", "xwm", "error", err)
	}
	slog.Info("Reloaded", "package", "xwm", "bindings", w.table.Len())
}

// Close frees server resources and closes the session.
func (w *WM) Close() {
	w.bridge.Close()
	w.bar.Close()
	w.font.Close()
	w.cursor.Close()
	w.conn.Flush()
	w.session.Close()
}
