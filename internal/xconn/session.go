// Package xconn owns the X session: the connection, the selected screen and
// the keycode to keysym table.
package xconn

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jezek/xgb/xproto"
)

// ErrAccessDenied means another client already selected substructure
// redirection on the root window, i.e. another window manager is running.
var ErrAccessDenied = errors.New("access denied, is another window manager running?")

// RootEventMask is selected on the root window to become the window manager.
const RootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskKeyPress |
	xproto.EventMaskExposure

type Session struct {
	Conn   Conn
	Screen *xproto.ScreenInfo
	Keymap Keymap
}

// Connect dials the display and loads the keyboard mapping.
func Connect() (*Session, error) {
	conn, err := Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to x server: %w", err)
	}

	s, err := NewSession(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// NewSession builds a session on an established connection.
func NewSession(conn Conn) (*Session, error) {
	setup := conn.Setup()
	if setup == nil || len(setup.Roots) == 0 {
		return nil, errors.New("could not parse setup info")
	}

	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	reply, err := conn.GetKeyboardMapping(setup.MinKeycode, byte(count))
	if err != nil {
		return nil, fmt.Errorf("failed to get keyboard mapping: %w", err)
	}

	keymap, err := NewKeymap(setup.MinKeycode, setup.MaxKeycode, reply.Keysyms, int(reply.KeysymsPerKeycode))
	if err != nil {
		return nil, fmt.Errorf("failed to get keyboard mapping: %w", err)
	}

	return &Session{
		Conn:   conn,
		Screen: conn.DefaultScreen(),
		Keymap: keymap,
	}, nil
}

func (s *Session) Root() xproto.Window {
	return s.Screen.Root
}

func (s *Session) KeycodeToKeysym(code xproto.Keycode) xproto.Keysym {
	return s.Keymap.Keysym(code)
}

func (s *Session) KeysymToKeycode(sym xproto.Keysym) (xproto.Keycode, bool) {
	return s.Keymap.Keycode(sym)
}

// BecomeWM selects RootEventMask on the root window and installs cursor when
// it is non-zero.
func (s *Session) BecomeWM(cursor xproto.Cursor) error {
	mask := uint32(xproto.CwEventMask)
	values := []uint32{RootEventMask}
	if cursor != 0 {
		mask |= xproto.CwCursor
		values = append(values, uint32(cursor))
	}

	if err := s.Conn.ChangeWindowAttributes(s.Root(), mask, values); err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return fmt.Errorf("failed to register for events: %w", ErrAccessDenied)
		}
		return fmt.Errorf("failed to register for events: %w", err)
	}

	s.Conn.Flush()
	return nil
}

// Grab is a key grab request by keysym.
type Grab struct {
	Mods uint16
	Sym  xproto.Keysym
}

// GrabKeys releases every key grab on the root window and grabs each keysym's
// keycode under its modifiers combined with every subset of ignoreMods.
// Keysyms without a keycode are logged and skipped.
func (s *Session) GrabKeys(grabs []Grab, ignoreMods []uint16) error {
	root := s.Root()
	s.Conn.UngrabKey(xproto.ModMaskAny, xproto.GrabAny, root)

	for _, g := range grabs {
		code, ok := s.KeysymToKeycode(g.Sym)
		if !ok {
			slog.Error("failed to register key shortcut", "package", "xconn", "keysym", fmt.Sprintf("0x%x", uint32(g.Sym)))
			continue
		}

		for _, extra := range ignoreMods {
			if err := s.Conn.GrabKey(g.Mods|extra, code, root); err != nil {
				if _, ok := err.(xproto.AccessError); ok {
					slog.Error("key already grabbed by another client", "package", "xconn", "keycode", code, "mods", g.Mods|extra)
					continue
				}
				return fmt.Errorf("failed to grab key %d: %w", code, err)
			}
		}
	}

	s.Conn.Flush()
	return nil
}

func (s *Session) Close() {
	s.Conn.Close()
}
