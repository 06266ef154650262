package xwm

import (
	"log/slog"

	"github.com/ItsNotGoodName/mwm/internal/decoration"
	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Handle runs the handler for one event to completion.
func (w *WM) Handle(ev xgb.Event) {
	e := Decode(ev)
	switch e.Kind {
	case KindKeyPress:
		w.keyPress(e.KeyPress)
	case KindMapRequest:
		w.mapRequest(e.MapRequest)
	case KindConfigureRequest:
		w.configureRequest(e.ConfigureRequest)
	case KindExpose:
		w.expose(e.Expose)
	default:
		slog.Debug("Ignoring event", "package", "xwm", "code", e.Code)
	}

	if w.reloadPending {
		w.reload()
	}
}

func (w *WM) keyPress(ev xproto.KeyPressEvent) {
	mods := shortcut.Normalize(ev.State)
	sym := w.session.KeycodeToKeysym(ev.Detail)

	action, ok := w.table.Lookup(mods, sym)
	if !ok {
		slog.Debug("No shortcut", "package", "xwm", "keycode", ev.Detail, "keysym", keysym.Name(sym), "mods", mods.String())
		return
	}

	slog.Debug("Running shortcut", "package", "xwm", "action", action.String())
	if err := action.Run(); err != nil {
		slog.Error("Shortcut failed", "package", "xwm", "action", action.String(), "error", err)
	}
}

func (w *WM) mapRequest(ev xproto.MapRequestEvent) {
	w.conn.MapWindow(ev.Window)
	w.conn.Flush()
}

// configureRequest forwards the fields the client set, in protocol order.
func (w *WM) configureRequest(ev xproto.ConfigureRequestEvent) {
	var (
		mask   uint16
		values []uint32
	)
	add := func(bit uint16, value uint32) {
		if ev.ValueMask&bit != 0 {
			mask |= bit
			values = append(values, value)
		}
	}
	add(xproto.ConfigWindowX, uint32(int32(ev.X)))
	add(xproto.ConfigWindowY, uint32(int32(ev.Y)))
	add(xproto.ConfigWindowWidth, uint32(ev.Width))
	add(xproto.ConfigWindowHeight, uint32(ev.Height))
	add(xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth))
	add(xproto.ConfigWindowSibling, uint32(ev.Sibling))
	add(xproto.ConfigWindowStackMode, uint32(ev.StackMode))

	w.conn.ConfigureWindow(ev.Window, mask, values)
	w.conn.Flush()
}

func (w *WM) expose(ev xproto.ExposeEvent) {
	if w.bar == nil || ev.Window != w.session.Root() {
		return
	}

	area := decoration.Rect{X: int16(ev.X), Y: int16(ev.Y), W: ev.Width, H: ev.Height}
	if !area.Intersects(w.bar.Rect()) {
		return
	}

	w.bar.Expose()
	w.conn.Flush()
}
