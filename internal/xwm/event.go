package xwm

import (
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// MaxEventCode is the highest core protocol event code.
const MaxEventCode = xproto.MappingNotify

// Kind is an event the window manager handles.
type Kind int

const (
	KindUnknown Kind = iota
	KindKeyPress
	KindMapRequest
	KindConfigureRequest
	KindExpose
)

func (k Kind) String() string {
	switch k {
	case KindKeyPress:
		return "KeyPress"
	case KindMapRequest:
		return "MapRequest"
	case KindConfigureRequest:
		return "ConfigureRequest"
	case KindExpose:
		return "Expose"
	default:
		return "Unknown"
	}
}

// Event is a decoded X event.
type Event struct {
	Kind Kind
	// Code is the event code with the synthetic bit cleared, 0 when it is out of range.
	Code byte

	KeyPress         xproto.KeyPressEvent
	MapRequest       xproto.MapRequestEvent
	ConfigureRequest xproto.ConfigureRequestEvent
	Expose           xproto.ExposeEvent
}

// Decode sorts ev into one of the handled kinds. Everything else is
// KindUnknown.
func Decode(ev xgb.Event) Event {
	switch ev := ev.(type) {
	case xproto.KeyPressEvent:
		return Event{Kind: KindKeyPress, Code: xproto.KeyPress, KeyPress: ev}
	case xproto.MapRequestEvent:
		return Event{Kind: KindMapRequest, Code: xproto.MapRequest, MapRequest: ev}
	case xproto.ConfigureRequestEvent:
		return Event{Kind: KindConfigureRequest, Code: xproto.ConfigureRequest, ConfigureRequest: ev}
	case xproto.ExposeEvent:
		return Event{Kind: KindExpose, Code: xproto.Expose, Expose: ev}
	}

	return Event{Kind: KindUnknown, Code: Code(ev)}
}

// Code returns the canonical event code of ev.
func Code(ev xgb.Event) byte {
	if ev == nil {
		return 0
	}
	b := ev.Bytes()
	if len(b) == 0 {
		return 0
	}

	code := b[0] &^ 0x80
	if code > MaxEventCode {
		slog.Warn("Event code out of range", "package", "xwm", "code", code)
		return 0
	}
	return code
}
