package xconn

import (
	"fmt"

	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/jezek/xgb/xproto"
)

// Keymap translates keycodes to the first keysym the server maps them to.
// It is built once and never changes.
type Keymap struct {
	min  xproto.Keycode
	max  xproto.Keycode
	syms []xproto.Keysym
}

// NewKeymap builds a Keymap from a GetKeyboardMapping reply covering
// [min, max], keeping the first of every perKeycode keysyms.
func NewKeymap(min, max xproto.Keycode, keysyms []xproto.Keysym, perKeycode int) (Keymap, error) {
	if max < min {
		return Keymap{}, fmt.Errorf("invalid keycode range %d-%d", min, max)
	}
	if perKeycode < 1 {
		return Keymap{}, fmt.Errorf("invalid keysyms per keycode %d", perKeycode)
	}

	count := int(max) - int(min) + 1
	if len(keysyms) < count*perKeycode {
		return Keymap{}, fmt.Errorf("keyboard mapping has %d keysyms, want %d", len(keysyms), count*perKeycode)
	}

	syms := make([]xproto.Keysym, count)
	for i := range syms {
		syms[i] = keysyms[i*perKeycode]
	}

	return Keymap{
		min:  min,
		max:  max,
		syms: syms,
	}, nil
}

// Range returns the inclusive keycode bounds.
func (k Keymap) Range() (min, max xproto.Keycode) {
	return k.min, k.max
}

// Keysym returns keysym.NoSymbol for keycodes outside the mapped range.
func (k Keymap) Keysym(code xproto.Keycode) xproto.Keysym {
	if len(k.syms) == 0 || code < k.min || code > k.max {
		return keysym.NoSymbol
	}
	return k.syms[code-k.min]
}

// Keycode scans the whole range for the first keycode producing sym.
func (k Keymap) Keycode(sym xproto.Keysym) (xproto.Keycode, bool) {
	if sym == keysym.NoSymbol {
		return 0, false
	}
	for i, s := range k.syms {
		if s == sym {
			return k.min + xproto.Keycode(i), true
		}
	}
	return 0, false
}
