// Package keysym names the X keysyms that can appear in a binding.
package keysym

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// NoSymbol is the keysym of an unmapped keycode.
const NoSymbol xproto.Keysym = 0

const (
	XK_BackSpace xproto.Keysym = 0xff08
	XK_Tab       xproto.Keysym = 0xff09
	XK_Return    xproto.Keysym = 0xff0d
	XK_Pause     xproto.Keysym = 0xff13
	XK_Escape    xproto.Keysym = 0xff1b
	XK_Delete    xproto.Keysym = 0xffff
	XK_Home      xproto.Keysym = 0xff50
	XK_Left      xproto.Keysym = 0xff51
	XK_Up        xproto.Keysym = 0xff52
	XK_Right     xproto.Keysym = 0xff53
	XK_Down      xproto.Keysym = 0xff54
	XK_Page_Up   xproto.Keysym = 0xff55
	XK_Page_Down xproto.Keysym = 0xff56
	XK_End       xproto.Keysym = 0xff57
	XK_Print     xproto.Keysym = 0xff61
	XK_Insert    xproto.Keysym = 0xff63
	XK_Menu      xproto.Keysym = 0xff67
	XK_F1        xproto.Keysym = 0xffbe
	XK_space     xproto.Keysym = 0x0020
	XK_0         xproto.Keysym = 0x0030
	XK_a         xproto.Keysym = 0x0061
	XK_z         xproto.Keysym = 0x007a
	XK_A         xproto.Keysym = 0x0041
	XK_Z         xproto.Keysym = 0x005a

	XF86XK_AudioLowerVolume xproto.Keysym = 0x1008ff11
	XF86XK_AudioMute        xproto.Keysym = 0x1008ff12
	XF86XK_AudioRaiseVolume xproto.Keysym = 0x1008ff13
	XF86XK_AudioPlay        xproto.Keysym = 0x1008ff14
	XF86XK_AudioNext        xproto.Keysym = 0x1008ff17
	XF86XK_AudioPrev        xproto.Keysym = 0x1008ff16
)

var names = map[string]xproto.Keysym{
	"BackSpace":            XK_BackSpace,
	"Tab":                  XK_Tab,
	"Return":               XK_Return,
	"Pause":                XK_Pause,
	"Escape":               XK_Escape,
	"Delete":               XK_Delete,
	"Home":                 XK_Home,
	"Left":                 XK_Left,
	"Up":                   XK_Up,
	"Right":                XK_Right,
	"Down":                 XK_Down,
	"Page_Up":              XK_Page_Up,
	"Page_Down":            XK_Page_Down,
	"End":                  XK_End,
	"Print":                XK_Print,
	"Insert":               XK_Insert,
	"Menu":                 XK_Menu,
	"space":                XK_space,
	"minus":                0x002d,
	"equal":                0x003d,
	"comma":                0x002c,
	"period":               0x002e,
	"slash":                0x002f,
	"semicolon":            0x003b,
	"apostrophe":           0x0027,
	"grave":                0x0060,
	"backslash":            0x005c,
	"bracketleft":          0x005b,
	"bracketright":         0x005d,
	"XF86AudioLowerVolume": XF86XK_AudioLowerVolume,
	"XF86AudioMute":        XF86XK_AudioMute,
	"XF86AudioRaiseVolume": XF86XK_AudioRaiseVolume,
	"XF86AudioPlay":        XF86XK_AudioPlay,
	"XF86AudioNext":        XF86XK_AudioNext,
	"XF86AudioPrev":        XF86XK_AudioPrev,
}

func init() {
	for i := 0; i < 24; i++ {
		names["F"+strconv.Itoa(i+1)] = XK_F1 + xproto.Keysym(i)
	}
}

// Parse returns the keysym for a name such as "Return", "p", "F5" or "0xff0d".
// Uppercase single letters map to their lowercase keysym because only the
// unshifted column of the keyboard mapping is used for lookups.
func Parse(name string) (xproto.Keysym, error) {
	if name == "" {
		return NoSymbol, fmt.Errorf("empty key name")
	}

	if sym, ok := names[name]; ok {
		return sym, nil
	}

	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return XK_a + xproto.Keysym(c-'A'), nil
		case c >= 0x20 && c <= 0x7e:
			return xproto.Keysym(c), nil
		}
	}

	if strings.HasPrefix(name, "0x") {
		n, err := strconv.ParseUint(name[2:], 16, 32)
		if err == nil && n != 0 {
			return xproto.Keysym(n), nil
		}
	}

	return NoSymbol, fmt.Errorf("unknown key %q", name)
}

// Name is the inverse of Parse, falling back to hex for unnamed keysyms.
func Name(sym xproto.Keysym) string {
	if sym > 0x20 && sym <= 0x7e {
		return string(rune(sym))
	}
	for name, s := range names {
		if s == sym {
			return name
		}
	}
	return fmt.Sprintf("0x%x", uint32(sym))
}
