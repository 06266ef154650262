package shortcut

import (
	"fmt"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// Mask is a set of modifiers.
type Mask uint16

const (
	Shift   Mask = xproto.ModMaskShift
	Lock    Mask = xproto.ModMaskLock
	Control Mask = xproto.ModMaskControl
	Mod1    Mask = xproto.ModMask1
	Mod2    Mask = xproto.ModMask2
	Mod3    Mask = xproto.ModMask3
	Mod4    Mask = xproto.ModMask4
	Mod5    Mask = xproto.ModMask5
)

// Vocabulary is every modifier a binding can use. Everything else in a key
// event's state (Lock, NumLock on Mod2, Mod3, pointer buttons) is ignored.
const Vocabulary = Shift | Control | Mod1 | Mod4 | Mod5

// Normalize masks an event's state down to Vocabulary.
func Normalize(state uint16) Mask {
	return Mask(state) & Vocabulary
}

// IgnoredCombos is every combination of the lock modifiers that Normalize
// drops and that are commonly latched. A binding is grabbed once per combo so
// it still reaches us with CapsLock or NumLock on.
func IgnoredCombos() []uint16 {
	return []uint16{
		0,
		uint16(Lock),
		uint16(Mod2),
		uint16(Lock | Mod2),
	}
}

var otherModNames = []struct {
	name string
	mask Mask
}{
	{"Lock", Lock},
	{"Mod2", Mod2},
	{"Mod3", Mod3},
}

// Validate fails for masks with modifiers outside Vocabulary. Such a binding
// could never match, since Normalize drops those bits from key events.
func (m Mask) Validate() error {
	extra := m &^ Vocabulary
	if extra == 0 {
		return nil
	}
	for _, mod := range otherModNames {
		if extra&mod.mask != 0 {
			return fmt.Errorf("invalid modifier mask 0x%x: %s is not a binding modifier", uint16(m), mod.name)
		}
	}
	return fmt.Errorf("invalid modifier mask 0x%x: bits 0x%x are not modifiers", uint16(m), uint16(extra))
}

var modNames = []struct {
	name string
	mask Mask
}{
	{"Shift", Shift},
	{"Control", Control},
	{"Mod1", Mod1},
	{"Mod4", Mod4},
	{"Mod5", Mod5},
}

var modAliases = map[string]Mask{
	"shift":   Shift,
	"control": Control,
	"ctrl":    Control,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod4":    Mod4,
	"super":   Mod4,
	"mod5":    Mod5,
}

// ParseMod returns the mask for a modifier name such as "Mod1" or "ctrl".
func ParseMod(name string) (Mask, error) {
	if m, ok := modAliases[strings.ToLower(name)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// ParseMods ORs together modifier names.
func ParseMods(names []string) (Mask, error) {
	var mask Mask
	for _, name := range names {
		m, err := ParseMod(name)
		if err != nil {
			return 0, err
		}
		mask |= m
	}
	return mask, nil
}

func (m Mask) String() string {
	var parts []string
	for _, mod := range modNames {
		if m&mod.mask != 0 {
			parts = append(parts, mod.name)
		}
	}
	return strings.Join(parts, "+")
}
