// Package shortcut resolves key presses to actions.
//
// Resolution is an exact match on (normalized mask, keysym): a binding for
// Mod1 does not fire while Mod1+Shift is held. Bindings are scanned in
// registration order and the first match wins, so a later binding for the
// same chord is shadowed on purpose rather than by accident.
package shortcut

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/jezek/xgb/xproto"
)

// Action is what a binding runs.
type Action interface {
	Run() error
	String() string
}

// Func adapts a Go function to an Action.
type Func struct {
	Name string
	Fn   func() error
}

func (f Func) Run() error {
	return f.Fn()
}

func (f Func) String() string {
	return f.Name
}

type Binding struct {
	Mods   Mask
	Sym    xproto.Keysym
	Action Action
}

func (b Binding) Chord() string {
	if b.Mods == 0 {
		return keysym.Name(b.Sym)
	}
	return b.Mods.String() + "+" + keysym.Name(b.Sym)
}

func (b Binding) String() string {
	return b.Chord() + " -> " + b.Action.String()
}

// Table is an ordered list of bindings.
type Table struct {
	mu       sync.RWMutex
	bindings []Binding
}

func NewTable(bindings ...Binding) *Table {
	return &Table{bindings: bindings}
}

// Replace swaps the whole table.
func (t *Table) Replace(bindings []Binding) {
	t.mu.Lock()
	t.bindings = append([]Binding(nil), bindings...)
	t.mu.Unlock()
}

// Lookup returns the first binding's action for an exact match.
func (t *Table) Lookup(mods Mask, sym xproto.Keysym) (Action, bool) {
	if sym == keysym.NoSymbol {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, b := range t.bindings {
		if b.Mods == mods && b.Sym == sym {
			return b.Action, true
		}
	}
	return nil, false
}

// Bindings returns a copy of the table in registration order.
func (t *Table) Bindings() []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Binding(nil), t.bindings...)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.bindings)
}

// ParseChord parses "Mod1+Shift+Return" into a mask and keysym. The key must
// come last.
func ParseChord(chord string) (Mask, xproto.Keysym, error) {
	parts := strings.Split(chord, "+")
	key := parts[len(parts)-1]
	// "+" and "Mod1++" bind the plus key
	if key == "" && (chord == "+" || strings.HasSuffix(chord, "++")) {
		key = "+"
		parts = parts[:len(parts)-1]
	}

	mods, err := ParseMods(parts[:len(parts)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("chord %q: %w", chord, err)
	}

	sym, err := keysym.Parse(key)
	if err != nil {
		return 0, 0, fmt.Errorf("chord %q: %w", chord, err)
	}

	return mods, sym, nil
}
