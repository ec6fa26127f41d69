package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/termrender/terminal"
)

// ErrInvalidBinding is returned for unparseable key chords
var ErrInvalidBinding = errors.New("invalid key binding")

// ActionNone in a keymap override removes the binding
const ActionNone = "none"

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
	"plus":      '+',
}

var modifierNames = map[string]terminal.Modifier{
	"shift": terminal.ModShift,
	"alt":   terminal.ModAlt,
	"ctrl":  terminal.ModCtrl,
	"meta":  terminal.ModMeta,
}

// Chord identifies a key press with its modifiers
type Chord struct {
	Key  terminal.Key
	Rune rune // For KeyRune
	Mods terminal.Modifier
}

// ParseChord parses "q", "ctrl+alt+up", "shift+tab" or "alt+space"
// The last segment is a key name, a single character, or an alias
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	var c Chord
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return Chord{}, fmt.Errorf("%w: %q: unknown modifier %q", ErrInvalidBinding, s, p)
		}
		c.Mods |= m
	}

	last := parts[len(parts)-1]
	if last == "" {
		return Chord{}, fmt.Errorf("%w: %q: missing key", ErrInvalidBinding, s)
	}

	// Single character is case-sensitive, names are not
	if runes := []rune(last); len(runes) == 1 {
		c.Key = terminal.KeyRune
		c.Rune = runes[0]
		return normalize(c), nil
	}
	lower := strings.ToLower(last)
	if r, ok := runeAliases[lower]; ok {
		c.Key = terminal.KeyRune
		c.Rune = r
		return c, nil
	}
	if k, ok := terminal.KeyByName(lower); ok {
		c.Key = k
		return c, nil
	}
	return Chord{}, fmt.Errorf("%w: %q: unknown key %q", ErrInvalidBinding, s, last)
}

// String renders the chord in ParseChord syntax
func (c Chord) String() string {
	var b strings.Builder
	for _, m := range []struct {
		mod  terminal.Modifier
		name string
	}{{terminal.ModCtrl, "ctrl"}, {terminal.ModAlt, "alt"}, {terminal.ModShift, "shift"}, {terminal.ModMeta, "meta"}} {
		if c.Mods.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	if c.Key == terminal.KeyRune {
		for name, r := range runeAliases {
			if r == c.Rune {
				b.WriteString(name)
				return b.String()
			}
		}
		b.WriteRune(c.Rune)
		return b.String()
	}
	b.WriteString(c.Key.String())
	return b.String()
}

// ChordOf returns the chord of a key event
func ChordOf(ev terminal.Event) Chord {
	c := Chord{Key: ev.Key, Mods: ev.Modifiers}
	if ev.Key == terminal.KeyRune {
		c.Rune = ev.Rune
	}
	return normalize(c)
}

// normalize folds ctrl+letter onto the control key the decoder reports for it
func normalize(c Chord) Chord {
	if c.Key != terminal.KeyRune || c.Mods != terminal.ModCtrl {
		return c
	}
	r := c.Rune
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r < 'a' || r > 'z' {
		return c
	}
	if k, ok := terminal.KeyByName("ctrl_" + string(r)); ok {
		return Chord{Key: k}
	}
	return c
}

// Keymap binds key chords to application action names
type Keymap struct {
	bindings map[Chord]string
}

// NewKeymap builds a keymap from chord → action pairs, as loaded from a config [keys] table
func NewKeymap(bindings map[string]string) (*Keymap, error) {
	km := &Keymap{bindings: make(map[Chord]string, len(bindings))}
	for chord, action := range bindings {
		if err := km.Bind(chord, action); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// Bind adds or replaces one binding; ActionNone removes it
func (km *Keymap) Bind(chord, action string) error {
	c, err := ParseChord(chord)
	if err != nil {
		return err
	}
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return fmt.Errorf("%w: %q: empty action", ErrInvalidBinding, chord)
	}
	if action == ActionNone {
		delete(km.bindings, c)
		return nil
	}
	km.bindings[c] = action
	return nil
}

// Lookup returns the action bound to a key event
func (km *Keymap) Lookup(ev terminal.Event) (string, bool) {
	if ev.Type != terminal.EventKey {
		return "", false
	}
	a, ok := km.bindings[ChordOf(ev)]
	return a, ok
}

// Len returns the number of bindings
func (km *Keymap) Len() int {
	return len(km.bindings)
}

// Merge returns a new keymap with base bindings overridden by override
// Override entries bound to ActionNone delete the chord from the result
func Merge(base, override map[string]string) (*Keymap, error) {
	km, err := NewKeymap(base)
	if err != nil {
		return nil, err
	}
	for chord, action := range override {
		if err := km.Bind(chord, action); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// Actions returns the actions triggered this frame, in event order
func (q *Queue) Actions(km *Keymap) []string {
	if km == nil {
		return nil
	}
	var out []string
	for i := range q.events {
		if a, ok := km.Lookup(q.events[i]); ok {
			out = append(out, a)
		}
	}
	return out
}

// HasAction reports whether a key bound to action was pressed this frame
func (q *Queue) HasAction(km *Keymap, action string) bool {
	if km == nil {
		return false
	}
	for i := range q.events {
		if a, ok := km.Lookup(q.events[i]); ok && a == action {
			return true
		}
	}
	return false
}
