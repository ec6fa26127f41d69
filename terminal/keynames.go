package terminal

import "strconv"

// Names follow the key-binding grammar: lower case, words joined by '_'
// Function keys and Ctrl keys are derived from the enum and the C0 table below
var fixedNames = [...]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "page_up",
	KeyPageDown:  "page_down",
	KeyInsert:    "insert",
}

// C0 bytes outside 0x01-0x1a whose Ctrl key is named after punctuation
var controlSuffix = map[byte]string{
	0x00: "space",
	0x1c: "backslash",
	0x1d: "bracket_right",
	0x1e: "caret",
	0x1f: "underscore",
}

var keyNames = map[Key]string{}

var namedKeys = map[string]Key{
	"shift_tab": KeyBacktab,
	"return":    KeyEnter,
	"esc":       KeyEscape,
}

func init() {
	for k, name := range fixedNames {
		if name != "" {
			keyNames[Key(k)] = name
		}
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
	for b, k := range controlKeys {
		if k < KeyCtrlA || k > KeyCtrlUnderscore {
			continue
		}
		suffix, ok := controlSuffix[byte(b)]
		if !ok {
			suffix = string(rune('a' + b - 1))
		}
		keyNames[k] = "ctrl_" + suffix
	}
	for k, name := range keyNames {
		namedKeys[name] = k
	}
}

// KeyName returns the binding name of k, empty for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyNames[k]
}

// KeyByName resolves a binding name or alias
func KeyByName(name string) (Key, bool) {
	k, ok := namedKeys[name]
	return k, ok
}

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyRune:
		return "rune"
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}
