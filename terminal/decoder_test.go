package terminal

import (
	"strings"
	"testing"
	"time"
)

var t0 = time.Unix(1700000000, 0)

func feed(d *Decoder, s string, at time.Time) []Event {
	return d.Feed(nil, []byte(s), at)
}

func TestDecoderArrowKey(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[A", t0)
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyUp || evs[0].Modifiers != ModNone {
		t.Errorf("Expected Up with no modifiers, got %v", evs[0])
	}
	if d.State() != StateGround {
		t.Errorf("Expected ground state, got %v", d.State())
	}
}

func TestDecoderArrowSplitAcrossReads(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	if evs := feed(d, "\x1b", t0); len(evs) != 0 {
		t.Fatalf("Expected no events after lone ESC, got %v", evs)
	}
	if evs := feed(d, "[", t0.Add(5*time.Millisecond)); len(evs) != 0 {
		t.Fatalf("Expected no events mid-sequence, got %v", evs)
	}
	evs := feed(d, "B", t0.Add(10*time.Millisecond))
	if len(evs) != 1 || evs[0].Key != KeyDown {
		t.Errorf("Expected Down, got %v", evs)
	}
}

func TestDecoderBareEscapeAfterTimeout(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	feed(d, "\x1b", t0)

	dl, ok := d.Deadline()
	if !ok || !dl.Equal(t0.Add(50*time.Millisecond)) {
		t.Fatalf("Expected deadline at t0+50ms, got %v %v", dl, ok)
	}

	if evs := d.Expire(nil, t0.Add(49*time.Millisecond)); len(evs) != 0 {
		t.Errorf("Expected no events before deadline, got %v", evs)
	}
	evs := d.Expire(nil, t0.Add(50*time.Millisecond))
	if len(evs) != 1 || evs[0].Key != KeyEscape || evs[0].Modifiers != ModNone {
		t.Fatalf("Expected bare Escape, got %v", evs)
	}
	if _, ok := d.Deadline(); ok {
		t.Error("Expected no deadline in ground state")
	}
}

func TestDecoderLateByteAfterEscape(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	feed(d, "\x1b", t0)
	// The byte arrives after the timeout: ESC stands alone, '[' is a plain rune
	evs := feed(d, "[", t0.Add(80*time.Millisecond))
	if len(evs) != 2 {
		t.Fatalf("Expected 2 events, got %v", evs)
	}
	if evs[0].Key != KeyEscape {
		t.Errorf("Expected Escape first, got %v", evs[0])
	}
	if evs[1].Key != KeyRune || evs[1].Rune != '[' || evs[1].Modifiers != ModNone {
		t.Errorf("Expected plain '[', got %v", evs[1])
	}
}

func TestDecoderConfigurableTimeout(t *testing.T) {
	d := NewDecoder(200 * time.Millisecond)
	feed(d, "\x1b", t0)
	evs := feed(d, "x", t0.Add(150*time.Millisecond))
	if len(evs) != 1 || evs[0].Rune != 'x' || evs[0].Modifiers != ModAlt {
		t.Errorf("Expected Alt+x within 200ms window, got %v", evs)
	}
}

func TestDecoderAltKeys(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1ba\x1b\x1b\x1b\x01", t0)
	if len(evs) != 3 {
		t.Fatalf("Expected 3 events, got %v", evs)
	}
	if evs[0].Rune != 'a' || evs[0].Modifiers != ModAlt {
		t.Errorf("Expected Alt+a, got %v", evs[0])
	}
	if evs[1].Key != KeyEscape || evs[1].Modifiers != ModAlt {
		t.Errorf("Expected Alt+Escape, got %v", evs[1])
	}
	if evs[2].Key != KeyCtrlA || evs[2].Modifiers != ModAlt {
		t.Errorf("Expected Alt+Ctrl+A, got %v", evs[2])
	}
}

func TestDecoderControlBytes(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\r\t\x7f\x03\x00", t0)
	want := []Key{KeyEnter, KeyTab, KeyBackspace, KeyCtrlC, KeyCtrlSpace}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %v", len(want), evs)
	}
	for i, k := range want {
		if evs[i].Key != k {
			t.Errorf("Event %d: expected %v, got %v", i, k, evs[i].Key)
		}
	}
}

func TestDecoderModifiedKeys(t *testing.T) {
	tests := []struct {
		in   string
		key  Key
		mods Modifier
	}{
		{"\x1b[1;5A", KeyUp, ModCtrl},
		{"\x1b[1;2C", KeyRight, ModShift},
		{"\x1b[1;3D", KeyLeft, ModAlt},
		{"\x1b[1;6B", KeyDown, ModCtrl | ModShift},
		{"\x1b[1;9H", KeyHome, ModMeta},
		{"\x1b[3;5~", KeyDelete, ModCtrl},
		{"\x1b[5~", KeyPageUp, ModNone},
		{"\x1b[6~", KeyPageDown, ModNone},
		{"\x1b[2~", KeyInsert, ModNone},
		{"\x1b[15~", KeyF5, ModNone},
		{"\x1b[24;2~", KeyF12, ModShift},
		{"\x1b[Z", KeyBacktab, ModNone},
		{"\x1bOP", KeyF1, ModNone},
		{"\x1bOS", KeyF4, ModNone},
		{"\x1bOA", KeyUp, ModNone},
		{"\x1b[1;2P", KeyF1, ModShift},
	}

	for _, tt := range tests {
		d := NewDecoder(50 * time.Millisecond)
		evs := feed(d, tt.in, t0)
		if len(evs) != 1 {
			t.Errorf("%q: expected 1 event, got %v", tt.in, evs)
			continue
		}
		if evs[0].Key != tt.key || evs[0].Modifiers != tt.mods {
			t.Errorf("%q: expected %v/%v, got %v/%v", tt.in, tt.key, tt.mods, evs[0].Key, evs[0].Modifiers)
		}
	}
}

func TestDecoderMalformedDropped(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	// Unknown final, private-marker sequence, then valid input
	evs := feed(d, "\x1b[99X\x1b[?25hq", t0)
	if len(evs) != 1 || evs[0].Rune != 'q' {
		t.Fatalf("Expected only 'q', got %v", evs)
	}
	if d.State() != StateGround {
		t.Errorf("Expected ground state, got %v", d.State())
	}
}

func TestDecoderAbortedByEscape(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[12\x1b[A", t0)
	if len(evs) != 1 || evs[0].Key != KeyUp {
		t.Fatalf("Expected the restarted sequence to decode as Up, got %v", evs)
	}
}

func TestDecoderAbortedByControlByte(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[1\x03", t0)
	if len(evs) != 1 || evs[0].Key != KeyCtrlC {
		t.Fatalf("Expected aborted sequence to yield Ctrl+C, got %v", evs)
	}
	if d.State() != StateGround {
		t.Errorf("Expected ground state, got %v", d.State())
	}
}

func TestDecoderOverlongSequence(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	long := "\x1b["
	for i := 0; i < 200; i++ {
		long += "1"
	}
	long += "Az"
	evs := feed(d, long, t0)
	if len(evs) != 1 || evs[0].Rune != 'z' {
		t.Fatalf("Expected overlong sequence dropped, got %v", evs)
	}
}

func TestDecoderSGRMouse(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[<0;10;5M\x1b[<0;10;5m\x1b[<64;1;1M\x1b[<32;3;4M\x1b[<35;7;8M\x1b[<16;2;2M", t0)
	if len(evs) != 6 {
		t.Fatalf("Expected 6 events, got %v", evs)
	}

	press := evs[0]
	if press.Type != EventMouse || press.MouseBtn != MouseBtnLeft || press.MouseAction != MouseActionPress {
		t.Errorf("Expected left press, got %v", press)
	}
	if press.MouseX != 9 || press.MouseY != 4 {
		t.Errorf("Expected 0-based (9,4), got (%d,%d)", press.MouseX, press.MouseY)
	}
	if evs[1].MouseAction != MouseActionRelease {
		t.Errorf("Expected release, got %v", evs[1])
	}
	if evs[2].MouseBtn != MouseBtnWheelUp {
		t.Errorf("Expected wheel up, got %v", evs[2])
	}
	if evs[3].MouseAction != MouseActionDrag || evs[3].MouseBtn != MouseBtnLeft {
		t.Errorf("Expected left drag, got %v", evs[3])
	}
	if evs[4].MouseAction != MouseActionMove || evs[4].MouseBtn != MouseBtnNone {
		t.Errorf("Expected motion without button, got %v", evs[4])
	}
	if evs[5].Modifiers != ModCtrl {
		t.Errorf("Expected ctrl modifier, got %v", evs[5].Modifiers)
	}
}

func TestDecoderX10Mouse(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	// Button 0 at column 3, row 2 (offset by 32, 1-based)
	evs := feed(d, "\x1b[M"+string([]byte{32, 35, 34}), t0)
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %v", evs)
	}
	if evs[0].MouseBtn != MouseBtnLeft || evs[0].MouseX != 2 || evs[0].MouseY != 1 {
		t.Errorf("Expected left at (2,1), got %v", evs[0])
	}

	evs = feed(d, "\x1b[M"+string([]byte{35, 35, 34}), t0)
	if len(evs) != 1 || evs[0].MouseAction != MouseActionRelease {
		t.Errorf("Expected X10 release, got %v", evs)
	}
}

func TestDecoderUTF8SplitAcrossReads(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	b := []byte("é漢")
	var evs []Event
	for i := range b {
		evs = d.Feed(evs, b[i:i+1], t0)
	}
	if len(evs) != 2 || evs[0].Rune != 'é' || evs[1].Rune != '漢' {
		t.Fatalf("Expected é and 漢, got %v", evs)
	}
}

func TestDecoderInvalidUTF8Dropped(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := d.Feed(nil, []byte{0xe6, 'a', 0x80, 'b'}, t0)
	if len(evs) != 2 || evs[0].Rune != 'a' || evs[1].Rune != 'b' {
		t.Fatalf("Expected a and b, got %v", evs)
	}
}

func TestDecoderBracketedPaste(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[200~hello\x1b[Aworld", t0)
	if len(evs) != 0 {
		t.Fatalf("Expected no events before paste end, got %v", evs)
	}
	if d.State() != StatePaste {
		t.Fatalf("Expected paste state, got %v", d.State())
	}
	if _, ok := d.Deadline(); ok {
		t.Error("Paste should not expire")
	}
	evs = feed(d, "\x1b[201~x", t0.Add(time.Second))
	if len(evs) != 2 {
		t.Fatalf("Expected paste and rune, got %v", evs)
	}
	if evs[0].Type != EventPaste || evs[0].Paste != "hello\x1b[Aworld" {
		t.Errorf("Expected verbatim paste, got %q", evs[0].Paste)
	}
	if evs[1].Rune != 'x' {
		t.Errorf("Expected x after paste, got %v", evs[1])
	}
}

func TestDecoderPasteLimit(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[200~"+strings.Repeat("a", MaxPasteLen), t0)
	if len(evs) != 1 || evs[0].Type != EventPaste || len(evs[0].Paste) != MaxPasteLen {
		t.Fatalf("Expected one paste of %d bytes at the limit, got %d events", MaxPasteLen, len(evs))
	}
	if d.State() != StateGround {
		t.Fatalf("Expected ground after limit, got %v", d.State())
	}
	evs = feed(d, "b", t0)
	if len(evs) != 1 || evs[0].Rune != 'b' {
		t.Errorf("Expected keystroke after truncated paste, got %v", evs)
	}
}

func TestDecoderPasteLimitSplitTerminator(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	evs := feed(d, "\x1b[200~"+strings.Repeat("a", MaxPasteLen-3)+"\x1b[2", t0)
	if len(evs) != 1 || len(evs[0].Paste) != MaxPasteLen-3 {
		t.Fatalf("Expected paste without the partial terminator, got %d events", len(evs))
	}
	if d.State() != StateCSI {
		t.Fatalf("Expected partial terminator to be pending, got %v", d.State())
	}
	evs = feed(d, "01~z", t0.Add(time.Millisecond))
	if len(evs) != 1 || evs[0].Rune != 'z' {
		t.Errorf("Expected terminator swallowed and z decoded, got %v", evs)
	}
}

func TestDecoderExpireCSIPrefix(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	feed(d, "\x1b[", t0)
	evs := d.Expire(nil, t0.Add(time.Second))
	if len(evs) != 1 || evs[0].Rune != '[' || evs[0].Modifiers != ModAlt {
		t.Errorf("Expected Alt+[, got %v", evs)
	}
}

func TestDecoderReset(t *testing.T) {
	d := NewDecoder(50 * time.Millisecond)
	feed(d, "\x1b[1;", t0)
	d.Reset()
	if d.State() != StateGround {
		t.Errorf("Expected ground after reset, got %v", d.State())
	}
	evs := feed(d, "5A", t0)
	if len(evs) != 2 || evs[0].Rune != '5' || evs[1].Rune != 'A' {
		t.Errorf("Expected plain runes after reset, got %v", evs)
	}
}

func TestDecoderNegativeTimeoutUsesDefault(t *testing.T) {
	d := NewDecoder(-1)
	if d.EscapeTimeout() != DefaultEscapeTimeout {
		t.Errorf("Expected default timeout, got %v", d.EscapeTimeout())
	}
}
