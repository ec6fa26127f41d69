package terminal

import (
	"bytes"
	"time"
	"unicode/utf8"
)

// DefaultEscapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const DefaultEscapeTimeout = 50 * time.Millisecond

// maxSequenceLen bounds CSI parameter collection; longer sequences are swallowed and dropped
const maxSequenceLen = 64

// MaxPasteLen bounds bracketed paste text; a longer paste is emitted as is and decoding returns to ground
const MaxPasteLen = 1 << 20

var pasteEnd = []byte("\x1b[201~")

// DecoderState is the input state machine position
type DecoderState uint8

const (
	StateGround DecoderState = iota
	StateEscape
	StateCSI
	StateSS3
	StateUTF8
	StateX10Mouse
	StatePaste
)

func (s DecoderState) String() string {
	switch s {
	case StateGround:
		return "ground"
	case StateEscape:
		return "escape"
	case StateCSI:
		return "csi"
	case StateSS3:
		return "ss3"
	case StateUTF8:
		return "utf8"
	case StateX10Mouse:
		return "x10mouse"
	case StatePaste:
		return "paste"
	}
	return "unknown"
}

// Decoder turns raw terminal input bytes into events
// Sequences may be split across Feed calls; partial state is carried between them
// Not safe for concurrent use, owned by the input task
type Decoder struct {
	timeout time.Duration
	state   DecoderState
	since   time.Time // start of the pending sequence

	seq      []byte
	overflow bool
	params   [16]int

	utf     [utf8.UTFMax]byte
	utfLen  int
	utfNeed int
	utfMod  Modifier

	x10    [3]byte
	x10Len int

	paste []byte
}

// NewDecoder creates a decoder; a negative timeout selects DefaultEscapeTimeout
// A zero timeout resolves a lone ESC as soon as its read completes
func NewDecoder(escapeTimeout time.Duration) *Decoder {
	if escapeTimeout < 0 {
		escapeTimeout = DefaultEscapeTimeout
	}
	return &Decoder{
		timeout: escapeTimeout,
		seq:     make([]byte, 0, maxSequenceLen),
	}
}

// EscapeTimeout returns the configured ESC disambiguation window
func (d *Decoder) EscapeTimeout() time.Duration {
	return d.timeout
}

// State returns the current state machine position
func (d *Decoder) State() DecoderState {
	return d.state
}

// Reset drops any partial sequence and returns to ground
func (d *Decoder) Reset() {
	d.toGround()
	d.paste = d.paste[:0]
}

// Deadline reports when a pending partial sequence expires
// Bracketed paste never expires
func (d *Decoder) Deadline() (time.Time, bool) {
	switch d.state {
	case StateEscape, StateCSI, StateSS3, StateUTF8, StateX10Mouse:
		return d.since.Add(d.timeout), true
	}
	return time.Time{}, false
}

// Feed decodes data received at now, appending events to dst
// A lone ESC whose timeout elapsed before this data is emitted as KeyEscape first
func (d *Decoder) Feed(dst []Event, data []byte, now time.Time) []Event {
	dst = d.Expire(dst, now)
	for _, b := range data {
		dst = d.step(dst, b, now)
	}
	return dst
}

// Expire resolves a pending sequence whose deadline has passed
// ESC becomes KeyEscape, ESC [ and ESC O become Alt+'[' and Alt+'O', other partials are dropped
func (d *Decoder) Expire(dst []Event, now time.Time) []Event {
	dl, ok := d.Deadline()
	if !ok || now.Before(dl) {
		return dst
	}
	switch d.state {
	case StateEscape:
		dst = append(dst, KeyEvent(KeyEscape))
	case StateCSI:
		if len(d.seq) == 0 && !d.overflow {
			dst = append(dst, RuneEvent('[', ModAlt))
		}
	case StateSS3:
		dst = append(dst, RuneEvent('O', ModAlt))
	}
	d.toGround()
	return dst
}

func (d *Decoder) toGround() {
	d.state = StateGround
	d.seq = d.seq[:0]
	d.overflow = false
	d.utfLen = 0
	d.utfNeed = 0
	d.utfMod = ModNone
	d.x10Len = 0
}

func (d *Decoder) step(dst []Event, b byte, now time.Time) []Event {
	switch d.state {
	case StateEscape:
		return d.escape(dst, b, now)
	case StateCSI:
		return d.csi(dst, b, now)
	case StateSS3:
		return d.ss3(dst, b, now)
	case StateUTF8:
		return d.collectUTF8(dst, b, now)
	case StateX10Mouse:
		return d.x10Mouse(dst, b)
	case StatePaste:
		return d.pasteByte(dst, b, now)
	default:
		return d.ground(dst, b, now)
	}
}

func (d *Decoder) ground(dst []Event, b byte, now time.Time) []Event {
	switch {
	case b == 0x1b:
		d.state = StateEscape
		d.since = now
	case b >= 0x20 && b < 0x7f:
		// Fast path: printable ASCII
		dst = append(dst, RuneEvent(rune(b)))
	case b < 0x20:
		dst = append(dst, controlKey(b))
	case b == 0x7f:
		dst = append(dst, KeyEvent(KeyBackspace))
	default:
		d.beginUTF8(b, ModNone, now)
	}
	return dst
}

func (d *Decoder) escape(dst []Event, b byte, now time.Time) []Event {
	switch {
	case b == '[':
		d.state = StateCSI
		d.seq = d.seq[:0]
		d.overflow = false
	case b == 'O':
		d.state = StateSS3
	case b == 0x1b:
		d.toGround()
		dst = append(dst, KeyEvent(KeyEscape, ModAlt))
	case b >= 0x20 && b < 0x7f:
		d.toGround()
		dst = append(dst, RuneEvent(rune(b), ModAlt))
	case b < 0x20:
		d.toGround()
		ev := controlKey(b)
		ev.Modifiers |= ModAlt
		dst = append(dst, ev)
	case b == 0x7f:
		d.toGround()
		dst = append(dst, KeyEvent(KeyBackspace, ModAlt))
	default:
		d.toGround()
		d.beginUTF8(b, ModAlt, now)
	}
	return dst
}

func (d *Decoder) csi(dst []Event, b byte, now time.Time) []Event {
	switch {
	case b == 0x1b:
		// ESC mid-sequence aborts it and starts over
		d.toGround()
		d.state = StateEscape
		d.since = now
	case b >= 0x20 && b <= 0x3f:
		// Parameter and intermediate bytes
		if len(d.seq) >= maxSequenceLen {
			d.overflow = true
		} else {
			d.seq = append(d.seq, b)
		}
	case b >= 0x40 && b <= 0x7e:
		if d.overflow {
			d.toGround()
			return dst
		}
		return d.dispatchCSI(dst, b)
	default:
		// Malformed, drop the sequence and treat the byte as fresh input
		d.toGround()
		return d.ground(dst, b, now)
	}
	return dst
}

func (d *Decoder) dispatchCSI(dst []Event, final byte) []Event {
	seq := d.seq

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if len(seq) > 0 && seq[0] == '<' {
		params, ok := d.parseParams(seq[1:])
		d.toGround()
		if !ok || len(params) != 3 || (final != 'M' && final != 'm') {
			return dst
		}
		return append(dst, mouseEvent(params[0], params[1], params[2], final == 'm'))
	}

	// Legacy X10 mouse: ESC [ M followed by three raw bytes
	if final == 'M' && len(seq) == 0 {
		d.toGround()
		d.state = StateX10Mouse
		return dst
	}

	params, ok := d.parseParams(seq)
	d.toGround()
	if !ok {
		// Private markers and intermediates never form key sequences
		return dst
	}

	switch final {
	case '~':
		if len(params) == 0 {
			return dst
		}
		switch params[0] {
		case 200:
			d.state = StatePaste
			d.paste = d.paste[:0]
			return dst
		case 201:
			return dst
		}
		if k, found := tildeCodes[params[0]]; found {
			dst = append(dst, KeyEvent(k, modParam(params, 1)))
		}
		return dst
	case 'Z':
		return append(dst, KeyEvent(KeyBacktab, modParam(params, 1)))
	}

	if k, found := letterFinals[final]; found {
		return append(dst, KeyEvent(k, modParam(params, 1)))
	}
	return dst
}

func (d *Decoder) ss3(dst []Event, b byte, now time.Time) []Event {
	d.toGround()
	if b == 0x1b {
		d.state = StateEscape
		d.since = now
		return dst
	}
	if k, found := letterFinals[b]; found {
		dst = append(dst, KeyEvent(k))
	}
	return dst
}

func (d *Decoder) beginUTF8(b byte, mod Modifier, now time.Time) {
	n := utf8SeqLen(b)
	if n < 2 {
		// Stray continuation or invalid lead byte
		return
	}
	d.state = StateUTF8
	d.since = now
	d.utf[0] = b
	d.utfLen = 1
	d.utfNeed = n
	d.utfMod = mod
}

func (d *Decoder) collectUTF8(dst []Event, b byte, now time.Time) []Event {
	if b&0xc0 != 0x80 {
		d.toGround()
		return d.ground(dst, b, now)
	}
	d.utf[d.utfLen] = b
	d.utfLen++
	if d.utfLen < d.utfNeed {
		return dst
	}
	r, size := utf8.DecodeRune(d.utf[:d.utfLen])
	mod := d.utfMod
	d.toGround()
	if r == utf8.RuneError && size <= 1 {
		return dst
	}
	return append(dst, RuneEvent(r, mod))
}

func (d *Decoder) x10Mouse(dst []Event, b byte) []Event {
	d.x10[d.x10Len] = b
	d.x10Len++
	if d.x10Len < len(d.x10) {
		return dst
	}
	code := int(d.x10[0]) - 32
	x := int(d.x10[1]) - 32
	y := int(d.x10[2]) - 32
	d.toGround()
	if code < 0 || x < 1 || y < 1 {
		return dst
	}
	return append(dst, mouseEvent(code, x, y, false))
}

func (d *Decoder) pasteByte(dst []Event, b byte, now time.Time) []Event {
	d.paste = append(d.paste, b)
	if b == '~' && bytes.HasSuffix(d.paste, pasteEnd) {
		text := string(d.paste[:len(d.paste)-len(pasteEnd)])
		d.paste = d.paste[:0]
		d.state = StateGround
		return append(dst, Event{Type: EventPaste, Paste: text})
	}
	if len(d.paste) < MaxPasteLen {
		return dst
	}

	// Terminator lost or paste too large. A trailing partial terminator is decoded from ground
	cut := len(d.paste)
	if i := bytes.LastIndexByte(d.paste, 0x1b); i >= 0 && bytes.HasPrefix(pasteEnd, d.paste[i:]) {
		cut = i
	}
	tail := bytes.Clone(d.paste[cut:])
	dst = append(dst, Event{Type: EventPaste, Paste: string(d.paste[:cut])})
	d.paste = d.paste[:0]
	d.state = StateGround
	for _, c := range tail {
		dst = d.step(dst, c, now)
	}
	return dst
}

// parseParams splits "N;N;N" into integers, empty fields are zero
// Returns false on any byte other than digits and ';'
func (d *Decoder) parseParams(seq []byte) ([]int, bool) {
	ps := d.params[:0]
	if len(seq) == 0 {
		return ps, true
	}
	val := 0
	for _, b := range seq {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 { // Sanity limit
				return nil, false
			}
		case b == ';':
			if len(ps) >= len(d.params)-1 {
				return nil, false
			}
			ps = append(ps, val)
			val = 0
		default:
			return nil, false
		}
	}
	return append(ps, val), true
}

// modParam returns the xterm modifier at params[i], if present
func modParam(params []int, i int) Modifier {
	if i < len(params) {
		return xtermModifier(params[i])
	}
	return ModNone
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}
