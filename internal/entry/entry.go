package entry

import (
	"math"
	"strconv"
)

// Field identifies one of the three dimension buffers.
type Field string

const (
	FieldWidth    Field = "width"
	FieldHeight   Field = "height"
	FieldQuantity Field = "quantity"
)

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldWidth, FieldHeight, FieldQuantity:
		return true
	}
	return false
}

// zeroText is the textual zero value every buffer resets to. Buffers are
// never empty.
const zeroText = "0"

// Commit carries the parsed values of a completed entry cycle.
type Commit struct {
	WidthCm  float64
	HeightCm float64
	Quantity int
}

// Pad is the dimension entry state machine for one terminal: which field
// is active and the raw numeric text typed into each buffer. Buffers only
// ever hold a non-negative decimal: digits plus at most one separator.
// Pad is not safe for concurrent use; the owning session serialises
// access.
type Pad struct {
	active  Field
	buffers map[Field]string
}

// NewPad returns a pad in its initial state: entering width, all buffers
// at "0".
func NewPad() *Pad {
	return &Pad{
		active: FieldWidth,
		buffers: map[Field]string{
			FieldWidth:    zeroText,
			FieldHeight:   zeroText,
			FieldQuantity: zeroText,
		},
	}
}

// Active returns the field currently receiving keystrokes.
func (p *Pad) Active() Field { return p.active }

// Buffer returns the raw text of the given field.
func (p *Pad) Buffer(f Field) string { return p.buffers[f] }

// Width returns the raw width buffer.
func (p *Pad) Width() string { return p.buffers[FieldWidth] }

// Height returns the raw height buffer.
func (p *Pad) Height() string { return p.buffers[FieldHeight] }

// Quantity returns the raw quantity buffer.
func (p *Pad) Quantity() string { return p.buffers[FieldQuantity] }

// Press appends the digit or separator key to the active buffer. A second
// separator is ignored, and a digit typed over a lone "0" replaces it so
// buffers never read "05". Keys other than '0'-'9' and '.' are ignored.
func (p *Pad) Press(key string) {
	if len(key) != 1 {
		return
	}
	ch := key[0]
	if ch != '.' && (ch < '0' || ch > '9') {
		return
	}
	prev := p.buffers[p.active]
	switch {
	case ch == '.' && containsSeparator(prev):
		return
	case prev == zeroText && ch != '.':
		p.buffers[p.active] = key
	case prev == zeroText && ch == '.':
		p.buffers[p.active] = "0."
	default:
		p.buffers[p.active] = prev + key
	}
}

// Backspace removes the last character of the active buffer, resetting it
// to "0" rather than leaving it empty.
func (p *Pad) Backspace() {
	prev := p.buffers[p.active]
	if len(prev) <= 1 {
		p.buffers[p.active] = zeroText
		return
	}
	p.buffers[p.active] = prev[:len(prev)-1]
}

// Clear resets the active buffer to "0".
func (p *Pad) Clear() {
	p.buffers[p.active] = zeroText
}

// SelectField jumps directly to the given field, independent of the linear
// advance order. Unknown fields are ignored.
func (p *Pad) SelectField(f Field) {
	if f.Valid() {
		p.active = f
	}
}

// Advance moves width -> height -> quantity. From quantity, when all three
// buffers parse strictly positive, it resets the pad and reports a commit;
// otherwise it returns to the width field with the buffers untouched and
// no commit. An incomplete cycle is discarded silently, matching the
// terminal's behaviour when the operator cycles past an empty count.
func (p *Pad) Advance() (Commit, bool) {
	switch p.active {
	case FieldWidth:
		p.active = FieldHeight
		return Commit{}, false
	case FieldHeight:
		p.active = FieldQuantity
		return Commit{}, false
	}

	w := parseDecimal(p.buffers[FieldWidth])
	h := parseDecimal(p.buffers[FieldHeight])
	q := parseCount(p.buffers[FieldQuantity])
	p.active = FieldWidth
	if w <= 0 || h <= 0 || q <= 0 {
		return Commit{}, false
	}
	p.Reset()
	return Commit{WidthCm: w, HeightCm: h, Quantity: q}, true
}

// Reset restores all buffers to "0" and activates the width field.
func (p *Pad) Reset() {
	p.active = FieldWidth
	for f := range p.buffers {
		p.buffers[f] = zeroText
	}
}

func containsSeparator(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseCount truncates a fractional count to its integer part, so "2.9"
// commits as 2 while "0.5" does not commit at all.
func parseCount(s string) int {
	return int(parseDecimal(s))
}
