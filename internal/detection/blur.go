package detection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlurMode is returned by ParseBlurMode for unknown names.
var ErrBlurMode = errors.New("unknown blur mode")

// Blur fills every single clear cell that sits between two set cells
// (101 -> 111). It only ever adds cells and Blur(Blur(w)) == Blur(w).
func Blur(w Word) Word {
	return w | (w.ShiftUp(1) & w.ShiftDown(1))
}

// BlurWeak erases isolated spikes.
//
// A set cell is cleared when both of its immediate neighbours are clear and
// at least one of its second neighbours is clear, i.e. the 0100 and 0010
// shapes. The centre of 10101 is kept since it may be a line with dropouts.
// Cells with a set immediate neighbour are never touched, so runs of two or
// more cells pass unchanged.
func BlurWeak(w Word) Word {
	left1, right1 := w.ShiftUp(1), w.ShiftDown(1)
	left2, right2 := w.ShiftUp(2), w.ShiftDown(2)
	spike := w &^ left1 &^ right1 & (left2.Not() | right2.Not())
	return w &^ spike
}

// BlurStrong is Blur that also fills two cell gaps next to a pair.
//
// Cells i and i+1 are set when cells i-1 and i+2 are set and at least one of
// i-2 or i+3 is set: 10011 and 11001 become 11111, while 1001 is left alone.
func BlurStrong(w Word) Word {
	gap := w.ShiftUp(1) & w.ShiftDown(2) & (w.ShiftUp(2) | w.ShiftDown(3))
	return Blur(w) | gap | gap.ShiftUp(1)
}

// BlurMode selects the noise filter applied before detection.
type BlurMode int

const (
	BlurNone BlurMode = iota
	BlurFill
	BlurErase
	BlurExtended
)

var blurNames = map[BlurMode]string{
	BlurNone:     "none",
	BlurFill:     "blur",
	BlurErase:    "weak",
	BlurExtended: "strong",
}

// ParseBlurMode parses "none", "blur", "weak" or "strong". The empty string
// is "none".
func ParseBlurMode(s string) (BlurMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return BlurNone, nil
	}
	for mode, n := range blurNames {
		if n == name {
			return mode, nil
		}
	}
	return BlurNone, fmt.Errorf("%w: %q", ErrBlurMode, s)
}

// Apply runs the selected filter on w.
func (m BlurMode) Apply(w Word) Word {
	switch m {
	case BlurFill:
		return Blur(w)
	case BlurErase:
		return BlurWeak(w)
	case BlurExtended:
		return BlurStrong(w)
	default:
		return w
	}
}

func (m BlurMode) String() string {
	if n, ok := blurNames[m]; ok {
		return n
	}
	return fmt.Sprintf("BlurMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m BlurMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlurMode) UnmarshalText(text []byte) error {
	mode, err := ParseBlurMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
