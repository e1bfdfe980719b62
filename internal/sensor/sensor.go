// Package sensor converts raw line-sensor readings to and from bar Words.
//
// A reading is a fixed-length string with one symbol per cell, for example
// "0"/"1" for a binary bar or "0".."7" for an eight level bar. Cells whose
// symbol belongs to the active class are set; several symbols are OR-combined.
// Length checks happen here so the detection core never sees a malformed bar.
package sensor

import (
	"errors"
	"fmt"

	"github.com/ironsheep/line-sensor-mcp/internal/detection"
)

// DefaultActive is the symbol class of a binary bar.
const DefaultActive = "1"

var (
	// ErrWidth reports a reading whose length is not detection.Width.
	ErrWidth = errors.New("reading width mismatch")

	// ErrNoSymbols reports an empty active symbol class.
	ErrNoSymbols = errors.New("no active symbols")
)

// Parse converts a reading into a Word. Cell i is set when reading[i] is one
// of the bytes in active.
func Parse(reading, active string) (detection.Word, error) {
	if len(reading) != detection.Width {
		return 0, fmt.Errorf("%w: got %d cells, want %d", ErrWidth, len(reading), detection.Width)
	}
	if active == "" {
		return 0, ErrNoSymbols
	}

	var class [256]bool
	for i := 0; i < len(active); i++ {
		class[active[i]] = true
	}

	var w detection.Word
	for i := 0; i < detection.Width; i++ {
		if class[reading[i]] {
			w = w.Set(i)
		}
	}
	return w, nil
}

// MustParse is Parse for readings known to be valid. It panics otherwise.
func MustParse(reading, active string) detection.Word {
	w, err := Parse(reading, active)
	if err != nil {
		panic(err)
	}
	return w
}

// Format renders w as a binary reading, cell 0 first.
func Format(w detection.Word) string {
	return w.String()
}

// FormatLines renders each interval as "start <-> end".
func FormatLines(lines []detection.Interval) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}
