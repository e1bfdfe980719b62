package detection

import (
	"fmt"
	"math/bits"
	"strings"
)

// Width is the number of cells on the sensor bar.
const Width = 32

// Word is a bar reading with one bit per cell. Bit i is cell i.
type Word uint32

// Full has every cell set.
const Full = Word(1<<Width - 1)

// Bit reports whether cell i is set. Cells outside the bar are clear.
func (w Word) Bit(i int) bool {
	if i < 0 || i >= Width {
		return false
	}
	return w&(1<<uint(i)) != 0
}

// Set returns w with cell i set. Out of range indices are ignored.
func (w Word) Set(i int) Word {
	if i < 0 || i >= Width {
		return w
	}
	return w | 1<<uint(i)
}

// Clear returns w with cell i cleared.
func (w Word) Clear(i int) Word {
	if i < 0 || i >= Width {
		return w
	}
	return w &^ (1 << uint(i))
}

// Not returns the complement of w.
func (w Word) Not() Word {
	return ^w
}

// Count returns the number of set cells.
func (w Word) Count() int {
	return bits.OnesCount32(uint32(w))
}

// ShiftUp moves every cell n positions towards higher indices.
// Cells pushed past the end are dropped; n >= Width yields 0.
func (w Word) ShiftUp(n int) Word {
	if n <= 0 {
		return w
	}
	if n >= Width {
		return 0
	}
	return w << uint(n)
}

// ShiftDown moves every cell n positions towards lower indices.
func (w Word) ShiftDown(n int) Word {
	if n <= 0 {
		return w
	}
	if n >= Width {
		return 0
	}
	return w >> uint(n)
}

// Runs returns the maximal runs of set cells, see Split.
func (w Word) Runs() []Interval {
	return Split(w)
}

// String renders the bar cell 0 first, '1' for set and '0' for clear.
func (w Word) String() string {
	var sb strings.Builder
	sb.Grow(Width)
	for i := 0; i < Width; i++ {
		if w.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Interval is the half-open cell range [Start, End).
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of cells in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Contains reports whether cell i lies inside the interval.
func (iv Interval) Contains(i int) bool {
	return i >= iv.Start && i < iv.End
}

// Mask returns a Word with exactly the interval's cells set.
// The interval is clipped to the bar.
func (iv Interval) Mask() Word {
	start, end := iv.Start, iv.End
	if start < 0 {
		start = 0
	}
	if end > Width {
		end = Width
	}
	if start >= end {
		return 0
	}
	n := uint(end - start)
	return Word(uint32((uint64(1)<<n - 1) << uint(start)))
}

// String formats the interval as "start <-> end".
func (iv Interval) String() string {
	return fmt.Sprintf("%d <-> %d", iv.Start, iv.End)
}
