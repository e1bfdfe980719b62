package detection

import (
	"testing"

	"pgregory.net/rapid"
)

// wordOf builds a Word with the given cells set.
func wordOf(cells ...int) Word {
	var w Word
	for _, c := range cells {
		w = w.Set(c)
	}
	return w
}

// fromString parses a '0'/'1' bar, cell 0 first.
func fromString(t *testing.T, s string) Word {
	t.Helper()
	if len(s) != Width {
		t.Fatalf("bar %q has %d cells, want %d", s, len(s), Width)
	}
	var w Word
	for i := 0; i < Width; i++ {
		if s[i] == '1' {
			w = w.Set(i)
		}
	}
	return w
}

// naiveRuns walks the bar cell by cell.
func naiveRuns(w Word) []Interval {
	var runs []Interval
	for i := 0; i < Width; {
		if !w.Bit(i) {
			i++
			continue
		}
		j := i
		for j < Width && w.Bit(j) {
			j++
		}
		runs = append(runs, Interval{Start: i, End: j})
		i = j
	}
	return runs
}

// naiveRepeatFilter keeps the runs longer than n.
func naiveRepeatFilter(w Word, n int) Word {
	var out Word
	for _, r := range naiveRuns(w) {
		if r.Len() > n {
			out |= r.Mask()
		}
	}
	return out
}

// genWord draws bars biased towards long runs and short gaps, which is where
// the filters do their work. Plain uniform words rarely contain long runs.
func genWord() *rapid.Generator[Word] {
	return rapid.OneOf(
		rapid.Map(rapid.Uint32(), func(v uint32) Word { return Word(v) }),
		rapid.Custom(func(t *rapid.T) Word {
			var w Word
			i := rapid.IntRange(0, 4).Draw(t, "lead")
			for i < Width {
				ones := rapid.IntRange(1, 10).Draw(t, "ones")
				w |= Interval{Start: i, End: i + ones}.Mask()
				i += ones + rapid.IntRange(1, 4).Draw(t, "gap")
			}
			return w
		}),
	)
}

func equalIntervals(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
