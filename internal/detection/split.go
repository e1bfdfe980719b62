package detection

import "math/bits"

// maxRuns bounds the number of runs a Word can hold.
const maxRuns = (Width + 1) / 2

// Split decomposes w into its maximal runs of set cells, ordered by Start.
// Split(0) returns nil.
func Split(w Word) []Interval {
	if w == 0 {
		return nil
	}
	return AppendRuns(make([]Interval, 0, maxRuns), w)
}

// AppendRuns appends the maximal runs of w to dst and returns the extended
// slice. It lets a caller reuse one buffer across readings.
func AppendRuns(dst []Interval, w Word) []Interval {
	rest := uint32(w)
	for rest != 0 {
		start := bits.TrailingZeros32(rest)
		length := bits.TrailingZeros32(^(rest >> uint(start)))
		end := start + length
		dst = append(dst, Interval{Start: start, End: end})
		rest &^= uint32(Interval{Start: start, End: end}.Mask())
	}
	return dst
}
