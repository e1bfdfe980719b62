package detection

// FindLines returns the runs of w that are longer than minLine cells and
// flanked on both sides by a clear run longer than minBorder cells.
//
// Parameters:
//   - w: The bar reading.
//   - minBorder: A border must have more than minBorder clear cells.
//   - minLine: A line must have more than minLine set cells.
//
// Returns the accepted runs in ascending order with their original bounds.
// A run is accepted iff cell Start-1 and cell End both belong to a border
// run. Cells past either end of the bar count as clear, so a run touching
// cell 0 or cell Width-1 is never accepted.
func FindLines(w Word, minBorder, minLine int) []Interval {
	return AppendLines(nil, w, minBorder, minLine)
}

// AppendLines is FindLines writing into a caller supplied buffer.
func AppendLines(dst []Interval, w Word, minBorder, minLine int) []Interval {
	border := RepeatFilter(w.Not(), minBorder)
	line := RepeatFilter(w, minLine)
	if border == 0 || line == 0 {
		return dst
	}

	var scratch [maxRuns]Interval
	for _, run := range AppendRuns(scratch[:0], line) {
		if border.Bit(run.Start-1) && border.Bit(run.End) {
			dst = append(dst, run)
		}
	}
	return dst
}

// Detector bundles the thresholds and noise filter for one sensor setup.
type Detector struct {
	// MinBorder is the exclusive lower bound on flanking clear cells.
	MinBorder int `json:"min_border"`

	// MinLine is the exclusive lower bound on line cells.
	MinLine int `json:"min_line"`

	// Blur is applied to the reading before detection.
	Blur BlurMode `json:"blur"`
}

// Result is the outcome of one Detect call.
type Result struct {
	Input    Word       `json:"-"`
	Filtered Word       `json:"-"`
	Lines    []Interval `json:"lines"`
}

// Detect applies the noise filter and returns the validated lines.
func (d Detector) Detect(w Word) Result {
	filtered := d.Blur.Apply(w)
	return Result{
		Input:    w,
		Filtered: filtered,
		Lines:    FindLines(filtered, d.MinBorder, d.MinLine),
	}
}
