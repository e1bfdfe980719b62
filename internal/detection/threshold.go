package detection

// RepeatFilter keeps every run of set cells longer than n and clears the rest.
//
// Surviving runs keep their exact position and length. n <= 0 returns w
// unchanged and n >= Width always returns 0.
//
// # Algorithm
//
// The word is eroded n times (w &= w>>1), which leaves a core cell at every
// position that starts n+1 consecutive set cells. The core is then dilated n
// times (w |= w<<1), which grows each core back to the end of its original
// run. A run of length L <= n has no core and disappears. Bits shifted past
// either end of the bar are dropped.
//
// The same primitive detects long lines (applied to the reading) and long
// borders (applied to the complement of the reading).
func RepeatFilter(w Word, n int) Word {
	if n <= 0 {
		return w
	}
	if n >= Width {
		return 0
	}

	core := w
	for i := 0; i < n && core != 0; i++ {
		core &= core.ShiftDown(1)
	}
	for i := 0; i < n && core != 0; i++ {
		core |= core.ShiftUp(1)
	}
	return core
}
