package engine

// halfDensityMap is Searcher.cpp's literal HalfDensityMap: a set of rows
// with half their bits set to true and half to false, used to spread
// search depths across lazy-SMP helper threads so they don't all
// redundantly search the same depth as the main thread. Reproduced
// verbatim for parity with the original thread-skipping table.
var halfDensityMap = [30][]bool{
	{false, true},
	{true, false},

	{false, false, true, true},
	{false, true, true, false},
	{true, true, false, false},
	{true, false, false, true},

	{false, false, false, true, true, true},
	{false, false, true, true, true, false},
	{false, true, true, true, false, false},
	{true, true, true, false, false, false},
	{true, true, false, false, false, true},
	{true, false, false, false, true, true},

	{false, false, false, false, true, true, true, true},
	{false, false, false, true, true, true, true, false},
	{false, false, true, true, true, true, false, false},
	{false, true, true, true, true, false, false, false},
	{true, true, true, true, false, false, false, false},
	{true, true, true, false, false, false, false, true},
	{true, true, false, false, false, false, true, true},
	{true, false, false, false, false, true, true, true},

	{false, false, false, false, false, true, true, true, true, true},
	{false, false, false, false, true, true, true, true, true, false},
	{false, false, false, true, true, true, true, true, false, false},
	{false, false, true, true, true, true, true, false, false, false},
	{false, true, true, true, true, true, false, false, false, false},
	{true, true, true, true, true, false, false, false, false, false},
	{true, true, true, true, false, false, false, false, false, true},
	{true, true, true, false, false, false, false, false, true, true},
	{true, true, false, false, false, false, false, true, true, true},
	{true, false, false, false, false, false, true, true, true, true},
}

// skipDepth reports whether a lazy-SMP helper worker (workerID counted
// from 1, the main thread being 0 and never skipping) should skip the
// given running depth at the given root ply, per the rotating
// half-density pattern keyed on workerID.
func skipDepth(workerID, runningDepth, rootPly int) bool {
	if workerID <= 0 {
		return false
	}
	hdm := halfDensityMap[(workerID-1)%len(halfDensityMap)]
	return hdm[(runningDepth+rootPly)%len(hdm)]
}
