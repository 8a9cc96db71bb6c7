package port

// ProgressReporter consumes byte-count events from a running transfer.
// Implementations must tolerate total == 0 (unknown length) by
// degrading to a counter-only display.
type ProgressReporter interface {
	// Start is called once before the first chunk. For a resumed
	// transfer the bytes already on disk are reported through an
	// immediate Advance call.
	Start(filename string, total int64)

	// Advance is called once per chunk with the chunk's byte length.
	Advance(n int64)

	// Finish is called after the final rename succeeded.
	Finish(filename string)
}

// NopProgress discards all progress events.
type NopProgress struct{}

func (NopProgress) Start(string, int64) {}
func (NopProgress) Advance(int64)       {}
func (NopProgress) Finish(string)       {}
